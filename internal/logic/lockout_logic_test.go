package logic

import (
	"testing"
	"time"

	"gorm.io/gorm/clause"
)

func TestFailureOutcome(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		threshold int
		remaining int
		locked    bool
	}{
		{"首次失败", 1, 5, 4, false},
		{"第二次失败", 2, 5, 3, false},
		{"第四次失败还剩一次", 4, 5, 1, false},
		{"第五次失败触发锁定", 5, 5, 0, true},
		{"锁定后继续失败", 6, 5, 0, true},
		{"远超阈值不出现负数", 20, 5, 0, true},
		{"自定义阈值", 3, 3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, locked := failureOutcome(tt.count, tt.threshold)
			if remaining != tt.remaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.remaining)
			}
			if locked != tt.locked {
				t.Errorf("locked = %v, want %v", locked, tt.locked)
			}
		})
	}
}

func TestLockRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		lockedUntil time.Time
		remaining   time.Duration
		locked      bool
	}{
		{"锁定中", now.Add(10 * time.Minute), 10 * time.Minute, true},
		{"恰好到期", now, 0, false},
		{"已过期", now.Add(-time.Minute), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, locked := lockRemaining(now, tt.lockedUntil)
			if remaining != tt.remaining {
				t.Errorf("remaining = %v, want %v", remaining, tt.remaining)
			}
			if locked != tt.locked {
				t.Errorf("locked = %v, want %v", locked, tt.locked)
			}
		})
	}
}

// 并发首次失败的前提：自增必须是单条带冲突处理的语句，
// 而不是"先更新、没更新到再插入"。这里校验语句的构造。
func TestFailureUpsert(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	attempt, onConflict := failureUpsert("a@x.com", now)

	if attempt.Email != "a@x.com" || attempt.Count != 1 {
		t.Errorf("attempt = {%s, %d}, want {a@x.com, 1}", attempt.Email, attempt.Count)
	}
	if !attempt.LastFailedAt.Equal(now) {
		t.Errorf("LastFailedAt = %v, want %v", attempt.LastFailedAt, now)
	}

	if len(onConflict.Columns) != 1 || onConflict.Columns[0].Name != "email" {
		t.Fatalf("conflict columns = %v, want [email]", onConflict.Columns)
	}

	assigned := map[string]bool{}
	var countIsExpr bool
	for _, a := range onConflict.DoUpdates {
		assigned[a.Column.Name] = true
		if a.Column.Name == "count" {
			if expr, ok := a.Value.(clause.Expr); ok && expr.SQL == "failed_login_attempt.count + 1" {
				countIsExpr = true
			}
		}
	}
	if !assigned["count"] || !assigned["last_failed_at"] {
		t.Errorf("DoUpdates covers %v, want count and last_failed_at", assigned)
	}
	if !countIsExpr {
		t.Error("count assignment is not an in-database increment expression")
	}
}

func TestNewLockoutLogicDefaults(t *testing.T) {
	l := NewLockoutLogic(nil, 0, 0)
	if l.threshold != 5 {
		t.Errorf("threshold = %d, want 5", l.threshold)
	}
	if l.duration != 15*time.Minute {
		t.Errorf("duration = %v, want 15m", l.duration)
	}
}
