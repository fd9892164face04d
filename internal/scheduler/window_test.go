package scheduler

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestInDeadlineWindow(t *testing.T) {
	// 扫描时刻：3月15日 01:00
	now := time.Date(2025, 3, 15, 1, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		// 3月15日到期 -> 到期时刻3月16日00:00，还有23小时
		{"正好23小时", date(2025, 3, 15), true},
		// 3月16日到期 -> 还有47小时
		{"还有两天", date(2025, 3, 16), false},
		// 3月14日到期 -> 已过1小时
		{"已过期", date(2025, 3, 14), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inDeadlineWindow(now, tt.due); got != tt.want {
				t.Errorf("inDeadlineWindow(%v, %v) = %v, want %v", now, tt.due, got, tt.want)
			}
		})
	}
}

func TestInDeadlineWindowBoundaries(t *testing.T) {
	due := date(2025, 3, 15) // 到期时刻 3月16日 00:00

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"提前25小时整不算", time.Date(2025, 3, 14, 23, 0, 0, 0, time.Local), false},
		{"提前24小时59分", time.Date(2025, 3, 14, 23, 1, 0, 0, time.Local), true},
		{"提前23小时整", time.Date(2025, 3, 15, 1, 0, 0, 0, time.Local), true},
		{"提前22小时59分不算", time.Date(2025, 3, 15, 1, 1, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inDeadlineWindow(tt.now, due); got != tt.want {
				t.Errorf("inDeadlineWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestInOverdueWindow(t *testing.T) {
	due := date(2025, 3, 15) // 到期时刻 3月16日 00:00

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"刚过期不算", time.Date(2025, 3, 16, 12, 0, 0, 0, time.Local), false},
		{"过期24小时整", time.Date(2025, 3, 17, 0, 0, 0, 0, time.Local), true},
		{"过期36小时", time.Date(2025, 3, 17, 12, 0, 0, 0, time.Local), true},
		{"过期48小时整不算", time.Date(2025, 3, 18, 0, 0, 0, 0, time.Local), false},
		{"还没到期", time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inOverdueWindow(tt.now, due); got != tt.want {
				t.Errorf("inOverdueWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
