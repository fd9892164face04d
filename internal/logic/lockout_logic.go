package logic

import (
	"errors"
	"time"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockoutLogic 登录锁定策略。
// 状态机：clear → warming（1-4次失败）→ locked（达到阈值，定时15分钟）→ clear。
type LockoutLogic struct {
	db        *gorm.DB
	threshold int
	duration  time.Duration
}

// NewLockoutLogic 创建登录锁定逻辑
func NewLockoutLogic(db *gorm.DB, threshold int, duration time.Duration) *LockoutLogic {
	if threshold <= 0 {
		threshold = 5
	}
	if duration <= 0 {
		duration = 15 * time.Minute
	}
	return &LockoutLogic{db: db, threshold: threshold, duration: duration}
}

// failureOutcome 第count次失败后的状态：剩余尝试次数和是否触发锁定。
// 恰好在第threshold次失败进入locked，之后的失败保持locked。
func failureOutcome(count, threshold int) (remaining int, locked bool) {
	remaining = threshold - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, count >= threshold
}

// lockRemaining 锁定剩余时长。到期或已过期返回false，按clear处理。
func lockRemaining(now, lockedUntil time.Time) (time.Duration, bool) {
	if !now.Before(lockedUntil) {
		return 0, false
	}
	return lockedUntil.Sub(now), true
}

// failureUpsert 失败计数的单条自增语句：首次失败插入count=1，
// 已有记录时走 ON CONFLICT 把count加一。两个并发的首次失败
// 不会互相撞唯一索引，也不会都停在阈值之下。
func failureUpsert(email string, now time.Time) (model.FailedLoginAttempt, clause.OnConflict) {
	attempt := model.FailedLoginAttempt{
		Email:        email,
		Count:        1,
		LastFailedAt: now,
	}
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":          gorm.Expr("failed_login_attempt.count + 1"),
			"last_failed_at": now,
		}),
	}
	return attempt, onConflict
}

// CheckLocked 检查邮箱是否处于锁定状态。
// 锁定已过期时执行惰性清理，当作未锁定处理。
func (l *LockoutLogic) CheckLocked(email string) error {
	var lockout model.AccountLockout
	err := l.db.Where("email = ?", email).First(&lockout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return errs.Upstream(err, "查询锁定状态失败")
	}

	if remaining, locked := lockRemaining(time.Now(), lockout.LockedUntil); locked {
		return errs.Locked("账号已锁定，请稍后再试").
			WithData("retry_after_seconds", int64(remaining.Seconds()))
	}

	// 惰性过期：删除锁和计数，按clear处理
	l.clear(email)
	return nil
}

// RecordFailure 记录一次登录失败，返回剩余尝试次数
func (l *LockoutLogic) RecordFailure(email string) (remaining int, err error) {
	now := time.Now()

	err = l.db.Transaction(func(tx *gorm.DB) error {
		attempt, onConflict := failureUpsert(email, now)
		if err := tx.Clauses(onConflict).Create(&attempt).Error; err != nil {
			return err
		}

		var current model.FailedLoginAttempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", email).
			First(&current).Error; err != nil {
			return err
		}

		var locked bool
		remaining, locked = failureOutcome(current.Count, l.threshold)
		if locked {
			// 锁定时间从第threshold次失败起算
			lockout := model.AccountLockout{
				Email:       email,
				LockedUntil: now.Add(l.duration),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns([]string{"locked_until"}),
			}).Create(&lockout).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, errs.Upstream(err, "记录登录失败次数失败")
	}
	return remaining, nil
}

// RecordSuccess 登录成功，清空计数回到clear状态
func (l *LockoutLogic) RecordSuccess(email string) {
	l.clear(email)
}

// Unlock 管理员手动解锁，清空锁和计数
func (l *LockoutLogic) Unlock(email string) {
	l.clear(email)
	logger.Info("Account lockout cleared for %s", email)
}

func (l *LockoutLogic) clear(email string) {
	if err := l.db.Where("email = ?", email).Delete(&model.FailedLoginAttempt{}).Error; err != nil {
		logger.Warn("Failed to clear login attempts for %s: %v", email, err)
	}
	if err := l.db.Where("email = ?", email).Delete(&model.AccountLockout{}).Error; err != nil {
		logger.Warn("Failed to clear lockout for %s: %v", email, err)
	}
}
