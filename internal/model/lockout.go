package model

import (
	"time"
)

// FailedLoginAttempt 每个邮箱的登录失败计数
type FailedLoginAttempt struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Count        int       `json:"count" gorm:"default:0"`
	LastFailedAt time.Time `json:"last_failed_at"`
}

// TableName 自定义表名
func (FailedLoginAttempt) TableName() string {
	return "failed_login_attempt"
}

// AccountLockout 账号锁定记录
type AccountLockout struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	LockedUntil time.Time `json:"locked_until" gorm:"not null"`
}

// TableName 自定义表名
func (AccountLockout) TableName() string {
	return "account_lockout"
}
