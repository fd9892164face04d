package model

import (
	"time"
)

// User 用户模型
type User struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Email        string `json:"email" gorm:"uniqueIndex;not null" binding:"required,email"`
	PasswordHash string `json:"-" gorm:"not null"`
	DisplayName  string `json:"display_name"`

	// 全局角色，默认 staff
	Roles RoleSet `json:"roles" gorm:"type:text"`

	// 密码重置令牌
	ResetToken          string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
}

// TableName 自定义表名
func (User) TableName() string {
	return "app_user"
}
