package model

import (
	"time"
)

// ProjectMember 项目成员
type ProjectMember struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectID int64 `json:"project_id" gorm:"not null;uniqueIndex:uk_project_user"`
	UserID    int64 `json:"user_id" gorm:"not null;uniqueIndex:uk_project_user;index"`

	// 项目内角色，与全局角色独立
	Role ProjectRole `json:"role" gorm:"not null"`
}

// ProjectRole 项目成员角色
type ProjectRole string

const (
	ProjectRoleOwner   ProjectRole = "owner"   // 所有者（创建者，每个项目有且只有一个）
	ProjectRoleManager ProjectRole = "manager" // 项目管理者
	ProjectRoleMember  ProjectRole = "member"  // 普通成员
)

// TableName 自定义表名
func (ProjectMember) TableName() string {
	return "project_member"
}
