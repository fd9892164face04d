package model

import (
	"time"
)

// Team 团队模型，由管理者创建，与项目成员关系独立
type Team struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `json:"name" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	CreatorID   int64  `json:"creator_id" gorm:"not null"`
}

// TableName 自定义表名
func (Team) TableName() string {
	return "team"
}

// TeamMember 团队成员
type TeamMember struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	TeamID int64 `json:"team_id" gorm:"not null;uniqueIndex:uk_team_user"`
	UserID int64 `json:"user_id" gorm:"not null;uniqueIndex:uk_team_user;index"`

	Role TeamRole `json:"role" gorm:"not null"`
}

// TeamRole 团队角色
type TeamRole string

const (
	TeamRoleManager TeamRole = "manager" // 团队管理者
	TeamRoleMember  TeamRole = "member"  // 团队成员
)

// TableName 自定义表名
func (TeamMember) TableName() string {
	return "team_member"
}
