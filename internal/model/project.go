package model

import (
	"time"
)

// Project 项目模型
type Project struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name     string `json:"name" gorm:"not null" binding:"required"`
	CoverURL string `json:"cover_url"`

	// 创建者即所有者
	OwnerID int64 `json:"owner_id" gorm:"not null;index"`

	// 状态
	Status ProjectStatus `json:"status" gorm:"default:'active'"`
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"   // 进行中
	ProjectStatusArchived ProjectStatus = "archived" // 已归档
)

// TableName 自定义表名
func (Project) TableName() string {
	return "project"
}
