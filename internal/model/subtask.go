package model

import (
	"time"
)

// SubTask 子任务模型，归属于唯一的父任务
type SubTask struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TaskID    int64 `json:"task_id" gorm:"not null;index"`
	CreatorID int64 `json:"creator_id" gorm:"not null"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`

	// 截止日期，只取日期部分
	DueDate *time.Time `json:"due_date"`

	// 指派人与标签，约束与父任务一致
	AssigneeIDs Int64List  `json:"assignee_ids" gorm:"type:text"`
	Tags        StringList `json:"tags" gorm:"type:text"`

	// 状态
	Status TaskStatus `json:"status" gorm:"default:'todo'"`
}

// TableName 自定义表名
func (SubTask) TableName() string {
	return "subtask"
}
