package model

import (
	"time"
)

// Comment 任务评论，创建后不可修改，仅作者可删除
type Comment struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	TaskID   int64 `json:"task_id" gorm:"not null;index"`
	AuthorID int64 `json:"author_id" gorm:"not null"`

	// 单层回复，父评论必须是顶层评论
	ParentCommentID *int64 `json:"parent_comment_id" gorm:"index"`

	Body string `json:"body" gorm:"type:text;not null" binding:"required"`
}

// TableName 自定义表名
func (Comment) TableName() string {
	return "comment"
}
