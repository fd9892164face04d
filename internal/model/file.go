package model

import (
	"time"
)

// File 附件模型，归属任务或子任务二选一
type File struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	TaskID    *int64 `json:"task_id" gorm:"index"`
	SubTaskID *int64 `json:"subtask_id" gorm:"index"`

	UploaderID int64 `json:"uploader_id" gorm:"not null"`

	// 文件元信息
	FileName    string `json:"file_name" gorm:"not null"`
	ObjectName  string `json:"object_name" gorm:"not null"` // 对象存储内的名字
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// TableName 自定义表名
func (File) TableName() string {
	return "file"
}
