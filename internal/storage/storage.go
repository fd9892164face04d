package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/blues/taskhub/internal/errs"
	"github.com/google/uuid"
)

// Store 本地对象存储。上传文件以uuid命名落到一个目录里，数据库只存对象名。
type Store struct {
	dir     string
	maxSize int64 // 字节
}

// New 创建存储，目录不存在时自动创建
func New(dir string, maxSizeMB int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:     dir,
		maxSize: maxSizeMB * 1024 * 1024,
	}, nil
}

// MaxSize 单文件大小上限（字节）
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save 校验并保存上传文件，返回对象名。空文件名和超限内容在写盘前就被拒绝。
func (s *Store) Save(header *multipart.FileHeader) (string, error) {
	if header.Filename == "" {
		return "", errs.Validation("文件名不能为空")
	}
	if header.Size <= 0 {
		return "", errs.Validation("文件内容不能为空")
	}
	if header.Size > s.maxSize {
		return "", errs.Validation("文件大小超过上限 %dMB", s.maxSize/(1024*1024))
	}

	src, err := header.Open()
	if err != nil {
		return "", errs.Upstream(err, "读取上传文件失败")
	}
	defer src.Close()

	objectName := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, objectName))
	if err != nil {
		return "", errs.Upstream(err, "保存文件失败")
	}
	defer dst.Close()

	// 再按上限截断一次，防止header里的大小与实际内容不符
	if _, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1)); err != nil {
		os.Remove(dst.Name())
		return "", errs.Upstream(err, "保存文件失败")
	}
	info, err := dst.Stat()
	if err == nil && info.Size() > s.maxSize {
		os.Remove(dst.Name())
		return "", errs.Validation("文件大小超过上限 %dMB", s.maxSize/(1024*1024))
	}

	return objectName, nil
}

// Open 打开对象用于下载
func (s *Store) Open(objectName string) (*os.File, error) {
	// 防止路径穿越
	if filepath.Base(objectName) != objectName {
		return nil, errs.NotFound("文件不存在")
	}
	f, err := os.Open(filepath.Join(s.dir, objectName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NotFound("文件不存在")
		}
		return nil, errs.Upstream(err, "读取文件失败")
	}
	return f, nil
}

// Remove 删除对象
func (s *Store) Remove(objectName string) error {
	if filepath.Base(objectName) != objectName {
		return errs.NotFound("文件不存在")
	}
	if err := os.Remove(filepath.Join(s.dir, objectName)); err != nil && !os.IsNotExist(err) {
		return errs.Upstream(err, "删除文件失败")
	}
	return nil
}

// Path 对象的磁盘路径
func (s *Store) Path(objectName string) string {
	return filepath.Join(s.dir, objectName)
}
