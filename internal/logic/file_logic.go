package logic

import (
	"errors"
	"mime/multipart"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/permission"
	"github.com/blues/taskhub/internal/storage"
	"gorm.io/gorm"
)

// FileLogic 附件业务逻辑
type FileLogic struct {
	db           *gorm.DB
	store        *storage.Store
	taskLogic    *TaskLogic
	subtaskLogic *SubTaskLogic
}

// NewFileLogic 创建附件业务逻辑
func NewFileLogic(db *gorm.DB, store *storage.Store, taskLogic *TaskLogic, subtaskLogic *SubTaskLogic) *FileLogic {
	return &FileLogic{
		db:           db,
		store:        store,
		taskLogic:    taskLogic,
		subtaskLogic: subtaskLogic,
	}
}

// UploadToTask 上传附件到任务
func (f *FileLogic) UploadToTask(caller *model.User, taskID int64, header *multipart.FileHeader) (*model.File, error) {
	task, role, err := f.taskLogic.loadWithRole(caller, taskID)
	if err != nil {
		return nil, err
	}
	if err := f.taskLogic.checkMutate(caller, task, role, permission.ActionUpdateTask); err != nil {
		return nil, err
	}
	return f.save(caller, &taskID, nil, header)
}

// UploadToSubTask 上传附件到子任务
func (f *FileLogic) UploadToSubTask(caller *model.User, subtaskID int64, header *multipart.FileHeader) (*model.File, error) {
	_, task, role, err := f.subtaskLogic.load(caller, subtaskID)
	if err != nil {
		return nil, err
	}
	if err := f.taskLogic.checkMutate(caller, task, role, permission.ActionUpdateTask); err != nil {
		return nil, err
	}
	return f.save(caller, nil, &subtaskID, header)
}

func (f *FileLogic) save(caller *model.User, taskID, subtaskID *int64, header *multipart.FileHeader) (*model.File, error) {
	objectName, err := f.store.Save(header)
	if err != nil {
		return nil, err
	}

	file := model.File{
		TaskID:      taskID,
		SubTaskID:   subtaskID,
		UploaderID:  caller.Id,
		FileName:    header.Filename,
		ObjectName:  objectName,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	if err := f.db.Create(&file).Error; err != nil {
		// 数据库写入失败时清掉已落盘的对象
		if rmErr := f.store.Remove(objectName); rmErr != nil {
			logger.Warn("Failed to remove orphan object %s: %v", objectName, rmErr)
		}
		return nil, errs.Upstream(err, "保存附件记录失败")
	}
	return &file, nil
}

// ListTaskFiles 任务的附件列表
func (f *FileLogic) ListTaskFiles(caller *model.User, taskID int64) ([]model.File, error) {
	if _, _, err := f.taskLogic.loadWithRole(caller, taskID); err != nil {
		return nil, err
	}

	var files []model.File
	if err := f.db.Where("task_id = ?", taskID).Order("id").Find(&files).Error; err != nil {
		return nil, errs.Upstream(err, "查询附件列表失败")
	}
	return files, nil
}

// GetFile 附件详情，可见性跟随所属任务
func (f *FileLogic) GetFile(caller *model.User, id int64) (*model.File, error) {
	var file model.File
	if err := f.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("文件不存在")
		}
		return nil, errs.Upstream(err, "查询文件失败")
	}

	if file.TaskID != nil {
		if _, _, err := f.taskLogic.loadWithRole(caller, *file.TaskID); err != nil {
			return nil, errs.NotFound("文件不存在")
		}
	} else if file.SubTaskID != nil {
		if _, _, _, err := f.subtaskLogic.load(caller, *file.SubTaskID); err != nil {
			return nil, errs.NotFound("文件不存在")
		}
	}
	return &file, nil
}

// DeleteFile 删除附件，仅上传者可删
func (f *FileLogic) DeleteFile(caller *model.User, id int64) error {
	file, err := f.GetFile(caller, id)
	if err != nil {
		return err
	}
	if file.UploaderID != caller.Id {
		return errs.PermissionDenied("只有上传者才能删除文件")
	}

	if err := f.db.Delete(&model.File{}, id).Error; err != nil {
		return errs.Upstream(err, "删除附件记录失败")
	}
	if err := f.store.Remove(file.ObjectName); err != nil {
		logger.Warn("Failed to remove object %s: %v", file.ObjectName, err)
	}
	return nil
}
