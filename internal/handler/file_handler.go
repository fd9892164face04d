package handler

import (
	"net/http"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/storage"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileLogic *logic.FileLogic
	store     *storage.Store
}

func NewFileHandler(fileLogic *logic.FileLogic, store *storage.Store) *FileHandler {
	return &FileHandler{fileLogic: fileLogic, store: store}
}

// UploadToTask 上传附件到任务，表单字段名为file
func (h *FileHandler) UploadToTask(c *gin.Context) {
	taskID, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, errs.Validation("缺少file表单字段"))
		return
	}

	file, err := h.fileLogic.UploadToTask(CurrentUser(c), taskID, header)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "文件已上传", gin.H{"file": file})
}

// UploadToSubTask 上传附件到子任务
func (h *FileHandler) UploadToSubTask(c *gin.Context) {
	subtaskID, ok := pathID(c, "id", "无效的子任务ID")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, errs.Validation("缺少file表单字段"))
		return
	}

	file, err := h.fileLogic.UploadToSubTask(CurrentUser(c), subtaskID, header)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "文件已上传", gin.H{"file": file})
}

// GetTaskFiles 任务的附件列表
func (h *FileHandler) GetTaskFiles(c *gin.Context) {
	taskID, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	files, err := h.fileLogic.ListTaskFiles(CurrentUser(c), taskID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"files": files})
}

// Download 下载附件，权限跟随所属任务
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的文件ID")
	if !ok {
		return
	}

	file, err := h.fileLogic.GetFile(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.FileAttachment(h.store.Path(file.ObjectName), file.FileName)
}

// DeleteFile 删除附件，只有上传者可删
func (h *FileHandler) DeleteFile(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的文件ID")
	if !ok {
		return
	}

	if err := h.fileLogic.DeleteFile(CurrentUser(c), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "文件已删除", nil)
}
