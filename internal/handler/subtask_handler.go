package handler

import (
	"net/http"

	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/storage"
	"github.com/gin-gonic/gin"
)

type SubTaskHandler struct {
	subtaskLogic *logic.SubTaskLogic
	store        *storage.Store
}

func NewSubTaskHandler(subtaskLogic *logic.SubTaskLogic, store *storage.Store) *SubTaskHandler {
	return &SubTaskHandler{subtaskLogic: subtaskLogic, store: store}
}

// CreateSubTask 在父任务下创建子任务
func (h *SubTaskHandler) CreateSubTask(c *gin.Context) {
	taskID, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	var req CreateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	subtask, err := h.subtaskLogic.CreateSubTask(CurrentUser(c), taskID, logic.CreateSubTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		DueDate:     req.DueDate,
		AssigneeIDs: req.AssigneeIDs,
		Tags:        req.Tags,
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "子任务创建成功", gin.H{"subtask": subtask})
}

// GetSubTasks 父任务下的子任务列表
func (h *SubTaskHandler) GetSubTasks(c *gin.Context) {
	taskID, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	subtasks, err := h.subtaskLogic.ListSubTasks(CurrentUser(c), taskID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"subtasks": subtasks})
}

// GetSubTask 子任务详情
func (h *SubTaskHandler) GetSubTask(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的子任务ID")
	if !ok {
		return
	}

	subtask, err := h.subtaskLogic.GetSubTask(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"subtask": subtask})
}

// UpdateSubTask 更新子任务
func (h *SubTaskHandler) UpdateSubTask(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的子任务ID")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	subtask, err := h.subtaskLogic.UpdateSubTask(CurrentUser(c), id, toUpdateInput(req))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "子任务已更新", gin.H{"subtask": subtask})
}

// DeleteSubTask 删除子任务及其附件
func (h *SubTaskHandler) DeleteSubTask(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的子任务ID")
	if !ok {
		return
	}

	objectNames, err := h.subtaskLogic.DeleteSubTask(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	removeObjects(h.store, objectNames)

	SuccessResponse(c, http.StatusOK, "子任务已删除", nil)
}
