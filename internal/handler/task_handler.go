package handler

import (
	"net/http"

	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/storage"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskLogic *logic.TaskLogic
	store     *storage.Store
}

func NewTaskHandler(taskLogic *logic.TaskLogic, store *storage.Store) *TaskHandler {
	return &TaskHandler{taskLogic: taskLogic, store: store}
}

// CreateTask 创建任务，project_id为空时是独立任务
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	task, err := h.taskLogic.CreateTask(CurrentUser(c), logic.CreateTaskInput{
		ProjectID:   req.ProjectID,
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

	SuccessResponse(c, http.StatusCreated, "任务创建成功", gin.H{"task": task})
}

// GetMyTasks 指派给自己的独立任务
func (h *TaskHandler) GetMyTasks(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	tasks, err := h.taskLogic.ListMyTasks(CurrentUser(c), includeArchived)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"tasks": tasks})
}

// GetTask 任务详情
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	task, err := h.taskLogic.GetTask(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"task": task})
}

// UpdateTask 更新任务，nil字段不动
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	task, err := h.taskLogic.UpdateTask(CurrentUser(c), id, toUpdateInput(req))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "任务已更新", gin.H{"task": task})
}

// ArchiveTask 归档任务，重复归档返回成功
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}
	if err := h.taskLogic.ArchiveTask(CurrentUser(c), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "任务已归档", nil)
}

// DeleteTask 删除任务及其子任务、评论、附件
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	objectNames, err := h.taskLogic.DeleteTask(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	removeObjects(h.store, objectNames)

	SuccessResponse(c, http.StatusOK, "任务已删除", nil)
}

// toUpdateInput 请求模型转logic层输入
func toUpdateInput(req UpdateTaskRequest) logic.UpdateTaskInput {
	input := logic.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssigneeIDs: req.AssigneeIDs,
		Tags:        req.Tags,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		input.Status = &status
	}
	return input
}
