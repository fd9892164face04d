package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/storage"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
	taskLogic    *logic.TaskLogic
	store        *storage.Store
}

func NewProjectHandler(projectLogic *logic.ProjectLogic, taskLogic *logic.TaskLogic, store *storage.Store) *ProjectHandler {
	return &ProjectHandler{
		projectLogic: projectLogic,
		taskLogic:    taskLogic,
		store:        store,
	}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	project, err := h.projectLogic.CreateProject(CurrentUser(c), req.Name, req.CoverURL)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", gin.H{"project": project})
}

// GetProjects 可见项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	projects, err := h.projectLogic.ListProjects(CurrentUser(c), includeArchived)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"projects": projects})
}

// GetProject 项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}

	project, err := h.projectLogic.GetProject(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"project": project})
}

// UpdateProject 更新项目
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CoverURL != nil {
		updates["cover_url"] = *req.CoverURL
	}

	if err := h.projectLogic.UpdateProject(CurrentUser(c), id, updates); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "项目已更新", nil)
}

// ArchiveProject 归档项目，重复归档返回成功
func (h *ProjectHandler) ArchiveProject(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}
	if err := h.projectLogic.ArchiveProject(CurrentUser(c), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "项目已归档", nil)
}

// RestoreProject 恢复已归档项目
func (h *ProjectHandler) RestoreProject(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}
	if err := h.projectLogic.RestoreProject(CurrentUser(c), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "项目已恢复", nil)
}

// DeleteProject 删除项目及其全部任务，最后清理对象存储里的附件
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}

	objectNames, err := h.projectLogic.DeleteProject(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	removeObjects(h.store, objectNames)

	SuccessResponse(c, http.StatusOK, "项目已删除", nil)
}

// GetMembers 项目成员列表
func (h *ProjectHandler) GetMembers(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}

	members, err := h.projectLogic.ListMembers(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"members": members})
}

// AddMember 添加项目成员
func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	err := h.projectLogic.AddMember(CurrentUser(c), id, req.UserID, model.ProjectRole(req.Role))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "成员已添加", nil)
}

// RemoveMember 移除项目成员
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}

	if err := h.projectLogic.RemoveMember(CurrentUser(c), id, userID); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "成员已移除", nil)
}

// ChangeMemberRole 调整项目成员角色
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}

	var req ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	err := h.projectLogic.ChangeMemberRole(CurrentUser(c), id, userID, model.ProjectRole(req.Role))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "成员角色已调整", nil)
}

// GetProjectTasks 项目下的任务列表
func (h *ProjectHandler) GetProjectTasks(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的项目ID")
	if !ok {
		return
	}
	includeArchived := c.Query("include_archived") == "true"

	tasks, err := h.taskLogic.ListProjectTasks(CurrentUser(c), id, includeArchived)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"tasks": tasks})
}

// pathID 解析路径里的整数ID
func pathID(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, errs.Validation(message))
		return 0, false
	}
	return id, true
}

// removeObjects 清理级联删除后遗留的对象存储文件，失败不影响响应
func removeObjects(store *storage.Store, objectNames []string) {
	for _, name := range objectNames {
		if err := store.Remove(name); err != nil {
			logger.Warn("remove stored object %s failed: %v", name, err)
		}
	}
}
