package handler

import (
	"net/http"

	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/model"
	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamLogic *logic.TeamLogic
}

func NewTeamHandler(teamLogic *logic.TeamLogic) *TeamHandler {
	return &TeamHandler{teamLogic: teamLogic}
}

// CreateTeam 创建团队
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	team, err := h.teamLogic.CreateTeam(CurrentUser(c), req.Name, req.Description)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "团队创建成功", gin.H{"team": team})
}

// GetTeams 可见团队列表
func (h *TeamHandler) GetTeams(c *gin.Context) {
	teams, err := h.teamLogic.ListTeams(CurrentUser(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"teams": teams})
}

// GetTeam 团队详情
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的团队ID")
	if !ok {
		return
	}

	team, err := h.teamLogic.GetTeam(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"team": team})
}

// UpdateTeam 更新团队
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的团队ID")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := h.teamLogic.UpdateTeam(CurrentUser(c), id, updates); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "团队已更新", nil)
}

// DeleteTeam 删除团队
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的团队ID")
	if !ok {
		return
	}

	if err := h.teamLogic.DeleteTeam(CurrentUser(c), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "团队已删除", nil)
}

// GetMembers 团队成员列表
func (h *TeamHandler) GetMembers(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的团队ID")
	if !ok {
		return
	}

	members, err := h.teamLogic.ListMembers(CurrentUser(c), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"members": members})
}

// AddMember 添加团队成员
func (h *TeamHandler) AddMember(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的团队ID")
	if !ok {
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	err := h.teamLogic.AddMember(CurrentUser(c), id, req.UserID, model.TeamRole(req.Role))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "成员已添加", nil)
}

// RemoveMember 移除团队成员
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的团队ID")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}

	if err := h.teamLogic.RemoveMember(CurrentUser(c), id, userID); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "成员已移除", nil)
}
