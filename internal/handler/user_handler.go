package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/model"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userLogic    *logic.UserLogic
	lockoutLogic *logic.LockoutLogic
}

func NewUserHandler(userLogic *logic.UserLogic, lockoutLogic *logic.LockoutLogic) *UserHandler {
	return &UserHandler{userLogic: userLogic, lockoutLogic: lockoutLogic}
}

// GetUsers 用户列表，需要全局读权限
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userLogic.ListUsers(CurrentUser(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"users": users})
}

// GetUser 单个用户
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.Validation("无效的用户ID"))
		return
	}

	user, err := h.userLogic.GetUser(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"user": user})
}

// Unlock 管理员提前解除账号锁定
func (h *UserHandler) Unlock(c *gin.Context) {
	caller := CurrentUser(c)
	if !caller.Roles.Has(model.RoleAdmin) {
		ErrorResponse(c, errs.PermissionDenied("只有管理员可以解锁账号"))
		return
	}

	var req UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	h.lockoutLogic.Unlock(req.Email)
	SuccessResponse(c, http.StatusOK, "账号已解锁", nil)
}
