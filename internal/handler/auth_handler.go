package handler

import (
	"net/http"

	"github.com/blues/taskhub/internal/logic"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authLogic *logic.AuthLogic
}

func NewAuthHandler(authLogic *logic.AuthLogic) *AuthHandler {
	return &AuthHandler{authLogic: authLogic}
}

// Register 注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	user, err := h.authLogic.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "注册成功", gin.H{"user": user})
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	user, tokens, err := h.authLogic.Login(req.Email, req.Password)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "登录成功", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh 用刷新令牌换新令牌对
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	tokens, err := h.authLogic.Refresh(req.RefreshToken)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "刷新成功", gin.H{"tokens": tokens})
}

// ForgotPassword 发送密码重置邮件。无论邮箱是否存在都返回成功。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	if err := h.authLogic.ForgotPassword(req.Email); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "如果邮箱存在，重置邮件已发送", nil)
}

// ResetPassword 用重置令牌设置新密码
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	if err := h.authLogic.ResetPassword(req.Token, req.NewPassword); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "密码已重置", nil)
}

// Me 当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"user": CurrentUser(c)})
}
