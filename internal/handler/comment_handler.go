package handler

import (
	"net/http"

	"github.com/blues/taskhub/internal/logic"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentLogic *logic.CommentLogic
}

func NewCommentHandler(commentLogic *logic.CommentLogic) *CommentHandler {
	return &CommentHandler{commentLogic: commentLogic}
}

// CreateComment 在任务下创建评论，支持一层回复和@提及
func (h *CommentHandler) CreateComment(c *gin.Context) {
	taskID, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	comment, err := h.commentLogic.CreateComment(CurrentUser(c), taskID, req.Body, req.ParentCommentID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "评论已发布", gin.H{"comment": comment})
}

// GetComments 任务下的评论列表
func (h *CommentHandler) GetComments(c *gin.Context) {
	taskID, ok := pathID(c, "id", "无效的任务ID")
	if !ok {
		return
	}

	comments, err := h.commentLogic.ListComments(CurrentUser(c), taskID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"comments": comments})
}

// DeleteComment 删除自己的评论，回复一并删除
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的评论ID")
	if !ok {
		return
	}

	if err := h.commentLogic.DeleteComment(CurrentUser(c), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "评论已删除", nil)
}
