package handler

import (
	"github.com/blues/taskhub/internal/errs"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应，HTTP状态码与错误码由 errs 决定
func ErrorResponse(c *gin.Context, err error) {
	c.JSON(errs.HTTPStatus(err), Response{
		Success: false,
		Code:    errs.CodeOf(err),
		Message: err.Error(),
		Data:    errs.DataOf(err),
	})
}

// BadRequest 请求体解析失败的响应
func BadRequest(c *gin.Context, err error) {
	ErrorResponse(c, errs.Validation("请求参数错误: %v", err))
}
