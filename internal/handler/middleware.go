package handler

import (
	"strings"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/model"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "current_user"

// AuthMiddleware 解析 Bearer 令牌并把用户放进请求上下文
func AuthMiddleware(authLogic *logic.AuthLogic) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ErrorResponse(c, errs.Unauthenticated("缺少认证令牌"))
			c.Abort()
			return
		}

		user, err := authLogic.UserFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ErrorResponse(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser 取出认证中间件放入的用户
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
