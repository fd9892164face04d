package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blues/taskhub/internal/model"
	"github.com/gin-gonic/gin"
)

func unlockContext(t *testing.T, caller *model.User, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/users/unlock", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(contextUserKey, caller)
	return c, w
}

func TestUnlockRequiresAdmin(t *testing.T) {
	tests := []struct {
		name   string
		roles  model.RoleSet
		status int
	}{
		{"普通成员被拒", model.RoleSet{}, http.StatusForbidden},
		{"管理者也被拒", model.RoleSet{model.RoleManager}, http.StatusForbidden},
		// 空请求体在角色校验之后才报错，400说明管理员通过了角色门槛
		{"管理员通过角色校验", model.RoleSet{model.RoleAdmin}, http.StatusBadRequest},
	}

	h := NewUserHandler(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &model.User{Id: 9, Roles: tt.roles}
			c, w := unlockContext(t, caller, "")
			h.Unlock(c)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
