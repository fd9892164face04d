package handler

// 请求模型

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UnlockRequest 管理员解锁账号请求
type UnlockRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	CoverURL string `json:"cover_url"`
}

// UpdateProjectRequest 更新项目请求，nil字段不更新
type UpdateProjectRequest struct {
	Name     *string `json:"name"`
	CoverURL *string `json:"cover_url"`
}

// MemberRequest 项目/团队成员请求
type MemberRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// ChangeMemberRoleRequest 调整成员角色请求
type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	ProjectID   *int64   `json:"project_id"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	DueDate     string   `json:"due_date"`
	AssigneeIDs []int64  `json:"assignee_ids"`
	Tags        []string `json:"tags"`
}

// UpdateTaskRequest 更新任务请求，nil字段不更新
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	DueDate     *string   `json:"due_date"`
	AssigneeIDs *[]int64  `json:"assignee_ids"`
	Tags        *[]string `json:"tags"`
}

// CreateSubTaskRequest 创建子任务请求
type CreateSubTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	DueDate     string   `json:"due_date"`
	AssigneeIDs []int64  `json:"assignee_ids"`
	Tags        []string `json:"tags"`
}

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Body            string `json:"body" binding:"required"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// CreateTeamRequest 创建团队请求
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateTeamRequest 更新团队请求，nil字段不更新
type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
