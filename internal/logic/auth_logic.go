package logic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blues/taskhub/internal/auth"
	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/mailer"
	"github.com/blues/taskhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

// AuthLogic 认证业务逻辑
type AuthLogic struct {
	db         *gorm.DB
	jwtService *auth.JWTService
	tokenCache *auth.TokenCache
	lockout    *LockoutLogic
	mailer     *mailer.Mailer
	baseURL    string
}

// NewAuthLogic 创建认证业务逻辑
func NewAuthLogic(db *gorm.DB, jwtService *auth.JWTService, tokenCache *auth.TokenCache, lockout *LockoutLogic, m *mailer.Mailer, baseURL string) *AuthLogic {
	return &AuthLogic{
		db:         db,
		jwtService: jwtService,
		tokenCache: tokenCache,
		lockout:    lockout,
		mailer:     m,
		baseURL:    baseURL,
	}
}

// TokenPair 一对访问/刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register 注册新用户，全局角色默认staff
func (a *AuthLogic) Register(email, password, displayName string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errs.Validation("邮箱不能为空")
	}
	if len(password) < 8 {
		return nil, errs.Validation("密码长度至少8位")
	}

	var count int64
	if err := a.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, errs.Upstream(err, "查询用户失败")
	}
	if count > 0 {
		return nil, errs.Validation("该邮箱已注册")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errs.Upstream(err, "密码处理失败")
	}

	user := model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Roles:        model.RoleSet{model.RoleStaff},
	}
	if err := a.db.Create(&user).Error; err != nil {
		return nil, errs.Upstream(err, "创建用户失败")
	}

	logger.Info("User registered: %s", email)
	return &user, nil
}

// Login 登录。先检查锁定状态，失败计入锁定计数，成功清零。
func (a *AuthLogic) Login(email, password string) (*model.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := a.lockout.CheckLocked(email); err != nil {
		return nil, nil, err
	}

	var user model.User
	err := a.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, a.failLogin(email)
	}
	if err != nil {
		return nil, nil, errs.Upstream(err, "查询用户失败")
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, a.failLogin(email)
	}

	a.lockout.RecordSuccess(email)

	pair, err := a.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

func (a *AuthLogic) failLogin(email string) error {
	remaining, err := a.lockout.RecordFailure(email)
	if err != nil {
		logger.Error("Failed to record login failure for %s: %v", email, err)
		return errs.Unauthenticated("邮箱或密码错误")
	}
	if remaining == 0 {
		return errs.Locked("失败次数过多，账号已锁定15分钟")
	}
	return errs.Unauthenticated("邮箱或密码错误").WithData("remaining_attempts", remaining)
}

// Refresh 用刷新令牌换新的访问令牌
func (a *AuthLogic) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, errs.Unauthenticated("刷新令牌无效或已过期")
	}

	var user model.User
	if err := a.db.First(&user, claims.UserID).Error; err != nil {
		return nil, errs.Unauthenticated("用户不存在")
	}

	access, err := a.jwtService.GenerateAccessToken(user.Id, user.Email)
	if err != nil {
		return nil, errs.Upstream(err, "签发令牌失败")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

// UserFromToken 从访问令牌解析用户。
// 先查缓存，未命中时校验令牌并加载用户，用户行不存在则按staff角色补建。
func (a *AuthLogic) UserFromToken(token string) (*model.User, error) {
	if user, ok := a.tokenCache.Get(token); ok {
		return user, nil
	}

	claims, err := a.jwtService.ValidateToken(token, auth.TokenAccess)
	if err != nil {
		return nil, errs.Unauthenticated("令牌无效或已过期")
	}

	var user model.User
	err = a.db.First(&user, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 兜底补建：令牌有效但用户行缺失
		user = model.User{
			Id:    claims.UserID,
			Email: claims.Email,
			Roles: model.RoleSet{model.RoleStaff},
		}
		if err := a.db.Create(&user).Error; err != nil {
			return nil, errs.Upstream(err, "创建用户失败")
		}
		logger.Warn("Recreated missing user row for %s", claims.Email)
	} else if err != nil {
		return nil, errs.Upstream(err, "查询用户失败")
	}

	a.tokenCache.Put(token, &user)
	return &user, nil
}

// ForgotPassword 生成重置令牌并发送邮件。
// 邮箱不存在时同样返回成功，避免泄露注册信息。
func (a *AuthLogic) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	err := a.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return errs.Upstream(err, "查询用户失败")
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(resetTokenTTL)
	if err := a.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	}).Error; err != nil {
		return errs.Upstream(err, "保存重置令牌失败")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", a.baseURL, token)
	html := fmt.Sprintf(
		`<p>点击下面的链接重置密码：</p>`+
			`<p><a href="%s">重置密码</a></p>`+
			`<p>链接15分钟内有效。</p>`,
		link,
	)
	if err := a.mailer.Send(user.Email, "Reset Your Password", html); err != nil {
		logger.Error("Failed to send reset email to %s: %v", user.Email, err)
	}
	return nil
}

// ResetPassword 校验重置令牌并设置新密码
func (a *AuthLogic) ResetPassword(token, newPassword string) error {
	if token == "" {
		return errs.Validation("重置令牌不能为空")
	}
	if len(newPassword) < 8 {
		return errs.Validation("密码长度至少8位")
	}

	var user model.User
	err := a.db.Where("reset_token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Validation("重置令牌无效")
	}
	if err != nil {
		return errs.Upstream(err, "查询用户失败")
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return errs.Validation("重置令牌已过期")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return errs.Upstream(err, "密码处理失败")
	}

	if err := a.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":          hash,
		"reset_token":            "",
		"reset_token_expires_at": nil,
	}).Error; err != nil {
		return errs.Upstream(err, "更新密码失败")
	}

	logger.Info("Password reset for %s", user.Email)
	return nil
}

func (a *AuthLogic) issueTokens(user *model.User) (*TokenPair, error) {
	access, err := a.jwtService.GenerateAccessToken(user.Id, user.Email)
	if err != nil {
		return nil, errs.Upstream(err, "签发令牌失败")
	}
	refresh, err := a.jwtService.GenerateRefreshToken(user.Id, user.Email)
	if err != nil {
		return nil, errs.Upstream(err, "签发令牌失败")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
