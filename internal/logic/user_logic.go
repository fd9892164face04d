package logic

import (
	"errors"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/permission"
	"gorm.io/gorm"
)

// UserLogic 用户业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// GetUser 按ID获取用户
func (u *UserLogic) GetUser(id int64) (*model.User, error) {
	var user model.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("用户不存在")
		}
		return nil, errs.Upstream(err, "查询用户失败")
	}
	return &user, nil
}

// GetUsers 按ID批量获取用户
func (u *UserLogic) GetUsers(ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := u.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errs.Upstream(err, "查询用户失败")
	}
	return users, nil
}

// ListUsers 列出所有用户，需要admin只读提升
func (u *UserLogic) ListUsers(caller *model.User) ([]model.User, error) {
	if err := permission.Check(permission.ActionViewAll, caller.Roles, permission.ResourceNone); err != nil {
		return nil, err
	}
	var users []model.User
	if err := u.db.Order("id").Find(&users).Error; err != nil {
		return nil, errs.Upstream(err, "查询用户列表失败")
	}
	return users, nil
}
