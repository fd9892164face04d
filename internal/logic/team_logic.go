package logic

import (
	"errors"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/permission"
	"gorm.io/gorm"
)

// TeamLogic 团队业务逻辑
type TeamLogic struct {
	db *gorm.DB
}

// NewTeamLogic 创建团队业务逻辑
func NewTeamLogic(db *gorm.DB) *TeamLogic {
	return &TeamLogic{db: db}
}

// memberRole 查询用户在团队内的角色，非成员返回空
func (t *TeamLogic) memberRole(teamID, userID int64) (permission.ResourceRole, error) {
	var member model.TeamMember
	err := t.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return permission.ResourceNone, nil
	}
	if err != nil {
		return permission.ResourceNone, errs.Upstream(err, "查询团队成员失败")
	}
	return permission.ResourceRole(member.Role), nil
}

// CreateTeam 创建团队，要求全局manager，创建者成为团队管理者
func (t *TeamLogic) CreateTeam(caller *model.User, name, description string) (*model.Team, error) {
	if err := permission.Check(permission.ActionCreateTeam, caller.Roles, permission.ResourceNone); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.Validation("团队名称不能为空")
	}

	team := model.Team{
		Name:        name,
		Description: description,
		CreatorID:   caller.Id,
	}
	err := t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return tx.Create(&model.TeamMember{
			TeamID: team.Id,
			UserID: caller.Id,
			Role:   model.TeamRoleManager,
		}).Error
	})
	if err != nil {
		return nil, errs.Upstream(err, "创建团队失败")
	}

	logger.Info("Team %d created by user %d", team.Id, caller.Id)
	return &team, nil
}

// ListTeams 自己所在的团队，admin可以看到全部
func (t *TeamLogic) ListTeams(caller *model.User) ([]model.Team, error) {
	query := t.db.Model(&model.Team{})
	if permission.Check(permission.ActionViewAll, caller.Roles, permission.ResourceNone) != nil {
		query = query.Where("id IN (?)",
			t.db.Model(&model.TeamMember{}).Select("team_id").Where("user_id = ?", caller.Id))
	}

	var teams []model.Team
	if err := query.Order("id").Find(&teams).Error; err != nil {
		return nil, errs.Upstream(err, "查询团队列表失败")
	}
	return teams, nil
}

// GetTeam 团队详情，非成员与不存在统一返回不存在
func (t *TeamLogic) GetTeam(caller *model.User, id int64) (*model.Team, error) {
	team, _, err := t.loadWithRole(caller, id)
	return team, err
}

func (t *TeamLogic) loadWithRole(caller *model.User, id int64) (*model.Team, permission.ResourceRole, error) {
	var team model.Team
	if err := t.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, permission.ResourceNone, errs.NotFound("团队不存在")
		}
		return nil, permission.ResourceNone, errs.Upstream(err, "查询团队失败")
	}

	role, err := t.memberRole(id, caller.Id)
	if err != nil {
		return nil, permission.ResourceNone, err
	}
	if role == permission.ResourceNone {
		if permission.Check(permission.ActionViewAll, caller.Roles, permission.ResourceNone) != nil {
			return nil, permission.ResourceNone, errs.NotFound("团队不存在")
		}
	}
	return &team, role, nil
}

// UpdateTeam 更新团队信息，要求团队管理者且全局manager
func (t *TeamLogic) UpdateTeam(caller *model.User, id int64, updates map[string]interface{}) error {
	team, role, err := t.loadWithRole(caller, id)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionUpdateTeam, caller.Roles, role); err != nil {
		return err
	}
	if len(updates) == 0 {
		return errs.Validation("没有要更新的字段")
	}

	if err := t.db.Model(team).Updates(updates).Error; err != nil {
		return errs.Upstream(err, "更新团队失败")
	}
	return nil
}

// DeleteTeam 删除团队，成员记录一并删除
func (t *TeamLogic) DeleteTeam(caller *model.User, id int64) error {
	_, role, err := t.loadWithRole(caller, id)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionDeleteTeam, caller.Roles, role); err != nil {
		return err
	}

	err = t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Team{}, id).Error
	})
	if err != nil {
		return errs.Upstream(err, "删除团队失败")
	}
	return nil
}

// ListMembers 团队成员列表
func (t *TeamLogic) ListMembers(caller *model.User, teamID int64) ([]model.TeamMember, error) {
	if _, _, err := t.loadWithRole(caller, teamID); err != nil {
		return nil, err
	}

	var members []model.TeamMember
	if err := t.db.Where("team_id = ?", teamID).Order("id").Find(&members).Error; err != nil {
		return nil, errs.Upstream(err, "查询团队成员失败")
	}
	return members, nil
}

// AddMember 添加团队成员。管理者可以加任何人；
// staff只能在自己已是成员时添加全局角色恰好为staff的用户。
func (t *TeamLogic) AddMember(caller *model.User, teamID, userID int64, role model.TeamRole) error {
	if _, _, err := t.loadWithRole(caller, teamID); err != nil {
		return err
	}
	callerRole, err := t.memberRole(teamID, caller.Id)
	if err != nil {
		return err
	}

	var candidate model.User
	if err := t.db.First(&candidate, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("用户不存在")
		}
		return errs.Upstream(err, "查询用户失败")
	}

	if err := permission.CheckTeamMemberAdd(caller.Roles, callerRole, candidate.Roles); err != nil {
		return err
	}

	if role != model.TeamRoleManager && role != model.TeamRoleMember {
		return errs.Validation("团队角色只能是manager或member")
	}
	// staff发起的添加只能给member角色
	if callerRole != permission.ResourceManager && role == model.TeamRoleManager {
		return errs.PermissionDenied("只有团队管理者才能任命管理者")
	}

	var count int64
	if err := t.db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error; err != nil {
		return errs.Upstream(err, "查询团队成员失败")
	}
	if count > 0 {
		return errs.Validation("该用户已是团队成员")
	}

	if err := t.db.Create(&model.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}).Error; err != nil {
		return errs.Upstream(err, "添加团队成员失败")
	}
	return nil
}

// RemoveMember 移除团队成员，管理者不能移除自己
func (t *TeamLogic) RemoveMember(caller *model.User, teamID, userID int64) error {
	_, callerRole, err := t.loadWithRole(caller, teamID)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionUpdateTeam, caller.Roles, callerRole); err != nil {
		return err
	}

	var member model.TeamMember
	err = t.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("该用户不是团队成员")
	}
	if err != nil {
		return errs.Upstream(err, "查询团队成员失败")
	}

	if err := permission.CheckTeamMemberRemove(caller.Id, userID, member.Role); err != nil {
		return err
	}

	if err := t.db.Delete(&member).Error; err != nil {
		return errs.Upstream(err, "移除团队成员失败")
	}
	return nil
}
