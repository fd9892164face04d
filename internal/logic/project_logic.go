package logic

import (
	"errors"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/permission"
	"gorm.io/gorm"
)

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// MemberRole 查询用户在项目内的角色，非成员返回空
func (p *ProjectLogic) MemberRole(projectID, userID int64) (permission.ResourceRole, error) {
	var member model.ProjectMember
	err := p.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return permission.ResourceNone, nil
	}
	if err != nil {
		return permission.ResourceNone, errs.Upstream(err, "查询项目成员失败")
	}
	return permission.ResourceRole(member.Role), nil
}

// CreateProject 创建项目，创建者成为唯一的owner成员
func (p *ProjectLogic) CreateProject(caller *model.User, name, coverURL string) (*model.Project, error) {
	if err := permission.Check(permission.ActionCreateProject, caller.Roles, permission.ResourceNone); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.Validation("项目名称不能为空")
	}

	project := model.Project{
		Name:     name,
		CoverURL: coverURL,
		OwnerID:  caller.Id,
		Status:   model.ProjectStatusActive,
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return tx.Create(&model.ProjectMember{
			ProjectID: project.Id,
			UserID:    caller.Id,
			Role:      model.ProjectRoleOwner,
		}).Error
	})
	if err != nil {
		return nil, errs.Upstream(err, "创建项目失败")
	}

	logger.Info("Project %d created by user %d", project.Id, caller.Id)
	return &project, nil
}

// ListProjects 项目列表。默认只返回调用者所在的未归档项目；
// include_archived时包含已归档；仅admin可以看到全部项目。
func (p *ProjectLogic) ListProjects(caller *model.User, includeArchived bool) ([]model.Project, error) {
	query := p.db.Model(&model.Project{})

	if permission.Check(permission.ActionViewAll, caller.Roles, permission.ResourceNone) != nil {
		query = query.Where("id IN (?)",
			p.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", caller.Id))
	}
	if !includeArchived {
		query = query.Where("status <> ?", model.ProjectStatusArchived)
	}

	var projects []model.Project
	if err := query.Order("id").Find(&projects).Error; err != nil {
		return nil, errs.Upstream(err, "查询项目列表失败")
	}
	return projects, nil
}

// GetProject 项目详情。非成员与不存在统一返回不存在，避免泄露。
func (p *ProjectLogic) GetProject(caller *model.User, id int64) (*model.Project, error) {
	project, _, err := p.loadWithRole(caller, id)
	return project, err
}

// loadWithRole 加载项目并检查可见性，返回调用者的项目内角色
func (p *ProjectLogic) loadWithRole(caller *model.User, id int64) (*model.Project, permission.ResourceRole, error) {
	var project model.Project
	if err := p.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, permission.ResourceNone, errs.NotFound("项目不存在")
		}
		return nil, permission.ResourceNone, errs.Upstream(err, "查询项目失败")
	}

	role, err := p.MemberRole(id, caller.Id)
	if err != nil {
		return nil, permission.ResourceNone, err
	}
	if role == permission.ResourceNone {
		if permission.Check(permission.ActionViewAll, caller.Roles, permission.ResourceNone) != nil {
			return nil, permission.ResourceNone, errs.NotFound("项目不存在")
		}
	}
	return &project, role, nil
}

// UpdateProject 更新项目基本信息
func (p *ProjectLogic) UpdateProject(caller *model.User, id int64, updates map[string]interface{}) error {
	project, role, err := p.loadWithRole(caller, id)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionUpdateProject, caller.Roles, role); err != nil {
		return err
	}
	if len(updates) == 0 {
		return errs.Validation("没有要更新的字段")
	}

	if err := p.db.Model(project).Updates(updates).Error; err != nil {
		return errs.Upstream(err, "更新项目失败")
	}
	return nil
}

// ArchiveProject 归档项目。重复归档是幂等的成功。
func (p *ProjectLogic) ArchiveProject(caller *model.User, id int64) error {
	return p.setStatus(caller, id, model.ProjectStatusArchived)
}

// RestoreProject 恢复已归档项目
func (p *ProjectLogic) RestoreProject(caller *model.User, id int64) error {
	return p.setStatus(caller, id, model.ProjectStatusActive)
}

func (p *ProjectLogic) setStatus(caller *model.User, id int64, status model.ProjectStatus) error {
	project, role, err := p.loadWithRole(caller, id)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionArchiveProject, caller.Roles, role); err != nil {
		return err
	}

	if project.Status == status {
		return nil
	}
	if err := p.db.Model(project).Update("status", status).Error; err != nil {
		return errs.Upstream(err, "更新项目状态失败")
	}
	return nil
}

// DeleteProject 删除项目。成员、任务及其子任务/评论/附件行和项目本身
// 在一个事务里级联删除，避免中途失败留下悬空数据。
// 返回被删除附件的对象名，调用方负责清理存储里的文件。
func (p *ProjectLogic) DeleteProject(caller *model.User, id int64) ([]string, error) {
	_, role, err := p.loadWithRole(caller, id)
	if err != nil {
		return nil, err
	}
	if err := permission.Check(permission.ActionDeleteProject, caller.Roles, role); err != nil {
		return nil, err
	}

	var objectNames []string
	err = p.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []int64
		if err := tx.Model(&model.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			var subtaskIDs []int64
			if err := tx.Model(&model.SubTask{}).Where("task_id IN ?", taskIDs).Pluck("id", &subtaskIDs).Error; err != nil {
				return err
			}

			fileQuery := tx.Model(&model.File{}).Where("task_id IN ?", taskIDs)
			if len(subtaskIDs) > 0 {
				fileQuery = tx.Model(&model.File{}).Where("task_id IN ? OR subtask_id IN ?", taskIDs, subtaskIDs)
			}
			if err := fileQuery.Pluck("object_name", &objectNames).Error; err != nil {
				return err
			}

			if len(subtaskIDs) > 0 {
				if err := tx.Where("subtask_id IN ?", subtaskIDs).Delete(&model.File{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.File{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.SubTask{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
	if err != nil {
		return nil, errs.Upstream(err, "删除项目失败")
	}

	logger.Info("Project %d deleted by user %d", id, caller.Id)
	return objectNames, nil
}

// ListMembers 项目成员列表
func (p *ProjectLogic) ListMembers(caller *model.User, projectID int64) ([]model.ProjectMember, error) {
	if _, _, err := p.loadWithRole(caller, projectID); err != nil {
		return nil, err
	}
	var members []model.ProjectMember
	if err := p.db.Where("project_id = ?", projectID).Order("id").Find(&members).Error; err != nil {
		return nil, errs.Upstream(err, "查询项目成员失败")
	}
	return members, nil
}

// AddMember 添加项目成员
func (p *ProjectLogic) AddMember(caller *model.User, projectID, userID int64, role model.ProjectRole) error {
	_, callerRole, err := p.loadWithRole(caller, projectID)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionManageMembers, caller.Roles, callerRole); err != nil {
		return err
	}
	if role != model.ProjectRoleManager && role != model.ProjectRoleMember {
		return errs.Validation("项目成员角色只能是manager或member")
	}

	var user model.User
	if err := p.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("用户不存在")
		}
		return errs.Upstream(err, "查询用户失败")
	}

	var count int64
	if err := p.db.Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return errs.Upstream(err, "查询项目成员失败")
	}
	if count > 0 {
		return errs.Validation("该用户已是项目成员")
	}

	if err := p.db.Create(&model.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}).Error; err != nil {
		return errs.Upstream(err, "添加项目成员失败")
	}
	return nil
}

// RemoveMember 移除项目成员，owner受保护不能被移除
func (p *ProjectLogic) RemoveMember(caller *model.User, projectID, userID int64) error {
	_, callerRole, err := p.loadWithRole(caller, projectID)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionManageMembers, caller.Roles, callerRole); err != nil {
		return err
	}

	var member model.ProjectMember
	err = p.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("该用户不是项目成员")
	}
	if err != nil {
		return errs.Upstream(err, "查询项目成员失败")
	}

	if err := permission.CheckProjectMemberRemove(member.Role); err != nil {
		return err
	}

	if err := p.db.Delete(&member).Error; err != nil {
		return errs.Upstream(err, "移除项目成员失败")
	}
	return nil
}

// ChangeMemberRole 调整成员角色。owner的角色不可变，也不能再指定owner。
func (p *ProjectLogic) ChangeMemberRole(caller *model.User, projectID, userID int64, role model.ProjectRole) error {
	_, callerRole, err := p.loadWithRole(caller, projectID)
	if err != nil {
		return err
	}
	if err := permission.Check(permission.ActionManageMembers, caller.Roles, callerRole); err != nil {
		return err
	}
	if role != model.ProjectRoleManager && role != model.ProjectRoleMember {
		return errs.Validation("项目成员角色只能是manager或member")
	}

	var member model.ProjectMember
	err = p.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("该用户不是项目成员")
	}
	if err != nil {
		return errs.Upstream(err, "查询项目成员失败")
	}
	if member.Role == model.ProjectRoleOwner {
		return errs.PermissionDenied("项目所有者的角色不可修改")
	}

	if err := p.db.Model(&member).Update("role", role).Error; err != nil {
		return errs.Upstream(err, "更新成员角色失败")
	}
	return nil
}

// ManagedProjectIDs 用户担任owner或manager的项目
func (p *ProjectLogic) ManagedProjectIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := p.db.Model(&model.ProjectMember{}).
		Where("user_id = ? AND role IN ?", userID, []model.ProjectRole{model.ProjectRoleOwner, model.ProjectRoleManager}).
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, errs.Upstream(err, "查询项目成员失败")
	}
	return ids, nil
}
