package permission

import (
	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/model"
)

// Action 受权限控制的操作
type Action string

const (
	ActionCreateProject  Action = "create_project"
	ActionUpdateProject  Action = "update_project"
	ActionArchiveProject Action = "archive_project"
	ActionDeleteProject  Action = "delete_project"
	ActionManageMembers  Action = "manage_members"
	ActionCreateTask     Action = "create_task"
	ActionUpdateTask     Action = "update_task"
	ActionDeleteTask     Action = "delete_task"
	ActionCreateTeam     Action = "create_team"
	ActionUpdateTeam     Action = "update_team"
	ActionDeleteTeam     Action = "delete_team"
	ActionViewAll        Action = "view_all"
)

// ResourceRole 资源内角色（项目或团队）
type ResourceRole string

const (
	ResourceNone    ResourceRole = ""        // 非成员
	ResourceOwner   ResourceRole = "owner"   // 项目所有者
	ResourceManager ResourceRole = "manager" // 项目/团队管理者
	ResourceMember  ResourceRole = "member"  // 普通成员
)

// globalReq 全局角色要求
type globalReq int

const (
	globalAny            globalReq = iota // 无要求
	globalMutator                         // 需要 manager 或 staff
	globalManager                         // 需要 manager
	globalProjectCreator                  // manager，或 admin 搭配 staff
	globalAdmin                           // 需要 admin
)

// rule 单个操作的权限规则
type rule struct {
	mutating    bool
	global      globalReq
	resourceAny []ResourceRole // 非空时资源角色必须命中其一
	reason      string         // 拒绝时的提示
}

// 权限决策表。改动权限策略只改这里，不要在业务代码里散落角色判断。
var table = map[Action]rule{
	ActionCreateProject: {
		mutating: true,
		global:   globalProjectCreator,
		reason:   "需要manager角色才能创建项目",
	},
	ActionUpdateProject: {
		mutating:    true,
		global:      globalMutator,
		resourceAny: []ResourceRole{ResourceOwner, ResourceManager},
		reason:      "需要项目所有者或管理者角色才能修改项目",
	},
	ActionArchiveProject: {
		mutating:    true,
		global:      globalMutator,
		resourceAny: []ResourceRole{ResourceOwner, ResourceManager},
		reason:      "需要项目所有者或管理者角色才能归档项目",
	},
	ActionDeleteProject: {
		mutating:    true,
		global:      globalMutator,
		resourceAny: []ResourceRole{ResourceOwner},
		reason:      "只有项目所有者才能删除项目",
	},
	ActionManageMembers: {
		mutating:    true,
		global:      globalMutator,
		resourceAny: []ResourceRole{ResourceOwner, ResourceManager},
		reason:      "需要项目所有者或管理者角色才能管理成员",
	},
	ActionCreateTask: {
		mutating:    true,
		global:      globalMutator,
		resourceAny: []ResourceRole{ResourceOwner, ResourceManager, ResourceMember},
		reason:      "需要是项目成员才能创建任务",
	},
	ActionUpdateTask: {
		mutating:    true,
		global:      globalMutator,
		resourceAny: []ResourceRole{ResourceOwner, ResourceManager, ResourceMember},
		reason:      "需要是项目成员才能修改任务",
	},
	ActionDeleteTask: {
		mutating:    true,
		global:      globalMutator,
		resourceAny: []ResourceRole{ResourceOwner, ResourceManager, ResourceMember},
		reason:      "需要是项目成员才能删除任务",
	},
	ActionCreateTeam: {
		mutating: true,
		global:   globalManager,
		reason:   "需要manager角色才能创建团队",
	},
	ActionUpdateTeam: {
		mutating:    true,
		global:      globalManager,
		resourceAny: []ResourceRole{ResourceManager},
		reason:      "需要团队管理者角色才能修改团队",
	},
	ActionDeleteTeam: {
		mutating:    true,
		global:      globalManager,
		resourceAny: []ResourceRole{ResourceManager},
		reason:      "需要团队管理者角色才能删除团队",
	},
	ActionViewAll: {
		mutating: false,
		global:   globalAdmin,
		reason:   "需要admin角色才能查看全部数据",
	},
}

// Check 判断操作是否被允许，拒绝时返回带原因的权限错误
func Check(action Action, roles model.RoleSet, resource ResourceRole) error {
	r, ok := table[action]
	if !ok {
		return errs.PermissionDenied("未知操作: %s", action)
	}

	// 规则1：仅持有admin的用户只有只读权限
	if r.mutating && roles.OnlyAdmin() {
		return errs.PermissionDenied("admin角色只具备只读权限，不能执行写操作")
	}

	if err := checkGlobal(r, roles); err != nil {
		return err
	}

	if len(r.resourceAny) > 0 && !roleIn(resource, r.resourceAny) {
		return errs.PermissionDenied("%s", r.reason)
	}

	return nil
}

func checkGlobal(r rule, roles model.RoleSet) error {
	switch r.global {
	case globalAny:
		return nil
	case globalMutator:
		if roles.Has(model.RoleManager) || roles.Has(model.RoleStaff) {
			return nil
		}
	case globalManager:
		if roles.Has(model.RoleManager) {
			return nil
		}
	case globalProjectCreator:
		if roles.Has(model.RoleManager) {
			return nil
		}
		if roles.Has(model.RoleAdmin) && roles.Has(model.RoleStaff) {
			return nil
		}
	case globalAdmin:
		if roles.Has(model.RoleAdmin) {
			return nil
		}
	}
	return errs.PermissionDenied("%s", r.reason)
}

func roleIn(role ResourceRole, set []ResourceRole) bool {
	for _, item := range set {
		if item == role {
			return true
		}
	}
	return false
}

// CheckStandaloneTask 独立任务不挂在项目下，没有资源角色，
// 只要求全局可写角色（manager或staff，仅admin不行）。
func CheckStandaloneTask(roles model.RoleSet) error {
	if roles.OnlyAdmin() {
		return errs.PermissionDenied("admin角色只具备只读权限，不能执行写操作")
	}
	if roles.Has(model.RoleManager) || roles.Has(model.RoleStaff) {
		return nil
	}
	return errs.PermissionDenied("需要manager或staff角色才能操作任务")
}

// CheckTeamMemberAdd 团队加人规则：团队管理者（且全局manager）可以加任何人；
// staff 只能在自己已是团队成员时，加入全局角色恰好为 staff 的用户。
func CheckTeamMemberAdd(caller model.RoleSet, callerTeamRole ResourceRole, candidate model.RoleSet) error {
	if caller.OnlyAdmin() {
		return errs.PermissionDenied("admin角色只具备只读权限，不能执行写操作")
	}
	if caller.Has(model.RoleManager) && callerTeamRole == ResourceManager {
		return nil
	}
	if caller.Has(model.RoleStaff) {
		if callerTeamRole == ResourceNone {
			return errs.PermissionDenied("需要先加入团队才能添加成员")
		}
		if !candidate.OnlyStaff() {
			return errs.PermissionDenied("staff只能添加全局角色为staff的用户")
		}
		return nil
	}
	return errs.PermissionDenied("需要团队管理者角色才能添加成员")
}

// CheckTeamMemberRemove 团队管理者不能把自己移出团队
func CheckTeamMemberRemove(callerID, targetID int64, targetRole model.TeamRole) error {
	if callerID == targetID && targetRole == model.TeamRoleManager {
		return errs.PermissionDenied("团队管理者不能将自己移出团队")
	}
	return nil
}

// CheckProjectMemberRemove 项目所有者不能被移除
func CheckProjectMemberRemove(targetRole model.ProjectRole) error {
	if targetRole == model.ProjectRoleOwner {
		return errs.PermissionDenied("项目所有者不能被移除")
	}
	return nil
}
