package permission

import (
	"testing"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/model"
)

var (
	adminOnly    = model.RoleSet{model.RoleAdmin}
	managerOnly  = model.RoleSet{model.RoleManager}
	staffOnly    = model.RoleSet{model.RoleStaff}
	adminManager = model.RoleSet{model.RoleAdmin, model.RoleManager}
	adminStaff   = model.RoleSet{model.RoleAdmin, model.RoleStaff}
	managerStaff = model.RoleSet{model.RoleManager, model.RoleStaff}
	noRoles      = model.RoleSet{}
)

func TestCheck_CreateProject(t *testing.T) {
	tests := []struct {
		name  string
		roles model.RoleSet
		want  bool
	}{
		{"manager only", managerOnly, true},
		{"admin+manager", adminManager, true},
		{"admin+staff", adminStaff, true},
		{"manager+staff", managerStaff, true},
		{"staff only", staffOnly, false},
		{"admin only", adminOnly, false},
		{"no roles", noRoles, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(ActionCreateProject, tt.roles, ResourceNone)
			if got := err == nil; got != tt.want {
				t.Errorf("Check(create_project, %v) allowed = %v, want %v (err=%v)", tt.roles, got, tt.want, err)
			}
		})
	}
}

func TestCheck_AdminOnlyNeverMutates(t *testing.T) {
	mutating := []Action{
		ActionCreateProject, ActionUpdateProject, ActionArchiveProject,
		ActionDeleteProject, ActionManageMembers,
		ActionCreateTask, ActionUpdateTask, ActionDeleteTask,
		ActionCreateTeam, ActionUpdateTeam, ActionDeleteTeam,
	}
	resources := []ResourceRole{ResourceNone, ResourceOwner, ResourceManager, ResourceMember}

	for _, action := range mutating {
		for _, resource := range resources {
			if err := Check(action, adminOnly, resource); err == nil {
				t.Errorf("Check(%s, admin-only, %q) allowed, want denied", action, resource)
			}
		}
	}
}

func TestCheck_AdminViewAll(t *testing.T) {
	if err := Check(ActionViewAll, adminOnly, ResourceNone); err != nil {
		t.Errorf("Check(view_all, admin-only) = %v, want allowed", err)
	}
	if err := Check(ActionViewAll, managerStaff, ResourceNone); err == nil {
		t.Error("Check(view_all, manager+staff) allowed, want denied")
	}
}

func TestCheck_ProjectManagement(t *testing.T) {
	tests := []struct {
		name     string
		action   Action
		roles    model.RoleSet
		resource ResourceRole
		want     bool
	}{
		{"owner archives", ActionArchiveProject, managerOnly, ResourceOwner, true},
		{"manager archives", ActionArchiveProject, staffOnly, ResourceManager, true},
		{"member archives", ActionArchiveProject, staffOnly, ResourceMember, false},
		{"non-member archives", ActionArchiveProject, managerOnly, ResourceNone, false},
		{"owner deletes", ActionDeleteProject, managerOnly, ResourceOwner, true},
		{"manager deletes", ActionDeleteProject, managerOnly, ResourceManager, false},
		{"owner manages members", ActionManageMembers, staffOnly, ResourceOwner, true},
		{"member manages members", ActionManageMembers, managerStaff, ResourceMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.action, tt.roles, tt.resource)
			if got := err == nil; got != tt.want {
				t.Errorf("Check(%s, %v, %q) allowed = %v, want %v", tt.action, tt.roles, tt.resource, got, tt.want)
			}
		})
	}
}

func TestCheck_TaskMutation(t *testing.T) {
	tests := []struct {
		name     string
		roles    model.RoleSet
		resource ResourceRole
		want     bool
	}{
		{"staff member", staffOnly, ResourceMember, true},
		{"manager owner", managerOnly, ResourceOwner, true},
		{"admin+staff member", adminStaff, ResourceMember, true},
		{"admin-only member", adminOnly, ResourceMember, false},
		{"staff non-member", staffOnly, ResourceNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(ActionCreateTask, tt.roles, tt.resource)
			if got := err == nil; got != tt.want {
				t.Errorf("Check(create_task, %v, %q) allowed = %v, want %v", tt.roles, tt.resource, got, tt.want)
			}
		})
	}
}

func TestCheck_Teams(t *testing.T) {
	tests := []struct {
		name     string
		action   Action
		roles    model.RoleSet
		resource ResourceRole
		want     bool
	}{
		{"manager creates", ActionCreateTeam, managerOnly, ResourceNone, true},
		{"staff creates", ActionCreateTeam, staffOnly, ResourceNone, false},
		{"team manager updates", ActionUpdateTeam, managerOnly, ResourceManager, true},
		{"team member updates", ActionUpdateTeam, managerOnly, ResourceMember, false},
		{"global staff team manager updates", ActionUpdateTeam, staffOnly, ResourceManager, false},
		{"team manager deletes", ActionDeleteTeam, managerStaff, ResourceManager, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.action, tt.roles, tt.resource)
			if got := err == nil; got != tt.want {
				t.Errorf("Check(%s, %v, %q) allowed = %v, want %v", tt.action, tt.roles, tt.resource, got, tt.want)
			}
		})
	}
}

func TestCheckTeamMemberAdd(t *testing.T) {
	tests := []struct {
		name      string
		caller    model.RoleSet
		teamRole  ResourceRole
		candidate model.RoleSet
		want      bool
	}{
		{"team manager adds manager", managerOnly, ResourceManager, managerOnly, true},
		{"team manager adds staff", managerOnly, ResourceManager, staffOnly, true},
		{"staff member adds staff", staffOnly, ResourceMember, staffOnly, true},
		{"staff member adds manager", staffOnly, ResourceMember, managerOnly, false},
		{"staff member adds admin+staff", staffOnly, ResourceMember, adminStaff, false},
		{"staff non-member adds staff", staffOnly, ResourceNone, staffOnly, false},
		{"admin-only adds staff", adminOnly, ResourceManager, staffOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTeamMemberAdd(tt.caller, tt.teamRole, tt.candidate)
			if got := err == nil; got != tt.want {
				t.Errorf("CheckTeamMemberAdd(%v, %q, %v) allowed = %v, want %v", tt.caller, tt.teamRole, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestCheckSelfProtection(t *testing.T) {
	if err := CheckTeamMemberRemove(7, 7, model.TeamRoleManager); err == nil {
		t.Error("team manager removing self allowed, want denied")
	}
	if err := CheckTeamMemberRemove(7, 9, model.TeamRoleMember); err != nil {
		t.Errorf("removing another member denied: %v", err)
	}
	if err := CheckProjectMemberRemove(model.ProjectRoleOwner); err == nil {
		t.Error("removing project owner allowed, want denied")
	}
	if err := CheckProjectMemberRemove(model.ProjectRoleMember); err != nil {
		t.Errorf("removing plain member denied: %v", err)
	}
}

func TestCheck_DenialCode(t *testing.T) {
	err := Check(ActionCreateProject, staffOnly, ResourceNone)
	if err == nil {
		t.Fatal("Check(create_project, staff-only) allowed, want denied")
	}
	if code := errs.CodeOf(err); code != errs.CodePermissionDenied {
		t.Errorf("CodeOf = %q, want %q", code, errs.CodePermissionDenied)
	}
}
