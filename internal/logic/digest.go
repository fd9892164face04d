package logic

import (
	"sort"
	"time"

	"github.com/blues/taskhub/internal/mailer"
	"github.com/blues/taskhub/internal/model"
	"gorm.io/gorm"
)

// dueSoonWindow 截止临近窗口
const dueSoonWindow = 48 * time.Hour

// DigestTask 汇总计算的输入任务，附带所属项目名
type DigestTask struct {
	Task        model.Task
	ProjectName string
}

// ComputeDigest 汇总统计的纯计算。
// 逾期 = 截止日期早于当天零点且未完成；临近 = 未来48小时内到期。
// 逾期率只统计有截止日期的任务，完成率的分母为0时结果为0。
func ComputeDigest(now time.Time, tasks []DigestTask, names map[int64]string) mailer.DigestData {
	data := mailer.DigestData{
		Date:         now.Format("2006-01-02"),
		TotalTasks:   len(tasks),
		StatusCounts: make(map[string]int),
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	completed := 0
	dated := 0
	overdue := 0
	for _, t := range tasks {
		data.StatusCounts[string(t.Task.Status)]++
		done := t.Task.Status == model.TaskStatusCompleted
		if done {
			completed++
		}
		if t.Task.DueDate == nil {
			continue
		}
		dated++
		// 日期型截止，当天结束才算到期
		dueAt := t.Task.DueDate.Add(24 * time.Hour)
		if t.Task.DueDate.Before(startOfDay) && !done {
			overdue++
			data.OverdueCount++
			continue
		}
		if !done && dueAt.After(now) && dueAt.Sub(now) <= dueSoonWindow {
			data.DueSoonCount++
		}
	}
	if data.TotalTasks > 0 {
		data.CompletedPct = float64(completed) * 100 / float64(data.TotalTasks)
	}
	if dated > 0 {
		data.OverduePct = float64(overdue) * 100 / float64(dated)
	}

	data.Sections = buildSections(startOfDay, tasks, names)
	return data
}

// buildSections 按项目分组的人员明细
func buildSections(startOfDay time.Time, tasks []DigestTask, names map[int64]string) []mailer.DigestSection {
	type personStat struct {
		total, completed, overdue int
	}
	byProject := make(map[string]map[int64]*personStat)

	for _, t := range tasks {
		projectName := t.ProjectName
		if projectName == "" {
			projectName = "独立任务"
		}
		people := byProject[projectName]
		if people == nil {
			people = make(map[int64]*personStat)
			byProject[projectName] = people
		}
		done := t.Task.Status == model.TaskStatusCompleted
		late := t.Task.DueDate != nil && t.Task.DueDate.Before(startOfDay) && !done
		for _, uid := range t.Task.AssigneeIDs {
			stat := people[uid]
			if stat == nil {
				stat = &personStat{}
				people[uid] = stat
			}
			stat.total++
			if done {
				stat.completed++
			}
			if late {
				stat.overdue++
			}
		}
	}

	projectNames := make([]string, 0, len(byProject))
	for name := range byProject {
		projectNames = append(projectNames, name)
	}
	sort.Strings(projectNames)

	sections := make([]mailer.DigestSection, 0, len(projectNames))
	for _, projectName := range projectNames {
		people := byProject[projectName]
		rows := make([]mailer.DigestRow, 0, len(people))
		for uid, stat := range people {
			displayName := names[uid]
			if displayName == "" {
				displayName = "未知用户"
			}
			rows = append(rows, mailer.DigestRow{
				DisplayName: displayName,
				Total:       stat.total,
				Completed:   stat.completed,
				Overdue:     stat.overdue,
			})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Total != rows[j].Total {
				return rows[i].Total > rows[j].Total
			}
			return rows[i].DisplayName < rows[j].DisplayName
		})
		sections = append(sections, mailer.DigestSection{
			ProjectName: projectName,
			Rows:        rows,
		})
	}
	return sections
}

// DigestLogic 每日汇总的数据装配
type DigestLogic struct {
	db *gorm.DB
}

// NewDigestLogic 创建汇总业务逻辑
func NewDigestLogic(db *gorm.DB) *DigestLogic {
	return &DigestLogic{db: db}
}

// Recipients 汇总收件人：全局角色含 admin/manager 的用户，加上任意项目的 owner/manager
func (d *DigestLogic) Recipients() ([]model.User, error) {
	var users []model.User
	if err := d.db.Find(&users).Error; err != nil {
		return nil, err
	}

	var managerMembers []model.ProjectMember
	err := d.db.Where("role IN ?", []model.ProjectRole{model.ProjectRoleOwner, model.ProjectRoleManager}).
		Find(&managerMembers).Error
	if err != nil {
		return nil, err
	}
	projectManagers := make(map[int64]bool, len(managerMembers))
	for _, m := range managerMembers {
		projectManagers[m.UserID] = true
	}

	var recipients []model.User
	for _, u := range users {
		if u.Roles.Has(model.RoleAdmin) || u.Roles.Has(model.RoleManager) || projectManagers[u.Id] {
			recipients = append(recipients, u)
		}
	}
	return recipients, nil
}

// BuildForUser 装配单个收件人的汇总数据。
// 管理的项目看全部任务，仅为成员的项目只看指派给自己的任务，
// 独立任务只看指派给自己的。
func (d *DigestLogic) BuildForUser(user *model.User, now time.Time) (mailer.DigestData, error) {
	var memberships []model.ProjectMember
	if err := d.db.Where("user_id = ?", user.Id).Find(&memberships).Error; err != nil {
		return mailer.DigestData{}, err
	}

	var managedIDs, memberIDs []int64
	for _, m := range memberships {
		if m.Role == model.ProjectRoleOwner || m.Role == model.ProjectRoleManager {
			managedIDs = append(managedIDs, m.ProjectID)
		} else {
			memberIDs = append(memberIDs, m.ProjectID)
		}
	}

	allIDs := append(append([]int64{}, managedIDs...), memberIDs...)
	projectNames := make(map[int64]string, len(allIDs))
	if len(allIDs) > 0 {
		var projects []model.Project
		if err := d.db.Where("id IN ?", allIDs).Find(&projects).Error; err != nil {
			return mailer.DigestData{}, err
		}
		for _, p := range projects {
			projectNames[p.Id] = p.Name
		}
	}

	var tasks []model.Task
	query := d.db.Where("type = ?", model.TaskTypeActive)
	if len(allIDs) > 0 {
		query = query.Where("project_id IN ? OR project_id IS NULL", allIDs)
	} else {
		query = query.Where("project_id IS NULL")
	}
	if err := query.Find(&tasks).Error; err != nil {
		return mailer.DigestData{}, err
	}

	managed := make(map[int64]bool, len(managedIDs))
	for _, id := range managedIDs {
		managed[id] = true
	}

	var visible []DigestTask
	assigneeIDs := make(map[int64]bool)
	for _, t := range tasks {
		if t.ProjectID == nil || !managed[*t.ProjectID] {
			if !t.AssigneeIDs.Contains(user.Id) {
				continue
			}
		}
		projectName := ""
		if t.ProjectID != nil {
			projectName = projectNames[*t.ProjectID]
		}
		visible = append(visible, DigestTask{Task: t, ProjectName: projectName})
		for _, uid := range t.AssigneeIDs {
			assigneeIDs[uid] = true
		}
	}

	names := make(map[int64]string, len(assigneeIDs))
	if len(assigneeIDs) > 0 {
		ids := make([]int64, 0, len(assigneeIDs))
		for id := range assigneeIDs {
			ids = append(ids, id)
		}
		var assignees []model.User
		if err := d.db.Where("id IN ?", ids).Find(&assignees).Error; err != nil {
			return mailer.DigestData{}, err
		}
		for _, u := range assignees {
			names[u.Id] = u.DisplayName
		}
	}

	return ComputeDigest(now, visible, names), nil
}
