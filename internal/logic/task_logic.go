package logic

import (
	"errors"
	"time"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/notify"
	"github.com/blues/taskhub/internal/permission"
	"gorm.io/gorm"
)

// TaskLogic 任务业务逻辑
type TaskLogic struct {
	db           *gorm.DB
	projectLogic *ProjectLogic
	userLogic    *UserLogic
	notifier     *notify.Notifier
}

// NewTaskLogic 创建任务业务逻辑
func NewTaskLogic(db *gorm.DB, projectLogic *ProjectLogic, userLogic *UserLogic, notifier *notify.Notifier) *TaskLogic {
	return &TaskLogic{
		db:           db,
		projectLogic: projectLogic,
		userLogic:    userLogic,
		notifier:     notifier,
	}
}

// CreateTaskInput 创建任务请求
type CreateTaskInput struct {
	ProjectID   *int64
	Title       string
	Description string
	Status      model.TaskStatus
	DueDate     string // YYYY-MM-DD，可为空
	AssigneeIDs []int64
	Tags        []string
}

// UpdateTaskInput 更新任务请求，nil字段不更新
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	DueDate     *string // 空字符串表示清除截止日期
	AssigneeIDs *[]int64
	Tags        *[]string
}

// NormalizeAssignees 整理指派人列表：去重保序，创建者不在列表中时放到首位。
// 整理后超过上限直接拒绝，绝不静默截断。
func NormalizeAssignees(creatorID int64, supplied []int64) (model.Int64List, error) {
	result := make(model.Int64List, 0, len(supplied)+1)
	seen := make(map[int64]bool)

	if !contains(supplied, creatorID) {
		result = append(result, creatorID)
		seen[creatorID] = true
	}
	for _, id := range supplied {
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}

	if len(result) > model.MaxAssignees {
		return nil, errs.Validation("指派人不能超过%d个（含创建者）", model.MaxAssignees)
	}
	return result, nil
}

// ValidateTags 校验标签数量并去重保序
func ValidateTags(tags []string) (model.StringList, error) {
	result := make(model.StringList, 0, len(tags))
	seen := make(map[string]bool)
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	if len(result) > model.MaxTags {
		return nil, errs.Validation("标签不能超过%d个", model.MaxTags)
	}
	return result, nil
}

// ParseDueDate 解析截止日期，只接受 YYYY-MM-DD
func ParseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, errs.Validation("截止日期格式应为YYYY-MM-DD")
	}
	return &t, nil
}

func contains(ids []int64, id int64) bool {
	for _, item := range ids {
		if item == id {
			return true
		}
	}
	return false
}

// CreateTask 创建任务。项目内任务要求调用者是项目成员且指派人都是项目成员；
// 独立任务只要求全局可写角色。创建后通知除创建者外的指派人。
func (t *TaskLogic) CreateTask(caller *model.User, input CreateTaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, errs.Validation("任务标题不能为空")
	}

	status := input.Status
	if status == "" {
		status = model.TaskStatusTodo
	}
	if !model.ValidTaskStatus(status) {
		return nil, errs.Validation("无效的任务状态: %s", status)
	}

	dueDate, err := ParseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}
	assignees, err := NormalizeAssignees(caller.Id, input.AssigneeIDs)
	if err != nil {
		return nil, err
	}
	tags, err := ValidateTags(input.Tags)
	if err != nil {
		return nil, err
	}

	if input.ProjectID != nil {
		_, role, err := t.projectLogic.loadWithRole(caller, *input.ProjectID)
		if err != nil {
			return nil, err
		}
		if err := permission.Check(permission.ActionCreateTask, caller.Roles, role); err != nil {
			return nil, err
		}
		for _, userID := range assignees {
			memberRole, err := t.projectLogic.MemberRole(*input.ProjectID, userID)
			if err != nil {
				return nil, err
			}
			if memberRole == permission.ResourceNone {
				return nil, errs.Validation("指派人 %d 不是项目成员", userID)
			}
		}
	} else {
		if err := permission.CheckStandaloneTask(caller.Roles); err != nil {
			return nil, err
		}
	}

	task := model.Task{
		ProjectID:   input.ProjectID,
		CreatorID:   caller.Id,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueDate:     dueDate,
		AssigneeIDs: assignees,
		Tags:        tags,
		Type:        model.TaskTypeActive,
	}
	if err := t.db.Create(&task).Error; err != nil {
		return nil, errs.Upstream(err, "创建任务失败")
	}

	if recipients, err := t.userLogic.GetUsers(assignees); err == nil {
		t.notifier.TaskAssigned(&task, caller, recipients)
	} else {
		logger.Warn("Failed to load assignees of task %d for notification: %v", task.Id, err)
	}

	return &task, nil
}

// ListProjectTasks 项目任务列表
func (t *TaskLogic) ListProjectTasks(caller *model.User, projectID int64, includeArchived bool) ([]model.Task, error) {
	if _, _, err := t.projectLogic.loadWithRole(caller, projectID); err != nil {
		return nil, err
	}

	query := t.db.Where("project_id = ?", projectID)
	if !includeArchived {
		query = query.Where("type <> ?", model.TaskTypeArchived)
	}

	var tasks []model.Task
	if err := query.Order("id").Find(&tasks).Error; err != nil {
		return nil, errs.Upstream(err, "查询任务列表失败")
	}
	return tasks, nil
}

// ListMyTasks 自己创建或被指派的独立任务
func (t *TaskLogic) ListMyTasks(caller *model.User, includeArchived bool) ([]model.Task, error) {
	query := t.db.Where("project_id IS NULL")
	if !includeArchived {
		query = query.Where("type <> ?", model.TaskTypeArchived)
	}

	var tasks []model.Task
	if err := query.Order("id").Find(&tasks).Error; err != nil {
		return nil, errs.Upstream(err, "查询任务列表失败")
	}

	result := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.CreatorID == caller.Id || task.AssigneeIDs.Contains(caller.Id) {
			result = append(result, task)
		}
	}
	return result, nil
}

// GetTask 任务详情，访问不到的任务与不存在的任务同样返回不存在
func (t *TaskLogic) GetTask(caller *model.User, id int64) (*model.Task, error) {
	task, _, err := t.loadWithRole(caller, id)
	return task, err
}

// loadWithRole 加载任务并检查可见性。项目任务要求项目成员或admin；
// 独立任务要求创建者、指派人或admin。
func (t *TaskLogic) loadWithRole(caller *model.User, id int64) (*model.Task, permission.ResourceRole, error) {
	var task model.Task
	if err := t.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, permission.ResourceNone, errs.NotFound("任务不存在")
		}
		return nil, permission.ResourceNone, errs.Upstream(err, "查询任务失败")
	}

	if task.ProjectID != nil {
		_, role, err := t.projectLogic.loadWithRole(caller, *task.ProjectID)
		if err != nil {
			// 项目不可见则任务同样不可见
			return nil, permission.ResourceNone, errs.NotFound("任务不存在")
		}
		return &task, role, nil
	}

	if task.CreatorID == caller.Id || task.AssigneeIDs.Contains(caller.Id) {
		return &task, permission.ResourceMember, nil
	}
	if permission.Check(permission.ActionViewAll, caller.Roles, permission.ResourceNone) == nil {
		return &task, permission.ResourceNone, nil
	}
	return nil, permission.ResourceNone, errs.NotFound("任务不存在")
}

// checkMutate 任务写权限
func (t *TaskLogic) checkMutate(caller *model.User, task *model.Task, role permission.ResourceRole, action permission.Action) error {
	if task.ProjectID != nil {
		return permission.Check(action, caller.Roles, role)
	}
	if task.CreatorID != caller.Id && !task.AssigneeIDs.Contains(caller.Id) {
		return errs.NotFound("任务不存在")
	}
	return permission.CheckStandaloneTask(caller.Roles)
}

// UpdateTask 更新任务。状态变化时通知当前指派人。
func (t *TaskLogic) UpdateTask(caller *model.User, id int64, input UpdateTaskInput) (*model.Task, error) {
	task, role, err := t.loadWithRole(caller, id)
	if err != nil {
		return nil, err
	}
	if err := t.checkMutate(caller, task, role, permission.ActionUpdateTask); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	statusChanged := false

	if input.Title != nil {
		if *input.Title == "" {
			return nil, errs.Validation("任务标题不能为空")
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Status != nil {
		if !model.ValidTaskStatus(*input.Status) {
			return nil, errs.Validation("无效的任务状态: %s", *input.Status)
		}
		if *input.Status != task.Status {
			statusChanged = true
		}
		updates["status"] = *input.Status
	}
	if input.DueDate != nil {
		dueDate, err := ParseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = dueDate
	}
	if input.AssigneeIDs != nil {
		assignees, err := NormalizeAssignees(task.CreatorID, *input.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		if task.ProjectID != nil {
			for _, userID := range assignees {
				memberRole, err := t.projectLogic.MemberRole(*task.ProjectID, userID)
				if err != nil {
					return nil, err
				}
				if memberRole == permission.ResourceNone {
					return nil, errs.Validation("指派人 %d 不是项目成员", userID)
				}
			}
		}
		updates["assignee_ids"] = assignees
	}
	if input.Tags != nil {
		tags, err := ValidateTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = tags
	}

	if len(updates) == 0 {
		return nil, errs.Validation("没有要更新的字段")
	}
	if err := t.db.Model(task).Updates(updates).Error; err != nil {
		return nil, errs.Upstream(err, "更新任务失败")
	}

	if err := t.db.First(task, id).Error; err != nil {
		return nil, errs.Upstream(err, "查询任务失败")
	}

	if statusChanged {
		if recipients, err := t.userLogic.GetUsers(task.AssigneeIDs); err == nil {
			t.notifier.TaskStatusChanged(task, caller, recipients)
		} else {
			logger.Warn("Failed to load assignees of task %d for notification: %v", task.Id, err)
		}
	}

	return task, nil
}

// ArchiveTask 归档任务，重复归档是幂等的成功
func (t *TaskLogic) ArchiveTask(caller *model.User, id int64) error {
	task, role, err := t.loadWithRole(caller, id)
	if err != nil {
		return err
	}
	if err := t.checkMutate(caller, task, role, permission.ActionUpdateTask); err != nil {
		return err
	}

	if task.Type == model.TaskTypeArchived {
		return nil
	}
	if err := t.db.Model(task).Update("type", model.TaskTypeArchived).Error; err != nil {
		return errs.Upstream(err, "归档任务失败")
	}
	return nil
}

// DeleteTask 删除任务。子任务、评论和附件行在一个事务里级联删除。
// 返回被删除附件的对象名，调用方负责清理存储里的文件。
func (t *TaskLogic) DeleteTask(caller *model.User, id int64) ([]string, error) {
	task, role, err := t.loadWithRole(caller, id)
	if err != nil {
		return nil, err
	}
	if err := t.checkMutate(caller, task, role, permission.ActionDeleteTask); err != nil {
		return nil, err
	}

	var objectNames []string
	err = t.db.Transaction(func(tx *gorm.DB) error {
		var subtaskIDs []int64
		if err := tx.Model(&model.SubTask{}).Where("task_id = ?", id).Pluck("id", &subtaskIDs).Error; err != nil {
			return err
		}

		fileQuery := tx.Model(&model.File{}).Where("task_id = ?", id)
		if len(subtaskIDs) > 0 {
			fileQuery = tx.Model(&model.File{}).Where("task_id = ? OR subtask_id IN ?", id, subtaskIDs)
		}
		if err := fileQuery.Pluck("object_name", &objectNames).Error; err != nil {
			return err
		}

		if len(subtaskIDs) > 0 {
			if err := tx.Where("subtask_id IN ?", subtaskIDs).Delete(&model.File{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.SubTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, id).Error
	})
	if err != nil {
		return nil, errs.Upstream(err, "删除任务失败")
	}

	logger.Info("Task %d deleted by user %d", id, caller.Id)
	return objectNames, nil
}
