package logic

import (
	"errors"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/permission"
	"gorm.io/gorm"
)

// SubTaskLogic 子任务业务逻辑。可见性与写权限都跟随父任务。
type SubTaskLogic struct {
	db        *gorm.DB
	taskLogic *TaskLogic
}

// NewSubTaskLogic 创建子任务业务逻辑
func NewSubTaskLogic(db *gorm.DB, taskLogic *TaskLogic) *SubTaskLogic {
	return &SubTaskLogic{db: db, taskLogic: taskLogic}
}

// CreateSubTaskInput 创建子任务请求
type CreateSubTaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	DueDate     string
	AssigneeIDs []int64
	Tags        []string
}

// CreateSubTask 在父任务下创建子任务，约束与父任务一致
func (s *SubTaskLogic) CreateSubTask(caller *model.User, taskID int64, input CreateSubTaskInput) (*model.SubTask, error) {
	task, role, err := s.taskLogic.loadWithRole(caller, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskLogic.checkMutate(caller, task, role, permission.ActionUpdateTask); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, errs.Validation("子任务标题不能为空")
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

	subtask := model.SubTask{
		TaskID:      taskID,
		CreatorID:   caller.Id,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueDate:     dueDate,
		AssigneeIDs: assignees,
		Tags:        tags,
	}
	if err := s.db.Create(&subtask).Error; err != nil {
		return nil, errs.Upstream(err, "创建子任务失败")
	}
	return &subtask, nil
}

// ListSubTasks 父任务下的子任务列表
func (s *SubTaskLogic) ListSubTasks(caller *model.User, taskID int64) ([]model.SubTask, error) {
	if _, _, err := s.taskLogic.loadWithRole(caller, taskID); err != nil {
		return nil, err
	}

	var subtasks []model.SubTask
	if err := s.db.Where("task_id = ?", taskID).Order("id").Find(&subtasks).Error; err != nil {
		return nil, errs.Upstream(err, "查询子任务列表失败")
	}
	return subtasks, nil
}

// GetSubTask 子任务详情
func (s *SubTaskLogic) GetSubTask(caller *model.User, id int64) (*model.SubTask, error) {
	subtask, _, _, err := s.load(caller, id)
	return subtask, err
}

func (s *SubTaskLogic) load(caller *model.User, id int64) (*model.SubTask, *model.Task, permission.ResourceRole, error) {
	var subtask model.SubTask
	if err := s.db.First(&subtask, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, permission.ResourceNone, errs.NotFound("子任务不存在")
		}
		return nil, nil, permission.ResourceNone, errs.Upstream(err, "查询子任务失败")
	}

	task, role, err := s.taskLogic.loadWithRole(caller, subtask.TaskID)
	if err != nil {
		return nil, nil, permission.ResourceNone, errs.NotFound("子任务不存在")
	}
	return &subtask, task, role, nil
}

// UpdateSubTask 更新子任务
func (s *SubTaskLogic) UpdateSubTask(caller *model.User, id int64, input UpdateTaskInput) (*model.SubTask, error) {
	subtask, task, role, err := s.load(caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.taskLogic.checkMutate(caller, task, role, permission.ActionUpdateTask); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Title != nil {
		if *input.Title == "" {
			return nil, errs.Validation("子任务标题不能为空")
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
		assignees, err := NormalizeAssignees(subtask.CreatorID, *input.AssigneeIDs)
		if err != nil {
			return nil, err
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
	if err := s.db.Model(subtask).Updates(updates).Error; err != nil {
		return nil, errs.Upstream(err, "更新子任务失败")
	}
	if err := s.db.First(subtask, id).Error; err != nil {
		return nil, errs.Upstream(err, "查询子任务失败")
	}
	return subtask, nil
}

// DeleteSubTask 删除子任务，附件行一并删除。
// 返回被删除附件的对象名，调用方负责清理存储里的文件。
func (s *SubTaskLogic) DeleteSubTask(caller *model.User, id int64) ([]string, error) {
	subtask, task, role, err := s.load(caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.taskLogic.checkMutate(caller, task, role, permission.ActionDeleteTask); err != nil {
		return nil, err
	}

	var objectNames []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.File{}).Where("subtask_id = ?", id).Pluck("object_name", &objectNames).Error; err != nil {
			return err
		}
		if err := tx.Where("subtask_id = ?", id).Delete(&model.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.SubTask{}, subtask.Id).Error
	})
	if err != nil {
		return nil, errs.Upstream(err, "删除子任务失败")
	}
	return objectNames, nil
}
