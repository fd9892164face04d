package logic

import (
	"errors"
	"regexp"
	"strings"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/notify"
	"github.com/blues/taskhub/internal/permission"
	"gorm.io/gorm"
)

const mentionSnippetLen = 100

var mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_.-]+)`)

// CommentLogic 评论业务逻辑。评论创建后不可修改，仅作者可删除。
type CommentLogic struct {
	db        *gorm.DB
	taskLogic *TaskLogic
	userLogic *UserLogic
	notifier  *notify.Notifier
}

// NewCommentLogic 创建评论业务逻辑
func NewCommentLogic(db *gorm.DB, taskLogic *TaskLogic, userLogic *UserLogic, notifier *notify.Notifier) *CommentLogic {
	return &CommentLogic{
		db:        db,
		taskLogic: taskLogic,
		userLogic: userLogic,
		notifier:  notifier,
	}
}

// ParseMentions 提取评论里的@提及，去重保序
func ParseMentions(body string) []string {
	matches := mentionPattern.FindAllStringSubmatch(body, -1)
	seen := make(map[string]bool)
	var names []string
	for _, match := range matches {
		name := match[1]
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// MentionSnippet 评论前100个字符，按字符数而不是字节数截断
func MentionSnippet(body string) string {
	runes := []rune(body)
	if len(runes) <= mentionSnippetLen {
		return body
	}
	return string(runes[:mentionSnippetLen])
}

// CreateComment 创建评论。只支持一层回复，父评论必须属于同一任务且自身是顶层评论。
// 评论里@到的用户收到提及通知。
func (c *CommentLogic) CreateComment(caller *model.User, taskID int64, body string, parentCommentID *int64) (*model.Comment, error) {
	task, role, err := c.taskLogic.loadWithRole(caller, taskID)
	if err != nil {
		return nil, err
	}
	if err := c.taskLogic.checkMutate(caller, task, role, permission.ActionUpdateTask); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, errs.Validation("评论内容不能为空")
	}

	if parentCommentID != nil {
		var parent model.Comment
		if err := c.db.First(&parent, *parentCommentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.NotFound("父评论不存在")
			}
			return nil, errs.Upstream(err, "查询父评论失败")
		}
		if parent.TaskID != taskID {
			return nil, errs.Validation("父评论不属于该任务")
		}
		if parent.ParentCommentID != nil {
			return nil, errs.Validation("只支持一层回复")
		}
	}

	comment := model.Comment{
		TaskID:          taskID,
		AuthorID:        caller.Id,
		ParentCommentID: parentCommentID,
		Body:            body,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		return nil, errs.Upstream(err, "创建评论失败")
	}

	c.notifyMentions(caller, task, body)

	return &comment, nil
}

// notifyMentions 解析@提及，按显示名匹配有任务访问权的用户并通知
func (c *CommentLogic) notifyMentions(caller *model.User, task *model.Task, body string) {
	names := ParseMentions(body)
	if len(names) == 0 {
		return
	}

	candidates, err := c.mentionCandidates(task)
	if err != nil {
		logger.Warn("Failed to load mention candidates for task %d: %v", task.Id, err)
		return
	}

	byName := make(map[string]model.User, len(candidates))
	for _, user := range candidates {
		byName[strings.ToLower(user.DisplayName)] = user
	}

	var recipients []model.User
	for _, name := range names {
		if user, ok := byName[strings.ToLower(name)]; ok {
			recipients = append(recipients, user)
		}
	}
	if len(recipients) == 0 {
		return
	}

	c.notifier.Mention(task, caller, MentionSnippet(body), recipients)
}

// mentionCandidates 可被提及的用户：项目任务是项目全体成员，独立任务是指派人
func (c *CommentLogic) mentionCandidates(task *model.Task) ([]model.User, error) {
	if task.ProjectID == nil {
		return c.userLogic.GetUsers(task.AssigneeIDs)
	}

	var userIDs []int64
	if err := c.db.Model(&model.ProjectMember{}).
		Where("project_id = ?", *task.ProjectID).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return c.userLogic.GetUsers(userIDs)
}

// ListComments 任务的评论列表，按创建顺序
func (c *CommentLogic) ListComments(caller *model.User, taskID int64) ([]model.Comment, error) {
	if _, _, err := c.taskLogic.loadWithRole(caller, taskID); err != nil {
		return nil, err
	}

	var comments []model.Comment
	if err := c.db.Where("task_id = ?", taskID).Order("id").Find(&comments).Error; err != nil {
		return nil, errs.Upstream(err, "查询评论列表失败")
	}
	return comments, nil
}

// DeleteComment 删除评论，仅作者可删，回复一并删除
func (c *CommentLogic) DeleteComment(caller *model.User, id int64) error {
	var comment model.Comment
	if err := c.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("评论不存在")
		}
		return errs.Upstream(err, "查询评论失败")
	}

	if comment.AuthorID != caller.Id {
		return errs.PermissionDenied("只有评论作者才能删除评论")
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_comment_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Comment{}, id).Error
	})
	if err != nil {
		return errs.Upstream(err, "删除评论失败")
	}
	return nil
}
