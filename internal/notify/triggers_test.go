package notify

import (
	"testing"

	"github.com/blues/taskhub/internal/model"
)

func fanoutFixture() (*model.Task, *model.User, []model.User) {
	task := &model.Task{Id: 7, Title: "发布v2", Status: model.TaskStatusInProgress}
	actor := &model.User{Id: 1, Email: "a@example.com", DisplayName: "张三"}
	recipients := []model.User{
		{Id: 1, Email: "a@example.com", DisplayName: "张三"},
		{Id: 2, Email: "b@example.com", DisplayName: "李四"},
		{Id: 3, Email: "c@example.com", DisplayName: "王五"},
	}
	return task, actor, recipients
}

func recipientIDs(items []Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.UserID)
	}
	return ids
}

func TestTaskAssignedItemsSkipActor(t *testing.T) {
	task, actor, recipients := fanoutFixture()

	items := taskAssignedItems(task, actor, recipients, "http://app/tasks/7")
	if len(items) != 2 {
		t.Fatalf("len(items) = %v, want 2: %v", len(items), recipientIDs(items))
	}
	for _, item := range items {
		if item.UserID == actor.Id {
			t.Errorf("assigned items include actor %d", actor.Id)
		}
		if item.Type != model.NotificationTaskAssigned {
			t.Errorf("Type = %v, want %v", item.Type, model.NotificationTaskAssigned)
		}
	}
}

// 状态变更通知发给全部当前指派人，操作者自己改状态也会收到记录
func TestStatusChangeItemsIncludeActor(t *testing.T) {
	task, actor, recipients := fanoutFixture()

	items := statusChangeItems(task, actor, recipients, "http://app/tasks/7")
	if len(items) != len(recipients) {
		t.Fatalf("len(items) = %v, want %v: %v", len(items), len(recipients), recipientIDs(items))
	}

	found := false
	for _, item := range items {
		if item.Type != model.NotificationTaskUpdate {
			t.Errorf("Type = %v, want %v", item.Type, model.NotificationTaskUpdate)
		}
		if item.UserID == actor.Id {
			found = true
			if item.Email != actor.Email {
				t.Errorf("actor item Email = %q, want %q", item.Email, actor.Email)
			}
		}
	}
	if !found {
		t.Errorf("status change items missing actor %d: %v", actor.Id, recipientIDs(items))
	}
}

func TestMentionItemsSkipSelfMention(t *testing.T) {
	task, actor, recipients := fanoutFixture()

	items := mentionItems(task, actor, "看一下", recipients, "http://app/tasks/7")
	if len(items) != 2 {
		t.Fatalf("len(items) = %v, want 2: %v", len(items), recipientIDs(items))
	}
	for _, item := range items {
		if item.UserID == actor.Id {
			t.Errorf("mention items include actor %d", actor.Id)
		}
	}
}

func TestDeadlineAndOverdueItemsCoverAllAssignees(t *testing.T) {
	task, _, recipients := fanoutFixture()

	if got := len(deadlineItems(task, recipients, "http://app/tasks/7")); got != len(recipients) {
		t.Errorf("deadline items = %v, want %v", got, len(recipients))
	}
	if got := len(overdueItems(task, recipients, "http://app/tasks/7")); got != len(recipients) {
		t.Errorf("overdue items = %v, want %v", got, len(recipients))
	}
}
