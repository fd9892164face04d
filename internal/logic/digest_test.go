package logic

import (
	"testing"
	"time"

	"github.com/blues/taskhub/internal/model"
)

func digestTask(projectName string, status model.TaskStatus, due *time.Time, assignees ...int64) DigestTask {
	return DigestTask{
		Task: model.Task{
			Status:      status,
			DueDate:     due,
			AssigneeIDs: model.Int64List(assignees),
		},
		ProjectName: projectName,
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	return &d
}

func TestComputeDigestCounts(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)

	tasks := []DigestTask{
		digestTask("Alpha", model.TaskStatusCompleted, datePtr(2025, 3, 10), 1),
		digestTask("Alpha", model.TaskStatusTodo, datePtr(2025, 3, 12), 1, 2), // 逾期
		digestTask("Alpha", model.TaskStatusInProgress, datePtr(2025, 3, 15), 2), // 今天到期，临近
		digestTask("Alpha", model.TaskStatusBlocked, nil, 1),
	}
	names := map[int64]string{1: "张三", 2: "李四"}

	data := ComputeDigest(now, tasks, names)

	if data.Date != "2025-03-15" {
		t.Errorf("Date = %v, want 2025-03-15", data.Date)
	}
	if data.TotalTasks != 4 {
		t.Errorf("TotalTasks = %v, want 4", data.TotalTasks)
	}
	if data.CompletedPct != 25 {
		t.Errorf("CompletedPct = %v, want 25", data.CompletedPct)
	}
	if data.OverdueCount != 1 {
		t.Errorf("OverdueCount = %v, want 1", data.OverdueCount)
	}
	// 有截止日期的3个里1个逾期
	want := float64(1) * 100 / 3
	if data.OverduePct != want {
		t.Errorf("OverduePct = %v, want %v", data.OverduePct, want)
	}
	if data.DueSoonCount != 1 {
		t.Errorf("DueSoonCount = %v, want 1", data.DueSoonCount)
	}
	if data.StatusCounts["todo"] != 1 || data.StatusCounts["completed"] != 1 {
		t.Errorf("StatusCounts = %v", data.StatusCounts)
	}
}

func TestComputeDigestEmpty(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	data := ComputeDigest(now, nil, nil)

	if data.TotalTasks != 0 {
		t.Errorf("TotalTasks = %v, want 0", data.TotalTasks)
	}
	if data.CompletedPct != 0 {
		t.Errorf("CompletedPct = %v, want 0 (not a division error)", data.CompletedPct)
	}
	if data.OverduePct != 0 {
		t.Errorf("OverduePct = %v, want 0", data.OverduePct)
	}
	if len(data.Sections) != 0 {
		t.Errorf("Sections = %v, want empty", data.Sections)
	}
}

func TestComputeDigestCompletedNeverOverdue(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	tasks := []DigestTask{
		digestTask("Alpha", model.TaskStatusCompleted, datePtr(2025, 3, 1), 1),
	}

	data := ComputeDigest(now, tasks, map[int64]string{1: "张三"})
	if data.OverdueCount != 0 {
		t.Errorf("OverdueCount = %v, want 0: completed tasks are never overdue", data.OverdueCount)
	}
	if data.OverduePct != 0 {
		t.Errorf("OverduePct = %v, want 0", data.OverduePct)
	}
}

func TestComputeDigestDueSoonWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	tests := []struct {
		name string
		due  *time.Time
		want int
	}{
		{"今天", datePtr(2025, 3, 15), 1},
		{"明天", datePtr(2025, 3, 16), 1},
		{"后天已超48小时", datePtr(2025, 3, 17), 0},
		{"一周后", datePtr(2025, 3, 22), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []DigestTask{digestTask("Alpha", model.TaskStatusTodo, tt.due, 1)}
			data := ComputeDigest(now, tasks, nil)
			if data.DueSoonCount != tt.want {
				t.Errorf("DueSoonCount = %v, want %v", data.DueSoonCount, tt.want)
			}
		})
	}
}

func TestComputeDigestSections(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	tasks := []DigestTask{
		digestTask("Beta", model.TaskStatusTodo, nil, 1),
		digestTask("Alpha", model.TaskStatusCompleted, nil, 1, 2),
		digestTask("Alpha", model.TaskStatusTodo, datePtr(2025, 3, 1), 2),
		digestTask("", model.TaskStatusTodo, nil, 1),
	}
	names := map[int64]string{1: "张三", 2: "李四"}

	data := ComputeDigest(now, tasks, names)

	if len(data.Sections) != 3 {
		t.Fatalf("len(Sections) = %v, want 3", len(data.Sections))
	}
	// 项目名排序，独立任务分组名在后
	if data.Sections[0].ProjectName != "Alpha" || data.Sections[1].ProjectName != "Beta" {
		t.Errorf("Sections order = %v, %v", data.Sections[0].ProjectName, data.Sections[1].ProjectName)
	}

	alpha := data.Sections[0]
	if len(alpha.Rows) != 2 {
		t.Fatalf("Alpha rows = %v, want 2", len(alpha.Rows))
	}
	// 李四2个任务（1完成1逾期）排在张三前面
	if alpha.Rows[0].DisplayName != "李四" {
		t.Errorf("Rows[0].DisplayName = %v, want 李四", alpha.Rows[0].DisplayName)
	}
	if alpha.Rows[0].Total != 2 || alpha.Rows[0].Completed != 1 || alpha.Rows[0].Overdue != 1 {
		t.Errorf("李四 row = %+v, want total 2 completed 1 overdue 1", alpha.Rows[0])
	}
	if alpha.Rows[1].DisplayName != "张三" || alpha.Rows[1].Total != 1 {
		t.Errorf("张三 row = %+v", alpha.Rows[1])
	}
}
