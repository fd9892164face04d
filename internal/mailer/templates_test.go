package mailer

import (
	"strings"
	"testing"
)

func TestTaskAssignedEmail(t *testing.T) {
	subject, html := TaskAssignedEmail("发布v2", "张三", "http://app/tasks/1")
	if subject != "New Task Assigned" {
		t.Errorf("subject = %q, want New Task Assigned", subject)
	}
	for _, want := range []string{"发布v2", "张三", "http://app/tasks/1"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q: %s", want, html)
		}
	}
}

func TestMentionEmailIncludesSnippet(t *testing.T) {
	subject, html := MentionEmail("李四", "发布v2", "这里看一下", "http://app/tasks/1")
	if subject != "You Were Mentioned" {
		t.Errorf("subject = %q, want You Were Mentioned", subject)
	}
	if !strings.Contains(html, "这里看一下") {
		t.Errorf("html missing snippet: %s", html)
	}
}

func TestDailyDigestEmail(t *testing.T) {
	data := DigestData{
		Date:         "2025-03-15",
		TotalTasks:   4,
		CompletedPct: 25,
		OverduePct:   33.3,
		DueSoonCount: 1,
		OverdueCount: 1,
		StatusCounts: map[string]int{"todo": 2, "completed": 1, "blocked": 1},
		Sections: []DigestSection{
			{
				ProjectName: "Alpha",
				Rows: []DigestRow{
					{DisplayName: "张三", Total: 2, Completed: 1, Overdue: 0},
				},
			},
		},
	}

	subject, html := DailyDigestEmail("王五", data)
	if subject != "Daily Digest 2025-03-15" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"王五", "2025-03-15", "Alpha", "张三", "25.0%"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
	// 状态按固定顺序输出
	if strings.Index(html, "todo") > strings.Index(html, "completed") {
		t.Errorf("status order wrong: %s", html)
	}
}
