package mailer

import (
	"fmt"
	"strings"
)

// 邮件模板。正文统一是简单的HTML片段，链接指向前端页面。

// TaskAssignedEmail 任务指派邮件
func TaskAssignedEmail(taskTitle, actorName, link string) (subject, html string) {
	subject = "New Task Assigned"
	html = fmt.Sprintf(
		`<p>%s 给你指派了新任务：</p>`+
			`<p><b>%s</b></p>`+
			`<p><a href="%s">查看任务</a></p>`,
		actorName, taskTitle, link,
	)
	return subject, html
}

// TaskStatusUpdatedEmail 任务状态变更邮件
func TaskStatusUpdatedEmail(taskTitle, status, actorName, link string) (subject, html string) {
	subject = "Task Status Updated"
	html = fmt.Sprintf(
		`<p>%s 将任务 <b>%s</b> 的状态更新为 <b>%s</b>。</p>`+
			`<p><a href="%s">查看任务</a></p>`,
		actorName, taskTitle, status, link,
	)
	return subject, html
}

// MentionEmail 评论提及邮件，snippet为评论前100个字符
func MentionEmail(actorName, taskTitle, snippet, link string) (subject, html string) {
	subject = "You Were Mentioned"
	html = fmt.Sprintf(
		`<p>%s 在任务 <b>%s</b> 的评论中提到了你：</p>`+
			`<blockquote>%s</blockquote>`+
			`<p><a href="%s">查看评论</a></p>`,
		actorName, taskTitle, snippet, link,
	)
	return subject, html
}

// DeadlineReminderEmail 截止提醒邮件
func DeadlineReminderEmail(taskTitle, dueDate, link string) (subject, html string) {
	subject = "Deadline Reminder"
	html = fmt.Sprintf(
		`<p>任务 <b>%s</b> 将于 %s 到期。</p>`+
			`<p><a href="%s">查看任务</a></p>`,
		taskTitle, dueDate, link,
	)
	return subject, html
}

// OverdueEmail 任务逾期邮件
func OverdueEmail(taskTitle, dueDate, link string) (subject, html string) {
	subject = "Task Overdue"
	html = fmt.Sprintf(
		`<p>任务 <b>%s</b> 已于 %s 逾期，请尽快处理。</p>`+
			`<p><a href="%s">查看任务</a></p>`,
		taskTitle, dueDate, link,
	)
	return subject, html
}

// DigestData 每日汇总邮件的数据
type DigestData struct {
	Date          string // YYYY-MM-DD
	TotalTasks    int
	CompletedPct  float64 // 完成百分比，total为0时为0
	OverduePct    float64 // 逾期百分比，只统计有截止日期的任务
	DueSoonCount  int     // 未来48小时内到期
	OverdueCount  int
	StatusCounts  map[string]int
	Sections      []DigestSection
}

// DigestSection 按项目分组的人员明细
type DigestSection struct {
	ProjectName string
	Rows        []DigestRow
}

// DigestRow 单人统计
type DigestRow struct {
	DisplayName string
	Total       int
	Completed   int
	Overdue     int
}

// DailyDigestEmail 每日汇总邮件
func DailyDigestEmail(displayName string, data DigestData) (subject, html string) {
	subject = fmt.Sprintf("Daily Digest %s", data.Date)

	var b strings.Builder
	fmt.Fprintf(&b, `<p>%s，这是 %s 的任务汇总：</p>`, displayName, data.Date)
	fmt.Fprintf(&b, `<ul>`)
	fmt.Fprintf(&b, `<li>任务总数：%d</li>`, data.TotalTasks)
	fmt.Fprintf(&b, `<li>完成率：%.1f%%</li>`, data.CompletedPct)
	fmt.Fprintf(&b, `<li>逾期率（有截止日期的任务）：%.1f%%</li>`, data.OverduePct)
	fmt.Fprintf(&b, `<li>48小时内到期：%d</li>`, data.DueSoonCount)
	fmt.Fprintf(&b, `<li>已逾期：%d</li>`, data.OverdueCount)
	fmt.Fprintf(&b, `</ul>`)

	if len(data.StatusCounts) > 0 {
		fmt.Fprintf(&b, `<p>按状态：</p><ul>`)
		for _, status := range []string{"todo", "in_progress", "completed", "blocked"} {
			if count, ok := data.StatusCounts[status]; ok {
				fmt.Fprintf(&b, `<li>%s：%d</li>`, status, count)
			}
		}
		fmt.Fprintf(&b, `</ul>`)
	}

	for _, section := range data.Sections {
		fmt.Fprintf(&b, `<p><b>%s</b></p>`, section.ProjectName)
		fmt.Fprintf(&b, `<table border="1" cellpadding="4" cellspacing="0">`)
		fmt.Fprintf(&b, `<tr><th>成员</th><th>任务数</th><th>已完成</th><th>逾期</th></tr>`)
		for _, row := range section.Rows {
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>`,
				row.DisplayName, row.Total, row.Completed, row.Overdue)
		}
		fmt.Fprintf(&b, `</table>`)
	}

	return subject, b.String()
}
