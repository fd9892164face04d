package logic

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseMentions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"无提及", "进度正常", nil},
		{"单个提及", "请 @alice 确认", []string{"alice"}},
		{"多个提及保序", "@bob 和 @alice 都看一下", []string{"bob", "alice"}},
		{"大小写去重", "@Alice @alice @ALICE", []string{"Alice"}},
		{"中文用户名", "辛苦 @张三 跟进", []string{"张三"}},
		{"带点和横线", "ping @j.doe-2", []string{"j.doe-2"}},
		{"邮箱域名也会命中", "发到 a@b 邮箱", []string{"b"}},
		{"句尾标点截断", "问一下@alice。", []string{"alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMentions(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMentions(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestMentionSnippet(t *testing.T) {
	short := "短评论"
	if got := MentionSnippet(short); got != short {
		t.Errorf("MentionSnippet(short) = %q, want %q", got, short)
	}

	long := strings.Repeat("长", 150)
	got := MentionSnippet(long)
	if utf8.RuneCountInString(got) != mentionSnippetLen {
		t.Errorf("MentionSnippet(long) length = %d runes, want %d", utf8.RuneCountInString(got), mentionSnippetLen)
	}
	if !utf8.ValidString(got) {
		t.Errorf("MentionSnippet(long) produced invalid UTF-8")
	}

	exact := strings.Repeat("a", mentionSnippetLen)
	if got := MentionSnippet(exact); got != exact {
		t.Errorf("MentionSnippet(exact) = %q, want unchanged", got)
	}
}
