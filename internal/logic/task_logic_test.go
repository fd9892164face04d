package logic

import (
	"reflect"
	"testing"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/model"
)

func TestNormalizeAssignees(t *testing.T) {
	tests := []struct {
		name      string
		creatorID int64
		supplied  []int64
		want      model.Int64List
		wantErr   bool
	}{
		{"空列表只有创建者", 1, nil, model.Int64List{1}, false},
		{"创建者补到首位", 1, []int64{2, 3}, model.Int64List{1, 2, 3}, false},
		{"创建者已在列表保序", 1, []int64{3, 1, 2}, model.Int64List{3, 1, 2}, false},
		{"去重", 1, []int64{2, 2, 3, 3}, model.Int64List{1, 2, 3}, false},
		{"刚好到上限", 1, []int64{2, 3, 4, 5}, model.Int64List{1, 2, 3, 4, 5}, false},
		{"含创建者超限拒绝", 1, []int64{2, 3, 4, 5, 6}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAssignees(tt.creatorID, tt.supplied)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeAssignees() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if errs.CodeOf(err) != errs.CodeValidation {
					t.Errorf("CodeOf(err) = %v, want %v", errs.CodeOf(err), errs.CodeValidation)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeAssignees() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		want    model.StringList
		wantErr bool
	}{
		{"空列表", nil, model.StringList{}, false},
		{"去重跳过空串", []string{"a", "", "a", "b"}, model.StringList{"a", "b"}, false},
		{"刚好到上限", []string{"a", "b", "c", "d", "e"}, model.StringList{"a", "b", "c", "d", "e"}, false},
		{"超限拒绝", []string{"a", "b", "c", "d", "e", "f"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTags(tt.tags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateTags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2025-03-15")
	if err != nil {
		t.Fatalf("ParseDueDate() error = %v", err)
	}
	if got == nil || got.Format("2006-01-02") != "2025-03-15" {
		t.Errorf("ParseDueDate() = %v, want 2025-03-15", got)
	}

	got, err = ParseDueDate("")
	if err != nil || got != nil {
		t.Errorf("ParseDueDate(\"\") = %v, %v, want nil, nil", got, err)
	}

	for _, bad := range []string{"2025/03/15", "15-03-2025", "2025-13-40", "tomorrow"} {
		if _, err := ParseDueDate(bad); err == nil {
			t.Errorf("ParseDueDate(%q) error = nil, want validation error", bad)
		}
	}
}
