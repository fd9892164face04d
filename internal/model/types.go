package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Role 全局角色
type Role string

const (
	RoleAdmin   Role = "admin"   // 管理员（仅提升读权限）
	RoleManager Role = "manager" // 管理者
	RoleStaff   Role = "staff"   // 普通员工
)

// RoleSet 角色集合，存储为逗号分隔字符串
type RoleSet []Role

// Has 是否包含指定角色
func (r RoleSet) Has(role Role) bool {
	for _, item := range r {
		if item == role {
			return true
		}
	}
	return false
}

// OnlyAdmin 是否只持有admin角色
func (r RoleSet) OnlyAdmin() bool {
	return len(r) == 1 && r[0] == RoleAdmin
}

// OnlyStaff 是否只持有staff角色
func (r RoleSet) OnlyStaff() bool {
	return len(r) == 1 && r[0] == RoleStaff
}

func (r RoleSet) Value() (driver.Value, error) {
	parts := make([]string, 0, len(r))
	for _, item := range r {
		parts = append(parts, string(item))
	}
	return strings.Join(parts, ","), nil
}

func (r *RoleSet) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*r = nil
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*r = append(*r, Role(part))
		}
	}
	return nil
}

// StringList 字符串列表，存储为逗号分隔字符串
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *StringList) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*l = nil
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// Int64List 整数ID列表，存储为逗号分隔字符串，保持顺序
type Int64List []int64

// Contains 是否包含指定ID
func (l Int64List) Contains(id int64) bool {
	for _, item := range l {
		if item == id {
			return true
		}
	}
	return false
}

func (l Int64List) Value() (driver.Value, error) {
	parts := make([]string, 0, len(l))
	for _, item := range l {
		parts = append(parts, strconv.FormatInt(item, 10))
	}
	return strings.Join(parts, ","), nil
}

func (l *Int64List) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*l = nil
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id list element %q: %w", part, err)
		}
		*l = append(*l, id)
	}
	return nil
}

func scanString(src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported column type %T", src)
	}
}
