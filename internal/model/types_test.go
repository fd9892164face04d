package model

import (
	"reflect"
	"testing"
)

func TestRoleSetValueScan(t *testing.T) {
	roles := RoleSet{RoleAdmin, RoleStaff}
	v, err := roles.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != "admin,staff" {
		t.Errorf("Value() = %v, want admin,staff", v)
	}

	var got RoleSet
	if err := got.Scan(v); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !reflect.DeepEqual(got, roles) {
		t.Errorf("Scan() = %v, want %v", got, roles)
	}
}

func TestRoleSetScanEmpty(t *testing.T) {
	var got RoleSet
	if err := got.Scan(""); err != nil {
		t.Fatalf("Scan(\"\") error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Scan(\"\") = %v, want empty", got)
	}
	if err := got.Scan(nil); err != nil {
		t.Errorf("Scan(nil) error = %v", err)
	}
}

func TestRoleSetHas(t *testing.T) {
	roles := RoleSet{RoleAdmin, RoleManager}
	if !roles.Has(RoleManager) {
		t.Errorf("Has(manager) = false, want true")
	}
	if roles.Has(RoleStaff) {
		t.Errorf("Has(staff) = true, want false")
	}
	if roles.OnlyAdmin() {
		t.Errorf("OnlyAdmin() = true for admin+manager, want false")
	}
	if !(RoleSet{RoleAdmin}).OnlyAdmin() {
		t.Errorf("OnlyAdmin() = false for {admin}, want true")
	}
}

func TestInt64ListValueScan(t *testing.T) {
	// 顺序必须保持：指派人列表首位是创建者
	list := Int64List{7, 3, 5}
	v, err := list.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != "7,3,5" {
		t.Errorf("Value() = %v, want 7,3,5", v)
	}

	var got Int64List
	if err := got.Scan([]byte("7,3,5")); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !reflect.DeepEqual(got, list) {
		t.Errorf("Scan() = %v, want %v", got, list)
	}
	if !got.Contains(3) || got.Contains(4) {
		t.Errorf("Contains: got.Contains(3)=%v got.Contains(4)=%v", got.Contains(3), got.Contains(4))
	}
}

func TestInt64ListScanInvalid(t *testing.T) {
	var got Int64List
	if err := got.Scan("1,x,3"); err == nil {
		t.Errorf("Scan(\"1,x,3\") error = nil, want parse error")
	}
}

func TestStringListValueScan(t *testing.T) {
	tags := StringList{"urgent", "backend"}
	v, err := tags.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	var got StringList
	if err := got.Scan(v); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !reflect.DeepEqual(got, tags) {
		t.Errorf("Scan() = %v, want %v", got, tags)
	}
}
