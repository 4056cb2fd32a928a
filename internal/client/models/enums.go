package models

import (
	"fmt"
	"strings"
)

// Role is the access role of a user as sent by the backend.
type Role string

const (
	RoleAdmin    Role = "ROLE_ADMIN"
	RoleEmployee Role = "ROLE_EMPLOYEE"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleEmployee}

// Label is the human name shown in tables and prompts.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleEmployee:
		return "Employee"
	default:
		return string(r)
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// ParseRole accepts the wire name ("ROLE_ADMIN") or the short name ("admin"),
// case-insensitively.
func ParseRole(s string) (Role, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(v, "ROLE_") {
		v = "ROLE_" + v
	}
	r := Role(v)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Department is the organisational unit a user belongs to.
type Department string

const (
	DepartmentIT         Department = "IT"
	DepartmentHR         Department = "HR"
	DepartmentFinance    Department = "FINANCE"
	DepartmentOperations Department = "OPERATIONS"
)

// Departments lists every department in display order.
var Departments = []Department{DepartmentIT, DepartmentHR, DepartmentFinance, DepartmentOperations}

// Label is the human name shown in prompts.
func (d Department) Label() string {
	switch d {
	case DepartmentFinance:
		return "Finance"
	case DepartmentOperations:
		return "Operations"
	default:
		return string(d)
	}
}

func (d Department) Valid() bool {
	for _, v := range Departments {
		if d == v {
			return true
		}
	}
	return false
}

// ParseDepartment matches a department name case-insensitively.
func ParseDepartment(s string) (Department, error) {
	d := Department(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown department %q", s)
	}
	return d, nil
}
