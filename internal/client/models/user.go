package models

import (
	"strings"
	"time"
)

// DefaultProfileURL is assigned to records created locally before the server
// has answered.
const DefaultProfileURL = "/UserImg.png"

// User is one record of the directory.
//
// ID and Email are stable for the life of the record; Email is the routing
// key for updates. CreatedAt is set once by the server; UpdatedAt stays nil
// until the first successful update.
type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Role       Role       `json:"roles"`
	Department Department `json:"department"`
	CreatedAt  Timestamp  `json:"createdAt"`
	UpdatedAt  *Timestamp `json:"updatedAt"`
	ProfileURL string     `json:"profileUrl,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Draft returns the editable part of u.
func (u User) Draft() Draft {
	return Draft{
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		Department: u.Department,
	}
}

// Apply copies the non-nil fields of p into u and stamps UpdatedAt.
// ID, Email and CreatedAt are never touched.
func (u *User) Apply(p Patch, at time.Time) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.ProfileURL != nil {
		u.ProfileURL = *p.ProfileURL
	}
	ts := NewTimestamp(at)
	u.UpdatedAt = &ts
}

// Draft is a candidate user without server-assigned fields, as filled in by
// the create/edit form.
type Draft struct {
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Role       Role       `json:"roles"`
	Department Department `json:"department"`
}

// NewDraft returns an empty draft with the form defaults.
func NewDraft() Draft {
	return Draft{Role: RoleEmployee, Department: DepartmentIT}
}

// Patch turns the draft into a full update payload. Email is left out.
func (d Draft) Patch() Patch {
	first, last := d.FirstName, d.LastName
	role, dept := d.Role, d.Department
	return Patch{FirstName: &first, LastName: &last, Role: &role, Department: &dept}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	FirstName  *string     `json:"firstName,omitempty"`
	LastName   *string     `json:"lastName,omitempty"`
	Role       *Role       `json:"roles,omitempty"`
	Department *Department `json:"department,omitempty"`
	ProfileURL *string     `json:"profileUrl,omitempty"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the answer to a successful login.
type LoginResponse struct {
	Token string   `json:"token"`
	Roles []string `json:"role"`
}

// HasRole reports whether the login granted role.
func (r LoginResponse) HasRole(role string) bool {
	for _, v := range r.Roles {
		if v == role {
			return true
		}
	}
	return false
}
