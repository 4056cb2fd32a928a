package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DecodeBackendPayload(t *testing.T) {
	payload := `{
		"id": 7,
		"email": "ann@corp.io",
		"firstName": "Ann",
		"lastName": "Lee",
		"roles": "ROLE_ADMIN",
		"department": "FINANCE",
		"createdAt": "2024-03-01T09:30:00",
		"updatedAt": null
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(payload), &u))

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, DepartmentFinance, u.Department)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), u.CreatedAt.Time)
	assert.Nil(t, u.UpdatedAt)
	assert.Equal(t, "Ann Lee", u.FullName())
}

func TestTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: `"2024-03-01T09:30:00Z"`, want: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{in: `"2024-03-01T11:30:00+02:00"`, want: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{in: `"2024-03-01T09:30:00.123456"`, want: time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)},
		{in: `"2024-03-01 09:30:00"`, want: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{in: `"yesterday"`, wantErr: true},
		{in: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.in), &ts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestUser_ApplyPreservesIdentity(t *testing.T) {
	created := NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	u := User{ID: 1, Email: "a@x.com", FirstName: "A", LastName: "B", Role: RoleEmployee, Department: DepartmentIT, CreatedAt: created}

	first := "Alice"
	dept := DepartmentHR
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	u.Apply(Patch{FirstName: &first, Department: &dept}, now)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, created, u.CreatedAt)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "B", u.LastName)
	assert.Equal(t, DepartmentHR, u.Department)
	assert.Equal(t, RoleEmployee, u.Role)
	require.NotNil(t, u.UpdatedAt)
	assert.True(t, now.Equal(u.UpdatedAt.Time))
}

func TestDraft_PatchOmitsEmail(t *testing.T) {
	d := Draft{Email: "a@x.com", FirstName: "A", LastName: "B", Role: RoleAdmin, Department: DepartmentHR}

	b, err := json.Marshal(d.Patch())
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"A","lastName":"B","roles":"ROLE_ADMIN","department":"HR"}`, string(b))
}

func TestNewDraft_Defaults(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, RoleEmployee, d.Role)
	assert.Equal(t, DepartmentIT, d.Department)
	assert.Empty(t, d.Email)
}

func TestParseRoleAndDepartment(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("ROLE_EMPLOYEE")
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, r)

	_, err = ParseRole("root")
	require.Error(t, err)

	d, err := ParseDepartment(" finance ")
	require.NoError(t, err)
	assert.Equal(t, DepartmentFinance, d)

	_, err = ParseDepartment("legal")
	require.Error(t, err)
}

func TestLoginResponse_HasRole(t *testing.T) {
	var resp LoginResponse
	require.NoError(t, json.Unmarshal([]byte(`{"token":"t","role":["ROLE_EMPLOYEE","ROLE_ADMIN"]}`), &resp))
	assert.True(t, resp.HasRole("ROLE_ADMIN"))
	assert.False(t, LoginResponse{Roles: []string{"ROLE_EMPLOYEE"}}.HasRole("ROLE_ADMIN"))
}
