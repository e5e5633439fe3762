package model

import (
	"sort"
	"time"
)

// User is the caller identity supplied by the identity collaborator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AccessGrant authorizes an approver to act at one level for one department.
type AccessGrant struct {
	ID            string    `json:"id"`
	ApproverID    string    `json:"approver_id"`
	ApproverName  string    `json:"approver_name"`
	ApproverEmail string    `json:"approver_email"`
	Department    string    `json:"department"`
	Level         Level     `json:"level"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// AccessMap maps a department to the levels an identity may decide.
type AccessMap map[string][]Level

// Allows reports whether the map grants level for department.
func (m AccessMap) Allows(department string, level Level) bool {
	for _, l := range m[department] {
		if l == level {
			return true
		}
	}
	return false
}

// Empty reports whether the identity is not an approver at all.
func (m AccessMap) Empty() bool { return len(m) == 0 }

// Add records a grant, keeping levels unique and ascending.
func (m AccessMap) Add(department string, level Level) {
	if m.Allows(department, level) {
		return
	}
	levels := append(m[department], level)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Ordinal() < levels[j].Ordinal() })
	m[department] = levels
}
