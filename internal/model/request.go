package model

import (
	"fmt"
	"time"
)

// RequestStatus is the aggregate state of a submitted document.
type RequestStatus string

const (
	RequestInProgress RequestStatus = "InProgress"
	RequestCompleted  RequestStatus = "Completed"
	RequestRejected   RequestStatus = "Rejected"
)

// Terminal reports whether no further decisions may be recorded.
func (s RequestStatus) Terminal() bool {
	return s == RequestCompleted || s == RequestRejected
}

// LevelStatus is the state of one approval level.
type LevelStatus string

const (
	LevelNotStarted LevelStatus = "NotStarted"
	LevelPending    LevelStatus = "Pending"
	LevelApproved   LevelStatus = "Approved"
	LevelRejected   LevelStatus = "Rejected"
)

// Summary labels stored in Request.LevelStatus.
const AllApproved = "All Approved"

// PendingSummary renders the active gate label, e.g. "L2 Pending".
func PendingSummary(l Level) string { return fmt.Sprintf("%s Pending", l) }

// RejectedSummary renders the rejection label, e.g. "L1 Rejected".
func RejectedSummary(l Level) string { return fmt.Sprintf("%s Rejected", l) }

// Request is one submitted document moving through approval.
// Version is the optimistic concurrency token; every update increments it.
type Request struct {
	RequestID      string        `json:"request_id"`
	FolderURL      string        `json:"folder_url"`
	Status         RequestStatus `json:"status"`
	LevelStatus    string        `json:"level_status"`
	RequesterName  string        `json:"requester_name"`
	RequesterEmail string        `json:"requester_email"`
	Department     string        `json:"department"`
	RenewalDate    time.Time     `json:"renewal_date"`
	Version        int           `json:"version"`
	Created        time.Time     `json:"created"`
}

// ApprovalLevel is the per-level record owned by a Request.
type ApprovalLevel struct {
	ID                   string      `json:"id"`
	RequestID            string      `json:"request_id"`
	Level                Level       `json:"level"`
	LevelStatus          LevelStatus `json:"level_status"`
	AssignedApproverID   string      `json:"assigned_approver_id"`
	AssignedApproverName string      `json:"assigned_approver_name"`
	ActingApproverID     string      `json:"acting_approver_id,omitempty"`
	ActingApproverName   string      `json:"acting_approver_name,omitempty"`
	DecidedAt            *time.Time  `json:"decided_at,omitempty"`
	Comments             string      `json:"comments,omitempty"`
	Version              int         `json:"version"`
	Created              time.Time   `json:"created"`
}

// Assignment pairs a request with one of its approval levels.
type Assignment struct {
	Request Request
	Level   ApprovalLevel
}

// RequestWithLevels is a request together with its ordered approval levels.
type RequestWithLevels struct {
	Request
	ApprovalLevels []ApprovalLevel `json:"approval_levels"`
}
