package workflow

import (
	"fmt"
	"time"

	"docflow/internal/model"
)

// Assignee is the approver routed to a level when a request is created.
type Assignee struct {
	ID   string
	Name string
}

// InitialLevels builds the approval rows for a new request. Only levels with an
// assignee get a row; L1 starts Pending and every other level NotStarted, so a
// department without an L1 approver produces a request with no active gate.
func InitialLevels(requestID string, assignees map[model.Level]Assignee, now time.Time) []model.ApprovalLevel {
	out := make([]model.ApprovalLevel, 0, len(model.Levels))
	for _, lvl := range model.Levels {
		a, ok := assignees[lvl]
		if !ok || a.ID == "" {
			continue
		}
		status := model.LevelNotStarted
		if lvl == model.LevelL1 {
			status = model.LevelPending
		}
		out = append(out, model.ApprovalLevel{
			RequestID:            requestID,
			Level:                lvl,
			LevelStatus:          status,
			AssignedApproverID:   a.ID,
			AssignedApproverName: a.Name,
			Version:              1,
			Created:              now.UTC(),
		})
	}
	return out
}

// HasActiveGate reports whether some level is Pending.
func HasActiveGate(levels []model.ApprovalLevel) bool {
	for _, l := range levels {
		if l.LevelStatus == model.LevelPending {
			return true
		}
	}
	return false
}

// Timeline orders levels ascending and pads gaps up to the highest configured level
// with NotStarted placeholders. Levels after a Pending or Rejected level are reported
// NotStarted.
func Timeline(levels []model.ApprovalLevel) []model.ApprovalLevel {
	ladder := sortedLevels(levels)
	if len(ladder) == 0 {
		return []model.ApprovalLevel{}
	}

	byOrdinal := make(map[int]model.ApprovalLevel, len(ladder))
	for _, l := range ladder {
		byOrdinal[l.Level.Ordinal()] = l
	}
	highest := ladder[len(ladder)-1].Level.Ordinal()

	out := make([]model.ApprovalLevel, 0, highest)
	blocked := false
	for n := 1; n <= highest; n++ {
		lvl, _ := model.LevelFromOrdinal(n)
		existing, ok := byOrdinal[n]
		if !ok {
			requestID := ladder[0].RequestID
			out = append(out, model.ApprovalLevel{
				ID:          fmt.Sprintf("placeholder-%d", n),
				RequestID:   requestID,
				Level:       lvl,
				LevelStatus: model.LevelNotStarted,
			})
			continue
		}
		if blocked {
			existing.LevelStatus = model.LevelNotStarted
		}
		if existing.LevelStatus == model.LevelPending || existing.LevelStatus == model.LevelRejected {
			blocked = true
		}
		out = append(out, existing)
	}
	return out
}
