// Package workflow holds the storage-independent approval rules: the decision
// transition, the initial ladder, timeline padding and the library status projection.
package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"docflow/internal/model"
)

// Action is what an approver decides at a level.
type Action string

const (
	ActionApprove Action = "Approve"
	ActionReject  Action = "Reject"
)

// ParseAction accepts "approve"/"reject" in any case.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve":
		return ActionApprove, nil
	case "reject":
		return ActionReject, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
}

// Decision is one approver's verdict on one level.
type Decision struct {
	Level        model.Level
	Action       Action
	ApproverID   string
	ApproverName string
	Comments     string
	At           time.Time
}

// LevelChange is a write to one approval level, conditioned on the row as it was read.
type LevelChange struct {
	Before       model.ApprovalLevel
	After        model.ApprovalLevel
	AutoApproved bool
}

// Cascade is the complete set of mutations produced by one decision.
// Request carries the version that was read; stores apply it as a compare-and-swap.
type Cascade struct {
	Request       model.Request
	Levels        []LevelChange
	LibraryStatus string
}

// AutoApprovals counts levels approved through the same-approver shortcut.
func (c *Cascade) AutoApprovals() int {
	n := 0
	for _, ch := range c.Levels {
		if ch.AutoApproved {
			n++
		}
	}
	return n
}

// Plan computes the cascade for d against the current request and its level rows.
// It performs no I/O; levels may be passed in any order.
func Plan(req model.Request, levels []model.ApprovalLevel, d Decision) (*Cascade, error) {
	if !d.Level.Valid() {
		return nil, fmt.Errorf("%w: unknown level %q", ErrInvalidInput, d.Level)
	}
	if d.Action != ActionApprove && d.Action != ActionReject {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, d.Action)
	}

	ladder := sortedLevels(levels)
	idx := -1
	for i, l := range ladder {
		if l.Level == d.Level {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: no %s level for request %s", ErrNotFound, d.Level, req.RequestID)
	}
	if req.Status.Terminal() {
		return nil, fmt.Errorf("%w: request %s is %s", ErrInvalidState, req.RequestID, req.Status)
	}
	if ladder[idx].LevelStatus != model.LevelPending {
		return nil, fmt.Errorf("%w: %s of %s is %s, not %s",
			ErrInvalidState, d.Level, req.RequestID, ladder[idx].LevelStatus, model.LevelPending)
	}
	if d.Action == ActionReject && strings.TrimSpace(d.Comments) == "" {
		return nil, fmt.Errorf("%w: comments are required to reject", ErrInvalidInput)
	}

	c := &Cascade{Request: req}
	at := d.At.UTC()

	current := ladder[idx]
	current.ActingApproverID = d.ApproverID
	current.ActingApproverName = d.ApproverName
	current.DecidedAt = &at
	current.Comments = d.Comments

	switch d.Action {
	case ActionReject:
		current.LevelStatus = model.LevelRejected
		c.Levels = append(c.Levels, LevelChange{Before: ladder[idx], After: current})
		c.Request.Status = model.RequestRejected
		c.Request.LevelStatus = model.RejectedSummary(d.Level)
		for _, tail := range ladder[idx+1:] {
			if tail.LevelStatus == model.LevelNotStarted {
				continue
			}
			frozen := tail
			frozen.LevelStatus = model.LevelNotStarted
			c.Levels = append(c.Levels, LevelChange{Before: tail, After: frozen})
		}

	case ActionApprove:
		current.LevelStatus = model.LevelApproved
		c.Levels = append(c.Levels, LevelChange{Before: ladder[idx], After: current})
		advance(c, ladder, idx, d, at)
	}

	c.LibraryStatus = ProjectRequest(c.Request)
	return c, nil
}

// advance opens the gate after ladder[idx], walking forward while the next level is
// assigned to the approver who just acted.
func advance(c *Cascade, ladder []model.ApprovalLevel, idx int, d Decision, at time.Time) {
	for next := idx + 1; ; next++ {
		if next >= len(ladder) {
			c.Request.Status = model.RequestCompleted
			c.Request.LevelStatus = model.AllApproved
			return
		}

		lvl := ladder[next]
		if lvl.AssignedApproverID != "" && lvl.AssignedApproverID == d.ApproverID {
			auto := lvl
			auto.LevelStatus = model.LevelApproved
			auto.ActingApproverID = d.ApproverID
			auto.ActingApproverName = d.ApproverName
			auto.DecidedAt = &at
			c.Levels = append(c.Levels, LevelChange{Before: lvl, After: auto, AutoApproved: true})
			continue
		}

		opened := lvl
		opened.LevelStatus = model.LevelPending
		c.Levels = append(c.Levels, LevelChange{Before: lvl, After: opened})
		c.Request.Status = model.RequestInProgress
		c.Request.LevelStatus = model.PendingSummary(lvl.Level)
		return
	}
}

func sortedLevels(levels []model.ApprovalLevel) []model.ApprovalLevel {
	out := make([]model.ApprovalLevel, len(levels))
	copy(out, levels)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level.Ordinal() < out[j].Level.Ordinal() })
	return out
}
