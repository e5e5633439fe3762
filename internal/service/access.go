package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/workflow"
)

// AccessService resolves which departments and levels an approver may decide.
type AccessService interface {
	// ResolveAccess returns the caller's AccessMap. An identity without grants gets an
	// empty map and no error.
	ResolveAccess(ctx context.Context, approverID string) (model.AccessMap, error)

	// Authorize fails with workflow.ErrUnauthorized unless approverID holds a grant for
	// (department, level).
	Authorize(ctx context.Context, approverID, department string, level model.Level) error

	// ApproversFor picks the approver for each level of a department. When several
	// approvers hold the same level the oldest grant wins.
	ApproversFor(ctx context.Context, department string) (map[model.Level]workflow.Assignee, error)

	// Grant creates or updates an access grant.
	Grant(ctx context.Context, g *model.AccessGrant) error
}

type accessService struct {
	grants repository.AccessGrantRepository
	logger *zap.Logger
}

func NewAccessService(grants repository.AccessGrantRepository, logger *zap.Logger) AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &accessService{grants: grants, logger: logger}
}

func (s *accessService) ResolveAccess(ctx context.Context, approverID string) (model.AccessMap, error) {
	access := model.AccessMap{}
	if approverID == "" {
		return access, nil
	}
	grants, err := s.grants.ListByApprover(ctx, approverID)
	if err != nil {
		return nil, storeErr("list access grants", err)
	}
	for _, g := range grants {
		if !g.Active || !g.Level.Valid() {
			continue
		}
		access.Add(g.Department, g.Level)
	}
	return access, nil
}

func (s *accessService) Authorize(ctx context.Context, approverID, department string, level model.Level) error {
	access, err := s.ResolveAccess(ctx, approverID)
	if err != nil {
		return err
	}
	if !access.Allows(department, level) {
		return fmt.Errorf("%w: %s may not decide %s for %s", workflow.ErrUnauthorized, approverID, level, department)
	}
	return nil
}

func (s *accessService) ApproversFor(ctx context.Context, department string) (map[model.Level]workflow.Assignee, error) {
	grants, err := s.grants.ListByDepartment(ctx, department)
	if err != nil {
		return nil, storeErr("list department grants", err)
	}
	out := make(map[model.Level]workflow.Assignee, len(model.Levels))
	for _, g := range grants {
		if !g.Active || !g.Level.Valid() {
			continue
		}
		if _, taken := out[g.Level]; taken {
			continue
		}
		out[g.Level] = workflow.Assignee{ID: g.ApproverID, Name: g.ApproverName}
	}
	return out, nil
}

func (s *accessService) Grant(ctx context.Context, g *model.AccessGrant) error {
	g.ApproverID = strings.TrimSpace(g.ApproverID)
	g.Department = strings.TrimSpace(g.Department)
	if g.ApproverID == "" || g.Department == "" || !g.Level.Valid() {
		return fmt.Errorf("%w: grant needs approver, department and a valid level", workflow.ErrInvalidInput)
	}
	if err := s.grants.Upsert(ctx, g); err != nil {
		return storeErr("upsert access grant", err)
	}
	s.logger.Info("access_grant_upserted",
		zap.String("approver_id", g.ApproverID),
		zap.String("department", g.Department),
		zap.String("level", g.Level.String()),
		zap.Bool("active", g.Active),
	)
	return nil
}

// ParseGrants reads a seed list of "department:level:approverID[:name]" entries separated
// by semicolons. Levels accept the same forms as model.ParseLevel.
func ParseGrants(list string) ([]model.AccessGrant, error) {
	var out []model.AccessGrant
	for _, entry := range strings.Split(list, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("%w: grant %q must be department:level:approver[:name]", workflow.ErrInvalidInput, entry)
		}
		level, err := model.ParseLevel(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: grant %q: %v", workflow.ErrInvalidInput, entry, err)
		}
		g := model.AccessGrant{
			Department: strings.TrimSpace(parts[0]),
			Level:      level,
			ApproverID: strings.TrimSpace(parts[2]),
			Active:     true,
		}
		g.ApproverName = g.ApproverID
		if len(parts) == 4 && strings.TrimSpace(parts[3]) != "" {
			g.ApproverName = strings.TrimSpace(parts[3])
		}
		if strings.Contains(g.ApproverID, "@") {
			g.ApproverEmail = g.ApproverID
		}
		out = append(out, g)
	}
	return out, nil
}

// SeedGrants upserts every grant in list in order, so earlier entries are the older grants.
func SeedGrants(ctx context.Context, access AccessService, list string) (int, error) {
	grants, err := ParseGrants(list)
	if err != nil {
		return 0, err
	}
	start := time.Now().UTC()
	for i := range grants {
		grants[i].CreatedAt = start.Add(time.Duration(i) * time.Millisecond)
		if err := access.Grant(ctx, &grants[i]); err != nil {
			return i, err
		}
	}
	return len(grants), nil
}
