package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"docflow/internal/model"
	"docflow/internal/repository"
)

// Requests implements repository.RequestRepository.
type Requests struct{ s *Store }

var _ repository.RequestRepository = (*Requests)(nil)

func (r *Requests) NextRequestID(_ context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	return fmt.Sprintf("Req%05d", r.s.seq), nil
}

func (r *Requests) Create(ctx context.Context, req *model.Request) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.requests[req.RequestID]; ok {
			return fmt.Errorf("request %s: %w", req.RequestID, errDuplicate)
		}
		st.requests[req.RequestID] = *req
		return nil
	})
}

func (r *Requests) FindByRequestID(ctx context.Context, requestID string) (*model.Request, error) {
	var (
		out model.Request
		ok  bool
	)
	r.s.read(ctx, func(st *state) { out, ok = st.requests[requestID] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &out, nil
}

func (r *Requests) UpdateStatus(ctx context.Context, req *model.Request) error {
	return r.s.write(ctx, func(st *state) error {
		stored, ok := st.requests[req.RequestID]
		if !ok {
			return repository.ErrNotFound
		}
		if stored.Version != req.Version {
			return repository.ErrVersionMismatch
		}
		stored.Status = req.Status
		stored.LevelStatus = req.LevelStatus
		stored.Version++
		st.requests[req.RequestID] = stored
		req.Version = stored.Version
		return nil
	})
}

func (r *Requests) ListByAssignment(ctx context.Context, q repository.AssignmentQuery) ([]model.Assignment, error) {
	out := make([]model.Assignment, 0)
	r.s.read(ctx, func(st *state) {
		for _, l := range st.levels {
			approver := l.AssignedApproverID
			if q.ByActing {
				approver = l.ActingApproverID
			}
			if approver != q.ApproverID || l.LevelStatus != q.LevelStatus {
				continue
			}
			req, ok := st.requests[l.RequestID]
			if !ok {
				continue
			}
			out = append(out, model.Assignment{Request: req, Level: l})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Request.Created.Equal(b.Request.Created) {
			return a.Request.Created.After(b.Request.Created)
		}
		if a.Request.RequestID != b.Request.RequestID {
			return a.Request.RequestID > b.Request.RequestID
		}
		return a.Level.Level.Ordinal() < b.Level.Level.Ordinal()
	})
	return out, nil
}

func (r *Requests) ListByRequester(ctx context.Context, email string) ([]model.Request, error) {
	out := make([]model.Request, 0)
	r.s.read(ctx, func(st *state) {
		for _, req := range st.requests {
			if req.RequesterEmail == email {
				out = append(out, req)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].RequestID > out[j].RequestID
	})
	return out, nil
}

// Levels implements repository.ApprovalLevelRepository.
type Levels struct{ s *Store }

var _ repository.ApprovalLevelRepository = (*Levels)(nil)

func (r *Levels) Create(ctx context.Context, l *model.ApprovalLevel) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return r.s.write(ctx, func(st *state) error {
		for _, existing := range st.levels {
			if existing.RequestID == l.RequestID && existing.Level == l.Level {
				return fmt.Errorf("level %s of %s: %w", l.Level, l.RequestID, errDuplicate)
			}
		}
		st.levels[l.ID] = *l
		return nil
	})
}

func (r *Levels) ListByRequestID(ctx context.Context, requestID string) ([]model.ApprovalLevel, error) {
	out := make([]model.ApprovalLevel, 0, len(model.Levels))
	r.s.read(ctx, func(st *state) {
		for _, l := range st.levels {
			if l.RequestID == requestID {
				out = append(out, l)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Level.Ordinal() < out[j].Level.Ordinal() })
	return out, nil
}

func (r *Levels) Update(ctx context.Context, l *model.ApprovalLevel, expected model.LevelStatus) error {
	return r.s.write(ctx, func(st *state) error {
		stored, ok := st.levels[l.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if stored.Version != l.Version || stored.LevelStatus != expected {
			return repository.ErrVersionMismatch
		}
		next := *l
		next.RequestID = stored.RequestID
		next.Level = stored.Level
		next.Created = stored.Created
		next.Version = stored.Version + 1
		st.levels[l.ID] = next
		l.Version = next.Version
		return nil
	})
}

// LibraryItems implements repository.LibraryItemRepository.
type LibraryItems struct{ s *Store }

var _ repository.LibraryItemRepository = (*LibraryItems)(nil)

func (r *LibraryItems) Create(ctx context.Context, item *model.LibraryItem) (*model.LibraryItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	err := r.s.write(ctx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return fmt.Errorf("library item %s: %w", item.ID, errDuplicate)
		}
		st.items[item.ID] = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := *item
	return &out, nil
}

func (r *LibraryItems) FindByID(ctx context.Context, id string) (*model.LibraryItem, error) {
	var (
		out model.LibraryItem
		ok  bool
	)
	r.s.read(ctx, func(st *state) { out, ok = st.items[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &out, nil
}

func (r *LibraryItems) FindByRequestID(ctx context.Context, requestID string) (*model.LibraryItem, error) {
	var (
		out model.LibraryItem
		ok  bool
	)
	r.s.read(ctx, func(st *state) {
		for _, it := range st.items {
			if it.RequestID == requestID {
				out, ok = it, true
				return
			}
		}
	})
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &out, nil
}

func (r *LibraryItems) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.LibraryItem], error) {
	all := make([]model.LibraryItem, 0)
	r.s.read(ctx, func(st *state) {
		for _, it := range st.items {
			all = append(all, it)
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	start := min(max(pq.Offset, 0), len(all))
	end := len(all)
	if pq.Limit > 0 {
		end = min(start+pq.Limit, len(all))
	}
	return &repository.PageResult[model.LibraryItem]{Items: all[start:end], Total: len(all)}, nil
}

func (r *LibraryItems) AttachRequest(ctx context.Context, id, requestID, status string) error {
	return r.s.write(ctx, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return repository.ErrNotFound
		}
		for otherID, other := range st.items {
			if otherID != id && other.RequestID == requestID {
				return fmt.Errorf("request %s already has a library item: %w", requestID, errDuplicate)
			}
		}
		it.RequestID = requestID
		it.Status = status
		st.items[id] = it
		return nil
	})
}

func (r *LibraryItems) UpdateStatus(ctx context.Context, id, status string) error {
	return r.s.write(ctx, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return repository.ErrNotFound
		}
		it.Status = status
		st.items[id] = it
		return nil
	})
}

// Grants implements repository.AccessGrantRepository.
type Grants struct{ s *Store }

var _ repository.AccessGrantRepository = (*Grants)(nil)

func (r *Grants) ListByApprover(ctx context.Context, approverID string) ([]model.AccessGrant, error) {
	out := make([]model.AccessGrant, 0)
	r.s.read(ctx, func(st *state) {
		for _, g := range st.grants {
			if g.Active && g.ApproverID == approverID {
				out = append(out, g)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Department != out[j].Department {
			return out[i].Department < out[j].Department
		}
		return out[i].Level.Ordinal() < out[j].Level.Ordinal()
	})
	return out, nil
}

func (r *Grants) ListByDepartment(ctx context.Context, department string) ([]model.AccessGrant, error) {
	out := make([]model.AccessGrant, 0)
	r.s.read(ctx, func(st *state) {
		for _, g := range st.grants {
			if g.Active && g.Department == department {
				out = append(out, g)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ApproverID < out[j].ApproverID
	})
	return out, nil
}

func (r *Grants) Upsert(ctx context.Context, g *model.AccessGrant) error {
	return r.s.write(ctx, func(st *state) error {
		key := grantKey(g.ApproverID, g.Department, g.Level)
		if existing, ok := st.grants[key]; ok {
			existing.ApproverName = g.ApproverName
			existing.ApproverEmail = g.ApproverEmail
			existing.Active = g.Active
			st.grants[key] = existing
			*g = existing
			return nil
		}
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		if g.CreatedAt.IsZero() {
			g.CreatedAt = time.Now().UTC()
		}
		st.grants[key] = *g
		return nil
	})
}
