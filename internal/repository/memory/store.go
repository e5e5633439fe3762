// Package memory is an in-process implementation of the repository interfaces, used by
// tests and by the server when no database is configured. Transactions are serialized
// and write to a private copy that is published on commit.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"docflow/internal/model"
	"docflow/internal/repository"
)

var errDuplicate = errors.New("duplicate key")

type txKey struct{}

// state is one consistent copy of every collection.
type state struct {
	requests map[string]model.Request
	levels   map[string]model.ApprovalLevel
	items    map[string]model.LibraryItem
	grants   map[string]model.AccessGrant
}

func (st *state) clone() *state {
	return &state{
		requests: cloneMap(st.requests),
		levels:   cloneMap(st.levels),
		items:    cloneMap(st.items),
		grants:   cloneMap(st.grants),
	}
}

// Store holds every collection. Use the accessor methods to obtain repositories.
// Readers outside a transaction only ever see committed state.
type Store struct {
	// txMu is held for the whole of a transaction and for every write outside one.
	txMu sync.Mutex
	// mu guards seq, committed and working.
	mu sync.RWMutex

	seq       int
	committed *state
	// working is the open transaction's private copy. It replaces committed on success.
	working *state
}

// New returns an empty store.
func New() *Store {
	return &Store{
		committed: &state{
			requests: map[string]model.Request{},
			levels:   map[string]model.ApprovalLevel{},
			items:    map[string]model.LibraryItem{},
			grants:   map[string]model.AccessGrant{},
		},
	}
}

var _ repository.Transactor = (*Store)(nil)

// WithTx runs fn with exclusive write access on a private copy of the store. The copy
// is published only when fn succeeds; on error or panic it is discarded. The request id
// sequence is not rolled back.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.working = s.committed.clone()
	s.mu.Unlock()

	committed := false
	defer func() {
		s.mu.Lock()
		if committed {
			s.committed = s.working
		}
		s.working = nil
		s.mu.Unlock()
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

// PingContext fails only when ctx is done. It lets the store back the health check.
func (s *Store) PingContext(ctx context.Context) error { return ctx.Err() }

// Requests returns the request repository view.
func (s *Store) Requests() *Requests { return &Requests{s: s} }

// Levels returns the approval level repository view.
func (s *Store) Levels() *Levels { return &Levels{s: s} }

// LibraryItems returns the library item repository view.
func (s *Store) LibraryItems() *LibraryItems { return &LibraryItems{s: s} }

// Grants returns the access grant repository view.
func (s *Store) Grants() *Grants { return &Grants{s: s} }

// inTx reports whether ctx belongs to a transaction opened on this store.
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// write runs fn against the transaction's copy when ctx is inside one, and otherwise
// against committed state under the transaction lock.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.working)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.committed)
}

// read runs fn against the state visible to ctx: the transaction's own copy inside one,
// committed state everywhere else.
func (s *Store) read(ctx context.Context, fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inTx(ctx) {
		fn(s.working)
		return
	}
	fn(s.committed)
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func grantKey(approverID, department string, level model.Level) string {
	return fmt.Sprintf("%s|%s|%s", approverID, department, level)
}
