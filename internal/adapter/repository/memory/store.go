// Package memory implements the Entry Store and subject repository in
// process memory, optionally persisted to a JSON snapshot file.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("transaction already finished")

// Store holds all entries and subjects. A single writer at a time holds
// the store through a Tx; readers wait for it.
type Store struct {
	mu sync.Mutex

	// entries is kept in canonical order: date, then insertion sequence.
	entries  []*domain.Entry
	byID     map[string]*domain.Entry
	subjects map[string]*domain.Subject
	// order lists subject IDs in registration order, which is code order.
	order []string

	entrySeq int64
	codeSeq  int64

	snapshotPath string
}

// NewStore creates an empty, non-persistent store.
func NewStore() *Store {
	return &Store{
		entries:  make([]*domain.Entry, 0),
		byID:     make(map[string]*domain.Entry),
		subjects: make(map[string]*domain.Subject),
		order:    make([]string, 0),
	}
}

// Open creates a store persisted to path. An existing snapshot is loaded;
// a missing file starts an empty store.
func Open(path string) (*Store, error) {
	s := NewStore()
	s.snapshotPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.restore(snap)
	return s, nil
}

type snapshot struct {
	EntrySeq int64             `json:"entry_seq"`
	CodeSeq  int64             `json:"code_seq"`
	Subjects []*domain.Subject `json:"subjects"`
	Entries  []*domain.Entry   `json:"entries"`
}

func (s *Store) restore(snap snapshot) {
	s.entrySeq = snap.EntrySeq
	s.codeSeq = snap.CodeSeq

	for _, sub := range snap.Subjects {
		s.subjects[sub.ID] = sub
		s.order = append(s.order, sub.ID)
	}

	for _, e := range snap.Entries {
		s.byID[e.ID] = e
		s.entries = append(s.entries, e)
		if e.Seq > s.entrySeq {
			s.entrySeq = e.Seq
		}
	}
	domain.SortEntries(s.entries)
}

// persist writes the snapshot atomically. Callers hold s.mu.
func (s *Store) persist() error {
	if s.snapshotPath == "" {
		return nil
	}

	snap := snapshot{
		EntrySeq: s.entrySeq,
		CodeSeq:  s.codeSeq,
		Subjects: make([]*domain.Subject, 0, len(s.order)),
		Entries:  s.entries,
	}
	for _, id := range s.order {
		snap.Subjects = append(snap.Subjects, s.subjects[id])
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.snapshotPath), ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return os.Rename(tmp.Name(), s.snapshotPath)
}

// Tx is an exclusive transaction over the store. Mutations made through it
// are undone on rollback.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

func (s *Store) begin() *Tx {
	s.mu.Lock()
	return &Tx{store: s}
}

// Commit keeps the changes and releases the store. With a snapshot file,
// a failed write rolls the changes back.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}

	if len(t.undo) > 0 {
		if err := t.store.persist(); err != nil {
			t.rollback()
			return err
		}
	}

	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Rollback undoes the changes and releases the store. Rolling back a
// finished transaction is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.rollback()
	return nil
}

func (t *Tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.done = true
	t.store.mu.Unlock()
}

func (t *Tx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

// within runs fn inside tx when it is an open transaction of this store,
// otherwise inside a fresh one.
func (s *Store) within(ctx context.Context, tx usecase.Transaction, fn func(t *Tx) error) error {
	if t, ok := tx.(*Tx); ok && t.store == s && !t.done {
		return fn(t)
	}

	t := s.begin()
	if err := fn(t); err != nil {
		t.rollback()
		return err
	}
	return t.Commit(ctx)
}

// read runs fn while holding the store.
func (s *Store) read(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for the store and starts a transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.store.begin(), nil
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}

func cloneSubject(s *domain.Subject) *domain.Subject {
	c := *s
	return &c
}

// insertPosition returns the index after every entry dated on or before date.
func (s *Store) insertPosition(e *domain.Entry) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return domain.EntryLess(e, s.entries[i])
	})
}

func (s *Store) indexOf(e *domain.Entry) int {
	i := sort.Search(len(s.entries), func(i int) bool {
		return !domain.EntryLess(s.entries[i], e)
	})
	for ; i < len(s.entries); i++ {
		if s.entries[i].ID == e.ID {
			return i
		}
	}
	return -1
}

func (s *Store) insertAt(i int, e *domain.Entry) {
	s.entries = append(s.entries, nil)
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
	s.byID[e.ID] = e
}

func (s *Store) removeAt(i int) {
	e := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.byID, e.ID)
}
