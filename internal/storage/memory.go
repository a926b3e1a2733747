package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sheetsync/internal/fileaccess"
	"sheetsync/internal/record"

	"github.com/google/uuid"
)

// MemoryStore 内存实现，用于测试替换 SQLite
// MemoryStore is an in-memory Store that tests substitute for SQLite.
type MemoryStore struct {
	mu sync.Mutex

	handle    *fileaccess.Handle
	history   []HistoryEntry
	decisions []PermissionEntry

	// GetErr / PutErr / AddErr, when set, fail the matching call wrapped in ErrStore.
	GetErr error
	PutErr error
	AddErr error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) PutHandle(ctx context.Context, h fileaccess.Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return fmt.Errorf("%w: %w", ErrStore, s.PutErr)
	}
	if !h.Valid() {
		return fmt.Errorf("put handle: invalid handle")
	}
	cp := h
	s.handle = &cp
	return nil
}

func (s *MemoryStore) GetHandle(ctx context.Context) (fileaccess.Handle, bool, error) {
	if err := ctx.Err(); err != nil {
		return fileaccess.Handle{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return fileaccess.Handle{}, false, fmt.Errorf("%w: %w", ErrStore, s.GetErr)
	}
	if s.handle == nil {
		return fileaccess.Handle{}, false, nil
	}
	return *s.handle, true, nil
}

func (s *MemoryStore) ClearHandle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = nil
	return nil
}

func (s *MemoryStore) AddRecord(ctx context.Context, rec record.Record) (HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return HistoryEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AddErr != nil {
		return HistoryEntry{}, fmt.Errorf("%w: %w", ErrStore, s.AddErr)
	}
	entry := HistoryEntry{ID: uuid.NewString(), Record: rec, CreatedAt: nowUTC()}
	s.history = append(s.history, entry)
	return entry, nil
}

func (s *MemoryStore) ListRecords(ctx context.Context) ([]HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HistoryEntry(nil), s.history...), nil
}

func (s *MemoryStore) DeleteRecord(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.history {
		if e.ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("history entry %s: %w", id, ErrNotFound)
}

func (s *MemoryStore) LogPermission(_ context.Context, entry PermissionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, entry)
	return nil
}

// PermissionDecisions returns the logged permission decisions in order.
func (s *MemoryStore) PermissionDecisions() []PermissionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PermissionEntry(nil), s.decisions...)
}

func (s *MemoryStore) Close() error { return nil }
