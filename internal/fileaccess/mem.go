package fileaccess

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// MemFS is an in-memory Access for tests. Unknown paths read as empty and
// default to PermissionGranted.
type MemFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	perms  map[string]Permission
	writes int

	// QueryErr / ReadErr / WriteErr, when set, are returned by the matching call.
	QueryErr error
	ReadErr  error
	WriteErr error
}

func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		perms: make(map[string]Permission),
	}
}

var _ Access = (*MemFS)(nil)

func (m *MemFS) SetFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
}

func (m *MemFS) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return append([]byte(nil), data...), ok
}

func (m *MemFS) SetPermission(path string, p Permission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perms[path] = p
}

// Writes reports how many successful writes happened.
func (m *MemFS) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemFS) permission(path string) Permission {
	if p, ok := m.perms[path]; ok {
		return p
	}
	return PermissionGranted
}

func (m *MemFS) Query(ctx context.Context, h Handle) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDenied, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return PermissionDenied, m.QueryErr
	}
	if !h.Valid() {
		return PermissionDenied, errors.New("query permission: invalid handle")
	}
	return m.permission(h.Path), nil
}

func (m *MemFS) Elevate(ctx context.Context, h Handle) (Permission, error) {
	perm, err := m.Query(ctx, h)
	if err != nil || perm != PermissionGrantable {
		return perm, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perms[h.Path] = PermissionGranted
	return PermissionGranted, nil
}

func (m *MemFS) Read(ctx context.Context, h Handle) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return append([]byte(nil), m.files[h.Path]...), nil
}

func (m *MemFS) Write(ctx context.Context, h Handle, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.permission(h.Path) != PermissionGranted {
		return fmt.Errorf("write %s: %w", h.Path, os.ErrPermission)
	}
	m.files[h.Path] = append([]byte(nil), data...)
	m.writes++
	return nil
}
