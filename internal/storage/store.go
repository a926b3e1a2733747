package storage

import (
	"context"
	"errors"

	"sheetsync/internal/fileaccess"
	"sheetsync/internal/record"
)

// ErrStore 持久化存储无法打开、读取或提交
// ErrStore means the persistent store could not open, read or commit.
var ErrStore = errors.New("handle store unavailable")

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("not found")

// HandleKey 句柄所在的固定键 / the fixed key the external-file handle lives under
const HandleKey = "external-file-handle"

// HandleStore 持久化唯一的外部文件句柄
// HandleStore persists the single external-file handle across restarts.
type HandleStore interface {
	// PutHandle 覆盖保存句柄，事务提交后返回 / PutHandle replaces the handle; returns after commit.
	PutHandle(ctx context.Context, h fileaccess.Handle) error
	// GetHandle 读取句柄；不存在时 ok=false / GetHandle reads the handle; ok=false when absent.
	GetHandle(ctx context.Context) (fileaccess.Handle, bool, error)
	// ClearHandle 删除句柄（仅显式断开时） / ClearHandle forgets the handle (explicit disconnect only).
	ClearHandle(ctx context.Context) error
}

// HistoryStore 本地记录列表（与外部表格相互独立）
// HistoryStore is the local, append-only record list kept beside the external workbook.
type HistoryStore interface {
	AddRecord(ctx context.Context, rec record.Record) (HistoryEntry, error)
	ListRecords(ctx context.Context) ([]HistoryEntry, error)
	DeleteRecord(ctx context.Context, id string) error
}

// PermissionLog 权限决策日志 / PermissionLog records permission decisions
type PermissionLog interface {
	LogPermission(ctx context.Context, entry PermissionEntry) error
}

// Store 组合接口，SQLite 与内存实现均满足
// Store is the union implemented by both the SQLite and in-memory backends.
type Store interface {
	HandleStore
	HistoryStore
	PermissionLog
	Close() error
}
