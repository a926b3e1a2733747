package storage

import "sheetsync/internal/record"

// HistoryEntry 本地历史条目
// HistoryEntry is one locally kept record
type HistoryEntry struct {
	ID        string        `json:"id"`
	Record    record.Record `json:"record"`
	CreatedAt string        `json:"created_at"`
}

// PermissionEntry 权限决策日志条目
// PermissionEntry records a single permission decision
type PermissionEntry struct {
	Path     string
	Decision string
	Reason   string
}
