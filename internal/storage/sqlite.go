package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sheetsync/internal/fileaccess"
	"sheetsync/internal/record"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore 基于 SQLite (WAL 模式) 的持久化实现
// SQLiteStore implements Store using SQLite with WAL mode
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore 创建并初始化 SQLite 数据库；重复打开同一文件是幂等的
// NewSQLiteStore creates and initializes a SQLite database; reopening the same file is idempotent
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("%w: sqlite db path is empty", ErrStore)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %w", ErrStore, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrStore, err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=FULL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: exec %q: %w", ErrStore, p, err)
		}
	}

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ensure schema: %w", ErrStore, err)
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		k          TEXT PRIMARY KEY,
		v          TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT NOT NULL UNIQUE,
		date         TEXT NOT NULL DEFAULT '',
		name         TEXT NOT NULL DEFAULT '',
		contact      TEXT NOT NULL DEFAULT '',
		address      TEXT NOT NULL DEFAULT '',
		total_volume REAL NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS permission_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		path       TEXT NOT NULL,
		decision   TEXT NOT NULL,
		reason     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close 关闭数据库连接 / Close the database connection
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- Handle Operations ---

func (s *SQLiteStore) PutHandle(ctx context.Context, h fileaccess.Handle) error {
	if !h.Valid() {
		return errors.New("put handle: invalid handle")
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode handle: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO kv (k, v, updated_at) VALUES (?, ?, ?)`,
		HandleKey, string(raw), nowUTC()); err != nil {
		return fmt.Errorf("%w: put handle: %w", ErrStore, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit handle: %w", ErrStore, err)
	}
	return nil
}

func (s *SQLiteStore) GetHandle(ctx context.Context) (fileaccess.Handle, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k=?`, HandleKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fileaccess.Handle{}, false, nil
		}
		return fileaccess.Handle{}, false, fmt.Errorf("%w: get handle: %w", ErrStore, err)
	}
	var h fileaccess.Handle
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return fileaccess.Handle{}, false, fmt.Errorf("%w: corrupt handle: %w", ErrStore, err)
	}
	if !h.Valid() {
		return fileaccess.Handle{}, false, fmt.Errorf("%w: stored handle has no path", ErrStore)
	}
	return h, true, nil
}

func (s *SQLiteStore) ClearHandle(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k=?`, HandleKey); err != nil {
		return fmt.Errorf("%w: clear handle: %w", ErrStore, err)
	}
	return nil
}

// --- History Operations ---

func (s *SQLiteStore) AddRecord(ctx context.Context, rec record.Record) (HistoryEntry, error) {
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Record:    rec,
		CreatedAt: nowUTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, date, name, contact, address, total_volume, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, rec.Date, rec.Name, rec.Contact, rec.Address, rec.TotalVolume, entry.CreatedAt,
	)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("%w: insert history: %w", ErrStore, err)
	}
	return entry, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, contact, address, total_volume, created_at
		FROM history ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%w: query history: %w", ErrStore, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Record.Date, &e.Record.Name, &e.Record.Contact,
			&e.Record.Address, &e.Record.TotalVolume, &e.CreatedAt); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("history id is empty")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete history: %w", ErrStore, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("history entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Permission Log ---

func (s *SQLiteStore) LogPermission(ctx context.Context, entry PermissionEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permission_log (path, decision, reason, created_at)
		VALUES (?, ?, ?, ?)`,
		entry.Path, entry.Decision, entry.Reason, nowUTC())
	if err != nil {
		return fmt.Errorf("log permission: %w", err)
	}
	return nil
}

// --- Helpers ---

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
