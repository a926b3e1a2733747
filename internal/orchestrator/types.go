package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sheetsync/internal/connection"
	"sheetsync/internal/fileaccess"
	"sheetsync/internal/i18n"
	"sheetsync/internal/permission"
	"sheetsync/internal/storage"
)

// ErrNotConnected 没有已保存的句柄且未启用自动连接
// ErrNotConnected means no handle is stored and auto-connect is off.
var ErrNotConnected = errors.New("not connected")

// Kind 是 AppendRecord 的结果标签 / Kind tags the result of AppendRecord.
type Kind string

const (
	KindUpdated          Kind = "updated"
	KindNotConnected     Kind = "not_connected"
	KindPermissionDenied Kind = "permission_denied"
	KindFormatError      Kind = "format_error"
	KindCancelled        Kind = "cancelled"
	KindError            Kind = "error"
)

// Outcome is what AppendRecord resolves to. Err is nil only for KindUpdated.
type Outcome struct {
	Kind      Kind
	Timestamp time.Time
	Filename  string
	Status    string
	Err       error
}

func (o Outcome) OK() bool { return o.Kind == KindUpdated }

// Connector 在需要时建立连接（connection.Manager 满足此接口）
// Connector establishes a connection on demand; *connection.Manager satisfies it.
type Connector interface {
	Connect(ctx context.Context) connection.Outcome
}

type Options struct {
	Store     storage.HandleStore
	Gate      *permission.Gate
	Access    fileaccess.Access
	Connector Connector
	Logger    *slog.Logger
	Messages  *i18n.I18n
	// Now defaults to time.Now.
	Now func() time.Time
}

type AppendOptions struct {
	AutoConnect bool
}
