package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"sheetsync/internal/connection"
	"sheetsync/internal/fileaccess"
	"sheetsync/internal/i18n"
	"sheetsync/internal/permission"
	"sheetsync/internal/record"
	"sheetsync/internal/sheet"
	"sheetsync/internal/storage"
)

// Orchestrator 对外部工作簿执行一次“读取-追加-写回”
// Orchestrator runs one read-modify-append-write cycle against the external workbook.
type Orchestrator struct {
	store     storage.HandleStore
	gate      *permission.Gate
	access    fileaccess.Access
	connector Connector
	logger    *slog.Logger
	msg       *i18n.I18n
	now       func() time.Time

	// 同一时刻只允许一个追加周期 / one append cycle at a time
	mu sync.Mutex
}

func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	msg := opts.Messages
	if msg == nil {
		msg = i18n.Global()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		store:     opts.Store,
		gate:      opts.Gate,
		access:    opts.Access,
		connector: opts.Connector,
		logger:    logger.With("component", "append"),
		msg:       msg,
		now:       now,
	}
}

// AppendRecord 追加一条记录；任何失败都不会改动已保存的句柄。
// AppendRecord appends rec to the connected workbook. It never returns an error
// past its boundary and never touches the stored handle.
func (o *Orchestrator) AppendRecord(ctx context.Context, rec record.Record, opts AppendOptions) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := rec.Validate(); err != nil {
		return o.failure(KindError, "", o.msg.T("append.invalid", err.Error()), err)
	}

	h, out, ok := o.resolveHandle(ctx, opts)
	if !ok {
		return out
	}
	logger := o.logger.With("path", h.Path)

	granted, err := o.gate.EnsureReadWrite(ctx, &h)
	if err != nil {
		return o.failure(KindError, h.Name, o.msg.T("append.error", err.Error()), err)
	}
	if !granted {
		return o.failure(KindPermissionDenied, h.Name, o.msg.T("append.permission_denied", h.Name), permission.ErrDenied)
	}

	data, err := o.access.Read(ctx, h)
	if err != nil {
		return o.failure(KindError, h.Name, o.msg.T("append.error", err.Error()), fmt.Errorf("read target: %w", err))
	}

	var doc *sheet.Document
	if len(data) == 0 {
		doc, err = sheet.CreateEmpty()
		if err != nil {
			return o.failure(KindError, h.Name, o.msg.T("append.error", err.Error()), err)
		}
	} else {
		doc, err = sheet.Decode(data)
		if err != nil {
			return o.failure(KindFormatError, h.Name, o.msg.T("append.format_error", h.Name), err)
		}
	}
	defer doc.Close()

	s, err := sheet.GetOrCreateSheet(doc, sheet.SheetName)
	if err != nil {
		return o.failure(KindError, h.Name, o.msg.T("append.error", err.Error()), err)
	}
	if err := sheet.AppendRow(s, rec.Row()); err != nil {
		return o.failure(KindError, h.Name, o.msg.T("append.error", err.Error()), err)
	}
	encoded, err := sheet.Encode(doc)
	if err != nil {
		return o.failure(KindError, h.Name, o.msg.T("append.error", err.Error()), err)
	}
	if err := o.access.Write(ctx, h, encoded); err != nil {
		return o.failure(KindError, h.Name, o.msg.T("append.error", err.Error()), fmt.Errorf("write target: %w", err))
	}

	ts := o.now()
	logger.Info("record appended", "bytes", len(encoded))
	return Outcome{
		Kind:      KindUpdated,
		Timestamp: ts,
		Filename:  h.Name,
		Status:    o.msg.T("append.updated", h.Name, ts.Format("2006-01-02 15:04:05")),
	}
}

// resolveHandle 读取句柄，必要时自动连接 / loads the handle, auto-connecting when allowed
func (o *Orchestrator) resolveHandle(ctx context.Context, opts AppendOptions) (fileaccess.Handle, Outcome, bool) {
	h, ok, err := o.store.GetHandle(ctx)
	if err != nil {
		return h, o.failure(KindError, "", o.msg.T("status.store_error"), err), false
	}
	if ok {
		return h, Outcome{}, true
	}
	if !opts.AutoConnect || o.connector == nil {
		return h, o.failure(KindNotConnected, "", o.msg.T("append.not_connected"), ErrNotConnected), false
	}

	co := o.connector.Connect(ctx)
	switch co.Kind {
	case connection.KindConnected:
	case connection.KindCancelled:
		return h, o.failure(KindCancelled, "", o.msg.T("append.cancelled"), co.Err), false
	case connection.KindDenied:
		return h, o.failure(KindPermissionDenied, co.Filename, co.Status, co.Err), false
	default:
		kind := KindError
		if errors.Is(co.Err, sheet.ErrFormat) {
			kind = KindFormatError
		}
		return h, o.failure(kind, co.Filename, co.Status, co.Err), false
	}

	h, ok, err = o.store.GetHandle(ctx)
	if err != nil {
		return h, o.failure(KindError, "", o.msg.T("status.store_error"), err), false
	}
	if !ok {
		return h, o.failure(KindNotConnected, "", o.msg.T("append.not_connected"), ErrNotConnected), false
	}
	return h, Outcome{}, true
}

func (o *Orchestrator) failure(kind Kind, name, status string, err error) Outcome {
	o.logger.Warn("append failed", "outcome", kind, "file", name, "err", err)
	return Outcome{Kind: kind, Filename: name, Status: status, Err: err}
}
