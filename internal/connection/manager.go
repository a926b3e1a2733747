package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"sheetsync/internal/fileaccess"
	"sheetsync/internal/i18n"
	"sheetsync/internal/permission"
	"sheetsync/internal/sheet"
	"sheetsync/internal/storage"
)

type Options struct {
	Store       storage.HandleStore
	Gate        *permission.Gate
	Access      fileaccess.Access
	Picker      fileaccess.Picker
	DefaultName string
	Logger      *slog.Logger
	Messages    *i18n.I18n
}

// Manager 负责首次连接和启动时的状态恢复。
// Manager owns first-time connection and startup status recovery.
// Calls must be serialized by the caller; the mutex only guards the state fields.
type Manager struct {
	store       storage.HandleStore
	gate        *permission.Gate
	access      fileaccess.Access
	picker      fileaccess.Picker
	defaultName string
	logger      *slog.Logger
	msg         *i18n.I18n

	mu     sync.Mutex
	state  State
	handle *fileaccess.Handle
}

func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	msg := opts.Messages
	if msg == nil {
		msg = i18n.Global()
	}
	name := fileaccess.EnsureWorkbookExt(opts.DefaultName)
	if name == "" {
		name = "customer_data.xlsx"
	}
	return &Manager{
		store:       opts.Store,
		gate:        opts.Gate,
		access:      opts.Access,
		picker:      opts.Picker,
		defaultName: name,
		logger:      logger.With("component", "connection"),
		msg:         msg,
		state:       Unconnected,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Handle returns the handle of the last successful Connect or RestoreStatus.
func (m *Manager) Handle() (fileaccess.Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return fileaccess.Handle{}, false
	}
	return *m.handle, true
}

func (m *Manager) setState(s State, h *fileaccess.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	if h != nil {
		cp := *h
		m.handle = &cp
	}
}

// Connect 让用户选择目标、确认权限、必要时初始化工作簿，最后持久化句柄。
// Connect picks a target, confirms write access, initialises an empty workbook
// and only then persists the handle. It is available from any state.
func (m *Manager) Connect(ctx context.Context) Outcome {
	prev := m.State()
	m.setState(Connecting, nil)

	path, err := m.picker.PickTarget(ctx, m.defaultName)
	if err != nil {
		if errors.Is(err, fileaccess.ErrCancelled) || errors.Is(err, io.EOF) {
			m.setState(prev, nil)
			m.logger.Info("connect cancelled")
			return Outcome{Kind: KindCancelled, Status: m.msg.T("connect.cancelled"), Err: fileaccess.ErrCancelled}
		}
		return m.fail("", fmt.Errorf("pick target: %w", err))
	}

	h, err := fileaccess.NewHandle(fileaccess.EnsureWorkbookExt(path))
	if err != nil {
		return m.fail("", err)
	}
	logger := m.logger.With("path", h.Path)

	ok, err := m.gate.EnsureReadWrite(ctx, &h)
	if err != nil {
		return m.fail(h.Name, err)
	}
	if !ok {
		m.setState(Error, nil)
		logger.Info("connect denied")
		return Outcome{
			Kind:     KindDenied,
			Filename: h.Name,
			Status:   m.msg.T("connect.denied", h.Name),
			Err:      permission.ErrDenied,
		}
	}

	if err := m.prepareTarget(ctx, h); err != nil {
		return m.fail(h.Name, err)
	}
	if err := m.store.PutHandle(ctx, h); err != nil {
		return m.fail(h.Name, err)
	}

	m.setState(Connected, &h)
	logger.Info("connected")
	return Outcome{
		Kind:     KindConnected,
		Handle:   h,
		Filename: h.Name,
		Status:   m.msg.T("connect.ok", h.Name),
	}
}

// prepareTarget 空目标（0 字节或不存在）写入仅含表头的工作簿；非空目标必须能解码。
// prepareTarget writes a header-only workbook into an empty (0-byte or missing)
// target and makes sure a non-empty one decodes.
func (m *Manager) prepareTarget(ctx context.Context, h fileaccess.Handle) error {
	data, err := m.access.Read(ctx, h)
	if err != nil {
		return fmt.Errorf("read target: %w", err)
	}
	if len(data) > 0 {
		doc, err := sheet.Decode(data)
		if err != nil {
			return err
		}
		return doc.Close()
	}

	doc, err := sheet.CreateEmpty()
	if err != nil {
		return err
	}
	defer doc.Close()
	out, err := sheet.Encode(doc)
	if err != nil {
		return err
	}
	if err := m.access.Write(ctx, h, out); err != nil {
		return fmt.Errorf("initialise target: %w", err)
	}
	m.logger.Info("initialised empty workbook", "path", h.Path)
	return nil
}

func (m *Manager) fail(name string, err error) Outcome {
	m.setState(Error, nil)
	m.logger.Error("connect failed", "file", name, "err", err)
	status := m.msg.T("connect.error", err.Error())
	if errors.Is(err, sheet.ErrFormat) {
		status = m.msg.T("append.format_error", name)
	}
	return Outcome{Kind: KindError, Filename: name, Status: status, Err: err}
}

// RestoreStatus 启动时调用一次：只读、不提示、不向外返回错误。
// RestoreStatus is called once at startup. It is read-only, never prompts and
// never fails outward; every failure degrades to a displayable status.
func (m *Manager) RestoreStatus(ctx context.Context) DisplayStatus {
	h, ok, err := m.store.GetHandle(ctx)
	if err != nil {
		m.logger.Warn("restore status: handle store", "err", err)
		m.setState(Unconnected, nil)
		return DisplayStatus{State: Unconnected, Text: m.msg.T("status.store_error")}
	}
	if !ok {
		m.setState(Unconnected, nil)
		return DisplayStatus{State: Unconnected, Text: m.msg.T("status.not_connected")}
	}
	if m.gate.CheckReadWrite(ctx, &h) {
		m.setState(Connected, &h)
		return DisplayStatus{State: Connected, Filename: h.Name, Text: m.msg.T("status.connected", h.Name)}
	}
	m.setState(PermissionLapsed, &h)
	return DisplayStatus{State: PermissionLapsed, Filename: h.Name, Text: m.msg.T("status.lapsed", h.Name)}
}

// Disconnect 清除已保存的句柄（仅限用户显式操作）
// Disconnect forgets the stored handle. Only an explicit user action calls it.
func (m *Manager) Disconnect(ctx context.Context) error {
	if err := m.store.ClearHandle(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = Unconnected
	m.handle = nil
	m.mu.Unlock()
	m.logger.Info("disconnected")
	return nil
}
