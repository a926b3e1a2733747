package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sheetsync/internal/config"
	"sheetsync/internal/connection"
	"sheetsync/internal/fileaccess"
	"sheetsync/internal/i18n"
	"sheetsync/internal/orchestrator"
	"sheetsync/internal/permission"
	"sheetsync/internal/storage"
	"sheetsync/internal/tui"
)

// errOutcome 表示命令以非成功结果结束，状态已输出
// errOutcome marks a command that ended in a non-success outcome whose status was already printed.
var errOutcome = errors.New("operation did not succeed")

type app struct {
	cfg    config.Config
	msgs   *i18n.I18n
	logger *slog.Logger
	theme  tui.Theme

	store  storage.Store
	access fileaccess.Access
	gate   *permission.Gate
	conn   *connection.Manager
	orch   *orchestrator.Orchestrator
	input  lineInput

	out     io.Writer
	closers []io.Closer
}

type appOptions struct {
	configPath string
	targetFile string
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	a := &app{
		cfg:   cfg,
		msgs:  i18n.New(cfg.Locale),
		theme: tui.DarkTheme(),
		out:   opts.out,
	}
	i18n.Init(cfg.Locale)

	logger, logCloser, err := newLogger(cfg, opts.errOut)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("init storage failed: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store)

	a.input = newInputFor(opts.in, opts.out, filepath.Join(cfg.Storage.BaseDir, "shell.history"), logger)
	a.closers = append(a.closers, a.input)

	a.access = fileaccess.NewOS()
	a.gate = permission.NewGate(a.access, permission.New(cfg.Permission), confirmPrompter(a.input, a.out, a.msgs), store, logger)
	a.conn = connection.New(connection.Options{
		Store:       store,
		Gate:        a.gate,
		Access:      a.access,
		Picker:      a.picker(opts),
		DefaultName: cfg.Picker.DefaultName,
		Logger:      logger,
		Messages:    a.msgs,
	})
	a.orch = orchestrator.New(orchestrator.Options{
		Store:     store,
		Gate:      a.gate,
		Access:    a.access,
		Connector: a.conn,
		Logger:    logger,
		Messages:  a.msgs,
	})
	logger.Debug("app ready", "db", cfg.DBPath(), "elevation", cfg.Permission.Elevation, "picker", cfg.Picker.Mode)
	return a, nil
}

func (a *app) picker(opts appOptions) fileaccess.Picker {
	if strings.TrimSpace(opts.targetFile) != "" {
		return fileaccess.StaticPicker(opts.targetFile)
	}
	if a.cfg.Picker.Mode == config.PickerModeTUI {
		return tui.DialogPicker{Locale: a.msgs}
	}
	return linePicker(a.input, a.msgs)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

func (a *app) printStatus(text string, tone tui.Tone) {
	fmt.Fprintln(a.out, tui.RenderStatus(text, tone, a.theme))
}

// newLogger 按配置创建 slog 文本日志；log.file 为空时写 stderr
// newLogger builds the slog text logger; an empty log.file writes to errOut.
func newLogger(cfg config.Config, errOut io.Writer) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	path := cfg.LogPath()
	if path == "" {
		if errOut == nil {
			errOut = os.Stderr
		}
		return slog.New(slog.NewTextHandler(errOut, handlerOpts)), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, handlerOpts)), f, nil
}
