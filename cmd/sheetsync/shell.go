package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"sheetsync/internal/record"
	"sheetsync/internal/tui"
)

// runShell 交互式循环；Ctrl+C 清空当前行，Ctrl+D 退出
// runShell is the interactive loop. Ctrl+C drops the current line and Ctrl+D exits.
func (a *app) runShell(ctx context.Context) error {
	fmt.Fprintln(a.out, a.msgs.T("shell.welcome"))
	a.runStatus(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := a.input.ReadLine("sheetsync> ")
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quit := a.handleShellLine(ctx, strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

// handleShellLine 执行一条命令，返回是否退出 / runs one command and reports whether to quit
func (a *app) handleShellLine(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	// 结果已经打印，shell 中忽略 errOutcome / outcomes were printed already
	report := func(err error) {
		if err != nil && !errors.Is(err, errOutcome) {
			a.printStatus(err.Error(), tui.ToneError)
		}
	}

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(a.out, a.msgs.T("shell.help"))
	case "/connect":
		report(a.runConnect(ctx))
	case "/status":
		a.runStatus(ctx)
	case "/add":
		rec, err := parseShellRecord(rest)
		if err != nil {
			a.printStatus(a.msgs.T("shell.add_usage"), tui.ToneWarning)
			return false
		}
		report(a.runAdd(ctx, rec, a.cfg.Append.AutoConnect))
	case "/show":
		report(a.runShow(ctx))
	case "/history":
		if id, ok := strings.CutPrefix(rest, "rm "); ok {
			report(a.runHistoryRemove(ctx, strings.TrimSpace(id)))
			return false
		}
		report(a.runHistoryList(ctx))
	case "/disconnect":
		report(a.runDisconnect(ctx))
	default:
		a.printStatus(a.msgs.T("shell.unknown", cmd), tui.ToneWarning)
	}
	return false
}

// parseShellRecord 解析 "date | name | contact | address | volume"
func parseShellRecord(s string) (record.Record, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 5 {
		return record.Record{}, fmt.Errorf("want 5 fields separated by |, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	vol := 0.0
	if parts[4] != "" {
		v, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			return record.Record{}, fmt.Errorf("volume %q: %w", parts[4], err)
		}
		vol = v
	}
	return record.Record{
		Date:        parts[0],
		Name:        parts[1],
		Contact:     parts[2],
		Address:     parts[3],
		TotalVolume: vol,
	}, nil
}
