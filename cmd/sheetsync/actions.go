package main

import (
	"context"
	"errors"
	"fmt"

	"sheetsync/internal/connection"
	"sheetsync/internal/orchestrator"
	"sheetsync/internal/record"
	"sheetsync/internal/sheet"
	"sheetsync/internal/storage"
	"sheetsync/internal/tui"
)

func (a *app) runConnect(ctx context.Context) error {
	out := a.conn.Connect(ctx)
	switch out.Kind {
	case connection.KindConnected:
		a.printStatus(out.Status, tui.ToneSuccess)
		return nil
	case connection.KindCancelled:
		a.printStatus(out.Status, tui.ToneInfo)
	default:
		a.printStatus(out.Status, tui.ToneError)
	}
	return errOutcome
}

func (a *app) runStatus(ctx context.Context) {
	st := a.conn.RestoreStatus(ctx)
	tone := tui.ToneInfo
	switch st.State {
	case connection.Connected:
		tone = tui.ToneSuccess
	case connection.PermissionLapsed:
		tone = tui.ToneWarning
	}
	a.printStatus(st.Text, tone)
	a.logger.Debug("status", "state", st.State, "policy", a.gate.Policy().Summary())
}

// runAdd 先写本地历史再追加到工作簿；两条路径互不回滚
// runAdd stores the record locally, then appends it to the workbook. Neither path rolls back the other.
func (a *app) runAdd(ctx context.Context, rec record.Record, autoConnect bool) error {
	rec = record.Normalize(rec)
	if err := rec.Validate(); err != nil {
		a.printStatus(a.msgs.T("append.invalid", err.Error()), tui.ToneError)
		return errOutcome
	}

	if entry, err := a.store.AddRecord(ctx, rec); err != nil {
		a.logger.Warn("local history", "err", err)
		a.printStatus(a.msgs.T("history.error", err.Error()), tui.ToneWarning)
	} else {
		a.printStatus(a.msgs.T("history.saved", entry.ID), tui.ToneInfo)
	}

	out := a.orch.AppendRecord(ctx, rec, orchestrator.AppendOptions{AutoConnect: autoConnect})
	a.printAppend(out)
	if !out.OK() {
		return errOutcome
	}
	return nil
}

func (a *app) printAppend(out orchestrator.Outcome) {
	switch out.Kind {
	case orchestrator.KindUpdated:
		a.printStatus(out.Status, tui.ToneSuccess)
	case orchestrator.KindCancelled:
		a.printStatus(out.Status, tui.ToneInfo)
	case orchestrator.KindNotConnected:
		a.printStatus(out.Status, tui.ToneWarning)
	default:
		a.printStatus(out.Status, tui.ToneError)
	}
}

// runImport 逐条追加，遇到第一条未成功的记录即停止
// runImport appends records one cycle at a time and stops at the first one that does not succeed.
func (a *app) runImport(ctx context.Context, path string, autoConnect bool) error {
	recs, err := record.LoadBatch(path)
	if err != nil {
		return err
	}
	done := 0
	var runErr error
	for _, rec := range recs {
		if runErr = a.runAdd(ctx, rec, autoConnect); runErr != nil {
			break
		}
		done++
	}
	tone := tui.ToneSuccess
	if runErr != nil {
		tone = tui.ToneWarning
	}
	a.printStatus(a.msgs.T("import.done", done, len(recs)), tone)
	return runErr
}

func (a *app) runShow(ctx context.Context) error {
	h, ok, err := a.store.GetHandle(ctx)
	if err != nil {
		a.logger.Warn("show: handle store", "err", err)
		a.printStatus(a.msgs.T("status.store_error"), tui.ToneError)
		return errOutcome
	}
	if !ok {
		a.printStatus(a.msgs.T("append.not_connected"), tui.ToneWarning)
		return errOutcome
	}
	data, err := a.access.Read(ctx, h)
	if err != nil {
		a.printStatus(a.msgs.T("append.error", err.Error()), tui.ToneError)
		return errOutcome
	}
	if len(data) == 0 {
		a.printStatus(a.msgs.T("show.empty"), tui.ToneInfo)
		return nil
	}

	doc, err := sheet.Decode(data)
	if err != nil {
		a.printStatus(a.msgs.T("append.format_error", h.Name), tui.ToneError)
		return errOutcome
	}
	defer doc.Close()
	s, err := sheet.GetOrCreateSheet(doc, sheet.SheetName)
	if err != nil {
		return err
	}
	rows, err := sheet.Rows(s)
	if err != nil {
		return err
	}
	if len(rows) <= 1 {
		a.printStatus(a.msgs.T("show.empty"), tui.ToneInfo)
		return nil
	}
	fmt.Fprintln(a.out, tui.RenderRows(h.Name+" · "+sheet.SheetName, rows, screenWidth()))
	return nil
}

func (a *app) runHistoryList(ctx context.Context) error {
	entries, err := a.store.ListRecords(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printStatus(a.msgs.T("history.empty"), tui.ToneInfo)
		return nil
	}
	rows := [][]string{{"ID", "Date", "Name", "Contact", "Address", "Total Volume"}}
	for _, e := range entries {
		rows = append(rows, append([]string{e.ID}, e.Record.Row()...))
	}
	fmt.Fprintln(a.out, tui.RenderRows("", rows, screenWidth()))
	return nil
}

func (a *app) runHistoryRemove(ctx context.Context, id string) error {
	if err := a.store.DeleteRecord(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.printStatus(err.Error(), tui.ToneWarning)
			return errOutcome
		}
		return err
	}
	a.printStatus(a.msgs.T("history.removed", id), tui.ToneSuccess)
	return nil
}

func (a *app) runDisconnect(ctx context.Context) error {
	if err := a.conn.Disconnect(ctx); err != nil {
		return err
	}
	a.printStatus(a.msgs.T("disconnect.ok"), tui.ToneSuccess)
	return nil
}
