package permission

import (
	"context"
	"errors"
	"io"
	"testing"

	"sheetsync/internal/config"
	"sheetsync/internal/fileaccess"
	"sheetsync/internal/storage"
)

const target = "/books/customer_data.xlsx"

type scriptedPrompter struct {
	answer bool
	err    error
	calls  int
}

func (p *scriptedPrompter) ConfirmElevation(context.Context, fileaccess.Handle) (bool, error) {
	p.calls++
	return p.answer, p.err
}

func newGate(t *testing.T, elevation string, perm fileaccess.Permission, prompter Prompter) (*Gate, *fileaccess.MemFS, *storage.MemoryStore) {
	t.Helper()
	fs := fileaccess.NewMemFS()
	fs.SetPermission(target, perm)
	store := storage.NewMemoryStore()
	g := NewGate(fs, New(config.PermissionConfig{Elevation: elevation}), prompter, store, nil)
	return g, fs, store
}

func handle() *fileaccess.Handle {
	return &fileaccess.Handle{Path: target, Name: "customer_data.xlsx"}
}

func TestEnsureReadWrite_NilHandle(t *testing.T) {
	g, _, _ := newGate(t, "ask", fileaccess.PermissionGranted, nil)
	ok, err := g.EnsureReadWrite(context.Background(), nil)
	if ok || err != nil {
		t.Fatalf("nil handle: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestEnsureReadWrite_GrantedDoesNotPrompt(t *testing.T) {
	p := &scriptedPrompter{}
	g, _, store := newGate(t, "ask", fileaccess.PermissionGranted, p)
	ok, err := g.EnsureReadWrite(context.Background(), handle())
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if p.calls != 0 {
		t.Fatalf("prompter called %d times, want 0", p.calls)
	}
	if n := len(store.PermissionDecisions()); n != 0 {
		t.Fatalf("logged %d decisions for an already granted handle", n)
	}
}

func TestEnsureReadWrite_AskApproved(t *testing.T) {
	p := &scriptedPrompter{answer: true}
	g, fs, store := newGate(t, "ask", fileaccess.PermissionGrantable, p)
	ok, err := g.EnsureReadWrite(context.Background(), handle())
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if p.calls != 1 {
		t.Fatalf("prompter called %d times, want 1", p.calls)
	}
	if perm, _ := fs.Query(context.Background(), *handle()); perm != fileaccess.PermissionGranted {
		t.Fatalf("permission after approval=%s", perm)
	}
	decisions := store.PermissionDecisions()
	if len(decisions) != 1 || decisions[0].Decision != "allow" {
		t.Fatalf("decisions=%+v", decisions)
	}
}

func TestEnsureReadWrite_Refusals(t *testing.T) {
	tests := []struct {
		name string
		p    *scriptedPrompter
	}{
		{"declined", &scriptedPrompter{answer: false}},
		{"dismissed", &scriptedPrompter{err: fileaccess.ErrCancelled}},
		{"eof", &scriptedPrompter{err: io.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, fs, _ := newGate(t, "ask", fileaccess.PermissionGrantable, tt.p)
			ok, err := g.EnsureReadWrite(context.Background(), handle())
			if ok || err != nil {
				t.Fatalf("ok=%v err=%v, want false, nil", ok, err)
			}
			if perm, _ := fs.Query(context.Background(), *handle()); perm != fileaccess.PermissionGrantable {
				t.Fatalf("permission changed to %s", perm)
			}
		})
	}
}

func TestEnsureReadWrite_PromptFailurePropagates(t *testing.T) {
	p := &scriptedPrompter{err: errors.New("tty gone")}
	g, _, _ := newGate(t, "ask", fileaccess.PermissionGrantable, p)
	if _, err := g.EnsureReadWrite(context.Background(), handle()); err == nil {
		t.Fatal("expected prompt failure to propagate")
	}
}

func TestEnsureReadWrite_PolicyAllowAndDeny(t *testing.T) {
	p := &scriptedPrompter{}
	g, _, _ := newGate(t, "allow", fileaccess.PermissionGrantable, p)
	if ok, err := g.EnsureReadWrite(context.Background(), handle()); !ok || err != nil {
		t.Fatalf("allow: ok=%v err=%v", ok, err)
	}

	g, _, _ = newGate(t, "deny", fileaccess.PermissionGrantable, p)
	if ok, err := g.EnsureReadWrite(context.Background(), handle()); ok || err != nil {
		t.Fatalf("deny: ok=%v err=%v", ok, err)
	}
	if p.calls != 0 {
		t.Fatalf("prompter called %d times under allow/deny policies", p.calls)
	}
}

func TestEnsureReadWrite_DeniedNeverPrompts(t *testing.T) {
	p := &scriptedPrompter{answer: true}
	g, _, _ := newGate(t, "ask", fileaccess.PermissionDenied, p)
	ok, err := g.EnsureReadWrite(context.Background(), handle())
	if ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if p.calls != 0 {
		t.Fatalf("prompter called %d times", p.calls)
	}
}

func TestEnsureReadWrite_NilPrompterRefuses(t *testing.T) {
	g, _, _ := newGate(t, "ask", fileaccess.PermissionGrantable, nil)
	if ok, err := g.EnsureReadWrite(context.Background(), handle()); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestEnsureReadWrite_QueryFailureIsError(t *testing.T) {
	g, fs, _ := newGate(t, "ask", fileaccess.PermissionGranted, nil)
	fs.QueryErr = errors.New("capability lost")
	if _, err := g.EnsureReadWrite(context.Background(), handle()); err == nil {
		t.Fatal("expected query failure to propagate")
	}
}

func TestCheckReadWrite(t *testing.T) {
	g, fs, _ := newGate(t, "allow", fileaccess.PermissionGranted, nil)
	ctx := context.Background()
	if !g.CheckReadWrite(ctx, handle()) {
		t.Fatal("granted handle should pass")
	}
	if g.CheckReadWrite(ctx, nil) {
		t.Fatal("nil handle should fail")
	}

	fs.SetPermission(target, fileaccess.PermissionGrantable)
	if g.CheckReadWrite(ctx, handle()) {
		t.Fatal("grantable handle should fail the passive check")
	}
	// 被动检查不得提升 / the passive check never elevates
	if perm, _ := fs.Query(ctx, *handle()); perm != fileaccess.PermissionGrantable {
		t.Fatalf("passive check changed permission to %s", perm)
	}

	fs.SetPermission(target, fileaccess.PermissionGranted)
	fs.QueryErr = errors.New("boom")
	if g.CheckReadWrite(ctx, handle()) {
		t.Fatal("query failure should read as false")
	}
}
