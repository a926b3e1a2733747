package permission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"sheetsync/internal/config"
	"sheetsync/internal/fileaccess"
	"sheetsync/internal/storage"
)

// ErrDenied 用户或策略拒绝了写入权限 / write access was refused by the user or the policy
var ErrDenied = errors.New("permission denied")

// Prompter 询问用户是否为目标授予写入权限
// Prompter asks the user whether to grant write access to the target.
// Returning fileaccess.ErrCancelled or io.EOF counts as a refusal.
type Prompter interface {
	ConfirmElevation(ctx context.Context, h fileaccess.Handle) (bool, error)
}

type PrompterFunc func(ctx context.Context, h fileaccess.Handle) (bool, error)

func (f PrompterFunc) ConfirmElevation(ctx context.Context, h fileaccess.Handle) (bool, error) {
	return f(ctx, h)
}

// Gate 确认句柄具有读写权限，必要时发起一次提升请求
// Gate makes sure a handle is read-write, issuing one elevation request when needed.
type Gate struct {
	access   fileaccess.Access
	policy   *Policy
	prompter Prompter
	log      storage.PermissionLog
	logger   *slog.Logger
}

// NewGate wires a gate. prompter and log may be nil; a nil prompter refuses every ask.
func NewGate(access fileaccess.Access, policy *Policy, prompter Prompter, log storage.PermissionLog, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if policy == nil {
		policy = New(config.PermissionConfig{})
	}
	return &Gate{
		access:   access,
		policy:   policy,
		prompter: prompter,
		log:      log,
		logger:   logger.With("component", "permission"),
	}
}

// EnsureReadWrite 返回句柄是否可读写；正常拒绝返回 false, nil，只有能力接口失败才返回错误。
// EnsureReadWrite reports whether h is read-write, prompting at most once.
// A refusal is false, nil; only capability failures return an error.
func (g *Gate) EnsureReadWrite(ctx context.Context, h *fileaccess.Handle) (bool, error) {
	if h == nil || !h.Valid() {
		return false, nil
	}
	perm, err := g.access.Query(ctx, *h)
	if err != nil {
		return false, fmt.Errorf("query permission: %w", err)
	}

	res := g.policy.Decide(perm)
	switch res.Decision {
	case DecisionAllow:
		if perm == fileaccess.PermissionGranted {
			return true, nil
		}
		g.record(ctx, *h, DecisionAllow, res.Reason)
		return g.elevate(ctx, *h)
	case DecisionDeny:
		g.record(ctx, *h, DecisionDeny, res.Reason)
		return false, nil
	}

	if g.prompter == nil {
		g.record(ctx, *h, DecisionDeny, "no prompter available")
		return false, nil
	}
	ok, err := g.prompter.ConfirmElevation(ctx, *h)
	if err != nil {
		if errors.Is(err, fileaccess.ErrCancelled) || errors.Is(err, io.EOF) {
			g.record(ctx, *h, DecisionDeny, "prompt dismissed")
			return false, nil
		}
		return false, fmt.Errorf("permission prompt: %w", err)
	}
	if !ok {
		g.record(ctx, *h, DecisionDeny, "user declined")
		return false, nil
	}
	g.record(ctx, *h, DecisionAllow, "user approved")
	return g.elevate(ctx, *h)
}

// CheckReadWrite 被动检查，不提示、不改变状态；查询失败视为 false
// CheckReadWrite is the passive variant: no prompt, no side effects, any failure is false.
func (g *Gate) CheckReadWrite(ctx context.Context, h *fileaccess.Handle) bool {
	if h == nil || !h.Valid() {
		return false
	}
	perm, err := g.access.Query(ctx, *h)
	if err != nil {
		g.logger.Debug("passive permission check failed", "path", h.Path, "err", err)
		return false
	}
	return perm == fileaccess.PermissionGranted
}

// Policy returns the policy the gate decides with.
func (g *Gate) Policy() *Policy {
	return g.policy
}

func (g *Gate) elevate(ctx context.Context, h fileaccess.Handle) (bool, error) {
	perm, err := g.access.Elevate(ctx, h)
	if err != nil {
		return false, fmt.Errorf("elevate permission: %w", err)
	}
	if perm != fileaccess.PermissionGranted {
		g.logger.Info("elevation did not take effect", "path", h.Path, "permission", perm)
		return false, nil
	}
	g.logger.Info("write access granted", "path", h.Path)
	return true, nil
}

func (g *Gate) record(ctx context.Context, h fileaccess.Handle, d Decision, reason string) {
	g.logger.Info("permission decision", "path", h.Path, "decision", d, "reason", reason)
	if g.log == nil {
		return
	}
	if err := g.log.LogPermission(ctx, storage.PermissionEntry{
		Path:     h.Path,
		Decision: string(d),
		Reason:   reason,
	}); err != nil {
		g.logger.Warn("log permission decision", "err", err)
	}
}
