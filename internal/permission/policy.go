package permission

import (
	"strings"

	"sheetsync/internal/config"
	"sheetsync/internal/fileaccess"
)

type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionAsk   Decision = "ask"
	DecisionDeny  Decision = "deny"
)

type Result struct {
	Decision Decision
	Reason   string
}

type Policy struct {
	cfg config.PermissionConfig
}

func New(cfg config.PermissionConfig) *Policy {
	return &Policy{cfg: cfg}
}

// Decide 把平台报告的权限映射为 allow/ask/deny
// Decide maps the permission reported by the platform to allow/ask/deny.
func (p *Policy) Decide(perm fileaccess.Permission) Result {
	switch perm {
	case fileaccess.PermissionGranted:
		return Result{Decision: DecisionAllow}
	case fileaccess.PermissionGrantable:
		switch p.ElevationDecision() {
		case DecisionAllow:
			return Result{Decision: DecisionAllow, Reason: "elevation allowed by policy"}
		case DecisionDeny:
			return Result{Decision: DecisionDeny, Reason: "elevation blocked by policy"}
		default:
			return Result{Decision: DecisionAsk, Reason: "policy requires approval"}
		}
	case fileaccess.PermissionDenied:
		return Result{Decision: DecisionDeny, Reason: "access denied by the platform"}
	default:
		return Result{Decision: DecisionDeny, Reason: "unknown permission state"}
	}
}

// ElevationDecision 返回提升权限的策略，缺省为 ask
// ElevationDecision returns the elevation policy, ask by default.
func (p *Policy) ElevationDecision() Decision {
	if p == nil {
		return DecisionAsk
	}
	return normalizeDecision(p.cfg.Elevation, DecisionAsk)
}

func normalizeDecision(raw string, fallback Decision) Decision {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case string(DecisionAllow):
		return DecisionAllow
	case string(DecisionAsk):
		return DecisionAsk
	case string(DecisionDeny):
		return DecisionDeny
	default:
		return fallback
	}
}

// Summary 返回当前权限策略的简短描述（供 status 展示）
func (p *Policy) Summary() string {
	return "elevation: " + string(p.ElevationDecision())
}
