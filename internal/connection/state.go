package connection

import "sheetsync/internal/fileaccess"

// State 连接状态机 / connection state machine
type State int

const (
	Unconnected State = iota
	Connecting
	Connected
	PermissionLapsed
	Error
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case PermissionLapsed:
		return "permission_lapsed"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Kind 是 Connect 的结果标签 / Kind tags the result of Connect.
type Kind string

const (
	KindConnected Kind = "connected"
	KindCancelled Kind = "cancelled"
	KindDenied    Kind = "denied"
	KindError     Kind = "error"
)

// Outcome is what Connect resolves to. It never carries a panic or a bare error;
// Err is set for every kind except KindConnected so callers can use errors.Is.
type Outcome struct {
	Kind     Kind
	Handle   fileaccess.Handle
	Filename string
	Status   string
	Err      error
}

func (o Outcome) OK() bool { return o.Kind == KindConnected }

// DisplayStatus is the passive, always-displayable view returned by RestoreStatus.
type DisplayStatus struct {
	State    State
	Filename string
	Text     string
}
