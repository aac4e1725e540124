package entity

// SessionState is the lifecycle state of a protocol session.
//
//	Created -> Started -> Readable -> Terminated
//	Started -> Failed
type SessionState int

const (
	SessionCreated SessionState = iota
	SessionStarted
	SessionReadable
	SessionFailed
	SessionTerminated
)

func (s SessionState) String() string {
	switch s {
	case SessionCreated:
		return "created"
	case SessionStarted:
		return "started"
	case SessionReadable:
		return "readable"
	case SessionFailed:
		return "failed"
	case SessionTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// HasData reports whether reads may be served in this state.
func (s SessionState) HasData() bool {
	return s == SessionReadable || s == SessionTerminated
}
