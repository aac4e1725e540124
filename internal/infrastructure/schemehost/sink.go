package schemehost

import (
	"fmt"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

// EventKind classifies a sink notification.
type EventKind int

const (
	EventProgress EventKind = iota
	EventData
	EventResult
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventData:
		return "data"
	case EventResult:
		return "result"
	default:
		return "unknown"
	}
}

// Event is one recorded sink notification.
type Event struct {
	Kind     EventKind
	Status   entity.BindStatus
	Text     string
	Flags    entity.DataFlags
	Progress uint64
	Max      uint64
	Err      error
	Code     entity.ResultCode
}

func (e Event) String() string {
	switch e.Kind {
	case EventProgress:
		return fmt.Sprintf("progress %s %q", e.Status, e.Text)
	case EventData:
		return fmt.Sprintf("data flags=0x%x %d/%d", uint32(e.Flags), e.Progress, e.Max)
	case EventResult:
		if e.Err != nil {
			return fmt.Sprintf("result %s: %v", e.Code, e.Err)
		}
		return fmt.Sprintf("result %s", e.Code)
	default:
		return "unknown"
	}
}

// Collector is a ProtocolSink that records notifications in order. Sessions
// notify from within Start, so no locking is needed.
type Collector struct {
	events []Event
}

func (c *Collector) ReportProgress(status entity.BindStatus, text string) {
	c.events = append(c.events, Event{Kind: EventProgress, Status: status, Text: text})
}

func (c *Collector) ReportData(flags entity.DataFlags, progress, max uint64) {
	c.events = append(c.events, Event{Kind: EventData, Flags: flags, Progress: progress, Max: max})
}

func (c *Collector) ReportResult(err error, code entity.ResultCode, redirectURL string) {
	c.events = append(c.events, Event{Kind: EventResult, Err: err, Code: code, Text: redirectURL})
}

// Events returns the recorded notifications.
func (c *Collector) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// MIMEType returns the last reported MIME type, if any.
func (c *Collector) MIMEType() string {
	for i := len(c.events) - 1; i >= 0; i-- {
		e := c.events[i]
		if e.Kind == EventProgress && e.Status == entity.BindStatusMIMETypeAvailable {
			return e.Text
		}
	}
	return ""
}

// Announced returns the length carried by the last data notification that
// reported the content fully available.
func (c *Collector) Announced() (uint64, bool) {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Kind == EventData && c.events[i].Flags.Has(entity.DataFullyAvailable) {
			return c.events[i].Max, true
		}
	}
	return 0, false
}
