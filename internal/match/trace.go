package match

import "fmt"

// Event is a single step in the matching audit trail.
type Event struct {
	Ordinal int    `json:"ordinal"` // 0 for run-level events
	Stage   string `json:"stage"`
	Detail  string `json:"detail"`
}

// Trace stages.
const (
	StageExtract   = "extract"
	StageLookup    = "lookup"
	StageAmbiguous = "ambiguous"
	StageOutcome   = "outcome"
	StageRun       = "run"
)

func (e Event) String() string {
	if e.Ordinal == 0 {
		return fmt.Sprintf("run       | %-9s | %s", e.Stage, e.Detail)
	}
	return fmt.Sprintf("cit %03d   | %-9s | %s", e.Ordinal, e.Stage, e.Detail)
}

// Trace collects matching events for one run. It is threaded explicitly
// through locator, splitter, matcher and writer and returned to the caller;
// there is no shared or global state behind it.
type Trace struct {
	Events []Event
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Add appends an event.
func (t *Trace) Add(ordinal int, stage, format string, args ...any) {
	t.Events = append(t.Events, Event{
		Ordinal: ordinal,
		Stage:   stage,
		Detail:  fmt.Sprintf(format, args...),
	})
}
