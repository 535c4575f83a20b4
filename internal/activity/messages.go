package activity

import (
	"fmt"
	"time"
)

// Kind identifies a typed progress message arriving on the app-generation
// stream.
type Kind string

const (
	KindPhaseStart      Kind = "phase_start"
	KindPhaseGenerating Kind = "phase_generating"
	KindPhaseComplete   Kind = "phase_complete"
	KindFileCreated     Kind = "file_created"
	KindFileUpdated     Kind = "file_updated"
	KindCommandRun      Kind = "command_run"
	KindCommandOutput   Kind = "command_output"
	KindTokenDelta      Kind = "token_delta"
	KindHeartbeat       Kind = "heartbeat"
	KindWarning         Kind = "warning"
	KindError           Kind = "error"
	KindDone            Kind = "done"
)

// State is the semantic state rendered next to an entry.
type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateError     State = "error"
	StateInfo      State = "info"
)

// Message is one inbound progress message.
type Message struct {
	Kind   Kind
	Detail string // Phase name, file path, command line, error text
	At     time.Time
}

// Entry is one rendered line of the activity log.
type Entry struct {
	Text  string    `json:"text"`
	State State     `json:"state"`
	At    time.Time `json:"at"`
}

// suppressed lists high-frequency kinds dropped from the log entirely.
// They still count as activity for stall detection.
var suppressed = map[Kind]bool{
	KindCommandOutput: true,
	KindTokenDelta:    true,
	KindHeartbeat:     true,
}

// render maps a message kind to its entry text and state. Returns ok=false
// for kinds that produce no entry. The switch is exhaustive over the known
// kinds; unknown kinds are handled by the caller.
func render(msg Message) (Entry, bool) {
	var text string
	var state State

	switch msg.Kind {
	case KindPhaseStart:
		text, state = fmt.Sprintf("Starting %s", msg.Detail), StateActive
	case KindPhaseGenerating:
		text, state = "Generating code", StateActive
	case KindPhaseComplete:
		text, state = fmt.Sprintf("Finished %s", msg.Detail), StateCompleted
	case KindFileCreated:
		text, state = fmt.Sprintf("Created %s", msg.Detail), StateCompleted
	case KindFileUpdated:
		text, state = fmt.Sprintf("Updated %s", msg.Detail), StateCompleted
	case KindCommandRun:
		text, state = fmt.Sprintf("Running %s", msg.Detail), StateActive
	case KindWarning:
		text, state = msg.Detail, StateInfo
	case KindError:
		text, state = msg.Detail, StateError
	case KindDone:
		text, state = "All done", StateCompleted
	case KindCommandOutput, KindTokenDelta, KindHeartbeat:
		return Entry{}, false
	default:
		return Entry{}, false
	}

	return Entry{Text: text, State: state, At: msg.At}, true
}
