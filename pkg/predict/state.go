package predict

// Phase names the submission lifecycle stage.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// State is the submission state observed by renderers. Result is set only
// when Phase is PhaseSucceeded; Message and Fields only when Phase is
// PhaseFailed.
type State struct {
	Phase   Phase
	Result  *Result
	Message string
	Fields  map[string][]string
}

// Idle is the initial submission state.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Pending reports whether a request is in flight.
func (s State) Pending() bool {
	return s.Phase == PhasePending
}

// Event drives a State transition through Reduce.
type Event interface {
	event()
}

// SubmitRequested asks to start a submission.
type SubmitRequested struct{}

// ResponseReceived carries a successful prediction.
type ResponseReceived struct {
	Result Result
}

// ResponseFailed carries the user-visible failure message and any per-field
// messages the service reported.
type ResponseFailed struct {
	Message string
	Fields  map[string][]string
}

func (SubmitRequested) event()  {}
func (ResponseReceived) event() {}
func (ResponseFailed) event()   {}

// Reduce applies ev to s and reports whether the state changed. A submit is
// ignored while a request is pending, and responses are ignored unless one
// is pending.
func Reduce(s State, ev Event) (State, bool) {
	switch e := ev.(type) {
	case SubmitRequested:
		if s.Pending() {
			return s, false
		}
		return State{Phase: PhasePending}, true
	case ResponseReceived:
		if !s.Pending() {
			return s, false
		}
		result := e.Result
		return State{Phase: PhaseSucceeded, Result: &result}, true
	case ResponseFailed:
		if !s.Pending() {
			return s, false
		}
		msg := e.Message
		if msg == "" {
			msg = DefaultFailureMessage
		}
		return State{Phase: PhaseFailed, Message: msg, Fields: copyFields(e.Fields)}, true
	default:
		return s, false
	}
}

func copyFields(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
