package form

// Status is the submission lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

var validTransitions = map[Status][]Status{
	StatusIdle:      {StatusPending},
	StatusPending:   {StatusSucceeded, StatusFailed},
	StatusFailed:    {StatusPending},
	StatusSucceeded: {},
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Submission is a snapshot of the lifecycle.
type Submission struct {
	Status   Status
	Attempts int
	// Reason describes the last failure; empty unless Status is failed.
	Reason    string
	RequestID string
}
