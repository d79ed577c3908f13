package models

// Status is the lifecycle state of a product.
type Status string

const (
	StatusPreparing   Status = "Preparing"
	StatusPublished   Status = "Published"
	StatusUnpublished Status = "Unpublished"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPreparing, StatusPublished, StatusUnpublished}

// InitialStatus is the status every new product starts in.
const InitialStatus = StatusPreparing

var statusTransitions = map[Status][]Status{
	StatusPreparing:   {StatusPublished, StatusUnpublished},
	StatusPublished:   {StatusUnpublished},
	StatusUnpublished: {StatusPublished},
}

// ParseStatus returns the status named by s. Values outside the fixed set are rejected.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.IsValid()
}

// IsValid reports whether s is a member of the fixed status set.
func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// AllowedTransitions returns the statuses reachable from s in one step.
// Staying in the same status is always permitted and is not listed.
func (s Status) AllowedTransitions() []Status {
	next := statusTransitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether a product in status s may be moved to target.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() {
		return false
	}
	if target == s {
		return true
	}
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
