package model

// Status is the lifecycle state of an action, independent of its claim.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "in-progress"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Statuses lists every recognised status
var Statuses = []Status{StatusPending, StatusRunning, StatusComplete, StatusFailed, StatusCanceled}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of Statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusComplete, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Finished reports whether no further execution is expected
func (s Status) Finished() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusCanceled
}

// Live statuses are the ones whose claims still count as in flight
func (s Status) Live() bool {
	return s == StatusPending || s == StatusRunning
}
