package model

import "time"

// Record is the full persisted state of one action, used to move it between backends.
type Record struct {
	ID     int64
	Action *Action
	// ScheduledDate may differ from Action.Schedule when the action was saved with an explicit date
	ScheduledDate time.Time
	Attempts      int
	ClaimID       int64
	LastAttempt   time.Time
}
