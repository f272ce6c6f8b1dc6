package response

import (
	"time"

	"github.com/crochee/actionstore/internal/model"
)

type Action struct {
	ID       int64          `json:"id"`
	Hook     string         `json:"hook"`
	Args     model.Args     `json:"args"`
	Group    string         `json:"group"`
	Status   model.Status   `json:"status"`
	Schedule model.Schedule `json:"schedule"`
	ClaimID  int64          `json:"claim_id"`
	// scheduled time while pending, last attempt afterwards
	Date        time.Time  `json:"date"`
	DateGMT     time.Time  `json:"date_gmt"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
}

type ListActionsRes struct {
	Total   int64     `json:"total"`
	PerPage int       `json:"per_page"`
	Offset  int       `json:"offset"`
	List    []*Action `json:"list"`
}

// FindActionRes carries 0 when nothing matched
type FindActionRes struct {
	ID int64 `json:"id"`
}

type ActionCountsRes struct {
	Counts map[model.Status]int64 `json:"counts"`
	// distinct claims holding pending or running actions
	Claims int64 `json:"claims"`
}
