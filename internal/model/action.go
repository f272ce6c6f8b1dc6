package model

import (
	"github.com/crochee/actionstore/pkg/json"
)

// Args are an action's named parameters. Two sets are equal when their
// canonical encodings are, see Encode. The caller's key order is not kept.
type Args map[string]interface{}

// Encode returns the canonical form, keys sorted. Nil encodes like an empty set.
func (a Args) Encode() (string, error) {
	if a == nil {
		return "{}", nil
	}
	return json.MarshalToString(a)
}

func (a Args) Equal(b Args) bool {
	x, err := a.Encode()
	if err != nil {
		return false
	}
	y, err := b.Encode()
	if err != nil {
		return false
	}
	return x == y
}

// DecodeArgs restores stored args, keeping numbers exact
func DecodeArgs(data string) (Args, error) {
	if data == "" {
		return Args{}, nil
	}
	var args Args
	if err := json.UnmarshalNumber([]byte(data), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}

// Action is one deferred unit of work
type Action struct {
	Hook     string
	Args     Args
	Schedule Schedule
	Group    string
	Status   Status

	null bool
}

func NewAction(hook string, args Args, schedule Schedule, group string) *Action {
	return &Action{
		Hook:     hook,
		Args:     args,
		Schedule: schedule,
		Group:    group,
		Status:   StatusPending,
	}
}

// NewFinishedAction is saved as complete
func NewFinishedAction(hook string, args Args, schedule Schedule, group string) *Action {
	a := NewAction(hook, args, schedule, group)
	a.Status = StatusComplete
	return a
}

// NewNullAction is what a lookup of an unknown id returns
func NewNullAction() *Action {
	return &Action{Args: Args{}, Schedule: NullSchedule(), null: true}
}

func (a *Action) IsNull() bool {
	return a == nil || a.null
}

func (a *Action) IsFinished() bool {
	return !a.IsNull() && a.Status.Finished()
}

func (a *Action) IsCanceled() bool {
	return !a.IsNull() && a.Status == StatusCanceled
}
