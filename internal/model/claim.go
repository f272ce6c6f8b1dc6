package model

// Claim is a batch of actions reserved by one worker. It is a value handed
// out by the store that staked it; releasing it goes back through that store.
type Claim struct {
	id        int64
	actionIDs []int64
}

func NewClaim(id int64, actionIDs []int64) *Claim {
	ids := make([]int64, len(actionIDs))
	copy(ids, actionIDs)
	return &Claim{id: id, actionIDs: ids}
}

func (c *Claim) ID() int64 {
	return c.id
}

func (c *Claim) ActionIDs() []int64 {
	ids := make([]int64, len(c.actionIDs))
	copy(ids, c.actionIDs)
	return ids
}

func (c *Claim) Len() int {
	return len(c.actionIDs)
}
