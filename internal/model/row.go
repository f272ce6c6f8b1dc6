package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionTable = "actionstore_actions"
	GroupTable  = "actionstore_groups"
	ClaimTable  = "actionstore_claims"
	OptionTable = "actionstore_options"
)

// ActionRow is a row of the actions table
type ActionRow struct {
	ActionID           int64          `gorm:"column:action_id;primaryKey;autoIncrement"`
	Hook               string         `gorm:"column:hook;type:varchar(191);not null;index:idx_actionstore_hook"`
	Status             string         `gorm:"column:status;type:varchar(20);not null;index:idx_actionstore_status"`
	ScheduledDateGMT   *time.Time     `gorm:"column:scheduled_date_gmt;index:idx_actionstore_scheduled"`
	ScheduledDateLocal *time.Time     `gorm:"column:scheduled_date_local"`
	Args               string         `gorm:"column:args;type:varchar(8000);not null"`
	Schedule           datatypes.JSON `gorm:"column:schedule"`
	GroupID            int64          `gorm:"column:group_id;not null;default:0;index:idx_actionstore_group"`
	Attempts           int            `gorm:"column:attempts;not null;default:0"`
	LastAttemptGMT     *time.Time     `gorm:"column:last_attempt_gmt;index:idx_actionstore_last_attempt"`
	LastAttemptLocal   *time.Time     `gorm:"column:last_attempt_local"`
	ClaimID            int64          `gorm:"column:claim_id;not null;default:0;index:idx_actionstore_claim"`
}

func (ActionRow) TableName() string {
	return ActionTable
}

// GroupRow interns a group slug
type GroupRow struct {
	GroupID int64  `gorm:"column:group_id;primaryKey;autoIncrement"`
	Slug    string `gorm:"column:slug;type:varchar(191);not null;uniqueIndex:idx_actionstore_slug"`
}

func (GroupRow) TableName() string {
	return GroupTable
}

// ClaimRow only mints claim ids
type ClaimRow struct {
	ClaimID        int64     `gorm:"column:claim_id;primaryKey;autoIncrement"`
	DateCreatedGMT time.Time `gorm:"column:date_created_gmt;not null"`
}

func (ClaimRow) TableName() string {
	return ClaimTable
}

// OptionRow is a durable name/value setting
type OptionRow struct {
	Name  string `gorm:"column:option_name;type:varchar(191);primaryKey"`
	Value string `gorm:"column:option_value;type:text;not null"`
}

func (OptionRow) TableName() string {
	return OptionTable
}

// TimePtr returns nil for the zero time
func TimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// TimeValue returns the zero time for nil
func TimeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
