package dbstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/crochee/actionstore/internal/model"
)

// sqliteSchema declares AUTOINCREMENT keys, without it SQLite would reuse the
// id of a deleted placeholder and the boundary seed would be lost.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + model.ActionTable + ` (
		action_id INTEGER PRIMARY KEY AUTOINCREMENT,
		hook VARCHAR(191) NOT NULL,
		status VARCHAR(20) NOT NULL,
		scheduled_date_gmt DATETIME NULL,
		scheduled_date_local DATETIME NULL,
		args VARCHAR(8000) NOT NULL DEFAULT '',
		schedule TEXT NULL,
		group_id INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_attempt_gmt DATETIME NULL,
		last_attempt_local DATETIME NULL,
		claim_id INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_actionstore_hook ON ` + model.ActionTable + ` (hook)`,
	`CREATE INDEX IF NOT EXISTS idx_actionstore_status ON ` + model.ActionTable + ` (status)`,
	`CREATE INDEX IF NOT EXISTS idx_actionstore_scheduled ON ` + model.ActionTable + ` (scheduled_date_gmt)`,
	`CREATE INDEX IF NOT EXISTS idx_actionstore_group ON ` + model.ActionTable + ` (group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_actionstore_last_attempt ON ` + model.ActionTable + ` (last_attempt_gmt)`,
	`CREATE INDEX IF NOT EXISTS idx_actionstore_claim ON ` + model.ActionTable + ` (claim_id)`,
	`CREATE TABLE IF NOT EXISTS ` + model.GroupTable + ` (
		group_id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug VARCHAR(191) NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_actionstore_slug ON ` + model.GroupTable + ` (slug)`,
	`CREATE TABLE IF NOT EXISTS ` + model.ClaimTable + ` (
		claim_id INTEGER PRIMARY KEY AUTOINCREMENT,
		date_created_gmt DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + model.OptionTable + ` (
		option_name VARCHAR(191) NOT NULL PRIMARY KEY,
		option_value TEXT NOT NULL
	)`,
}

// Migrate creates the tables. Production MySQL schemas are normally managed by
// cmd/goose, this is for development and tests.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.conn(ctx)
	if db.Dialect() != "sqlite" {
		return errors.WithStack(db.AutoMigrate(
			&model.ActionRow{},
			&model.GroupRow{},
			&model.ClaimRow{},
			&model.OptionRow{},
		))
	}
	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
