package legacy

import (
	"context"

	"github.com/pkg/errors"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS {posts} (
		ID BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		post_type VARCHAR(20) NOT NULL DEFAULT 'post',
		post_title TEXT NOT NULL,
		post_content LONGTEXT NOT NULL,
		post_status VARCHAR(20) NOT NULL DEFAULT 'publish',
		post_date DATETIME NULL,
		post_date_gmt DATETIME NULL,
		post_modified DATETIME NULL,
		post_modified_gmt DATETIME NULL,
		post_password VARCHAR(255) NOT NULL DEFAULT '',
		menu_order INT NOT NULL DEFAULT 0,
		PRIMARY KEY (ID),
		KEY type_status_date (post_type, post_status, post_date_gmt, ID)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS {postmeta} (
		meta_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		post_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		meta_key VARCHAR(255) NULL,
		meta_value LONGTEXT NULL,
		PRIMARY KEY (meta_id),
		KEY post_id (post_id)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS {terms} (
		term_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		slug VARCHAR(191) NOT NULL,
		PRIMARY KEY (term_id),
		UNIQUE KEY slug (slug)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS {term_relationships} (
		object_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		term_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		PRIMARY KEY (object_id, term_id)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS {claims} (
		claim_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		date_created_gmt DATETIME NOT NULL,
		PRIMARY KEY (claim_id)
	) DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS {posts} (
		ID INTEGER PRIMARY KEY AUTOINCREMENT,
		post_type VARCHAR(20) NOT NULL DEFAULT 'post',
		post_title TEXT NOT NULL DEFAULT '',
		post_content TEXT NOT NULL DEFAULT '',
		post_status VARCHAR(20) NOT NULL DEFAULT 'publish',
		post_date DATETIME NULL,
		post_date_gmt DATETIME NULL,
		post_modified DATETIME NULL,
		post_modified_gmt DATETIME NULL,
		post_password VARCHAR(255) NOT NULL DEFAULT '',
		menu_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS {posts}_type_status_date ON {posts} (post_type, post_status, post_date_gmt, ID)`,
	`CREATE TABLE IF NOT EXISTS {postmeta} (
		meta_id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL DEFAULT 0,
		meta_key VARCHAR(255) NULL,
		meta_value TEXT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS {postmeta}_post_id ON {postmeta} (post_id)`,
	`CREATE TABLE IF NOT EXISTS {terms} (
		term_id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug VARCHAR(191) NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS {terms}_slug ON {terms} (slug)`,
	`CREATE TABLE IF NOT EXISTS {term_relationships} (
		object_id INTEGER NOT NULL DEFAULT 0,
		term_id INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (object_id, term_id)
	)`,
	`CREATE TABLE IF NOT EXISTS {claims} (
		claim_id INTEGER PRIMARY KEY AUTOINCREMENT,
		date_created_gmt DATETIME NOT NULL
	)`,
}

// Install creates the legacy tables when missing. Live installations already
// have them, this serves development databases and tests.
func (s *Store) Install(ctx context.Context) error {
	stmts := mysqlSchema
	if s.sqlite() {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, s.q(stmt)); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
