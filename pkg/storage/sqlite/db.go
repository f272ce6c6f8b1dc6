package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"

	"github.com/crochee/actionstore/pkg/storage"
)

// Dsn enables WAL and a busy timeout, mattn/go-sqlite3 applies them per connection
func Dsn(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
}

// New opens a SQLite file for development and tests. SQLite serialises
// writers, so the pool is a single connection.
func New(ctx context.Context, path string, opts ...storage.Option) (*storage.DB, error) {
	opts = append([]storage.Option{storage.WithMaxOpenConn(1), storage.WithMaxIdleConn(1)}, opts...)
	return storage.Open(ctx, sqlite.Open(Dsn(path)), opts...)
}
