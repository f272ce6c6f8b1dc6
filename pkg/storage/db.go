package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/crochee/actionstore/pkg/logger"
	"github.com/crochee/actionstore/pkg/logger/gormx"
)

var (
	NotFound           = gorm.ErrRecordNotFound
	ErrNotRowsAffected = errors.New("0 rows affected")
)

type option struct {
	debug bool

	maxOpenConn     int
	maxIdleConn     int
	connMaxLifetime time.Duration
	slowThreshold   time.Duration
	plugins         []gorm.Plugin
}

type Option func(*option)

func WithDebug(debug bool) Option {
	return func(o *option) {
		o.debug = debug
	}
}

func WithMaxOpenConn(maxOpenConn int) Option {
	return func(o *option) {
		o.maxOpenConn = maxOpenConn
	}
}

func WithMaxIdleConn(maxIdleConn int) Option {
	return func(o *option) {
		o.maxIdleConn = maxIdleConn
	}
}

func WithMaxLifetime(connMaxLifetime time.Duration) Option {
	return func(o *option) {
		o.connMaxLifetime = connMaxLifetime
	}
}

func WithSlowThreshold(threshold time.Duration) Option {
	return func(o *option) {
		o.slowThreshold = threshold
	}
}

func WithPlugins(plugins ...gorm.Plugin) Option {
	return func(o *option) {
		o.plugins = append(o.plugins, plugins...)
	}
}

// Open opens a gorm client over dialector with the pool and naming rules shared by every backend
func Open(ctx context.Context, dialector gorm.Dialector, opts ...Option) (*DB, error) {
	o := &option{
		maxOpenConn:   100,
		maxIdleConn:   80,
		slowThreshold: time.Second,
	}
	for _, f := range opts {
		f(o)
	}
	level := glogger.Warn
	if o.debug {
		level = glogger.Info
	}
	client, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Second)
		},
		Logger: gormx.NewLog(logger.From(ctx), o.debug, glogger.Config{
			SlowThreshold: o.slowThreshold,
			LogLevel:      level,
		}),
	})
	if err != nil {
		return nil, err
	}
	for _, plugin := range o.plugins {
		if err = client.Use(plugin); err != nil {
			return nil, err
		}
	}

	var sqlDB *sql.DB
	if sqlDB, err = client.DB(); err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.maxOpenConn)
	sqlDB.SetMaxIdleConns(o.maxIdleConn)
	sqlDB.SetConnMaxLifetime(o.connMaxLifetime)

	return &DB{DB: client, Debug: o.debug}, nil
}

type DB struct {
	*gorm.DB
	Debug bool
}

// With binds ctx to a new session, statements log through ctx's logger
func (d *DB) With(ctx context.Context) *DB {
	return &DB{DB: d.DB.WithContext(ctx), Debug: d.Debug}
}

// Dialect is the gorm dialector name, "mysql" or "sqlite"
func (d *DB) Dialect() string {
	return d.DB.Dialector.Name()
}

func (d *DB) Close() error {
	s, err := d.DB.DB()
	if err != nil {
		return err
	}
	return s.Close()
}

// Transaction runs fn in a transaction, logging rollbacks
func (d *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DB{DB: tx, Debug: d.Debug})
	})
	if err != nil {
		logger.From(ctx).Debug("transaction rolled back", zap.Error(err))
	}
	return err
}
