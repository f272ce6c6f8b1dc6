package config

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"github.com/crochee/actionstore/pkg/storage"
	"github.com/crochee/actionstore/pkg/storage/mysql"
)

// OpenMySQL connects to the primary backend described by the mysql.* keys
func OpenMySQL(ctx context.Context) (*storage.DB, error) {
	return mysql.New(ctx,
		mysql.WithUser(viper.GetString("mysql.user")),
		mysql.WithPassword(viper.GetString("mysql.password")),
		mysql.WithIP(viper.GetString("mysql.ip")),
		mysql.WithPort(viper.GetString("mysql.port")),
		mysql.WithDatabase(viper.GetString("mysql.name")),
		mysql.WithCharset(viper.GetString("mysql.charset")),
		mysql.WithTimeout(10*time.Second),
		mysql.WithStorage(
			storage.WithDebug(viper.GetBool("mysql.debug")),
			storage.WithMaxOpenConn(viper.GetInt("mysql.max_open_conns")),
			storage.WithMaxIdleConn(viper.GetInt("mysql.max_idle_conns")),
			storage.WithMaxLifetime(viper.GetDuration("mysql.conn_max_lifetime")),
		),
	)
}

// Location is the zone of the stores' *_local columns
func Location() (*time.Location, error) {
	return time.LoadLocation(viper.GetString("store.timezone"))
}
