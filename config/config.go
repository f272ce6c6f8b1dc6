package config

import (
	"path/filepath"

	"github.com/crochee/actionstore/pkg/config"
)

// defaults mirror actionstore.yaml so a partial file still boots.
var defaults = map[string]interface{}{
	"service.name":            "actionstore",
	"mode":                    "release",
	"log.level":               "info",
	"log.console":             true,
	"log.json":                false,
	"http.addr":               ":8080",
	"http.rate_limit":         0,
	"http.rate_burst":         20,
	"mysql.ip":                "127.0.0.1",
	"mysql.port":              "3306",
	"mysql.charset":           "utf8mb4",
	"mysql.max_open_conns":    100,
	"mysql.max_idle_conns":    80,
	"mysql.conn_max_lifetime": "1h",
	"mysql.auto_migrate":      false,
	"legacy.enabled":          false,
	"legacy.driver":           "mysql",
	"legacy.prefix":           "wp_",
	"store.timezone":          "UTC",
	"bootstrap.lock_ttl":      "30s",
	"migration.retries":       3,
	"migration.interval":      "200ms",
	"event.exchange":          "actionstore",
}

// LoadConfig init Config
func LoadConfig(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return config.LoadConfig(
		config.WithConfigFile(absPath),
		config.WithDefaults(defaults),
	)
}
