// Command goose runs the SQL migrations under migrations/ against the MySQL
// primary backend configured in actionstore.yaml.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose"

	"github.com/crochee/actionstore/config"
)

var (
	flags      = flag.NewFlagSet("goose", flag.ExitOnError)
	dir        = flags.String("dir", "./migrations", "directory with migration files")
	verbose    = flags.Bool("v", false, "enable verbose mode")
	help       = flags.Bool("h", false, "print help")
	configFile = flags.String("f", "./config/actionstore.yaml", "the config file")
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flags.Usage = usage
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	goose.SetVerbose(*verbose)

	args := flags.Args()
	if *help || len(args) == 0 {
		flags.Usage()
		return nil
	}
	command := args[0]
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	if err := config.LoadConfig(*configFile); err != nil {
		return err
	}

	db, err := config.OpenMySQL(context.Background())
	if err != nil {
		return err
	}
	defer db.Close()
	d, err := db.DB.DB()
	if err != nil {
		return err
	}
	return goose.Run(command, d, *dir, args[1:]...)
}

func usage() {
	fmt.Println(`Usage: goose [OPTIONS] COMMAND

Examples:
    goose status
    goose create init sql
    goose create add_some_column sql
    goose up

Options:`)
	flags.PrintDefaults()
	fmt.Println(`
Commands:
    up                   Migrate the DB to the most recent version available
    up-to VERSION        Migrate the DB to a specific VERSION
    down                 Roll back the version by 1
    down-to VERSION      Roll back to a specific VERSION
    redo                 Re-run the latest migration
    reset                Roll back all migrations
    status               Dump the migration status for the current DB
    version              Print the current version of the database
    create NAME [sql|go] Creates new migration file with the current timestamp
    fix                  Apply sequential ordering to migrations`)
}
