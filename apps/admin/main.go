package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/profile"
	sqlxrepos "github.com/mealmatch/mealmatch/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	if !conf.Database.Configured() {
		logger.Fatal("no database credentials configured")
	}

	cli := commandLine{
		conf:           conf,
		newProfileRepo: func(db *sqlx.DB) profile.Repository { return sqlxrepos.NewProfileRepository(db) },
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
