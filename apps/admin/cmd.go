package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/profile"
	"github.com/mealmatch/mealmatch/storage/database"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf           *core.Config
	newProfileRepo func(*sqlx.DB) profile.Repository // mockable
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createdb                    - create the app database if missing")
	fmt.Println("  migrate [COMMAND] [ARGS...] - run a goose migration command (default: up)")
	fmt.Println("  export [-o FILE]            - export all profiles as CSV")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("o", "", "Output file. Defaults to profiles_export_<date>.csv in the working directory.")

	switch args[1] {
	case "createdb":
		return database.CreateIfNotExist(cli.conf)
	case "migrate":
		return cli.migrate(args[2:])
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.export(*exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(args []string) error {
	command := "up"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	db, err := database.Open(cli.conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return database.RunGoose(db.DB, command, args...)
}

// export writes the same CSV the dashboard serves, straight from the store.
func (cli *commandLine) export(path string) error {
	db, err := database.Open(cli.conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	profiles, err := cli.newProfileRepo(db).QueryAllProfiles(context.Background())
	if err != nil {
		return err
	}

	if path == "" {
		path = profile.ExportFilename(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err = profile.WriteCSV(f, profiles); err != nil {
		return err
	}
	fmt.Printf("exported %d profiles to %s\n", len(profiles), path)
	return nil
}
