package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	repo "github.com/jwalitptl/frontdesk-api/internal/repository/postgres"
	"github.com/jwalitptl/frontdesk-api/migrations"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

// Usage: migrate [up|down|version|force <version>]
func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := repo.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	dbDriver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		log.Fatal(err, "failed to create database driver")
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal(err, "failed to create source driver")
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		log.Fatal(err, "failed to create migrator")
	}
	defer func() { _, _ = m.Close() }()

	command := "up"
	if len(os.Args) >= 2 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatal(verr, "failed to read version")
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return
	case "force":
		if len(os.Args) < 3 {
			log.Fatal(errors.New("missing version"), "usage: migrate force <version>")
		}
		version, perr := strconv.Atoi(os.Args[2])
		if perr != nil {
			log.Fatal(perr, "invalid version")
		}
		err = m.Force(version)
	default:
		log.Fatal(fmt.Errorf("unknown command %q", command), "usage: migrate [up|down|version|force <version>]")
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err, "migration failed", "command", command)
	}

	log.Info("migrations complete", "command", command)
}
