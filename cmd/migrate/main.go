// Command migrate applies the reference-store schema in db/migrations.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/wahajaslm/tarco/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	cmd := os.Args[1]
	var runErr error
	switch cmd {
	case "up":
		runErr = m.Up()
	case "down":
		runErr = m.Down()
	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid steps argument: %v", err)
		}
		runErr = m.Steps(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)
		return
	default:
		fmt.Printf("unknown command: %s\n", cmd)
		usage()
	}

	if runErr != nil && runErr != migrate.ErrNoChange {
		log.Fatalf("migration %s failed: %v", cmd, runErr)
	}
	log.Printf("migration %s complete", cmd)
}

func usage() {
	fmt.Println("Usage: migrate [up|down|steps N|version]")
	os.Exit(1)
}
