// migrate-to-postgres copies recorded generation runs from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/delvegen.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user delvegen \
//	    -pg-password delvegen \
//	    -pg-database delvegen
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lawnchairsociety/delvegen/internal/database"
)

func main() {
	defaults := database.DefaultPostgresConfig()

	sqlitePath := flag.String("sqlite", "data/delvegen.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", defaults.Host, "PostgreSQL host")
	pgPort := flag.Int("pg-port", defaults.Port, "PostgreSQL port")
	pgUser := flag.String("pg-user", defaults.User, "PostgreSQL user")
	pgPassword := flag.String("pg-password", "", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", defaults.Database, "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", defaults.SSLMode, "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Run Migration")
	log.Println("==================================")

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite database not found: %v", err)
	}

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pgConfig := defaults
	pgConfig.Host = *pgHost
	pgConfig.Port = *pgPort
	pgConfig.User = *pgUser
	pgConfig.Password = *pgPassword
	pgConfig.Database = *pgDatabase
	pgConfig.SSLMode = *pgSSLMode

	// Opening runs the schema migrations, so the table exists even on a dry run
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pgConfig})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	stats, err := src.CopyRuns(dst, *dryRun)
	if err != nil {
		log.Fatalf("Failed to migrate generation_runs: %v", err)
	}

	log.Println("==================================")
	log.Printf("Migration complete! Runs copied: %d, already present: %d", stats.Copied, stats.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Copies recorded generation runs from SQLite to PostgreSQL.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
