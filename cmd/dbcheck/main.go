package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// dbcheck verifies that the Supabase Postgres instance behind
// DATABASE_URL is reachable and that the scraped restaurant tables are
// populated. Exits non-zero on any failure.
func main() {
	table := flag.String("table", "restaurants", "Table to probe for a row count")
	reviewsTable := flag.String("reviews-table", "restaurant_reviews", "Reviews table to probe for a row count")
	flag.Parse()

	_ = godotenv.Load()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		color.Red("✗ Connection failed: %v", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		color.Red("✗ Query failed: %v", err)
		os.Exit(1)
	}
	color.Green("✓ Connected: %s", version)

	failed := false
	for _, name := range []string{*table, *reviewsTable} {
		if name == "" {
			continue
		}
		if err := probeTable(ctx, conn, name); err != nil {
			color.Red("✗ %s: %v", name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func probeTable(ctx context.Context, conn *pgx.Conn, name string) error {
	var exists bool
	err := conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("existence check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("table does not exist")
	}

	var count int64
	if err := conn.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", name)).Scan(&count); err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	color.Green("✓ %s: %d rows", name, count)
	return nil
}
