// Package main provides a CLI tool that loads a publications CSV export
// into the articles table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sbk-labs/dashboard-service/internal/config"
	"github.com/sbk-labs/dashboard-service/internal/database"
	"github.com/sbk-labs/dashboard-service/internal/ingestion"
	"github.com/sbk-labs/dashboard-service/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "", "Path to the publications CSV export")
	truncate := flag.Bool("truncate", false, "Empty the articles table before loading")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("no input file specified")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	logger = logger.With().Str("component", "loader").Logger()

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := ingestion.Parse(f)
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}
	logger.Info().Int("records", len(records)).Str("file", *file).Msg("csv parsed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	importer := ingestion.NewImporter(db, logger)
	count, err := importer.Import(ctx, records, *truncate)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.Info().Int64("rows", count).Msg("catalog loaded")
	return nil
}
