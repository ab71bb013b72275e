package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
	"github.com/entrypoints/mcp-pdf-reader/internal/export"
	"github.com/entrypoints/mcp-pdf-reader/internal/extract"
	"github.com/entrypoints/mcp-pdf-reader/internal/parse"
	"github.com/entrypoints/mcp-pdf-reader/internal/pipeline"
	"github.com/entrypoints/mcp-pdf-reader/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// batchFailed reports total failure: documents were listed but none
// produced a record. An empty batch is a success.
func batchFailed(stats pipeline.BatchStats) bool {
	return stats.Listed > 0 && stats.Succeeded == 0
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to process invoice PDFs from (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		csvOut  = flag.String("csv", "", "also write a CSV export to this path (optional)")
		dbPath  = flag.String("db", "", "SQLite database to persist records to (optional)")
		rules   = flag.String("rules", "", "JSON rule file merged over the built-in extraction rules")
		jobs    = flag.Int("jobs", 4, "number of documents processed concurrently")
		timeout = flag.Duration("timeout", 0, "wall-clock bound per document (0 = unbounded)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		parentDir := filepath.Dir(strings.TrimSuffix(*dir, string(filepath.Separator)))
		*out = filepath.Join(parentDir, "invoices.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	engine := parse.NewEngine()
	if *rules != "" {
		if err := engine.LoadRuleFile(*rules); err != nil {
			logger.Error("failed to load rule file", "path", *rules, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded rule file", "path", *rules)
	}

	extractor := extract.NewPDFExtractor(logger)
	processor := pipeline.NewProcessor(logger, pipeline.Config{
		MaxConcurrency: *jobs,
		DocTimeout:     *timeout,
	}, extractor, engine)

	logger.Info("processing invoices", "dir", *dir)
	results, stats, err := processor.ProcessDirectory(ctx, *dir)
	if err != nil {
		logger.Error("failed to process directory", "error", err)
		os.Exit(1)
	}

	var records []entity.InvoiceRecord
	for _, r := range results {
		if r.OK() {
			records = append(records, *r.Record)
		}
	}

	// Persist to SQLite when asked
	if *dbPath != "" {
		store, err := repository.NewStore(*dbPath, logger)
		if err != nil {
			logger.Error("failed to open record store", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		batchID := uuid.New()
		for _, rec := range records {
			if _, err := store.Save(ctx, batchID, rec); err != nil {
				logger.Error("failed to save record", "filename", rec.Filename, "error", err)
			}
		}
		logger.Info("records persisted", "db", store.Path(), "batch_id", batchID, "count", len(records))
	}

	svc := export.NewService(logger)

	xlsx, err := svc.ExportXLSX(records)
	if err != nil {
		logger.Error("xlsx export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("failed to write xlsx", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("xlsx written", "path", *out)

	if *csvOut != "" {
		data, err := svc.ExportCSV(records)
		if err != nil {
			logger.Error("csv export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*csvOut, data, 0o644); err != nil {
			logger.Error("failed to write csv", "path", *csvOut, "error", err)
			os.Exit(1)
		}
		logger.Info("csv written", "path", *csvOut)
	}

	logger.Info("batch complete",
		"listed", stats.Listed,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	for _, r := range results {
		if !r.OK() {
			if r.Failure != nil {
				logger.Warn("document failed", "filename", r.Filename, "kind", r.Failure.Kind, "message", r.Failure.Message)
			} else {
				logger.Warn("document failed", "filename", r.Filename, "error", r.ParseErr)
			}
		}
	}

	if batchFailed(stats) {
		logger.Error("no document in the batch produced a record")
		os.Exit(1)
	}
}
