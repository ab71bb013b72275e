package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
	"github.com/entrypoints/mcp-pdf-reader/internal/extract"
	"github.com/entrypoints/mcp-pdf-reader/internal/parse"
	"github.com/entrypoints/mcp-pdf-reader/internal/pipeline"
	"github.com/entrypoints/mcp-pdf-reader/internal/server"
)

func main() {
	stdio := flag.Bool("stdio", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *stdio {
		cfg.Server.Stdio = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := parse.NewEngine()
	if cfg.Pipeline.RulesPath != "" {
		if err := engine.LoadRuleFile(cfg.Pipeline.RulesPath); err != nil {
			logger.Error("failed to load rule file", "path", cfg.Pipeline.RulesPath, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded rule file", "path", cfg.Pipeline.RulesPath)
	}

	extractor := extract.NewPDFExtractor(logger)
	processor := pipeline.NewProcessor(logger, pipeline.Config{
		MaxConcurrency: cfg.Pipeline.MaxConcurrency,
		DocTimeout:     cfg.Pipeline.DocTimeout,
	}, extractor, engine)

	srv := server.NewServer(logger, extractor, processor)

	var err error
	if cfg.Server.Stdio {
		logger.Info("starting MCP server", "transport", "stdio")
		err = srv.Run(ctx)
	} else {
		logger.Info("starting MCP server", "transport", "http", "addr", cfg.Server.Addr)
		err = srv.RunHTTP(ctx, cfg.Server.Addr)
	}
	if err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
