// Package server exposes the extraction pipeline over the Model
// Context Protocol. It is a thin adapter: all document semantics live
// in the extract, parse and pipeline packages.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrypoints/mcp-pdf-reader/internal/extract"
	"github.com/entrypoints/mcp-pdf-reader/internal/pipeline"
)

// Version is the MCP server version.
const Version = "1.0.0"

// Server is the MCP server for the PDF reader.
type Server struct {
	logger    *slog.Logger
	extractor extract.TextExtractor
	processor *pipeline.Processor
	server    *mcp.Server
}

// NewServer creates a new MCP server around the given pipeline parts.
func NewServer(logger *slog.Logger, extractor extract.TextExtractor, processor *pipeline.Processor) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	impl := &mcp.Implementation{
		Name:    "pdf-reader",
		Version: Version,
	}

	s := &Server{
		logger:    logger,
		extractor: extractor,
		processor: processor,
		server:    mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	s.logger.Info("server.listening", "addr", addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
