// Package pipeline composes the text extractor and the field engine
// into per-document and per-directory processing. Failures are always
// per-document: one bad file never aborts a batch.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
	"github.com/entrypoints/mcp-pdf-reader/internal/extract"
	"github.com/entrypoints/mcp-pdf-reader/internal/ingest"
	"github.com/entrypoints/mcp-pdf-reader/internal/parse"
)

// DocumentResult is the outcome for a single document. Exactly one of
// Record and Failure/ParseErr describes the terminal state: Failure
// for extraction-stage faults, ParseErr for the field engine's date
// fault, Record otherwise.
type DocumentResult struct {
	JobID    uuid.UUID             `json:"job_id"`
	Path     string                `json:"path"`
	Filename string                `json:"filename"`
	Record   *entity.InvoiceRecord `json:"record,omitempty"`

	Failure  *entity.ExtractionFailure `json:"failure,omitempty"`
	ParseErr string                    `json:"parse_error,omitempty"`
}

// OK reports whether the document produced a record.
func (r DocumentResult) OK() bool { return r.Failure == nil && r.ParseErr == "" }

// BatchStats aggregates a directory run.
type BatchStats struct {
	Listed    int `json:"listed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Config holds processing knobs.
type Config struct {
	MaxConcurrency int           // document fan-out; min 1
	DocTimeout     time.Duration // 0 = unbounded
}

// Processor coordinates extract (stage 1) then parse (stage 2).
type Processor struct {
	logger    *slog.Logger
	cfg       Config
	extractor extract.TextExtractor
	engine    *parse.Engine
}

func NewProcessor(logger *slog.Logger, cfg Config, tx extract.TextExtractor, engine *parse.Engine) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	return &Processor{logger: logger, cfg: cfg, extractor: tx, engine: engine}
}

// ProcessFile runs the extractor-then-engine pipeline for one path.
func (p *Processor) ProcessFile(ctx context.Context, path string) DocumentResult {
	res := DocumentResult{
		JobID:    uuid.New(),
		Path:     path,
		Filename: filepath.Base(path),
	}
	log := p.logger.With("job_id", res.JobID, "path", path)
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		log = log.With("request_id", rid)
	}

	extRes := p.extractWithBound(ctx, path)
	if !extRes.OK() {
		log.Error("pipeline.extract.failed", "kind", extRes.Failure.Kind, "message", extRes.Failure.Message)
		res.Failure = extRes.Failure
		return res
	}
	log.Info("pipeline.extract.ok", "pages", extRes.PageCount, "pages_extracted", extRes.PagesExtracted)

	rec, err := p.engine.ExtractFields(extRes.Text)
	if err != nil {
		log.Error("pipeline.parse.failed", "error", err)
		res.ParseErr = err.Error()
		return res
	}
	rec.Filename = res.Filename
	rec.SourcePath = path
	res.Record = &rec
	log.Info("pipeline.parse.ok")
	return res
}

// extractWithBound applies the optional per-document wall-clock bound.
// An overrun is reported as the catch-all failure kind for that
// document only; the extraction goroutine finishes in the background.
func (p *Processor) extractWithBound(ctx context.Context, path string) entity.ExtractionResult {
	if p.cfg.DocTimeout <= 0 {
		return p.extractor.Extract(ctx, path)
	}

	ctx, cancel := common.WithTimeout(ctx, p.cfg.DocTimeout)
	defer cancel()

	done := make(chan entity.ExtractionResult, 1)
	go func() {
		done <- p.extractor.Extract(ctx, path)
	}()
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return entity.ExtractionFailed(entity.ErrUnexpected,
			"unexpected error: document processing exceeded %s", p.cfg.DocTimeout)
	}
}

// ProcessDirectory lists dir, processes every document with bounded
// fan-out, and fans in preserving listing order so report output is
// deterministic.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) ([]DocumentResult, BatchStats, error) {
	listing, err := ingest.ListPDFFiles(p.logger, dir)
	if err != nil {
		return nil, BatchStats{}, err
	}

	results := make([]DocumentResult, len(listing.Files))
	var g errgroup.Group
	g.SetLimit(p.cfg.MaxConcurrency)
	for i, f := range listing.Files {
		g.Go(func() error {
			results[i] = p.ProcessFile(ctx, f.Path)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in results

	stats := BatchStats{Listed: len(listing.Files)}
	for _, r := range results {
		if r.OK() {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
	}
	p.logger.Info("pipeline.batch.done",
		"dir", listing.Directory,
		"listed", stats.Listed,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
