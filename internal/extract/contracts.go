package extract

import (
	"context"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// TextExtractor is Stage 1: document path -> tagged text result.
// Failures are reported inside the result, never as an error: the
// taxonomy is closed and callers branch on the failure kind.
type TextExtractor interface {
	Extract(ctx context.Context, path string) entity.ExtractionResult
}
