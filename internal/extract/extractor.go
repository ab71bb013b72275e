package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// pageFaultPlaceholder is inserted in place of a page whose text could
// not be extracted. The page still gets its marker and stays in the
// page count, but is excluded from pages_extracted.
const pageFaultPlaceholder = "[Error extracting text from this page]"

// PDFExtractor extracts the text layer of PDF documents via MuPDF.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

var _ TextExtractor = (*PDFExtractor)(nil)

// Extract opens the document at path and returns its text, page counts
// and metadata, or a classified failure. The file handle is scoped to
// this call; encryption short-circuits before any page is read.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (res entity.ExtractionResult) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	e.logger.Info("extract.start", "path", abs)

	// MuPDF is C under the hood; a crash in it must degrade to the
	// catch-all failure kind rather than take the process down.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extract.panic", "path", abs, "panic", r)
			res = entity.ExtractionFailed(entity.ErrUnexpected, "unexpected error: %v", r)
		}
	}()

	res = e.extract(ctx, abs)
	if res.OK() {
		e.logger.Info("extract.ok",
			"path", abs,
			"pages", res.PageCount,
			"pages_extracted", res.PagesExtracted,
			"chars", len(res.Text),
		)
	} else {
		e.logger.Error("extract.failed", "path", abs, "kind", res.Failure.Kind, "message", res.Failure.Message)
	}
	return res
}

func (e *PDFExtractor) extract(ctx context.Context, path string) entity.ExtractionResult {
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return entity.ExtractionFailed(entity.ErrFileNotFound, "file not found: %s", path)
	case errors.Is(err, fs.ErrPermission):
		return entity.ExtractionFailed(entity.ErrPermissionDenied, "permission denied accessing: %s", path)
	case err != nil:
		return entity.ExtractionFailed(entity.ErrUnexpected, "unexpected error: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return entity.ExtractionFailed(entity.ErrUnexpected, "unexpected error reading %s: %v", path, err)
	}

	doc, err := fitz.NewFromMemory(data)
	switch {
	case errors.Is(err, fitz.ErrNeedsPassword):
		return entity.ExtractionFailed(entity.ErrPDFEncrypted, "PDF file is encrypted and requires a password")
	case errors.Is(err, fitz.ErrOpenMemory), errors.Is(err, fitz.ErrOpenDocument):
		return entity.ExtractionFailed(entity.ErrPDFRead, "could not read PDF file: %v", err)
	case err != nil:
		return entity.ExtractionFailed(entity.ErrUnknownPDF, "unexpected error reading PDF: %v", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	var b strings.Builder
	extracted := 0
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return entity.ExtractionFailed(entity.ErrUnexpected, "unexpected error: %v", err)
		}
		fmt.Fprintf(&b, "--- Page %d ---\n", i+1)
		text, err := doc.Text(i)
		if err != nil {
			e.logger.Warn("extract.page.failed", "path", path, "page", i+1, "error", err)
			b.WriteString(pageFaultPlaceholder)
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
		extracted++
	}

	return entity.ExtractionResult{
		Text:           strings.TrimSpace(b.String()),
		PageCount:      total,
		PagesExtracted: extracted,
		Metadata:       metadataFrom(doc.Metadata()),
	}
}

// metadataFrom maps the MuPDF info dictionary onto the fixed metadata
// shape, defaulting absent entries to the "Unknown" sentinel. MuPDF
// returns fixed-size C buffers, so absent entries arrive as runs of
// NUL bytes rather than empty strings.
func metadataFrom(info map[string]string) entity.DocumentMetadata {
	get := func(key string) string {
		if v := strings.Trim(info[key], "\x00 \t\r\n"); v != "" {
			return v
		}
		return entity.MetadataUnknown
	}
	return entity.DocumentMetadata{
		Title:            get("title"),
		Author:           get("author"),
		Subject:          get("subject"),
		Creator:          get("creator"),
		Producer:         get("producer"),
		CreationDate:     get("creationDate"),
		ModificationDate: get("modDate"),
	}
}
