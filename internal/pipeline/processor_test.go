package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
	"github.com/entrypoints/mcp-pdf-reader/internal/parse"
)

// stubExtractor serves canned results keyed by file name, with an
// optional per-call delay to exercise the concurrent fan-out.
type stubExtractor struct {
	results map[string]entity.ExtractionResult
	delay   time.Duration
}

func (s *stubExtractor) Extract(_ context.Context, path string) entity.ExtractionResult {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if res, ok := s.results[filepath.Base(path)]; ok {
		return res
	}
	return entity.ExtractionFailed(entity.ErrFileNotFound, "file not found: %s", path)
}

func okText(text string) entity.ExtractionResult {
	return entity.ExtractionResult{Text: text, PageCount: 1, PagesExtracted: 1}
}

func writePDFs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-"), 0o644))
	}
	return dir
}

func newTestProcessor(cfg Config, tx *stubExtractor) *Processor {
	return NewProcessor(nil, cfg, tx, parse.NewEngine())
}

func TestProcessFileSuccess(t *testing.T) {
	tx := &stubExtractor{results: map[string]entity.ExtractionResult{
		"a.pdf": okText("Total charges £93.98"),
	}}
	p := newTestProcessor(Config{}, tx)

	res := p.ProcessFile(context.Background(), "/bills/a.pdf")
	require.True(t, res.OK())
	assert.Equal(t, "a.pdf", res.Filename)
	assert.NotEqual(t, res.JobID.String(), "00000000-0000-0000-0000-000000000000")
	require.NotNil(t, res.Record)
	assert.Equal(t, "a.pdf", res.Record.Filename)
	assert.Equal(t, "/bills/a.pdf", res.Record.SourcePath)
	require.NotNil(t, res.Record.TotalCharges)
	assert.Equal(t, 93.98, *res.Record.TotalCharges)
}

func TestProcessFileExtractionFailure(t *testing.T) {
	tx := &stubExtractor{results: map[string]entity.ExtractionResult{
		"locked.pdf": entity.ExtractionFailed(entity.ErrPDFEncrypted, "PDF file is encrypted and requires a password"),
	}}
	p := newTestProcessor(Config{}, tx)

	res := p.ProcessFile(context.Background(), "locked.pdf")
	assert.False(t, res.OK())
	require.NotNil(t, res.Failure)
	assert.Equal(t, entity.ErrPDFEncrypted, res.Failure.Kind)
	assert.Nil(t, res.Record)
}

func TestProcessFileDateParseFault(t *testing.T) {
	tx := &stubExtractor{results: map[string]entity.ExtractionResult{
		"bad.pdf": okText("Your energy charges for 12th Sep - 99st Xyz 2024"),
	}}
	p := newTestProcessor(Config{}, tx)

	res := p.ProcessFile(context.Background(), "bad.pdf")
	assert.False(t, res.OK())
	assert.Nil(t, res.Failure)
	assert.NotEmpty(t, res.ParseErr)
}

func TestProcessFileTimeout(t *testing.T) {
	tx := &stubExtractor{
		results: map[string]entity.ExtractionResult{"slow.pdf": okText("x")},
		delay:   200 * time.Millisecond,
	}
	p := newTestProcessor(Config{DocTimeout: 10 * time.Millisecond}, tx)

	res := p.ProcessFile(context.Background(), "slow.pdf")
	assert.False(t, res.OK())
	require.NotNil(t, res.Failure)
	assert.Equal(t, entity.ErrUnexpected, res.Failure.Kind)
}

func TestProcessDirectoryBatchResilience(t *testing.T) {
	dir := writePDFs(t, "a.pdf", "b.pdf", "c.pdf")
	tx := &stubExtractor{results: map[string]entity.ExtractionResult{
		"a.pdf": okText("Total charges £10.00"),
		"b.pdf": entity.ExtractionFailed(entity.ErrPDFEncrypted, "PDF file is encrypted and requires a password"),
		"c.pdf": okText("Total charges £30.00"),
	}}
	p := newTestProcessor(Config{MaxConcurrency: 2}, tx)

	results, stats, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, BatchStats{Listed: 3, Succeeded: 2, Failed: 1}, stats)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.Equal(t, entity.ErrPDFEncrypted, results[1].Failure.Kind)
	assert.True(t, results[2].OK())
}

func TestProcessDirectoryPreservesListingOrder(t *testing.T) {
	names := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
	dir := writePDFs(t, names...)

	canned := make(map[string]entity.ExtractionResult, len(names))
	for _, n := range names {
		canned[n] = okText("Total charges £1.00")
	}
	tx := &stubExtractor{results: canned, delay: 5 * time.Millisecond}
	p := newTestProcessor(Config{MaxConcurrency: 5}, tx)

	results, _, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, len(names))
	for i, n := range names {
		assert.Equal(t, n, results[i].Filename)
	}
}

func TestProcessDirectoryMissing(t *testing.T) {
	p := newTestProcessor(Config{}, &stubExtractor{})
	_, _, err := p.ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
