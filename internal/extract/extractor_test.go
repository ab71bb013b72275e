package extract

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/rc4"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// assemblePDF serializes numbered objects with a valid cross-reference
// table. Object 1 is always the catalog.
func assemblePDF(objects []string, trailerExtra string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, trailerExtra, xrefStart)
	return buf.Bytes()
}

// pageObjects builds catalog, page tree, font and one page plus content
// stream per text. Page i lives at object 4+2i, its stream at 5+2i.
func pageObjects(pageTexts []string) []string {
	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	for i, text := range pageTexts {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>",
			5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	return objects
}

// minimalPDF builds a PDF with one page per text and no info dictionary.
func minimalPDF(pageTexts ...string) []byte {
	return assemblePDF(pageObjects(pageTexts), "")
}

// passwordPad is the standard security handler's 32-byte password pad.
var passwordPad = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// encryptedPDF builds a one-page PDF protected with the 40-bit RC4
// standard security handler (revision 2) and a non-empty user password,
// so opening without a password must fail. Only the /O, /U and /Encrypt
// plumbing matters here: the password check happens before any page is
// read.
func encryptedPDF() []byte {
	padded := func(pw string) []byte {
		b := append([]byte(pw), passwordPad...)
		return b[:32]
	}
	rc4With := func(key, src []byte) []byte {
		c, _ := rc4.NewCipher(key)
		out := make([]byte, len(src))
		c.XORKeyStream(out, src)
		return out
	}

	user := padded("hunter2")
	ownerKey := md5.Sum(padded("hunter2"))
	o := rc4With(ownerKey[:5], user)

	docID := md5.Sum([]byte("fixture"))
	perms := []byte{0xFF, 0xFF, 0xFF, 0xFF} // P = -1, little endian

	var keySrc []byte
	keySrc = append(keySrc, user...)
	keySrc = append(keySrc, o...)
	keySrc = append(keySrc, perms...)
	keySrc = append(keySrc, docID[:]...)
	key := md5.Sum(keySrc)
	u := rc4With(key[:5], passwordPad)

	objects := pageObjects([]string{"locked"})
	objects = append(objects, fmt.Sprintf(
		"<< /Filter /Standard /V 1 /R 2 /O <%X> /U <%X> /P -1 >>", o, u))
	trailerExtra := fmt.Sprintf(" /Encrypt %d 0 R /ID [<%X> <%X>]", len(objects), docID[:], docID[:])
	return assemblePDF(objects, trailerExtra)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtractSinglePage(t *testing.T) {
	path := writeFile(t, "hello.pdf", minimalPDF("Hello"))

	res := NewPDFExtractor(nil).Extract(context.Background(), path)
	require.True(t, res.OK(), "failure: %+v", res.Failure)

	assert.Contains(t, res.Text, "--- Page 1 ---")
	assert.Contains(t, res.Text, "Hello")
	assert.Equal(t, 1, res.PageCount)
	assert.Equal(t, 1, res.PagesExtracted)

	// No info dictionary, so every metadata field reports Unknown.
	assert.Equal(t, entity.MetadataUnknown, res.Metadata.Title)
	assert.Equal(t, entity.MetadataUnknown, res.Metadata.Author)
	assert.Equal(t, entity.MetadataUnknown, res.Metadata.Producer)
	assert.Equal(t, entity.MetadataUnknown, res.Metadata.CreationDate)
}

func TestExtractMultiPageMarkers(t *testing.T) {
	texts := []string{"alpha", "beta", "gamma"}
	path := writeFile(t, "three.pdf", minimalPDF(texts...))

	res := NewPDFExtractor(nil).Extract(context.Background(), path)
	require.True(t, res.OK(), "failure: %+v", res.Failure)

	assert.Equal(t, 3, res.PageCount)
	assert.Equal(t, 3, res.PagesExtracted)
	assert.Equal(t, 3, strings.Count(res.Text, "--- Page "))

	// One marker per page, in ascending order, each followed by its text.
	prev := -1
	for i, text := range texts {
		at := strings.Index(res.Text, fmt.Sprintf("--- Page %d ---", i+1))
		require.GreaterOrEqual(t, at, 0, "marker for page %d", i+1)
		assert.Greater(t, at, prev)
		body := strings.Index(res.Text, text)
		require.GreaterOrEqual(t, body, 0, "text of page %d", i+1)
		assert.Greater(t, body, at)
		prev = at
	}
}

func TestExtractEncrypted(t *testing.T) {
	path := writeFile(t, "locked.pdf", encryptedPDF())

	res := NewPDFExtractor(nil).Extract(context.Background(), path)
	require.False(t, res.OK())
	assert.Equal(t, entity.ErrPDFEncrypted, res.Failure.Kind)
	assert.Contains(t, res.Failure.Message, "password")
}

func TestExtractMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.pdf")

	res := NewPDFExtractor(nil).Extract(context.Background(), path)
	require.False(t, res.OK())
	assert.Equal(t, entity.ErrFileNotFound, res.Failure.Kind)
	assert.Contains(t, res.Failure.Message, "file not found")
}

func TestExtractNotAPDF(t *testing.T) {
	path := writeFile(t, "garbage.pdf", []byte("this is not a pdf document"))

	res := NewPDFExtractor(nil).Extract(context.Background(), path)
	require.False(t, res.OK())
	assert.Equal(t, entity.ErrPDFRead, res.Failure.Kind)
}

func TestExtractPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}
	path := writeFile(t, "locked.pdf", minimalPDF("x"))
	require.NoError(t, os.Chmod(path, 0o000))

	res := NewPDFExtractor(nil).Extract(context.Background(), path)
	require.False(t, res.OK())
	assert.Equal(t, entity.ErrPermissionDenied, res.Failure.Kind)
}

func TestExtractCancelledContext(t *testing.T) {
	path := writeFile(t, "hello.pdf", minimalPDF("Hello"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewPDFExtractor(nil).Extract(ctx, path)
	require.False(t, res.OK())
	assert.Equal(t, entity.ErrUnexpected, res.Failure.Kind)
}

func TestMetadataFromTrimsPadding(t *testing.T) {
	md := metadataFrom(map[string]string{
		"title":    "October bill\x00\x00\x00\x00",
		"author":   "\x00\x00\x00\x00\x00",
		"producer": "  \x00",
	})

	assert.Equal(t, "October bill", md.Title)
	assert.Equal(t, entity.MetadataUnknown, md.Author)
	assert.Equal(t, entity.MetadataUnknown, md.Producer)
	assert.Equal(t, entity.MetadataUnknown, md.Subject)
	assert.Equal(t, entity.MetadataUnknown, md.CreationDate)
}
