package entity

import "fmt"

// ErrorKind is the closed classification for extraction failures.
// Callers branch on the kind, never on the message text.
type ErrorKind string

const (
	ErrFileNotFound     ErrorKind = "FILE_NOT_FOUND"
	ErrPermissionDenied ErrorKind = "PERMISSION_DENIED"
	ErrPDFRead          ErrorKind = "PDF_READ_ERROR"
	ErrPDFEncrypted     ErrorKind = "PDF_ENCRYPTED"
	ErrUnknownPDF       ErrorKind = "UNKNOWN_PDF_ERROR"
	ErrUnexpected       ErrorKind = "UNEXPECTED_ERROR"
)

// ExtractionFailure is the failure arm of an extraction result.
type ExtractionFailure struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
}

func (f *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// DocumentMetadata holds the descriptive info-dictionary fields of a
// document. Purely informational; never consulted by field extraction.
type DocumentMetadata struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
}

// MetadataUnknown is the sentinel for an absent metadata field.
const MetadataUnknown = "Unknown"

// ExtractionResult is the tagged outcome of one extraction call.
// Failure is nil on success; on failure the remaining fields are zero.
// Invariant: PagesExtracted <= PageCount.
type ExtractionResult struct {
	Text           string             `json:"text"`
	PageCount      int                `json:"page_count"`
	PagesExtracted int                `json:"pages_extracted"`
	Metadata       DocumentMetadata   `json:"metadata"`
	Failure        *ExtractionFailure `json:"failure,omitempty"`
}

// OK reports whether the extraction succeeded.
func (r ExtractionResult) OK() bool { return r.Failure == nil }

// ExtractionFailed builds a failure-arm result.
func ExtractionFailed(kind ErrorKind, format string, args ...any) ExtractionResult {
	return ExtractionResult{Failure: &ExtractionFailure{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}
