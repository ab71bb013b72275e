package entity

import "time"

// FileInfo describes one candidate document found by a directory scan.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
}

// Listing is the result of enumerating a directory for documents,
// sorted by file name.
type Listing struct {
	Directory string     `json:"directory"`
	Count     int        `json:"pdf_count"`
	Files     []FileInfo `json:"files"`
}
