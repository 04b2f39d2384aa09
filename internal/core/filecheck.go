package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxFileSize is the upload size ceiling when none is configured
// (10 MiB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// acceptedMIMETypes are the content types accepted for CSV uploads.
// Browsers disagree wildly about what a .csv is, so the list is generous
// and a .csv extension is accepted as a final fallback.
var acceptedMIMETypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true,
	"application/vnd.ms-excel": true,
}

// FileMeta describes an uploaded file before its content is trusted.
type FileMeta struct {
	Name         string
	Size         int64
	MIMEType     string
	LastModified time.Time
}

// CheckFile validates upload metadata against size and type constraints.
// A maxSize of zero or less falls back to DefaultMaxFileSize.
func CheckFile(meta FileMeta, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	if meta.Size == 0 {
		return fmt.Errorf("empty file: %q has no content", meta.Name)
	}
	if meta.Size > maxSize {
		return fmt.Errorf("file too large: %q is %d bytes, limit is %d", meta.Name, meta.Size, maxSize)
	}

	// Content-Type often carries parameters ("text/csv; charset=utf-8").
	mimeType := meta.MIMEType
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	if acceptedMIMETypes[mimeType] {
		return nil
	}
	if strings.EqualFold(filepath.Ext(meta.Name), ".csv") {
		return nil
	}

	return fmt.Errorf("unsupported file type: %q (%s)", meta.Name, meta.MIMEType)
}
