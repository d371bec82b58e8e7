// Package format provides file format detection for the marginalia tools.
package format

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a detected file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
)

// headerWindow is how far into a file the %PDF- header may sit. The
// file format allows up to 1024 bytes of preamble before the header,
// and readers accept such files, so detection must too.
const headerWindow = 1024

var pdfHeader = []byte("%PDF-")

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading file bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from the bytes.
func DetectFromMagic(data []byte) Format {
	if len(data) > headerWindow {
		data = data[:headerWindow]
	}
	if bytes.Contains(data, pdfHeader) {
		return PDF
	}
	return Unknown
}

// DetectFromReader inspects the leading content to determine format.
func DetectFromReader(r io.Reader) (Format, error) {
	head := make([]byte, headerWindow)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(head[:n]), nil
}

// DetectFile inspects a file on disk by content. The filename plays
// no part, so a PDF with the wrong extension is still recognized.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	return DetectFromReader(f)
}
