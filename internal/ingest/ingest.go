// Package ingest defines the optional text-extraction collaborator used
// to auto-fill answers from uploaded files. OCR, PDF and spreadsheet
// engines are external services behind the Extractor port; the primary
// questionnaire flow never depends on them.
package ingest

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedKind is returned for file kinds the extractor cannot read.
var ErrUnsupportedKind = errors.New("unsupported file kind")

// Extractor turns raw uploaded bytes into best-effort plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, kind string) (string, error)
}

// Plain handles plain-text uploads (txt, csv) in-process and rejects
// everything else, leaving image/PDF extraction to an external service.
type Plain struct{}

func NewPlain() *Plain {
	return &Plain{}
}

func (p *Plain) Extract(_ context.Context, data []byte, kind string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(kind, ".")) {
	case "txt", "csv", "text":
		if !utf8.Valid(data) {
			return "", ErrUnsupportedKind
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return "", ErrUnsupportedKind
	}
}
