package textsource

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// TextLayer extracts the embedded text layer of a document page with
// pdftotext, bypassing recognition entirely.
type TextLayer struct {
	path string
}

// NewTextLayer builds a text-layer source for the document at path.
func NewTextLayer(path string) *TextLayer {
	return &TextLayer{path: path}
}

// Text returns the text layer of the given 1-based page.
func (s *TextLayer) Text(ctx context.Context, page int) (string, error) {
	cmd := exec.CommandContext(ctx,
		"pdftotext",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-layout",
		s.path,
		"-",
	)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext %s page %d: %w", s.path, page, err)
	}
	return string(out), nil
}

// PageCount returns the document's page total.
func (s *TextLayer) PageCount(ctx context.Context) (int, error) {
	return popplerPageCount(ctx, s.path)
}
