// Package textsource supplies per-page text for a document. Two backends are
// provided: TextLayer extracts an embedded text layer directly (fast,
// high-fidelity when present), and Raster rasterizes each page and hands the
// image to an injected recognition engine. Both shell out to the poppler
// tools (pdftotext, pdftoppm, pdfinfo), which must be installed.
package textsource

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

// Source yields the text of individual document pages. Pages are 1-based.
// Implementations may block (process invocation, recognition); callers bound
// them through ctx.
type Source interface {
	Text(ctx context.Context, page int) (string, error)
	PageCount(ctx context.Context) (int, error)
}

// TextRange fetches the text of the given pages. A nil pages slice means all
// pages, 1 through PageCount. Fetching stops at the first failure; the error
// identifies the offending page.
func TextRange(ctx context.Context, src Source, pages []int) (map[int]string, error) {
	if pages == nil {
		n, err := src.PageCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("page count: %w", err)
		}
		pages = make([]int, 0, n)
		for p := 1; p <= n; p++ {
			pages = append(pages, p)
		}
	}
	texts := make(map[int]string, len(pages))
	for _, p := range pages {
		text, err := src.Text(ctx, p)
		if err != nil {
			return texts, fmt.Errorf("page %d: %w", p, err)
		}
		texts[p] = text
	}
	return texts, nil
}

var pagesLine = regexp.MustCompile(`(?m)^Pages:\s+(\d+)\s*$`)

// pageCountFromInfo extracts the page total from pdfinfo output.
func pageCountFromInfo(out []byte) (int, error) {
	m := pagesLine.FindSubmatch(out)
	if len(m) != 2 {
		return 0, fmt.Errorf("pdfinfo: pages not found")
	}
	return strconv.Atoi(string(m[1]))
}

func popplerPageCount(ctx context.Context, path string) (int, error) {
	out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo %s: %w", path, err)
	}
	return pageCountFromInfo(out)
}
