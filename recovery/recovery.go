// Package recovery orchestrates the per-page code recovery pipeline: fetch
// text, extract tentative tokens, expand OCR-confusable characters, validate
// against the canonical catalog, record. Pages are independent, so the engine
// runs them on a bounded worker pool; the catalog and substitution map are
// read-only and shared without locking.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wudi/codescan/catalog"
	"github.com/wudi/codescan/observability"
	"github.com/wudi/codescan/pattern"
	"github.com/wudi/codescan/substitute"
	"github.com/wudi/codescan/textsource"
)

// DefaultMaxCandidates caps the expansion size per token. Tokens whose
// candidate count exceeds the cap are skipped and reported, never
// materialized.
const DefaultMaxCandidates = 10000

// PageResult holds the outcome for a single page: the raw tentative tokens,
// the validated codes, and the page's error when the text source failed. It
// is never mutated after the page completes.
type PageResult struct {
	Tentative map[string]struct{}
	Validated map[string]struct{}
	Err       error
}

// Result maps 1-based page numbers to their per-page outcome.
type Result map[int]PageResult

// TotalValidated returns the number of validated codes summed across pages.
func (r Result) TotalValidated() int {
	n := 0
	for _, pr := range r {
		n += len(pr.Validated)
	}
	return n
}

// Pages returns the result's page numbers in ascending order.
func (r Result) Pages() []int {
	pages := make([]int, 0, len(r))
	for p := range r {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Config carries the engine's tuning as named, validated fields.
type Config struct {
	// HeaderPattern anchors codes to a preceding expression; empty means
	// codes may appear anywhere.
	HeaderPattern string
	// CodePattern matches a code; empty means any run of word characters.
	CodePattern string
	// Substitutions maps OCR-confusable characters to their plausible true
	// characters. Nil disables expansion.
	Substitutions substitute.Map
	// MaxCandidates bounds per-token expansion; zero means
	// DefaultMaxCandidates.
	MaxCandidates int
	// Workers bounds concurrent page processing; zero means sequential.
	Workers int
	// Failures selects the page-failure policy.
	Failures FailurePolicy
	// Logger receives pipeline events; nil means silent.
	Logger observability.Logger
}

// Engine recovers catalog codes from noisy per-page text. It carries no
// state between pages and is safe for concurrent use.
type Engine struct {
	cat      *catalog.Catalog
	src      textsource.Source
	ext      *pattern.Extractor
	subs     substitute.Map
	maxCands int
	workers  int
	failures FailurePolicy
	log      observability.Logger
}

// New builds an engine. Pattern compilation happens here so misconfiguration
// fails before any page is touched. src may be nil when only RecoverText is
// used.
func New(cat *catalog.Catalog, src textsource.Source, cfg Config) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	ext, err := pattern.New(cfg.HeaderPattern, cfg.CodePattern)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cat:      cat,
		src:      src,
		ext:      ext,
		subs:     cfg.Substitutions,
		maxCands: cfg.MaxCandidates,
		workers:  cfg.Workers,
		failures: cfg.Failures,
		log:      cfg.Logger,
	}
	if e.maxCands <= 0 {
		e.maxCands = DefaultMaxCandidates
	}
	if e.workers <= 0 {
		e.workers = 1
	}
	if e.log == nil {
		e.log = observability.NopLogger{}
	}
	return e, nil
}

// Recover processes the given 1-based pages. A nil pages slice means all
// pages of the source. Pages run independently on a pool of at most Workers
// goroutines; completion order does not matter because results are keyed by
// page. Under FailLenient a source failure is recorded on the page and the
// run continues; under FailStrict the first failure cancels in-flight pages
// and is returned, with already-completed pages kept in the result.
func (e *Engine) Recover(ctx context.Context, pages []int) (Result, error) {
	if e.src == nil {
		return nil, errors.New("no text source configured")
	}
	if pages == nil {
		n, err := e.src.PageCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("page count: %w", err)
		}
		pages = make([]int, 0, n)
		for p := 1; p <= n; p++ {
			pages = append(pages, p)
		}
	}

	res := make(Result, len(pages))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, page := range pages {
		page := page
		g.Go(func() error {
			text, err := e.src.Text(ctx, page)
			if err != nil {
				pageErr := fmt.Errorf("page %d: %w", page, err)
				e.log.Error("text source failed",
					observability.Int(observability.KeyPage, page),
					observability.Error("error", err))
				mu.Lock()
				res[page] = PageResult{
					Tentative: make(map[string]struct{}),
					Validated: make(map[string]struct{}),
					Err:       pageErr,
				}
				mu.Unlock()
				if e.failures == FailStrict {
					return pageErr
				}
				return nil
			}
			pr := e.recoverPage(page, text)
			mu.Lock()
			res[page] = pr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// RecoverText runs the pipeline over already-fetched page text, with no text
// source involved. It never fails: extraction, expansion and validation are
// pure.
func (e *Engine) RecoverText(texts map[int]string) Result {
	res := make(Result, len(texts))
	for page, text := range texts {
		res[page] = e.recoverPage(page, text)
	}
	return res
}

// recoverPage is the single linear stage sequence for one page:
// extract -> expand -> validate. The expanded candidate set is never
// materialized; validation walks it lazily and keeps only catalog hits.
func (e *Engine) recoverPage(page int, text string) PageResult {
	tentative := e.ext.Extract(text)
	validated := make(map[string]struct{})
	if e.subs == nil {
		validated = e.cat.Validate(tentative)
	} else {
		for tok := range tentative {
			if n := e.subs.Count(tok); n > e.maxCands {
				e.log.Warn("token skipped, expansion exceeds cap",
					observability.Int(observability.KeyPage, page),
					observability.String(observability.KeyToken, tok),
					observability.Int(observability.KeyCandidates, n))
				continue
			}
			for _, code := range e.subs.MatchAgainst(tok, e.cat.Contains) {
				validated[code] = struct{}{}
			}
		}
	}
	e.log.Debug("page recovered",
		observability.Int(observability.KeyPage, page),
		observability.Int(observability.KeyTentative, len(tentative)),
		observability.Int(observability.KeyValidated, len(validated)))
	return PageResult{Tentative: tentative, Validated: validated}
}
