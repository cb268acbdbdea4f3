// Command codescan recovers known catalog codes from a scanned or
// digitally-authored PDF. It extracts per-page text (embedded text layer or
// OCR), searches it for code-shaped tokens, expands OCR-confusable
// characters, and validates the candidates against a catalog file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wudi/codescan/catalog"
	"github.com/wudi/codescan/observability"
	"github.com/wudi/codescan/ocr"
	"github.com/wudi/codescan/ocr/tesseract"
	"github.com/wudi/codescan/recovery"
	"github.com/wudi/codescan/substitute"
	"github.com/wudi/codescan/textsource"
)

type options struct {
	pdfPath     string
	catalogPath string
	header      string
	code        string
	pages       []int
	textLayer   bool
	tentative   bool
	subst       substitute.Map
	lang        string
	oem         int
	psm         int
	dpi         int
	whitelist   bool
	rateLimit   float64
	variables   map[string]string
	workers     int
	strict      bool
	jsonOut     bool
	verbose     bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "codescan: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "codescan: %v\n", err)
		os.Exit(1)
	}
}

type varsFlag map[string]string

func (v varsFlag) String() string { return "" }

func (v varsFlag) Set(s string) error {
	key, val, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("want NAME=VALUE, got %q", s)
	}
	v[key] = val
	return nil
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: codescan [flags] <pdf>\n")
		flag.PrintDefaults()
	}
	catalogPath := flag.String("catalog", "", "Path to the newline-delimited valid-codes file (required)")
	header := flag.String("header", "", "Regex that must immediately precede a code (default: none)")
	code := flag.String("pattern", "", `Regex matching a code (default: \w*)`)
	pages := flag.String("pages", "", "Pages to process, e.g. 9-30 or 1,3,7 (default: all)")
	textLayer := flag.Bool("text-layer", false, "Extract the embedded text layer instead of running OCR")
	tentative := flag.Bool("tentative", false, "Report tentative tokens per page alongside validated codes")
	subst := flag.String("subst", "", `Substitution map for OCR-confusable characters, e.g. "O=O0,l=1I"`)
	lang := flag.String("lang", "eng", "Recognition language")
	oem := flag.Int("oem", int(ocr.EngineModeDefault), "Recognition engine mode (0-3)")
	psm := flag.Int("psm", int(ocr.SegModeAuto), "Page segmentation mode (0-13)")
	dpi := flag.Int("dpi", textsource.DefaultDPI, "Rasterization resolution")
	whitelist := flag.Bool("whitelist", false, "Restrict recognition to characters occurring in the catalog")
	rateLimit := flag.Float64("rate", 0, "Max recognition invocations per second (0 = unlimited)")
	workers := flag.Int("workers", 1, "Concurrent page workers")
	strict := flag.Bool("strict", false, "Abort the run on the first page failure instead of isolating it")
	jsonOut := flag.Bool("json", false, "Emit the result as JSON")
	verbose := flag.Bool("v", false, "Verbose logging")
	vars := make(varsFlag)
	flag.Var(vars, "var", "Extra engine variable as NAME=VALUE (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}
	if *catalogPath == "" {
		return options{}, fmt.Errorf("-catalog is required")
	}
	pageList, err := parsePages(*pages)
	if err != nil {
		return options{}, err
	}
	substMap, err := parseSubst(*subst)
	if err != nil {
		return options{}, err
	}
	opts = options{
		pdfPath:     flag.Arg(0),
		catalogPath: *catalogPath,
		header:      *header,
		code:        *code,
		pages:       pageList,
		textLayer:   *textLayer,
		tentative:   *tentative,
		subst:       substMap,
		lang:        *lang,
		oem:         *oem,
		psm:         *psm,
		dpi:         *dpi,
		whitelist:   *whitelist,
		rateLimit:   *rateLimit,
		variables:   vars,
		workers:     *workers,
		strict:      *strict,
		jsonOut:     *jsonOut,
		verbose:     *verbose,
	}
	return opts, nil
}

// parsePages accepts "" (all pages), a comma list ("1,3,7"), ranges ("9-30"),
// or a mix ("1,4-6,9").
func parsePages(spec string) ([]int, error) {
	if spec == "" {
		return nil, nil
	}
	var pages []int
	for _, item := range strings.Split(spec, ",") {
		lo, hi, isRange := strings.Cut(item, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || first < 1 {
			return nil, fmt.Errorf("page spec %q: bad page %q", spec, item)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || last < first {
				return nil, fmt.Errorf("page spec %q: bad range %q", spec, item)
			}
		}
		for p := first; p <= last; p++ {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func parseSubst(spec string) (substitute.Map, error) {
	if spec == "" {
		return nil, nil
	}
	return substitute.Parse(spec)
}

func run(opts options) error {
	cat, err := catalog.Load(opts.catalogPath)
	if err != nil {
		return err
	}

	var src textsource.Source
	if opts.textLayer {
		src = textsource.NewTextLayer(opts.pdfPath)
	} else {
		rasterOpts := []textsource.RasterOption{
			textsource.WithDPI(opts.dpi),
			textsource.WithLanguages(opts.lang),
			textsource.WithEngineMode(ocr.EngineMode(opts.oem)),
			textsource.WithPageSegMode(ocr.PageSegMode(opts.psm)),
			textsource.WithWordList(opts.catalogPath),
			textsource.WithVariables(opts.variables),
		}
		if opts.whitelist {
			rasterOpts = append(rasterOpts, textsource.WithCharWhitelist(cat.Alphabet()))
		}
		if opts.rateLimit > 0 {
			rasterOpts = append(rasterOpts, textsource.WithRateLimit(rate.Limit(opts.rateLimit), 1))
		}
		src, err = textsource.NewRaster(opts.pdfPath, tesseract.New(), rasterOpts...)
		if err != nil {
			return err
		}
	}

	failures := recovery.FailLenient
	if opts.strict {
		failures = recovery.FailStrict
	}
	eng, err := recovery.New(cat, src, recovery.Config{
		HeaderPattern: opts.header,
		CodePattern:   opts.code,
		Substitutions: opts.subst,
		Workers:       opts.workers,
		Failures:      failures,
		Logger:        observability.NewWriterLogger(os.Stderr, opts.verbose),
	})
	if err != nil {
		return err
	}

	res, runErr := eng.Recover(context.Background(), opts.pages)
	if opts.jsonOut {
		if err := writeJSON(os.Stdout, res, opts.tentative); err != nil {
			return err
		}
	} else {
		writeReport(os.Stdout, res, opts.tentative)
	}
	return runErr
}

type pageReport struct {
	Page      int      `json:"page"`
	Tentative []string `json:"tentative,omitempty"`
	Validated []string `json:"validated"`
	Error     string   `json:"error,omitempty"`
}

type report struct {
	Pages []pageReport `json:"pages"`
	Total int          `json:"total_validated"`
}

func buildReport(res recovery.Result, tentative bool) report {
	rep := report{Total: res.TotalValidated()}
	for _, page := range res.Pages() {
		pr := res[page]
		entry := pageReport{Page: page, Validated: sortedCodes(pr.Validated)}
		if tentative {
			entry.Tentative = sortedCodes(pr.Tentative)
		}
		if pr.Err != nil {
			entry.Error = pr.Err.Error()
		}
		rep.Pages = append(rep.Pages, entry)
	}
	return rep
}

func sortedCodes(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func writeJSON(w io.Writer, res recovery.Result, tentative bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildReport(res, tentative))
}

func writeReport(w io.Writer, res recovery.Result, tentative bool) {
	rep := buildReport(res, tentative)
	if tentative {
		fmt.Fprintln(w, "Tentative codes found")
		for _, p := range rep.Pages {
			fmt.Fprintf(w, "%d %v\n", p.Page, p.Tentative)
		}
	}
	fmt.Fprintln(w, "Product codes found:")
	for _, p := range rep.Pages {
		fmt.Fprintf(w, "%d %v\n", p.Page, p.Validated)
		if p.Error != "" {
			fmt.Fprintf(w, "%d error: %s\n", p.Page, p.Error)
		}
	}
	fmt.Fprintf(w, "Found %d codes\n", rep.Total)
}
