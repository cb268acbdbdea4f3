package textsource

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/wudi/codescan/ocr"
)

// DefaultDPI is the rasterization resolution used when none is configured.
const DefaultDPI = 300

// Raster rasterizes one page at a time with pdftoppm and feeds the image to
// an injected recognition engine.
type Raster struct {
	path      string
	engine    ocr.Engine
	dpi       int
	languages []string
	oem       ocr.EngineMode
	psm       ocr.PageSegMode
	whitelist string
	wordsFile string
	variables map[string]string
	limiter   *rate.Limiter
}

// RasterOption configures a Raster source.
type RasterOption func(*Raster)

// WithDPI sets the rasterization resolution.
func WithDPI(dpi int) RasterOption {
	return func(r *Raster) { r.dpi = dpi }
}

// WithLanguages sets trained-data language hints on the recognition input.
func WithLanguages(langs ...string) RasterOption {
	return func(r *Raster) { r.languages = append([]string(nil), langs...) }
}

// WithEngineMode selects the recognition algorithm family.
func WithEngineMode(mode ocr.EngineMode) RasterOption {
	return func(r *Raster) { r.oem = mode }
}

// WithPageSegMode selects the page-layout analysis mode.
func WithPageSegMode(mode ocr.PageSegMode) RasterOption {
	return func(r *Raster) { r.psm = mode }
}

// WithCharWhitelist restricts recognition to the given characters, typically
// the catalog alphabet.
func WithCharWhitelist(chars string) RasterOption {
	return func(r *Raster) { r.whitelist = chars }
}

// WithWordList points recognition at a user-words file, typically the catalog
// file itself, biasing the engine toward valid codes.
func WithWordList(path string) RasterOption {
	return func(r *Raster) { r.wordsFile = path }
}

// WithVariables forwards engine-specific tuning parameters opaquely to the
// recognition backend.
func WithVariables(vars map[string]string) RasterOption {
	return func(r *Raster) {
		if len(vars) == 0 {
			r.variables = nil
			return
		}
		r.variables = make(map[string]string, len(vars))
		for k, v := range vars {
			r.variables[k] = v
		}
	}
}

// WithRateLimit throttles recognition invocations. Useful when the engine is
// a remote service or when rasterization must not saturate the host.
func WithRateLimit(limit rate.Limit, burst int) RasterOption {
	return func(r *Raster) { r.limiter = rate.NewLimiter(limit, burst) }
}

// NewRaster builds a recognition-backed source for the document at path.
func NewRaster(path string, engine ocr.Engine, opts ...RasterOption) (*Raster, error) {
	if engine == nil {
		return nil, errors.New("recognition engine is required")
	}
	r := &Raster{
		path:   path,
		engine: engine,
		dpi:    DefaultDPI,
		oem:    ocr.EngineModeDefault,
		psm:    ocr.SegModeAuto,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dpi <= 0 {
		return nil, fmt.Errorf("invalid dpi %d", r.dpi)
	}
	return r, nil
}

// Text rasterizes the given 1-based page and returns the engine's recognized
// text.
func (r *Raster) Text(ctx context.Context, page int) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	img, err := r.rasterize(ctx, page)
	if err != nil {
		return "", err
	}
	res, err := r.engine.Recognize(ctx, ocr.Input{
		Image:      img,
		Format:     ocr.ImageFormatPNG,
		Page:       page,
		DPI:        r.dpi,
		Languages:  r.languages,
		EngineMode: r.oem,
		SegMode:    r.psm,
		Whitelist:  r.whitelist,
		WordsFile:  r.wordsFile,
		Variables:  r.variables,
	})
	if err != nil {
		return "", fmt.Errorf("recognize page %d: %w", page, err)
	}
	return res.PlainText, nil
}

// PageCount returns the document's page total.
func (r *Raster) PageCount(ctx context.Context) (int, error) {
	return popplerPageCount(ctx, r.path)
}

func (r *Raster) rasterize(ctx context.Context, page int) ([]byte, error) {
	cmd := exec.CommandContext(ctx,
		"pdftoppm",
		"-png",
		"-r", strconv.Itoa(r.dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		r.path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm %s page %d: %w", r.path, page, err)
	}
	return out, nil
}
