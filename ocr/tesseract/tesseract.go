// Package tesseract implements the ocr.Engine contract with the gosseract
// client. Importing it registers Tesseract as the default engine.
package tesseract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/wudi/codescan/ocr"
)

func init() {
	ocr.SetDefaultEngine(New())
}

// Engine implements ocr.Engine using gosseract as the recognition provider.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed recognition engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single rasterized page. Each call uses a fresh
// client so engines with different tuning can run concurrently.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(in.SegMode)); err != nil {
		return ocr.Result{}, fmt.Errorf("set page segmentation mode: %w", err)
	}
	if in.EngineMode != ocr.EngineModeDefault {
		if err := c.SetVariable("tessedit_ocr_engine_mode", strconv.Itoa(int(in.EngineMode))); err != nil {
			return ocr.Result{}, fmt.Errorf("set engine mode: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable("user_defined_dpi", strconv.Itoa(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	if in.Whitelist != "" {
		if err := c.SetWhitelist(in.Whitelist); err != nil {
			return ocr.Result{}, fmt.Errorf("set whitelist: %w", err)
		}
	}
	if in.WordsFile != "" {
		if err := c.SetVariable("user_words_file", in.WordsFile); err != nil {
			return ocr.Result{}, fmt.Errorf("set user words: %w", err)
		}
	}
	for k, v := range in.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	return ocr.Result{Page: in.Page, PlainText: strings.TrimSpace(text)}, nil
}
