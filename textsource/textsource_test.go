package textsource

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"golang.org/x/time/rate"

	"github.com/wudi/codescan/ocr"
)

type fakeSource struct {
	texts map[int]string
}

func (f fakeSource) Text(_ context.Context, page int) (string, error) {
	text, ok := f.texts[page]
	if !ok {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return text, nil
}

func (f fakeSource) PageCount(context.Context) (int, error) {
	return len(f.texts), nil
}

func TestTextRangeExplicitPages(t *testing.T) {
	src := fakeSource{texts: map[int]string{1: "one", 2: "two", 3: "three"}}
	got, err := TextRange(context.Background(), src, []int{1, 3})
	if err != nil {
		t.Fatalf("TextRange() error = %v", err)
	}
	want := map[int]string{1: "one", 3: "three"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected texts: %v", got)
	}
}

func TestTextRangeAllPages(t *testing.T) {
	src := fakeSource{texts: map[int]string{1: "a", 2: "b"}}
	got, err := TextRange(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("TextRange() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both pages, got %v", got)
	}
}

func TestTextRangeReportsOffendingPage(t *testing.T) {
	src := fakeSource{texts: map[int]string{1: "a"}}
	partial, err := TextRange(context.Background(), src, []int{1, 9})
	if err == nil {
		t.Fatal("expected error for out-of-range page")
	}
	if _, ok := partial[1]; !ok {
		t.Fatalf("completed pages should be returned: %v", partial)
	}
}

func TestPageCountFromInfo(t *testing.T) {
	out := []byte("Title:          Catalog\nPages:          42\nEncrypted:      no\n")
	n, err := pageCountFromInfo(out)
	if err != nil {
		t.Fatalf("pageCountFromInfo() error = %v", err)
	}
	if n != 42 {
		t.Fatalf("expected 42 pages, got %d", n)
	}
}

func TestPageCountFromInfoMissing(t *testing.T) {
	if _, err := pageCountFromInfo([]byte("Title: x\n")); err == nil {
		t.Fatal("expected error when Pages line is absent")
	}
}

type captureEngine struct {
	last ocr.Input
}

func (e *captureEngine) Name() string { return "capture" }

func (e *captureEngine) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	e.last = in
	return ocr.Result{Page: in.Page, PlainText: "REF: 00123"}, nil
}

func TestNewRasterRequiresEngine(t *testing.T) {
	if _, err := NewRaster("doc.pdf", nil); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestNewRasterOptionWiring(t *testing.T) {
	vars := map[string]string{"tessedit_char_blacklist": "~"}
	r, err := NewRaster("doc.pdf", &captureEngine{},
		WithDPI(150),
		WithLanguages("eng", "spa"),
		WithEngineMode(ocr.EngineModeLSTM),
		WithPageSegMode(ocr.SegModeSparseText),
		WithCharWhitelist("0123456789"),
		WithWordList("codes.txt"),
		WithVariables(vars),
	)
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}
	if r.dpi != 150 || r.oem != ocr.EngineModeLSTM || r.psm != ocr.SegModeSparseText {
		t.Fatalf("options not applied: %+v", r)
	}
	if r.whitelist != "0123456789" || r.wordsFile != "codes.txt" {
		t.Fatalf("bias options not applied: %+v", r)
	}
	vars["tessedit_char_blacklist"] = "!"
	if r.variables["tessedit_char_blacklist"] != "~" {
		t.Fatalf("variables map was not copied: %v", r.variables)
	}
}

func TestNewRasterRateLimit(t *testing.T) {
	r, err := NewRaster("doc.pdf", &captureEngine{}, WithRateLimit(rate.Limit(2), 1))
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}
	if r.limiter == nil {
		t.Fatal("rate limiter not configured")
	}
}

func TestNewRasterRejectsInvalidDPI(t *testing.T) {
	if _, err := NewRaster("doc.pdf", &captureEngine{}, WithDPI(-1)); err == nil {
		t.Fatal("expected error for negative dpi")
	}
}

func TestNewRasterDefaults(t *testing.T) {
	r, err := NewRaster("doc.pdf", &captureEngine{})
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}
	if r.dpi != DefaultDPI || r.oem != ocr.EngineModeDefault || r.psm != ocr.SegModeAuto {
		t.Fatalf("unexpected defaults: %+v", r)
	}
}
