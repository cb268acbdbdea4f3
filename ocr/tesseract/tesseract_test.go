package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/codescan/ocr"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderPage(t *testing.T, text string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	in := ocr.Input{
		Image:      renderPage(t, "REF 00123"),
		Format:     ocr.ImageFormatPNG,
		Page:       4,
		DPI:        300,
		Languages:  []string{"eng"},
		EngineMode: ocr.EngineModeDefault,
		SegMode:    ocr.SegModeSingleLine,
	}
	res, err := New().Recognize(context.Background(), in)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.Page != 4 {
		t.Fatalf("unexpected page: %d", res.Page)
	}
	if !strings.Contains(res.PlainText, "00123") {
		t.Fatalf("unexpected recognition output: %q", res.PlainText)
	}
}

func TestEngineRecognizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Recognize(ctx, ocr.Input{})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestDefaultEngineRegistered(t *testing.T) {
	if got := ocr.DefaultEngine().Name(); got != "tesseract" {
		t.Fatalf("default engine = %q, want tesseract", got)
	}
}
