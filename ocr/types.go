package ocr

import "context"

// ImageFormat identifies the content type of a recognition input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// EngineMode selects the recognition algorithm family, with the Tesseract
// numbering.
type EngineMode int

const (
	// EngineModeLegacy runs the original engine only.
	EngineModeLegacy EngineMode = 0
	// EngineModeLSTM runs the neural-net LSTM engine only.
	EngineModeLSTM EngineMode = 1
	// EngineModeCombined runs both engines.
	EngineModeCombined EngineMode = 2
	// EngineModeDefault lets the engine pick based on what is available.
	EngineModeDefault EngineMode = 3
)

// PageSegMode controls how the engine analyzes page layout, with the
// Tesseract numbering.
type PageSegMode int

const (
	SegModeOSDOnly         PageSegMode = 0
	SegModeAutoOSD         PageSegMode = 1
	SegModeAutoOnly        PageSegMode = 2
	SegModeAuto            PageSegMode = 3
	SegModeSingleColumn    PageSegMode = 4
	SegModeSingleBlockVert PageSegMode = 5
	SegModeSingleBlock     PageSegMode = 6
	SegModeSingleLine      PageSegMode = 7
	SegModeSingleWord      PageSegMode = 8
	SegModeCircleWord      PageSegMode = 9
	SegModeSingleChar      PageSegMode = 10
	SegModeSparseText      PageSegMode = 11
	SegModeSparseTextOSD   PageSegMode = 12
	SegModeRawLine         PageSegMode = 13
)

// Input encapsulates a single rasterized page submitted for recognition.
type Input struct {
	// Image is the encoded page image in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// Page is the 1-based page number the image was rasterized from; it is
	// echoed back in the corresponding Result.
	Page int
	// DPI carries the effective dots-per-inch for the image; zero means
	// unknown.
	DPI int
	// Languages lists trained-data hints (e.g., "eng", "spa").
	Languages []string
	// EngineMode selects the recognition algorithm family.
	EngineMode EngineMode
	// SegMode controls page-layout analysis.
	SegMode PageSegMode
	// Whitelist restricts recognized characters to the given set when
	// non-empty. Typically derived from the catalog alphabet to bias the
	// engine toward valid codes.
	Whitelist string
	// WordsFile points at a user-words list, typically the catalog file
	// itself, biasing recognition toward known codes.
	WordsFile string
	// Variables passes through engine-specific knobs (e.g. Tesseract
	// tessedit parameters) without hard-coding them into the API surface.
	Variables map[string]string
}

// Result captures recognition output for a single page.
type Result struct {
	// Page mirrors the Input.Page that produced this result.
	Page int
	// PlainText contains the linearized recognized text.
	PlainText string
}

// Engine is the recognition provider contract: one page image in, one text
// result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
