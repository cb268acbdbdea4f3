package ocr

import "context"

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the registered default recognition engine. Importing
// the tesseract subpackage registers the Tesseract engine; until then the
// default is a no-op that recognizes nothing.
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the package-wide default recognition engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

type noopEngine struct{}

func (n noopEngine) Name() string {
	return "noop"
}

func (n noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{Page: input.Page}, nil
}
