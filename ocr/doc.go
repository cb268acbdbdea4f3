// Package ocr defines the recognition-engine contract used by the raster
// text source. The interface is intentionally small and provider-agnostic so
// engines can be backed by native libraries or remote services without
// leaking provider-specific concerns into callers; engine-specific knobs
// travel in an opaque variable map.
package ocr
