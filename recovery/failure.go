package recovery

// FailurePolicy decides what happens when the text source fails for a page.
type FailurePolicy int

const (
	// FailLenient records the error on the failed page's result and
	// continues with the remaining pages, so the run always yields
	// best-effort results.
	FailLenient FailurePolicy = iota
	// FailStrict aborts the run on the first page failure. Pages that
	// completed before the failure remain in the result.
	FailStrict
)

func (p FailurePolicy) String() string {
	switch p {
	case FailLenient:
		return "lenient"
	case FailStrict:
		return "strict"
	default:
		return "unknown"
	}
}
