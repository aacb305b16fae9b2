package disasm

// Reporter receives global diagnostics (spec.md §7): malformed
// sections, duplicate old_index values, out-of-range relocations,
// old→new cycles. The core never talks to a concrete logger directly
// — per the Design Notes, it threads a context value instead of
// reaching for process-global error state — so callers wire whatever
// logging library they like behind this interface.
type Reporter interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopReporter discards every diagnostic. It is the safe zero value
// for library embedding and for tests that don't care about logging.
type NopReporter struct{}

func (NopReporter) Warnf(string, ...any)  {}
func (NopReporter) Errorf(string, ...any) {}
