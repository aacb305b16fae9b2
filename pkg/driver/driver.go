// Package driver orchestrates one disassembly run end to end: collect
// sections/symbols/relocations from the caller (the ingest API
// spec.md §6 describes), run pass-1 then pass-2, and hand back the
// rendered listing. It plays the role the teacher's Decoder type
// played (pkg/decoder/decoder.go's NewDecoder/Decode pair), widened
// from "decode a flat 8086 byte slice" to "run the whole pipeline over
// a multi-section object file".
package driver

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/halfbyte/objdis/internal/pass1"
	"github.com/halfbyte/objdis/internal/pass2"
	"github.com/halfbyte/objdis/pkg/disasm"
)

// phase is the pass-progression state machine spec.md §4.8 describes:
// a Driver only accepts ingest calls before Run. Output/WriteTo do not
// check it; before Run they return an empty listing.
type phase int

const (
	phaseIngest phase = iota
	phaseAnalyzed
	phaseEmitted
)

// Driver is the single entry point embedding applications use: build
// one per input file, feed it sections/symbols/relocations, call Run,
// then read the result back out.
type Driver struct {
	Dialect disasm.Dialect
	CRLF    bool

	sections *disasm.SectionStore
	symbols  *disasm.SymbolTable
	relocs   *disasm.RelocStore
	funcs    *disasm.FunctionTable
	reporter disasm.Reporter

	phase  phase
	result pass1.Result
	output []byte
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithDialect selects the output assembly dialect; the zero value
// (unset) defaults to MASM, matching disasm.Dialect's zero value.
func WithDialect(d disasm.Dialect) Option {
	return func(drv *Driver) { drv.Dialect = d }
}

// WithCRLF selects CRLF line endings for Output/WriteTo, for callers
// targeting Windows toolchains (MASM's native habitat).
func WithCRLF(v bool) Option {
	return func(drv *Driver) { drv.CRLF = v }
}

// WithReporter installs the diagnostic sink global warnings/errors are
// sent to. A Driver constructed without one discards them silently
// (disasm.NopReporter), matching pkg/disasm's library-embedding default.
func WithReporter(r disasm.Reporter) Option {
	return func(drv *Driver) { drv.reporter = r }
}

// NewDriver constructs an empty Driver ready for AddSection/AddSymbol/
// AddRelocation/AddSectionGroup calls.
func NewDriver(opts ...Option) *Driver {
	drv := &Driver{
		sections: disasm.NewSectionStore(),
		symbols:  disasm.NewSymbolTable(),
		relocs:   disasm.NewRelocStore(),
		funcs:    disasm.NewFunctionTable(),
		reporter: disasm.NopReporter{},
	}
	for _, opt := range opts {
		opt(drv)
	}
	return drv
}

// AddSection registers one section's bytes and metadata, returning
// its 1-based index for use in subsequent AddSymbol/AddRelocation
// calls. Must be called before Run.
func (d *Driver) AddSection(sec disasm.Section) (int, error) {
	if d.phase != phaseIngest {
		return 0, fmt.Errorf("driver: AddSection called after Run")
	}
	return d.sections.Add(sec)
}

// AddSectionGroup is a thin convenience over AddSection for the
// communal/group sections COFF and ELF both support (spec.md §3's
// SectionGroup/SectionCommunal kinds): it stamps GroupIndex onto the
// section and sets its Kind to SectionGroup before adding it.
func (d *Driver) AddSectionGroup(sec disasm.Section, groupIndex int) (int, error) {
	sec.GroupIndex = groupIndex
	sec.Kind = disasm.SectionGroup
	return d.AddSection(sec)
}

// AddSymbol registers a caller-known symbol (import, export, section
// name, or externally-resolved label). Returns the symbol's dense
// index.
func (d *Driver) AddSymbol(section int, offset, size int64, typ disasm.OperandType, scope disasm.Scope, oldIndex int, name, dll string) (int, error) {
	if d.phase != phaseIngest {
		return 0, fmt.Errorf("driver: AddSymbol called after Run")
	}
	return d.symbols.Add(section, offset, size, typ, scope, oldIndex, name, dll), nil
}

// AddRelocation registers a caller-known cross-reference.
func (d *Driver) AddRelocation(rel disasm.Relocation) error {
	if d.phase != phaseIngest {
		return fmt.Errorf("driver: AddRelocation called after Run")
	}
	d.relocs.Add(rel)
	return nil
}

// Run advances the Driver through pass-1 analysis and pass-2 emission.
// It is idempotent: a second call does nothing and leaves the output
// of the first in place.
func (d *Driver) Run() error {
	if d.phase == phaseIngest {
		d.result = pass1.Analyze(d.sections, d.symbols, d.relocs, d.funcs, d.reporter)
		d.symbols.AssignNames()
		d.phase = phaseAnalyzed
	}
	if d.phase == phaseAnalyzed {
		ctx := &pass2.Context{
			Sections: d.sections,
			Symbols:  d.symbols,
			Relocs:   d.relocs,
			Funcs:    d.funcs,
			Result:   d.result,
		}
		var sb strings.Builder
		pass2.New(d.Dialect).Emit(&sb, ctx)
		text := sb.String()
		if d.CRLF {
			text = toCRLF(text)
		}
		d.output = []byte(text)
		d.phase = phaseEmitted
	}
	return nil
}

// Output returns the rendered listing. Valid only after Run.
func (d *Driver) Output() []byte {
	return d.output
}

// WriteTo writes the rendered listing to w, satisfying io.WriterTo.
func (d *Driver) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.output)
	return int64(n), err
}

// Result exposes the pass-1 result directly, for callers that want
// the decoded instruction stream without a rendered dialect (e.g. a
// future structured-output mode).
func (d *Driver) Result() pass1.Result { return d.result }

func toCRLF(s string) string {
	var buf bytes.Buffer
	buf.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			buf.WriteByte('\r')
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}
