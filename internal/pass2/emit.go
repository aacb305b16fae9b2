// Package pass2 renders a pass-1 Result into assembly-language text,
// spec.md §6: one Emitter implementation per dialect (MASM, NASM,
// GAS), sharing an operand-ordering and NOP-coalescing core. Adapted
// from the teacher's Decode loop's string-building (pkg/decoder/move.go
// etc built "mov dest, src" strings directly); here that formatting is
// split out from decoding entirely; and generalized to three distinct
// surface syntaxes instead of one.
package pass2

import (
	"fmt"
	"sort"
	"strings"

	"github.com/halfbyte/objdis/internal/opcode"
	"github.com/halfbyte/objdis/internal/pass1"
	"github.com/halfbyte/objdis/pkg/disasm"
)

// Emitter renders one dialect's assembly-language text.
type Emitter interface {
	Emit(w *strings.Builder, ctx *Context)
}

// Context bundles everything an Emitter needs: the decoded
// instructions, the symbol/relocation/function stores they reference,
// and the section store for byte-level lookups (alignment padding,
// data fallback rendering).
type Context struct {
	Sections *disasm.SectionStore
	Symbols  *disasm.SymbolTable
	Relocs   *disasm.RelocStore
	Funcs    *disasm.FunctionTable
	Result   pass1.Result
}

// New returns the Emitter for dialect d.
func New(d disasm.Dialect) Emitter {
	switch d {
	case disasm.NASM:
		return nasmEmitter{}
	case disasm.GAS:
		return gasEmitter{}
	default:
		return masmEmitter{}
	}
}

// byAddress sorts a copy of instructions by (section, offset), since
// pass-1's worklist visits them in discovery order, not address order.
func byAddress(insts []disasm.Instruction) []disasm.Instruction {
	out := make([]disasm.Instruction, len(insts))
	copy(out, insts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Offset < out[j].Offset
	})
	return out
}

// coalesceNOPRuns collapses a run of consecutive "nop" instructions
// into a single `align N` pseudo-op when the run's length is exactly
// what's needed to pad from its (unaligned) start up to the section's
// declared alignment boundary — the shape a compiler's filler NOPs
// actually have. A run that doesn't fit that shape is left as
// individual nop lines rather than coalesced, since collapsing it
// would assert an alignment decision nothing backs.
func coalesceNOPRuns(ctx *Context, insts []disasm.Instruction) []disasm.Instruction {
	var out []disasm.Instruction
	i := 0
	for i < len(insts) {
		if insts[i].Mnemonic != "nop" {
			out = append(out, insts[i])
			i++
			continue
		}
		j := i
		var total int64
		for j < len(insts) && insts[j].Mnemonic == "nop" && insts[j].Section == insts[i].Section {
			total += int64(insts[j].Length)
			j++
		}
		if j-i > 1 {
			if align, ok := alignmentFor(ctx, insts[i].Section, insts[i].Offset, total); ok {
				run := insts[i]
				run.Mnemonic = "align"
				run.Operands = []disasm.Operand{{HasImm: true, Imm: align}}
				run.Length = int(total)
				out = append(out, run)
				i = j
				continue
			}
			out = append(out, insts[i:j]...)
			i = j
			continue
		}
		out = append(out, insts[i])
		i++
	}
	return out
}

// alignmentFor reports the alignment boundary (in bytes) a NOP run
// pads up to, if the run starts at an unaligned offset and its end
// lands exactly on the section's declared alignment — the only shape
// real toolchains emit filler NOPs for.
func alignmentFor(ctx *Context, section int, offset, length int64) (int64, bool) {
	sec, ok := ctx.Sections.Get(section)
	if !ok || sec.AlignLog2 == 0 {
		return 0, false
	}
	align := int64(1) << sec.AlignLog2
	if offset%align == 0 {
		return 0, false
	}
	if (offset+length)%align != 0 {
		return 0, false
	}
	return align, true
}

// relocSymbolName resolves an operand's RelocTargetOld (a caller old
// index) to its current symbol name, spec.md §4.2 step 6.
func relocSymbolName(ctx *Context, targetOld int) (string, bool) {
	newIdx, ok := ctx.Symbols.OldToNew(targetOld)
	if !ok {
		return "", false
	}
	sym, ok := ctx.Symbols.Get(newIdx)
	if !ok || sym.Name == "" {
		return "", false
	}
	return sym.Name, true
}

func labelFor(ctx *Context, section int, offset int64) (string, bool) {
	idx, ok, _, _, _, _ := ctx.Symbols.FindByAddress(section, offset)
	if !ok {
		return "", false
	}
	sym, ok := ctx.Symbols.Get(idx)
	if !ok || sym.Name == "" {
		return "", false
	}
	return sym.Name, true
}

// resolveBranchTarget turns a relative-jump/call operand into a
// symbol name if pass-1 discovered one at that address, else a raw
// hex offset.
func resolveBranchTarget(ctx *Context, section int, nextOffset int64, imm int64) string {
	target := nextOffset + imm
	if name, ok := labelFor(ctx, section, target); ok {
		return name
	}
	return fmt.Sprintf("0x%x", target)
}

// diagComment renders an instruction's diagnostic bits as the
// trailing "; tag, tag" comment spec.md §7 describes.
func diagComment(d disasm.Diag) string {
	tags := d.Strings()
	if len(tags) == 0 {
		return ""
	}
	return "; " + strings.Join(tags, ", ")
}

// gprWidth reports which register-name table to use for a GPR operand
// from its base type, into which the decoder folds the instruction's
// effective operand size, falling back to 32-bit when the base type
// doesn't encode one explicitly.
func gprWidth(t disasm.OperandType) disasm.WordSize {
	switch t.BaseType() {
	case disasm.OpInt16:
		return disasm.Word16
	case disasm.OpInt64:
		return disasm.Word64
	default:
		return disasm.Word32
	}
}

func vecRegName(op disasm.Operand) string {
	return opcode.VectorRegName(op.Reg, op.Type.VecSize())
}
