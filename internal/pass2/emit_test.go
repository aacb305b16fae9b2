package pass2

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halfbyte/objdis/internal/pass1"
	"github.com/halfbyte/objdis/pkg/disasm"
)

func newTestContext(insts []disasm.Instruction) (*Context, *disasm.SectionStore, *disasm.SymbolTable, *disasm.RelocStore) {
	return newTestContextAligned(insts, 0)
}

func newTestContextAligned(insts []disasm.Instruction, alignLog2 uint8) (*Context, *disasm.SectionStore, *disasm.SymbolTable, *disasm.RelocStore) {
	sections := disasm.NewSectionStore()
	sections.Add(disasm.Section{Name: ".text", Kind: disasm.SectionCode, WordSize: disasm.Word64, TotalSize: 64, AlignLog2: alignLog2})
	symbols := disasm.NewSymbolTable()
	relocs := disasm.NewRelocStore()
	funcs := disasm.NewFunctionTable()
	return &Context{
		Sections: sections,
		Symbols:  symbols,
		Relocs:   relocs,
		Funcs:    funcs,
		Result:   pass1.Result{Instructions: insts},
	}, sections, symbols, relocs
}

func TestEmitMovRegRegAcrossDialects(t *testing.T) {
	// mov rbx, rax (48 89 C3)
	inst := disasm.Instruction{
		Section: 1, Offset: 0, Length: 3, Mnemonic: "mov", HasRex: true, Rex: 0x48,
		Operands: []disasm.Operand{
			{Type: disasm.OpInt64, IsReg: true, Reg: 3},
			{Type: disasm.OpInt64, IsReg: true, Reg: 0},
		},
	}
	ctx, _, _, _ := newTestContext([]disasm.Instruction{inst})

	var masm, nasm, gas strings.Builder
	New(disasm.MASM).Emit(&masm, ctx)
	New(disasm.NASM).Emit(&nasm, ctx)
	New(disasm.GAS).Emit(&gas, ctx)

	assert.Contains(t, masm.String(), "mov rbx, rax")
	assert.Contains(t, nasm.String(), "mov rbx, rax")
	// AT&T reverses operand order and %-prefixes registers.
	assert.Contains(t, gas.String(), "mov %rax, %rbx")
}

func TestEmitLeavesMisalignedNOPRunsIndividual(t *testing.T) {
	// A run whose end isn't on the section's alignment boundary isn't
	// compiler padding, so it's rendered as three plain nop lines.
	insts := []disasm.Instruction{
		{Section: 1, Offset: 0, Length: 1, Mnemonic: "nop"},
		{Section: 1, Offset: 1, Length: 1, Mnemonic: "nop"},
		{Section: 1, Offset: 2, Length: 1, Mnemonic: "nop"},
		{Section: 1, Offset: 3, Length: 1, Mnemonic: "ret"},
	}
	ctx, _, _, _ := newTestContextAligned(insts, 4) // 16-byte alignment, run doesn't end on a boundary

	var sb strings.Builder
	New(disasm.NASM).Emit(&sb, ctx)

	assert.Equal(t, 3, strings.Count(sb.String(), "nop"))
	assert.Equal(t, 1, strings.Count(sb.String(), "ret"))
	assert.NotContains(t, sb.String(), "align")
}

func TestEmitCoalescesAlignmentConsistentNOPRunIntoAlignDirective(t *testing.T) {
	// Offsets 13-15 pad an unaligned start up to the 16-byte boundary
	// at offset 16 exactly — the shape real toolchains emit filler
	// NOPs for.
	insts := []disasm.Instruction{
		{Section: 1, Offset: 13, Length: 1, Mnemonic: "nop"},
		{Section: 1, Offset: 14, Length: 1, Mnemonic: "nop"},
		{Section: 1, Offset: 15, Length: 1, Mnemonic: "nop"},
		{Section: 1, Offset: 16, Length: 1, Mnemonic: "ret"},
	}
	ctx, _, _, _ := newTestContextAligned(insts, 4)

	nasm, gas := &strings.Builder{}, &strings.Builder{}
	New(disasm.NASM).Emit(nasm, ctx)
	New(disasm.GAS).Emit(gas, ctx)

	assert.Zero(t, strings.Count(nasm.String(), "nop"))
	assert.Contains(t, nasm.String(), "align 16")
	assert.Contains(t, gas.String(), ".align 16")
}

func TestEmitResolvesBranchTargetToLabel(t *testing.T) {
	// jmp +0 landing on a ret that pass-1 already labeled.
	insts := []disasm.Instruction{
		{Section: 1, Offset: 0, Length: 2, Mnemonic: "jmp", Unconditional: true, Operands: []disasm.Operand{
			{Type: disasm.OpShortJump, HasImm: true, Imm: 0},
		}},
		{Section: 1, Offset: 2, Length: 1, Mnemonic: "ret"},
	}
	ctx, _, symbols, _ := newTestContext(insts)
	symbols.Add(1, 2, 0, disasm.ClassIsCode, disasm.ScopeLocal, 0, "L1", "")

	var sb strings.Builder
	New(disasm.NASM).Emit(&sb, ctx)

	assert.Contains(t, sb.String(), "jmp L1")
	assert.Contains(t, sb.String(), "L1:")
}

func TestEmitRipRelativeMemoryOperand(t *testing.T) {
	// mov eax, [rip+0], no relocation attached: rendered literally.
	insts := []disasm.Instruction{
		{Section: 1, Offset: 0, Length: 6, Mnemonic: "mov", Operands: []disasm.Operand{
			{Type: disasm.OpIntWAZ, IsReg: true, Reg: 0},
			{Type: disasm.OpIntWAZ, IsMem: true, RipRelative: true, BaseReg: -1, IndexReg: -1},
		}},
	}
	ctx, _, _, _ := newTestContext(insts)

	var masm, gas strings.Builder
	New(disasm.MASM).Emit(&masm, ctx)
	New(disasm.GAS).Emit(&gas, ctx)

	assert.Contains(t, masm.String(), "[rip]")
	assert.Contains(t, gas.String(), "(%rip)")
}

func TestEmitRendersRelocatedMemoryOperandAsSymbol(t *testing.T) {
	// mov eax, [rip+foo], displacement field backed by a relocation to
	// old symbol index 9, named "foo" by the caller: the symbolic name
	// renders instead of the literal (zero) displacement.
	insts := []disasm.Instruction{
		{Section: 1, Offset: 0, Length: 6, Mnemonic: "mov", Operands: []disasm.Operand{
			{Type: disasm.OpIntWAZ, IsReg: true, Reg: 0},
			{Type: disasm.OpIntWAZ, IsMem: true, RipRelative: true, BaseReg: -1, IndexReg: -1, RelocTargetOld: 9},
		}},
	}
	ctx, _, symbols, _ := newTestContext(insts)
	symbols.Add(1, 100, 0, disasm.OpNone, disasm.ScopePublic, 9, "foo", "")

	masm, nasm, gas := &strings.Builder{}, &strings.Builder{}, &strings.Builder{}
	New(disasm.MASM).Emit(masm, ctx)
	New(disasm.NASM).Emit(nasm, ctx)
	New(disasm.GAS).Emit(gas, ctx)

	assert.Contains(t, masm.String(), "[rip+foo]")
	assert.Contains(t, nasm.String(), "[rip+foo]")
	assert.Contains(t, gas.String(), "foo(%rip)")
	assert.NotContains(t, nasm.String(), "rip+0")
}

func TestEmitDiagCommentForReservedOpcode(t *testing.T) {
	insts := []disasm.Instruction{
		{Section: 1, Offset: 0, Length: 2, Mnemonic: "(bad)", Diag: disasm.DiagReservedOpcode},
	}
	ctx, _, _, _ := newTestContext(insts)

	var sb strings.Builder
	New(disasm.NASM).Emit(&sb, ctx)

	assert.Contains(t, sb.String(), "reserved opcode")
}

func TestEmitEvexBroadcastDecoration(t *testing.T) {
	insts := []disasm.Instruction{
		{Section: 1, Offset: 0, Length: 6, Mnemonic: "vaddps", VexPresent: true, VexClass: disasm.VexEvex, Operands: []disasm.Operand{
			{Type: disasm.OpFloat32SSE | disasm.VecZMM, IsReg: true, Reg: 0},
			{Type: disasm.OpFloat32SSE | disasm.VecZMM, IsReg: true, Reg: 1},
			{Type: disasm.OpFloat32SSE | disasm.VecZMM, IsMem: true, BaseReg: 2, IndexReg: -1, Broadcast: "1to16"},
		}},
	}
	ctx, _, _, _ := newTestContext(insts)

	var sb strings.Builder
	New(disasm.NASM).Emit(&sb, ctx)

	assert.Contains(t, sb.String(), "{1to16}")
}
