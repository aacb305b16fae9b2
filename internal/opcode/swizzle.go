package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// SwizSpec is one opcode swizzle table entry indicating the meaning
// of the EVEX/MVEX sss bits for a memory operand: permutation,
// conversion, broadcast, or rounding-mode name, original_source's
// SwizSpec struct (spec.md §4.2 step 5).
type SwizSpec struct {
	MemOp       disasm.OperandType
	MemOpSize   int // byte offset multiplier / required alignment
	ElementSize int // size for broadcast/gather/scatter
	Name        string
}

// SwizTables holds, per mvex_meta "sss-field meaning" selector
// (disasm.h's MVEX bit 0-4 table), the 8-entry (one per sss value)
// swizzle table.
var SwizTables = map[int][8]SwizSpec{
	// selector 4: Sf32, permutation/broadcast/conversion of a 32-bit float.
	4: {
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: ""},
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: "cdab"},
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: "badc"},
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: "dacb"},
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: "aaaa"},
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: "bbbb"},
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: "cccc"},
		{MemOp: disasm.OpFloat32SSE, MemOpSize: 4, ElementSize: 4, Name: "dddd"},
	},
	// selector 1: sss used for {sae}/round only; memory offset
	// multiplier corresponds to the memory operand size directly.
	1: {
		{Name: ""},
		{Name: "{rn-sae}"},
		{Name: "{rd-sae}"},
		{Name: "{ru-sae}"},
		{Name: "{rz-sae}"},
		{Name: "{sae}"},
		{Name: ""},
		{Name: ""},
	},
}

// SwizRoundTables mirrors SwizTables but for the register-operand,
// "E bit set" interpretation of sss (rounding mode / SAE), disasm.h
// MVEX bit 8-10 table.
var SwizRoundTables = map[int][8]string{
	0x100: {"{rn-sae}", "{rd-sae}", "{ru-sae}", "{rz-sae}", "", "", "", ""},
	0x200: {"", "{sae}", "", "", "", "", "", ""},
}
