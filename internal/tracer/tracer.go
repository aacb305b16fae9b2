// Package tracer implements the lightweight abstract register
// interpreter pass-1 uses to follow register-indirect jump tables
// back to their base address (spec.md §5.3). It has no analogue in
// the teacher repo — the 8086 subset the teacher decodes never
// branches through a computed address — so this package is grounded
// directly in spec.md rather than adapted from teacher code.
package tracer

import "github.com/halfbyte/objdis/pkg/disasm"

// SlotKind classifies what a tracer.State believes a general-purpose
// register currently holds.
type SlotKind int

const (
	Unknown SlotKind = iota
	SymbolBaseOf
	ImageBasePlus
	Constant
)

// Slot is one of the 16 GPR tracking cells.
type Slot struct {
	Kind  SlotKind
	Sym   int   // dense SymbolTable index of the referenced symbol, when Kind == SymbolBaseOf or ImageBasePlus
	Const int64 // literal value, when Kind == Constant
}

// State is the tracer's full register file. Reset per function
// (spec.md §5.3: "tracing resets at every label"); call-through and
// indirect writes invalidate individual slots rather than the whole
// state, since most of a function's registers survive a call.
type State struct {
	regs [16]Slot
}

// New returns a State with every register Unknown.
func New() *State {
	return &State{}
}

// Reset clears every register to Unknown, used when the tracer
// crosses a label (a new function, or a reachable jump target whose
// incoming register contents can't be assumed).
func (s *State) Reset() {
	for i := range s.regs {
		s.regs[i] = Slot{}
	}
}

// Get returns the current belief about register index (0-15, REX-extended).
func (s *State) Get(reg int) Slot {
	if reg < 0 || reg >= len(s.regs) {
		return Slot{}
	}
	return s.regs[reg]
}

// SetConstant records that reg now holds a compile-time-known value,
// e.g. from a "mov reg, imm" instruction.
func (s *State) SetConstant(reg int, v int64) {
	s.set(reg, Slot{Kind: Constant, Const: v})
}

// SetSymbolBase records reg = lea-of-symbol (a jump-table base address
// loaded via LEA reg, [rip+disp] or LEA reg, [symbol]). symIndex is
// the referenced symbol's dense SymbolTable index.
func (s *State) SetSymbolBase(reg int, symIndex int) {
	s.set(reg, Slot{Kind: SymbolBaseOf, Sym: symIndex})
}

// SetImageBasePlus records reg = image-base + constant, the PIC-style
// "load a relative offset, then add to a base register" pattern.
func (s *State) SetImageBasePlus(reg int, symIndex int) {
	s.set(reg, Slot{Kind: ImageBasePlus, Sym: symIndex})
}

// Invalidate marks reg's contents as no longer known, e.g. after a
// call (caller-saved clobber) or any write the tracer can't interpret.
func (s *State) Invalidate(reg int) {
	s.set(reg, Slot{})
}

// InvalidateCallClobbered clears rax, rcx, rdx and r8-r11, the integer
// registers a Win64 call is free to clobber, since the tracer otherwise
// has no call-graph information. rsi and rdi, which System V calls may
// also clobber, are kept.
func (s *State) InvalidateCallClobbered() {
	for _, r := range []int{0, 1, 2, 8, 9, 10, 11} {
		s.Invalidate(r)
	}
}

func (s *State) set(reg int, v Slot) {
	if reg < 0 || reg >= len(s.regs) {
		return
	}
	s.regs[reg] = v
}

// Observe updates the tracer's belief from one decoded instruction.
// It only recognizes the small set of shapes that actually build a
// jump-table base address; everything else either leaves registers
// alone (most ALU ops touch registers the tracer doesn't model
// precisely, but those registers are already Unknown or get
// invalidated by their own destination write below) or invalidates
// its destination register so stale beliefs don't leak forward.
func Observe(s *State, inst disasm.Instruction) {
	if inst.Mnemonic == "call" {
		s.InvalidateCallClobbered()
		return
	}
	if len(inst.Operands) == 0 {
		return
	}
	dest := inst.Operands[0]
	if !dest.IsReg {
		return
	}

	switch {
	case inst.Mnemonic == "lea" && len(inst.Operands) == 2 && inst.Operands[1].IsMem && inst.Operands[1].RipRelative:
		// Symbol resolution (disp -> old symbol index) is pass-1's
		// job, since only pass-1 has the relocation store; the tracer
		// just flags the slot so pass-1 can fill Sym in afterward via
		// SetSymbolBase once it has resolved the target.
		s.set(dest.Reg, Slot{Kind: SymbolBaseOf})
	case inst.Mnemonic == "mov" && len(inst.Operands) == 2 && inst.Operands[1].HasImm:
		s.SetConstant(dest.Reg, inst.Operands[1].Imm)
	default:
		s.Invalidate(dest.Reg)
	}
}
