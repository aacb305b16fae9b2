package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halfbyte/objdis/pkg/disasm"
)

func TestObserveMovImmSetsConstant(t *testing.T) {
	s := New()
	inst := disasm.Instruction{
		Mnemonic: "mov",
		Operands: []disasm.Operand{
			{IsReg: true, Reg: 0},
			{HasImm: true, Imm: 42},
		},
	}
	Observe(s, inst)
	slot := s.Get(0)
	assert.Equal(t, Constant, slot.Kind)
	assert.EqualValues(t, 42, slot.Const)
}

func TestObserveLeaRipRelativeMarksSymbolBase(t *testing.T) {
	s := New()
	inst := disasm.Instruction{
		Mnemonic: "lea",
		Operands: []disasm.Operand{
			{IsReg: true, Reg: 3},
			{IsMem: true, RipRelative: true},
		},
	}
	Observe(s, inst)
	assert.Equal(t, SymbolBaseOf, s.Get(3).Kind)
}

func TestObserveCallInvalidatesClobberedRegisters(t *testing.T) {
	s := New()
	s.SetConstant(0, 7)
	s.SetConstant(1, 8)
	s.SetConstant(6, 9) // rsi, not in the cleared set: must survive

	Observe(s, disasm.Instruction{Mnemonic: "call"})

	assert.Equal(t, Unknown, s.Get(0).Kind)
	assert.Equal(t, Unknown, s.Get(1).Kind)
	assert.Equal(t, Constant, s.Get(6).Kind)
}

func TestResetClearsEveryRegister(t *testing.T) {
	s := New()
	s.SetConstant(2, 100)
	s.Reset()
	assert.Equal(t, Unknown, s.Get(2).Kind)
}

func TestUnrecognizedWriteInvalidatesDestination(t *testing.T) {
	s := New()
	s.SetConstant(5, 1)
	Observe(s, disasm.Instruction{
		Mnemonic: "add",
		Operands: []disasm.Operand{
			{IsReg: true, Reg: 5},
			{IsReg: true, Reg: 6},
		},
	})
	assert.Equal(t, Unknown, s.Get(5).Kind)
}
