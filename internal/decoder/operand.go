package decoder

import "github.com/halfbyte/objdis/pkg/disasm"

// sourceMask isolates the addressing-source bits (16-23) of an
// OperandType: which of ModR/M, the reg field, the opcode's own low
// three bits, VEX.vvvv, or a fixed implicit register supplies this
// operand's value.
const sourceMask = 0xFF0000

// buildOperandFrom resolves one Dest/Src1/Src2/Src3 field of an
// opcode.Def into a concrete disasm.Operand, given the already-decoded
// ModR/M/SIB/displacement and prefix state.
func buildOperandFrom(t disasm.OperandType, mr modrmResult, haveModRM bool, opcodeByte byte, rexR, rexB bool, st prefixState, opSize disasm.WordSize) (disasm.Operand, error) {
	if t.BaseType() == disasm.OpIntWAZ {
		switch opSize {
		case disasm.Word16:
			t = t&^0xFF | disasm.OpInt16
		case disasm.Word64:
			t = t&^0xFF | disasm.OpInt64
		default:
			t = t&^0xFF | disasm.OpInt32
		}
	}
	op := disasm.Operand{Type: t}

	switch t & sourceMask {
	case disasm.SrcRegField:
		op.IsReg = true
		if haveModRM {
			op.Reg = mr.regField(rexR)
		}
	case disasm.SrcModRM:
		if mr.isRegister {
			op.IsReg = true
			op.Reg = mr.rmRegIndex
		} else {
			op.IsMem = true
			op.BaseReg = mr.baseReg
			op.IndexReg = mr.indexReg
			op.Scale = mr.scale
			op.RipRelative = mr.ripRelative
			op.HasDisp = mr.hasDisp
			op.Disp = mr.disp
			op.DispSize = mr.dispSize
		}
	case disasm.SrcOpcodeReg:
		reg := int(opcodeByte & 0x7)
		if rexB {
			reg |= 0x8
		}
		op.IsReg = true
		op.Reg = reg
	case disasm.SrcVEXvvvv:
		op.IsReg = true
		op.Reg = st.vexVvvv
	case disasm.SrcDirectMem:
		op.IsMem = true
		op.BaseReg = -1
		op.IndexReg = -1
	default:
		applyImplicitRegister(&op, t.BaseType())
	}

	return op, nil
}

// applyImplicitRegister fills in the fixed register an implicit
// operand (AL, RAX, DX, CL, XMM0, ST0) refers to; it carries no
// addressing-source bits because the encoding never spells it out.
func applyImplicitRegister(op *disasm.Operand, base disasm.OperandType) {
	switch base {
	case disasm.OpImplicitAL.BaseType(), disasm.OpImplicitAX.BaseType(),
		disasm.OpImplicitEAX.BaseType(), disasm.OpImplicitRAX.BaseType():
		op.IsReg = true
		op.Reg = 0
	case disasm.OpImplicitDX.BaseType():
		op.IsReg = true
		op.Reg = 2
	case disasm.OpImplicitCL.BaseType():
		op.IsReg = true
		op.Reg = 1
	case disasm.OpImplicitXMM0.BaseType(), disasm.OpImplicitST0.BaseType():
		op.IsReg = true
		op.Reg = 0
	case disasm.OpImplicitOne.BaseType():
		op.HasImm = true
		op.Imm = 1
	}
}

// attachImmediate hands a decoded immediate value to whichever
// operand is meant to carry it: the direct-memory operand for moffs
// forms, otherwise the first constant/jump-target operand, otherwise
// the last operand built.
func attachImmediate(ops []disasm.Operand, val int64) {
	for i := range ops {
		if ops[i].Type&sourceMask == disasm.SrcDirectMem {
			ops[i].Disp = val
			ops[i].HasDisp = true
			return
		}
	}
	for i := range ops {
		if isImmediateCarrier(ops[i].Type) {
			ops[i].HasImm = true
			ops[i].Imm = val
			return
		}
	}
	if len(ops) > 0 {
		ops[len(ops)-1].HasImm = true
		ops[len(ops)-1].Imm = val
	}
}

// attachMemReloc marks the ModR/M-addressed memory operand (if any) as
// backed by a relocation, spec.md §4.2 step 6, so pass-2 renders the
// relocation's target symbol instead of the raw displacement bytes.
func attachMemReloc(ops []disasm.Operand, targetOld int) {
	for i := range ops {
		if ops[i].IsMem {
			ops[i].RelocTargetOld = targetOld
			return
		}
	}
}

// attachImmReloc marks whichever operand attachImmediate would have
// carried the value as backed by a relocation instead — the moffs
// direct-memory operand first, then the first immediate/jump-target
// carrier, mirroring attachImmediate's own priority order.
func attachImmReloc(ops []disasm.Operand, targetOld int) {
	for i := range ops {
		if ops[i].Type&sourceMask == disasm.SrcDirectMem {
			ops[i].RelocTargetOld = targetOld
			return
		}
	}
	for i := range ops {
		if isImmediateCarrier(ops[i].Type) {
			ops[i].RelocTargetOld = targetOld
			return
		}
	}
}

func isImmediateCarrier(t disasm.OperandType) bool {
	switch t {
	case disasm.OpConstU8, disasm.OpConstI8, disasm.OpConstU16, disasm.OpConstI16,
		disasm.OpConstU32, disasm.OpConstI32, disasm.OpConstU16or32, disasm.OpConstI16or32,
		disasm.OpConstUWAZ, disasm.OpConstIWAZ,
		disasm.OpShortJump, disasm.OpNearJump, disasm.OpNearCall:
		return true
	}
	return false
}
