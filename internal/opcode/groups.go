package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// Group subtables are the classic ModR/M.reg-indexed 8-entry tables:
// arithmetic group1 (80-83), shift/rotate group2 (C0/C1/D0-D3), unary
// group3 (F6/F7), inc/dec group4/5 (FE/FF), and the mov group11
// (C6/C7). Adapted from the teacher's arithmetic.go/logic.go, which
// hand-wrote the same eight-way reg-field switch per opcode.
var (
	group1Byte8Idx  uint32
	group1WordIdx   uint32
	group1Sext8Idx  uint32
	group1APopIdx   uint32
	group2Byte8Idx  uint32
	group2WordIdx   uint32
	group2Byte1Idx  uint32
	group2Word1Idx  uint32
	group2ByteClIdx uint32
	group2WordClIdx uint32
	group3ByteIdx   uint32
	group3WordIdx   uint32
	group4Idx       uint32
	group5Idx       uint32
	group11Byte8Idx uint32
	group11WordIdx  uint32
)

var group1Names = []string{"add", "or", "adc", "sbb", "and", "sub", "xor", "cmp"}
var group2Names = []string{"rol", "ror", "rcl", "rcr", "shl", "shr", "shl", "sar"}

func populateGroups() {
	group1Byte8Idx = register(arithGroupTable(disasm.OpInt8, Imm8, disasm.OpConstI8))
	group1WordIdx = register(arithGroupTable(disasm.OpIntWAZ, ImmZ, disasm.OpConstIWAZ))
	group1Sext8Idx = register(arithGroupTable(disasm.OpIntWAZ, Imm8, disasm.OpConstI8))

	pop := make(Table, 8)
	for i := range pop {
		pop[i] = Illegal
	}
	pop[0] = Def{Name: "pop", Format: FormatRM, Dest: disasm.OpIntWAZ | SrcModRM, AllowedPrefixes: PfxStackOp}
	group1APopIdx = register(pop)

	group2Byte8Idx = register(shiftGroupTable(disasm.OpInt8))
	group2WordIdx = register(shiftGroupTable(disasm.OpIntWAZ))
	group2Byte1Idx = register(shiftGroupTable(disasm.OpInt8))
	group2Word1Idx = register(shiftGroupTable(disasm.OpIntWAZ))
	group2ByteClIdx = register(shiftGroupTable(disasm.OpInt8))
	group2WordClIdx = register(shiftGroupTable(disasm.OpIntWAZ))

	group3ByteIdx = register(unaryGroupTable(disasm.OpInt8))
	group3WordIdx = register(unaryGroupTable(disasm.OpIntWAZ))

	incdec8 := make(Table, 8)
	for i := range incdec8 {
		incdec8[i] = Illegal
	}
	incdec8[0] = Def{Name: "inc", Format: FormatRM, Dest: disasm.OpInt8 | SrcModRM}
	incdec8[1] = Def{Name: "dec", Format: FormatRM, Dest: disasm.OpInt8 | SrcModRM}
	group4Idx = register(incdec8)

	group5 := make(Table, 8)
	for i := range group5 {
		group5[i] = Illegal
	}
	group5[0] = Def{Name: "inc", Format: FormatRM, Dest: disasm.OpIntWAZ | SrcModRM}
	group5[1] = Def{Name: "dec", Format: FormatRM, Dest: disasm.OpIntWAZ | SrcModRM}
	group5[2] = Def{Name: "call", Format: FormatRM, Dest: disasm.OpNearIndCal | SrcModRM, Options: OptChangesOtherRegs}
	group5[4] = Def{Name: "jmp", Format: FormatRM, Dest: disasm.OpNearIndJmp | SrcModRM, Options: OptUnconditionalJmp}
	group5[6] = Def{Name: "push", Format: FormatRM, Dest: disasm.OpIntWAZ | SrcModRM, AllowedPrefixes: PfxStackOp}
	group5Idx = register(group5)

	mov8 := make(Table, 8)
	for i := range mov8 {
		mov8[i] = Illegal
	}
	mov8[0] = Def{Name: "mov", Format: FormatRM, Imm: Imm8, Dest: disasm.OpInt8 | SrcModRM, Src1: disasm.OpConstU8}
	group11Byte8Idx = register(mov8)

	movW := make(Table, 8)
	for i := range movW {
		movW[i] = Illegal
	}
	movW[0] = Def{Name: "mov", Format: FormatRM, Imm: ImmZ, Dest: disasm.OpIntWAZ | SrcModRM, Src1: disasm.OpConstUWAZ}
	group11WordIdx = register(movW)
}

func arithGroupTable(size disasm.OperandType, imm ImmClass, constType disasm.OperandType) Table {
	t := make(Table, 8)
	for reg, name := range group1Names {
		opts := Options(0)
		if name == "cmp" {
			opts = OptKeepDest
		}
		t[reg] = Def{Name: name, Format: FormatRM, Imm: imm, Dest: size | SrcModRM, Src1: constType, Options: opts}
	}
	return t
}

func shiftGroupTable(size disasm.OperandType) Table {
	t := make(Table, 8)
	for reg, name := range group2Names {
		t[reg] = Def{Name: name, Format: FormatRM, Dest: size | SrcModRM}
	}
	return t
}

func unaryGroupTable(size disasm.OperandType) Table {
	t := make(Table, 8)
	constType := disasm.OpConstUWAZ
	if size == disasm.OpInt8 {
		constType = disasm.OpConstU8
	}
	t[0] = Def{Name: "test", Format: FormatRM, Imm: immForSize(size), Dest: size | SrcModRM, Src1: constType}
	t[1] = Def{Name: "test", Format: FormatRM, Imm: immForSize(size), Dest: size | SrcModRM, Src1: constType}
	t[2] = Def{Name: "not", Format: FormatRM, Dest: size | SrcModRM}
	t[3] = Def{Name: "neg", Format: FormatRM, Dest: size | SrcModRM}
	t[4] = Def{Name: "mul", Format: FormatRM, Dest: disasm.OpImplicitRAX, Src1: size | SrcModRM, Options: OptChangesOtherRegs}
	t[5] = Def{Name: "imul", Format: FormatRM, Dest: disasm.OpImplicitRAX, Src1: size | SrcModRM, Options: OptChangesOtherRegs}
	t[6] = Def{Name: "div", Format: FormatRM, Dest: disasm.OpImplicitRAX, Src1: size | SrcModRM, Options: OptChangesOtherRegs}
	t[7] = Def{Name: "idiv", Format: FormatRM, Dest: disasm.OpImplicitRAX, Src1: size | SrcModRM, Options: OptChangesOtherRegs}
	return t
}

func immForSize(size disasm.OperandType) ImmClass {
	if size == disasm.OpInt8 {
		return Imm8
	}
	return ImmZ
}
