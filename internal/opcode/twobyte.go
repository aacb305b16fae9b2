package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// twoByteTableIdx is the Tables[] slot for the 0F-prefixed map,
// reached from Root[0x0F] via LinkNextByte.
var twoByteTableIdx uint32

// populateTwoByte fills in the subset of the 0F map this
// implementation targets: conditional move, near Jcc, CPUID, syscall,
// MOVZX/MOVSX, multi-byte NOP, and the legacy SSE arithmetic/move
// family (ADDPS/MULPS/SUBPS/XORPS/MOVAPS/MOVUPS) needed to exercise
// the vector operand path before VEX/EVEX encodings take over in
// vex.go.
func populateTwoByte() {
	t := make(Table, 256)
	for i := range t {
		t[i] = Illegal
	}

	t[0x05] = Def{Name: "syscall", Format: FormatNoOperands, Options: OptUnconditionalJmp | OptChangesOtherRegs}
	t[0x1F] = Def{Name: "nop", Format: FormatRM, Dest: disasm.OpIntWAZ | SrcModRM, Options: OptMayBeNOP}

	for cc := 0; cc < 16; cc++ {
		t[0x40+cc] = Def{Name: "cmov" + jccSuffix(cc), Format: FormatRegRM,
			Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpIntWAZ | SrcModRM}
		t[0x80+cc] = Def{Name: jccName(cc), Format: FormatNoOperands, Imm: ImmZ,
			Dest: disasm.OpNearJump, AllowedPrefixes: PfxJump66Truncates}
	}

	t[0x10] = Def{Name: "movups", Format: FormatRegRM, Dest: disasm.OpVecUnaligned | VecXMM | SrcRegField, Src1: disasm.OpVecUnaligned | VecXMM | SrcModRM}
	t[0x11] = Def{Name: "movups", Format: FormatRMReg, Dest: disasm.OpVecUnaligned | VecXMM | SrcModRM, Src1: disasm.OpVecUnaligned | VecXMM | SrcRegField}
	t[0x28] = Def{Name: "movaps", Format: FormatRegRM, Dest: disasm.OpVecFull | VecXMM | SrcRegField, Src1: disasm.OpVecFull | VecXMM | SrcModRM}
	t[0x29] = Def{Name: "movaps", Format: FormatRMReg, Dest: disasm.OpVecFull | VecXMM | SrcModRM, Src1: disasm.OpVecFull | VecXMM | SrcRegField}
	t[0x57] = Def{Name: "xorps", Format: FormatRegRM, Dest: disasm.OpVecFull | VecXMM | SrcRegField, Src1: disasm.OpVecFull | VecXMM | SrcModRM}
	t[0x58] = Def{Name: "addps", Format: FormatRegRM, Dest: disasm.OpVecFull | VecXMM | SrcRegField, Src1: disasm.OpVecFull | VecXMM | SrcModRM}
	t[0x59] = Def{Name: "mulps", Format: FormatRegRM, Dest: disasm.OpVecFull | VecXMM | SrcRegField, Src1: disasm.OpVecFull | VecXMM | SrcModRM}
	t[0x5C] = Def{Name: "subps", Format: FormatRegRM, Dest: disasm.OpVecFull | VecXMM | SrcRegField, Src1: disasm.OpVecFull | VecXMM | SrcModRM}
	t[0x6E] = Def{Name: "movd", Format: FormatRegRM, Dest: disasm.OpVecFull | VecXMM | SrcRegField, Src1: disasm.OpInt32 | SrcModRM}
	t[0x6F] = Def{Name: "movq", Format: FormatRegRM, Dest: disasm.OpVecFull | VecMMX | SrcRegField, Src1: disasm.OpVecFull | VecMMX | SrcModRM}
	t[0x7E] = Def{Name: "movd", Format: FormatRMReg, Dest: disasm.OpInt32 | SrcModRM, Src1: disasm.OpVecFull | VecXMM | SrcRegField}
	t[0xA2] = Def{Name: "cpuid", Format: FormatNoOperands, Options: OptChangesOtherRegs}
	t[0xAF] = Def{Name: "imul", Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpIntWAZ | SrcModRM}
	t[0xB6] = Def{Name: "movzx", Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpInt8 | SrcModRM}
	t[0xB7] = Def{Name: "movzx", Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpInt16 | SrcModRM}
	t[0xBE] = Def{Name: "movsx", Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpInt8 | SrcModRM}
	t[0xBF] = Def{Name: "movsx", Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpInt16 | SrcModRM}

	// 0F FF has no defined instruction; left Illegal deliberately so
	// the decoder's reserved-opcode path is exercised.

	twoByteTableIdx = register(t)
}

var jccSuffixes = []string{
	"o", "no", "b", "ae", "e", "ne", "be", "a",
	"s", "ns", "p", "np", "l", "ge", "le", "g",
}

func jccSuffix(cc int) string { return jccSuffixes[cc&0xF] }
