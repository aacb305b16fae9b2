package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// populateRoot fills in the 256-entry one-byte opcode map. Coverage
// is the classic x86-64 core (arithmetic group, mov family, push/pop,
// lea, jcc short, call/jmp, ret, int family, string ops, shift
// groups, the F6/F7 and FE/FF unary groups, and the flag-control
// single-byte ops) — the instruction set this implementation targets
// per SPEC_FULL.md, not every opcode ever assigned in 16/32-bit mode.
// Legacy segment-prefix PUSH/POP-segment and BCD opcodes (06/07/0E/16
// /17/1E/1F/27/2F/37/3F) are invalid in 64-bit mode and are left as
// Illegal rather than filled in for modes this engine doesn't target.
func populateRoot() {
	arithmeticGroup(0x00, "add", disasm.OpInt8, false)
	arithmeticGroup(0x08, "or", disasm.OpInt8, false)
	arithmeticGroup(0x10, "adc", disasm.OpInt8, false)
	arithmeticGroup(0x18, "sbb", disasm.OpInt8, false)
	arithmeticGroup(0x20, "and", disasm.OpInt8, false)
	arithmeticGroup(0x28, "sub", disasm.OpInt8, false)
	arithmeticGroup(0x30, "xor", disasm.OpInt8, false)
	arithmeticGroup(0x38, "cmp", disasm.OpInt8, true)

	Root[0x0F] = Def{Name: "(2-byte escape)", TableLink: LinkNextByte, InstructionSet: twoByteTableIdx}

	for r := 0; r < 8; r++ {
		Root[0x50+r] = Def{Name: "push", Format: FormatOpcodeReg, AllowedPrefixes: PfxStackOp,
			Dest: disasm.OpIntWAZ | SrcOpcodeReg, Options: OptChangesOtherRegs}
		Root[0x58+r] = Def{Name: "pop", Format: FormatOpcodeReg, AllowedPrefixes: PfxStackOp,
			Dest: disasm.OpIntWAZ | SrcOpcodeReg, Options: OptChangesOtherRegs}
	}

	Root[0x68] = Def{Name: "push", Format: FormatNoOperands, Imm: ImmZ, Dest: disasm.OpConstIWAZ, AllowedPrefixes: PfxStackOp}
	Root[0x69] = Def{Name: "imul", Format: FormatRegRM, Imm: ImmZ, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpIntWAZ | SrcModRM, Src2: disasm.OpConstIWAZ}
	Root[0x6A] = Def{Name: "push", Format: FormatNoOperands, Imm: Imm8, Dest: disasm.OpConstI8, AllowedPrefixes: PfxStackOp}
	Root[0x6B] = Def{Name: "imul", Format: FormatRegRM, Imm: Imm8, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpIntWAZ | SrcModRM, Src2: disasm.OpConstI8}

	for cc := 0; cc < 16; cc++ {
		Root[0x70+cc] = Def{Name: jccName(cc), Format: FormatNoOperands, Imm: Imm8,
			Dest: disasm.OpShortJump, AllowedPrefixes: PfxJump66Truncates, Options: OptHasShortForm}
	}

	Root[0x80] = Def{Name: "(group1 Eb,Ib)", TableLink: LinkModRMReg, InstructionSet: group1Byte8Idx, Format: FormatRM, Imm: Imm8}
	Root[0x81] = Def{Name: "(group1 Ev,Iz)", TableLink: LinkModRMReg, InstructionSet: group1WordIdx, Format: FormatRM, Imm: ImmZ}
	Root[0x83] = Def{Name: "(group1 Ev,Ib sign-extended)", TableLink: LinkModRMReg, InstructionSet: group1Sext8Idx, Format: FormatRM, Imm: Imm8}

	Root[0x84] = Def{Name: "test", Format: FormatRMReg, Dest: disasm.OpInt8 | SrcModRM, Src1: disasm.OpInt8 | SrcRegField}
	Root[0x85] = Def{Name: "test", Format: FormatRMReg, Dest: disasm.OpIntWAZ | SrcModRM, Src1: disasm.OpIntWAZ | SrcRegField}
	Root[0x86] = Def{Name: "xchg", Format: FormatRMReg, Dest: disasm.OpInt8 | SrcModRM, Src1: disasm.OpInt8 | SrcRegField, Options: OptChangesOtherRegs}
	Root[0x87] = Def{Name: "xchg", Format: FormatRMReg, Dest: disasm.OpIntWAZ | SrcModRM, Src1: disasm.OpIntWAZ | SrcRegField, Options: OptChangesOtherRegs}
	Root[0x88] = Def{Name: "mov", Format: FormatRMReg, Dest: disasm.OpInt8 | SrcModRM, Src1: disasm.OpInt8 | SrcRegField}
	Root[0x89] = Def{Name: "mov", Format: FormatRMReg, Dest: disasm.OpIntWAZ | SrcModRM, Src1: disasm.OpIntWAZ | SrcRegField}
	Root[0x8A] = Def{Name: "mov", Format: FormatRegRM, Dest: disasm.OpInt8 | SrcRegField, Src1: disasm.OpInt8 | SrcModRM}
	Root[0x8B] = Def{Name: "mov", Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpIntWAZ | SrcModRM}
	Root[0x8D] = Def{Name: "lea", Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpIntAddrSz | SrcModRM | disasm.OpMustBeMem}

	Root[0x8F] = Def{Name: "pop", TableLink: LinkModRMReg, InstructionSet: group1APopIdx, Format: FormatRM, AllowedPrefixes: PfxStackOp}

	Root[0x90] = Def{Name: "nop", Format: FormatNoOperands, Options: OptMayBeNOP}
	for r := 1; r < 8; r++ {
		Root[0x90+r] = Def{Name: "xchg", Format: FormatOpcodeReg, Dest: disasm.OpIntWAZ | SrcOpcodeReg, Src1: disasm.OpImplicitRAX, Options: OptChangesOtherRegs}
	}
	Root[0x98] = Def{Name: "cwde", Format: FormatNoOperands, Options: OptNameDiffers64}
	Root[0x99] = Def{Name: "cdq", Format: FormatNoOperands, Options: OptNameDiffers64}
	Root[0x9C] = Def{Name: "pushfq", Format: FormatNoOperands, AllowedPrefixes: PfxStackOp}
	Root[0x9D] = Def{Name: "popfq", Format: FormatNoOperands, AllowedPrefixes: PfxStackOp}

	Root[0xA0] = Def{Name: "mov", Format: FormatNoOperands, Imm: ImmAddrZ, Dest: disasm.OpImplicitAL, Src1: disasm.OpInt8 | SrcDirectMem}
	Root[0xA1] = Def{Name: "mov", Format: FormatNoOperands, Imm: ImmAddrZ, Dest: disasm.OpImplicitRAX, Src1: disasm.OpIntWAZ | SrcDirectMem}
	Root[0xA2] = Def{Name: "mov", Format: FormatNoOperands, Imm: ImmAddrZ, Dest: disasm.OpInt8 | SrcDirectMem, Src1: disasm.OpImplicitAL}
	Root[0xA3] = Def{Name: "mov", Format: FormatNoOperands, Imm: ImmAddrZ, Dest: disasm.OpIntWAZ | SrcDirectMem, Src1: disasm.OpImplicitRAX}

	Root[0xA4] = Def{Name: "movsb", Format: FormatImplicit, AllowedPrefixes: PfxRep}
	Root[0xA5] = Def{Name: "movs", Format: FormatImplicit, AllowedPrefixes: PfxRep, Options: OptSizeSuffix}
	Root[0xA6] = Def{Name: "cmpsb", Format: FormatImplicit, AllowedPrefixes: PfxRepeCond}
	Root[0xA7] = Def{Name: "cmps", Format: FormatImplicit, AllowedPrefixes: PfxRepeCond, Options: OptSizeSuffix}
	Root[0xA8] = Def{Name: "test", Format: FormatNoOperands, Imm: Imm8, Dest: disasm.OpImplicitAL, Src1: disasm.OpConstU8}
	Root[0xA9] = Def{Name: "test", Format: FormatNoOperands, Imm: ImmZ, Dest: disasm.OpImplicitRAX, Src1: disasm.OpConstUWAZ}
	Root[0xAA] = Def{Name: "stosb", Format: FormatImplicit, AllowedPrefixes: PfxRep}
	Root[0xAB] = Def{Name: "stos", Format: FormatImplicit, AllowedPrefixes: PfxRep, Options: OptSizeSuffix}
	Root[0xAC] = Def{Name: "lodsb", Format: FormatImplicit, AllowedPrefixes: PfxRep}
	Root[0xAD] = Def{Name: "lods", Format: FormatImplicit, AllowedPrefixes: PfxRep, Options: OptSizeSuffix}
	Root[0xAE] = Def{Name: "scasb", Format: FormatImplicit, AllowedPrefixes: PfxRepeCond}
	Root[0xAF] = Def{Name: "scas", Format: FormatImplicit, AllowedPrefixes: PfxRepeCond, Options: OptSizeSuffix}

	for r := 0; r < 8; r++ {
		Root[0xB0+r] = Def{Name: "mov", Format: FormatOpcodeReg, Imm: Imm8, Dest: disasm.OpInt8 | SrcOpcodeReg, Src1: disasm.OpConstU8}
		Root[0xB8+r] = Def{Name: "mov", Format: FormatOpcodeReg, Imm: ImmV, Dest: disasm.OpIntWAZ | SrcOpcodeReg, Src1: disasm.OpConstUWAZ}
	}

	Root[0xC0] = Def{Name: "(group2 Eb,Ib)", TableLink: LinkModRMReg, InstructionSet: group2Byte8Idx, Format: FormatRM, Imm: Imm8}
	Root[0xC1] = Def{Name: "(group2 Ev,Ib)", TableLink: LinkModRMReg, InstructionSet: group2WordIdx, Format: FormatRM, Imm: Imm8}
	Root[0xC2] = Def{Name: "ret", Format: FormatNoOperands, Imm: Imm16, Dest: disasm.OpConstU16, Options: OptUnconditionalJmp}
	Root[0xC3] = Def{Name: "ret", Format: FormatNoOperands, Options: OptUnconditionalJmp}
	Root[0xC6] = Def{Name: "(group11 Eb,Ib)", TableLink: LinkModRMReg, InstructionSet: group11Byte8Idx, Format: FormatRM, Imm: Imm8}
	Root[0xC7] = Def{Name: "(group11 Ev,Iz)", TableLink: LinkModRMReg, InstructionSet: group11WordIdx, Format: FormatRM, Imm: ImmZ}
	Root[0xC9] = Def{Name: "leave", Format: FormatNoOperands}
	Root[0xCC] = Def{Name: "int3", Format: FormatNoOperands}
	Root[0xCD] = Def{Name: "int", Format: FormatNoOperands, Imm: Imm8, Dest: disasm.OpConstU8}
	Root[0xCF] = Def{Name: "iretq", Format: FormatNoOperands, Options: OptUnconditionalJmp}

	Root[0xD0] = Def{Name: "(group2 Eb,1)", TableLink: LinkModRMReg, InstructionSet: group2Byte1Idx, Format: FormatRM}
	Root[0xD1] = Def{Name: "(group2 Ev,1)", TableLink: LinkModRMReg, InstructionSet: group2Word1Idx, Format: FormatRM}
	Root[0xD2] = Def{Name: "(group2 Eb,CL)", TableLink: LinkModRMReg, InstructionSet: group2ByteClIdx, Format: FormatRM}
	Root[0xD3] = Def{Name: "(group2 Ev,CL)", TableLink: LinkModRMReg, InstructionSet: group2WordClIdx, Format: FormatRM}

	Root[0xE8] = Def{Name: "call", Format: FormatNoOperands, Imm: Imm32, Dest: disasm.OpNearCall, AllowedPrefixes: PfxJump66Truncates, Options: OptChangesOtherRegs}
	Root[0xE9] = Def{Name: "jmp", Format: FormatNoOperands, Imm: Imm32, Dest: disasm.OpNearJump, AllowedPrefixes: PfxJump66Truncates, Options: OptUnconditionalJmp}
	Root[0xEB] = Def{Name: "jmp", Format: FormatNoOperands, Imm: Imm8, Dest: disasm.OpShortJump, Options: OptUnconditionalJmp | OptHasShortForm}

	Root[0xF4] = Def{Name: "hlt", Format: FormatNoOperands}
	Root[0xF5] = Def{Name: "cmc", Format: FormatNoOperands}
	Root[0xF6] = Def{Name: "(group3 Eb)", TableLink: LinkModRMReg, InstructionSet: group3ByteIdx, Format: FormatRM}
	Root[0xF7] = Def{Name: "(group3 Ev)", TableLink: LinkModRMReg, InstructionSet: group3WordIdx, Format: FormatRM}
	Root[0xF8] = Def{Name: "clc", Format: FormatNoOperands}
	Root[0xF9] = Def{Name: "stc", Format: FormatNoOperands}
	Root[0xFA] = Def{Name: "cli", Format: FormatNoOperands}
	Root[0xFB] = Def{Name: "sti", Format: FormatNoOperands}
	Root[0xFC] = Def{Name: "cld", Format: FormatNoOperands}
	Root[0xFD] = Def{Name: "std", Format: FormatNoOperands}
	Root[0xFE] = Def{Name: "(group4 Eb)", TableLink: LinkModRMReg, InstructionSet: group4Idx, Format: FormatRM}
	Root[0xFF] = Def{Name: "(group5 Ev)", TableLink: LinkModRMReg, InstructionSet: group5Idx, Format: FormatRM}
}

// arithmeticGroup fills the six-opcode pattern shared by
// ADD/OR/ADC/SBB/AND/SUB/XOR/CMP (Eb,Gb / Ev,Gv / Gb,Eb / Gv,Ev /
// AL,Ib / eAX,Iz), adapted from the teacher's add.go/arithmetic.go
// which hand-wrote exactly this pattern per opcode family.
func arithmeticGroup(base byte, name string, _ disasm.OperandType, isCompare bool) {
	opts := Options(0)
	if isCompare {
		opts = OptKeepDest
	}
	Root[base+0] = Def{Name: name, Format: FormatRMReg, Dest: disasm.OpInt8 | SrcModRM, Src1: disasm.OpInt8 | SrcRegField, Options: opts}
	Root[base+1] = Def{Name: name, Format: FormatRMReg, Dest: disasm.OpIntWAZ | SrcModRM, Src1: disasm.OpIntWAZ | SrcRegField, Options: opts}
	Root[base+2] = Def{Name: name, Format: FormatRegRM, Dest: disasm.OpInt8 | SrcRegField, Src1: disasm.OpInt8 | SrcModRM, Options: opts}
	Root[base+3] = Def{Name: name, Format: FormatRegRM, Dest: disasm.OpIntWAZ | SrcRegField, Src1: disasm.OpIntWAZ | SrcModRM, Options: opts}
	Root[base+4] = Def{Name: name, Format: FormatNoOperands, Imm: Imm8, Dest: disasm.OpImplicitAL, Src1: disasm.OpConstI8, Options: opts}
	Root[base+5] = Def{Name: name, Format: FormatNoOperands, Imm: ImmZ, Dest: disasm.OpImplicitRAX, Src1: disasm.OpConstIWAZ, Options: opts}
}

var jccNames = []string{
	"jo", "jno", "jb", "jae", "je", "jne", "jbe", "ja",
	"js", "jns", "jp", "jnp", "jl", "jge", "jle", "jg",
}

func jccName(cc int) string { return jccNames[cc&0xF] }
