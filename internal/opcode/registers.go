package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// Register name tables, generalized from the teacher's
// ByteOperationRegisterFieldEncoding / WordOperationRegisterFieldEncoding
// maps (pkg/decoder/decoder.go) to cover 8/16/32/64-bit GPRs, R8-R15,
// and the XMM/YMM/ZMM vector registers. Index is the 3-bit register
// field (plus REX.B/R/X extension folded in by the caller to 0..15).

var Reg8Low = [16]string{
	"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil",
	"r8b", "r9b", "r10b", "r11b", "r12b", "r13b", "r14b", "r15b",
}

// Reg8LegacyHigh is used only when no REX prefix is present and the
// register field is 4-7, selecting ah/ch/dh/bh instead of spl/bpl/sil/dil.
var Reg8LegacyHigh = [4]string{"ah", "ch", "dh", "bh"}

var Reg16 = [16]string{
	"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
	"r8w", "r9w", "r10w", "r11w", "r12w", "r13w", "r14w", "r15w",
}

var Reg32 = [16]string{
	"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi",
	"r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d",
}

var Reg64 = [16]string{
	"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

var RegXMM = [32]string{
	"xmm0", "xmm1", "xmm2", "xmm3", "xmm4", "xmm5", "xmm6", "xmm7",
	"xmm8", "xmm9", "xmm10", "xmm11", "xmm12", "xmm13", "xmm14", "xmm15",
	"xmm16", "xmm17", "xmm18", "xmm19", "xmm20", "xmm21", "xmm22", "xmm23",
	"xmm24", "xmm25", "xmm26", "xmm27", "xmm28", "xmm29", "xmm30", "xmm31",
}

var RegYMM = [32]string{
	"ymm0", "ymm1", "ymm2", "ymm3", "ymm4", "ymm5", "ymm6", "ymm7",
	"ymm8", "ymm9", "ymm10", "ymm11", "ymm12", "ymm13", "ymm14", "ymm15",
	"ymm16", "ymm17", "ymm18", "ymm19", "ymm20", "ymm21", "ymm22", "ymm23",
	"ymm24", "ymm25", "ymm26", "ymm27", "ymm28", "ymm29", "ymm30", "ymm31",
}

var RegZMM = [32]string{
	"zmm0", "zmm1", "zmm2", "zmm3", "zmm4", "zmm5", "zmm6", "zmm7",
	"zmm8", "zmm9", "zmm10", "zmm11", "zmm12", "zmm13", "zmm14", "zmm15",
	"zmm16", "zmm17", "zmm18", "zmm19", "zmm20", "zmm21", "zmm22", "zmm23",
	"zmm24", "zmm25", "zmm26", "zmm27", "zmm28", "zmm29", "zmm30", "zmm31",
}

var RegMMX = [8]string{"mm0", "mm1", "mm2", "mm3", "mm4", "mm5", "mm6", "mm7"}

var RegSeg = [6]string{"es", "cs", "ss", "ds", "fs", "gs"}

var RegMask = [8]string{"k0", "k1", "k2", "k3", "k4", "k5", "k6", "k7"}

var RegBound = [4]string{"bnd0", "bnd1", "bnd2", "bnd3"}

var RegControl = [16]string{
	"cr0", "cr1", "cr2", "cr3", "cr4", "cr5", "cr6", "cr7",
	"cr8", "cr9", "cr10", "cr11", "cr12", "cr13", "cr14", "cr15",
}

var RegDebug = [16]string{
	"dr0", "dr1", "dr2", "dr3", "dr4", "dr5", "dr6", "dr7",
	"dr8", "dr9", "dr10", "dr11", "dr12", "dr13", "dr14", "dr15",
}

// GPRName returns the register name for index (0-15, REX-extended
// already folded in) at the given effective integer width. hasRex
// selects spl/bpl/sil/dil vs. the legacy ah/ch/dh/bh aliasing for the
// 8-bit, index 4-7 case.
func GPRName(index int, width disasm.WordSize, size8 bool, hasRex bool) string {
	if size8 {
		if !hasRex && index >= 4 && index <= 7 {
			return Reg8LegacyHigh[index-4]
		}
		return Reg8Low[index]
	}
	switch width {
	case disasm.Word16:
		return Reg16[index]
	case disasm.Word64:
		return Reg64[index]
	default:
		return Reg32[index]
	}
}

// VectorRegName returns the register name for a vector-size class
// (disasm.VecMMX/VecXMM/VecYMM/VecZMM) at the given index.
func VectorRegName(index int, vecSize disasm.OperandType) string {
	switch vecSize {
	case disasm.VecMMX:
		return RegMMX[index&7]
	case disasm.VecYMM:
		return RegYMM[index]
	case disasm.VecZMM:
		return RegZMM[index]
	default:
		return RegXMM[index]
	}
}
