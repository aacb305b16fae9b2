package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// Unqualified aliases for the addressing-source bits, used constantly
// by every table row in this package.
const (
	SrcDirectMem = disasm.SrcDirectMem
	SrcOpcodeReg = disasm.SrcOpcodeReg
	SrcModRM     = disasm.SrcModRM
	SrcRegField  = disasm.SrcRegField
	SrcDREX      = disasm.SrcDREX
	SrcVEXvvvv   = disasm.SrcVEXvvvv
	SrcImm4Hi    = disasm.SrcImm4Hi
	SrcImm4Lo    = disasm.SrcImm4Lo
	SrcImmField1 = disasm.SrcImmField1
	SrcImmField2 = disasm.SrcImmField2
)

// Unqualified aliases for the vector-size field, used by every
// SIMD/VEX table row in this package.
const (
	VecMMXorXMMorYMMorZMM = disasm.VecMMXorXMMorYMMorZMM
	VecXMMorYMMorZMM      = disasm.VecXMMorYMMorZMM
	VecMMX                = disasm.VecMMX
	VecXMM                = disasm.VecXMM
	VecYMM                = disasm.VecYMM
	VecZMM                = disasm.VecZMM
	VecFuture128B         = disasm.VecFuture128B
	VecHalfOfL            = disasm.VecHalfOfL
)
