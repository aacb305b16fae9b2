// Package disasm holds the data model shared by the whole engine:
// sections, symbols, relocations, function records, and the bitfield
// lattices that describe operand types, relocation kinds, and the
// chosen output dialect. See original_source/src/disasm.h for the
// authoritative bit layout this package mirrors.
package disasm

// Dialect selects the assembly-language surface syntax pass-2 emits.
type Dialect int

const (
	MASM Dialect = iota
	NASM
	GAS
)

func (d Dialect) String() string {
	switch d {
	case MASM:
		return "masm"
	case NASM:
		return "nasm"
	case GAS:
		return "gas"
	default:
		return "unknown"
	}
}

// ParseDialect accepts the lowercase spellings used on the CLI.
func ParseDialect(s string) (Dialect, bool) {
	switch s {
	case "masm":
		return MASM, true
	case "nasm", "yasm":
		return NASM, true
	case "gas", "att":
		return GAS, true
	default:
		return 0, false
	}
}

// ExeType is the kind of binary the sections were extracted from.
type ExeType int

const (
	ExeObject ExeType = iota
	ExePicShared
	ExeExecutable
)

// SectionKind classifies a Section's contents.
type SectionKind int

const (
	SectionUnknown SectionKind = iota
	SectionCode
	SectionData
	SectionBSS
	SectionConst
	SectionDebug
	SectionEH
	SectionGroup
	SectionCommunal
)

// Pseudo-section indices, spec.md §6.
const (
	SectionNone                 = 0
	SectionAbsolute             = -1
	SectionFlatGroup            = -2
	SectionAssumeNothing        = -3
	SectionAssumeError          = -4
	SectionImageRelativeUnknown = -16
)

// WordSize is the effective address/operand width of a section.
type WordSize int

const (
	Word16 WordSize = 16
	Word32 WordSize = 32
	Word64 WordSize = 64
)

// Scope is a flag set describing a symbol's visibility.
type Scope uint32

const (
	ScopeLocal    Scope = 1 << 0
	ScopeFile     Scope = 1 << 1
	ScopePublic   Scope = 1 << 2
	ScopeWeak     Scope = 1 << 3
	ScopeCommunal Scope = 1 << 4
	ScopeExternal Scope = 1 << 5
	ScopeEmitted  Scope = 1 << 8
)

// RelocType enumerates the cross-reference kinds a Relocation can
// carry. Bitwise-OR is only valid where explicitly noted (e.g.
// RelocDirect|RelocAlreadyRelocatedDirect = 0x21).
type RelocType uint32

const (
	RelocDirect                  RelocType = 0x01
	RelocSelfRelative            RelocType = 0x02
	RelocImageRelative           RelocType = 0x04
	RelocSegmentRelative         RelocType = 0x08
	RelocRelativeToRefPoint      RelocType = 0x10
	RelocAlreadyRelocatedDirect  RelocType = 0x20
	RelocPLTDirect               RelocType = 0x40
	RelocGNUIFuncPLT             RelocType = 0x80
	RelocSegmentSelector         RelocType = 0x100
	RelocSegmentOfSymbol         RelocType = 0x200
	RelocFarSegOff               RelocType = 0x400
	RelocGOTRelative             RelocType = 0x800
	RelocGOTSelfRelative         RelocType = 0x1000
	RelocPLTSelfRelative         RelocType = 0x2000
)

// OperandType is the 32-bit bitfield lattice from spec.md §3,
// mirroring disasm.h's Destination/Source1..3 fields byte-for-byte.
//
// Layout (low to high):
//   bits 0-7:   base size/class (integer width, FP class, constant class)
//   bits 8-11:  vector-size field
//   bit 12:     must-be-register
//   bit 13:     must-be-memory
//   bits 16-23: addressing-source (how the operand is located)
//   bits 24-31: CDisassembler::s.Operands[]-only classification bits
type OperandType uint32

const (
	OpNone OperandType = 0

	// Base size/class, bits 0-7.
	OpInt8       OperandType = 0x01
	OpInt16      OperandType = 0x02
	OpInt32      OperandType = 0x03
	OpInt64      OperandType = 0x04
	OpInt80Mem   OperandType = 0x05
	OpIntOther   OperandType = 0x06
	OpMem48      OperandType = 0x07
	OpInt16or32  OperandType = 0x08
	OpIntWAZ     OperandType = 0x09 // word/address/size depending on 66/REX.W
	OpIntAddrSz  OperandType = 0x0A
	OpNearIndJmp OperandType = 0x0B
	OpNearIndCal OperandType = 0x0C
	OpFarIndPtr  OperandType = 0x0D

	OpConstU8  OperandType = 0x11
	OpConstU16 OperandType = 0x12
	OpConstU32 OperandType = 0x13
	OpConstU16or32 OperandType = 0x18
	OpConstUWAZ    OperandType = 0x19
	OpConstI8  OperandType = 0x21
	OpConstI16 OperandType = 0x22
	OpConstI32 OperandType = 0x23
	OpConstI16or32 OperandType = 0x28
	OpConstIWAZ    OperandType = 0x29
	OpConstX8  OperandType = 0x31
	OpConstX16 OperandType = 0x32
	OpConstX32 OperandType = 0x33
	OpConstX64 OperandType = 0x34

	OpFloatX87      OperandType = 0x40
	OpFloat32X87    OperandType = 0x43
	OpFloat64X87    OperandType = 0x44
	OpFloat80X87    OperandType = 0x45
	OpFloatSSE      OperandType = 0x48
	OpFloat16       OperandType = 0x4A
	OpFloat32SSE    OperandType = 0x4B
	OpFloat64SSE    OperandType = 0x4C
	OpFloatXMMMixed OperandType = 0x4F

	OpVecFull      OperandType = 0x50
	OpVecUnaligned OperandType = 0x51

	OpShortJump OperandType = 0x81
	OpNearJump  OperandType = 0x82
	OpNearCall  OperandType = 0x83
	OpFarJump   OperandType = 0x84
	OpFarCall   OperandType = 0x85

	OpSegReg   OperandType = 0x91
	OpCtrlReg  OperandType = 0x92
	OpDebugReg OperandType = 0x93
	OpTestReg  OperandType = 0x94
	OpMaskReg  OperandType = 0x95
	OpBoundReg OperandType = 0x98

	OpImplicitAL  OperandType = 0xA1
	OpImplicitAX  OperandType = 0xA2
	OpImplicitEAX OperandType = 0xA3
	OpImplicitRAX OperandType = 0xA4
	OpImplicitXMM0 OperandType = 0xAE
	OpImplicitST0  OperandType = 0xAF
	OpImplicitOne  OperandType = 0xB1
	OpImplicitDX   OperandType = 0xB2
	OpImplicitCL   OperandType = 0xB3

	// Vector-size field, bits 8-11 (added to a base type).
	VecMMXorXMMorYMMorZMM OperandType = 0x100
	VecXMMorYMMorZMM      OperandType = 0x200
	VecMMX                OperandType = 0x300
	VecXMM                OperandType = 0x400
	VecYMM                OperandType = 0x500
	VecZMM                OperandType = 0x600
	VecFuture128B         OperandType = 0x700
	VecHalfOfL            OperandType = 0xF00

	// Register-vs-memory constraint.
	OpMustBeReg OperandType = 0x1000
	OpMustBeMem OperandType = 0x2000

	// Addressing-source, CDisassembler::s.Operands[]-only.
	SrcDirectMem  OperandType = 0x10000
	SrcOpcodeReg  OperandType = 0x20000
	SrcModRM      OperandType = 0x30000
	SrcRegField   OperandType = 0x40000
	SrcDREX       OperandType = 0x50000
	SrcVEXvvvv    OperandType = 0x60000
	SrcImm4Hi     OperandType = 0x70000
	SrcImm4Lo     OperandType = 0x80000
	SrcImmField1  OperandType = 0x100000
	SrcImmField2  OperandType = 0x200000

	ClassIsCode   OperandType = 0x1000000
	ClassIsDubious OperandType = 0x2000000
	ClassIsData   OperandType = 0x4000000

	SymGNUIndirectFunc OperandType = 0x40000000
	SymIsSegment       OperandType = 0x80000000
)

// BaseType masks off everything but the base size/class bits.
func (t OperandType) BaseType() OperandType { return t & 0xFF }

// VecSize masks off everything but the vector-size field.
func (t OperandType) VecSize() OperandType { return t & 0xF00 }

// IsMemOnly reports whether the type forbids a register operand.
func (t OperandType) IsMemOnly() bool { return t&OpMustBeMem != 0 }

// IsRegOnly reports whether the type forbids a memory operand.
func (t OperandType) IsRegOnly() bool { return t&OpMustBeReg != 0 }
