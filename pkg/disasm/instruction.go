package disasm

// Instruction is one decoded instruction, the unit pass-1 classifies
// and pass-2 renders. It replaces the teacher's approach of building
// the output string directly inside the decode switch: decode,
// analysis, and text emission are three separate stages here, so an
// Instruction carries enough structure for all three.
type Instruction struct {
	Section int
	Offset  int64
	Length  int

	Mnemonic string
	Operands []Operand

	HasRex   bool
	Rex      byte
	HasLock  bool
	RepKind  RepKind
	SegOverride int // RegSeg index, or -1

	VexPresent bool
	VexClass   VexClass
	VexLength  int // 128, 256, or 512
	VexW       bool

	MaskReg  int // RegMask index applied to the destination; 0 (k0) when unmasked
	Zeroing  bool

	// Unconditional marks an instruction that never falls through to
	// the next byte (ret, unconditional jmp, iret, hlt): pass-1 stops
	// walking straight-line from here.
	Unconditional bool

	Diag Diag
}

// RepKind distinguishes the F2/F3 prefix's two meanings (string-op
// repeat vs. SSE mandatory-prefix selector); the decoder always
// records which byte it saw, pass-1/pass-2 decide what it means for a
// given opcode.
type RepKind int

const (
	RepNone RepKind = iota
	RepF2
	RepF3
)

// VexClass distinguishes the VEX/XOP/EVEX prefix families, spec.md §4.2.
type VexClass int

const (
	VexNone VexClass = iota
	VexTwoByte
	VexThreeByte
	VexXOP
	VexEvex
)

// Operand is one operand slot of a decoded Instruction.
type Operand struct {
	Type OperandType

	IsReg bool
	Reg   int // register index within its class, RegXMM/Reg64/etc.

	IsMem        bool
	BaseReg      int // -1 if absent
	IndexReg     int // -1 if absent
	Scale        int // 1, 2, 4, or 8
	RipRelative  bool
	HasDisp      bool
	Disp         int64
	DispSize     int // bytes, used by pass-2 to preserve the encoded width

	HasImm bool
	Imm    int64

	// RelocTargetOld is the caller's old symbol index for the
	// relocation backing this operand's displacement or immediate
	// field (spec.md §4.2 step 6), or zero if the field is a literal
	// value the host object file didn't relocate. Resolve through
	// SymbolTable.OldToNew, same convention as Relocation.TargetOld.
	RelocTargetOld int

	Broadcast string // swizzle decoration, e.g. "1to16", "{sae}"
}
