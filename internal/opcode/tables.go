// Package opcode holds the static, read-only opcode-table forest the
// decoder chases: one root map of 256 primary entries plus subtables
// reached through TableLink. This mirrors original_source's
// SOpcodeDef/TableLink design (spec.md §4.1); instruction rows for
// the classic one-byte opcodes are adapted from the teacher's
// per-instruction-family switch statements
// (pkg/decoder/{move,add,arithmetic,logic,control-transfer,
// interrupt,processor-control,string}.go), regrouped as table rows.
package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// TableLink discriminants, spec.md §4.1.
type TableLink uint16

const (
	LinkNone             TableLink = 0
	LinkNextByte         TableLink = 1
	LinkModRMReg         TableLink = 2
	LinkModLt3VsEq3      TableLink = 3
	LinkModAndReg        TableLink = 4
	LinkModRMRm          TableLink = 5
	LinkImmByte          TableLink = 6
	LinkMode             TableLink = 7
	LinkOperandSize      TableLink = 8
	LinkMandatoryPrefix  TableLink = 9
	LinkAddressSize      TableLink = 0x0A
	LinkVEXClassAndL     TableLink = 0x0B
	LinkVEXW             TableLink = 0x0C
	LinkVectorSizeByL    TableLink = 0x0D
	LinkVEXPrefixWidth   TableLink = 0x0E
	LinkMVEXE            TableLink = 0x0F
	LinkDialect          TableLink = 0x10
	LinkPrefixFamily     TableLink = 0x11
	LinkCodeByteAfterPfx TableLink = 0x12
)

// InstructionFormat values, disasm.h's "InstructionFormat" table.
type Format uint16

const (
	FormatIllegal       Format = 0
	FormatImplicit      Format = 1
	FormatNoOperands    Format = 2
	FormatOpcodeReg     Format = 3
	FormatVexImplicit   Format = 4
	FormatHasModRM      Format = 0x10
	FormatRM            Format = 0x11
	FormatRegRM         Format = 0x12
	FormatRMReg         Format = 0x13
	FormatDREX1Imm      Format = 0x14 // AMD SSE5/DREX, never-implemented hardware
	FormatDREX2         Format = 0x15 // AMD SSE5/DREX, never-implemented hardware
	FormatVexNDD        Format = 0x18
	FormatVexNDS        Format = 0x19
	FormatVexNDSRmDest  Format = 0x1A
	FormatVexSrc1Rm     Format = 0x1B
	FormatVex4Src3Hi    Format = 0x1C
	FormatVex4Src3Lo    Format = 0x1D
	FormatVexVSIB       Format = 0x1E
	FormatImm2or1plus1  Format = 0x20
	FormatImm1OrShortJ  Format = 0x40
	FormatImm3          Format = 0x60
	FormatImm2or4OrNearJ Format = 0x80
	FormatImm248        Format = 0x100
	FormatFarDirectJump Format = 0x200
	FormatDirectMem248  Format = 0x400
	FormatFarIndirectMem Format = 0x800
	FormatReserved      Format = 0x2000
	FormatUndocumented  Format = 0x4000
	FormatIsPrefix      Format = 0x8000
	FormatIsSegPrefix   Format = 0x8001
)

// AllowedPrefixes bits, disasm.h's "AllowedPrefixes" table
// (supplemented per SPEC_FULL.md §13). Table rows record them; the
// decoder does not read them.
type Prefixes uint32

const (
	PfxAddrSizeEvenNoModRM Prefixes = 0x01
	PfxStackOp             Prefixes = 0x02
	PfxSegEvenNoModRM      Prefixes = 0x04
	PfxBranchHintOrBND     Prefixes = 0x08
	PfxLock                Prefixes = 0x10
	PfxRep                 Prefixes = 0x20
	PfxRepeCond            Prefixes = 0x40
	PfxJump66Truncates     Prefixes = 0x80
	Pfx66DeterminesIntSize Prefixes = 0x100
	Pfx66Other             Prefixes = 0x200
	PfxF3Other             Prefixes = 0x400
	PfxF2Other             Prefixes = 0x800
	PfxNoneF2F3PsPdSdSs    Prefixes = 0xE00
	PfxRexWSizeOrPrecision Prefixes = 0x1000
	PfxRexWUnnecessary     Prefixes = 0x2000
	PfxRexWIntDQorPsPd     Prefixes = 0x3000
	PfxVexWSizeBW          Prefixes = 0x4000
	PfxVexW66SizeBWDQ      Prefixes = 0x5000
	PfxRexWSwapsOperands   Prefixes = 0x7000
	PfxRequires66F2F3      Prefixes = 0x8000
	PfxVexOrXOPAllowed     Prefixes = 0x10000
	PfxVexOrEvexOrXopReq   Prefixes = 0x20000
	PfxVexLAllowed         Prefixes = 0x40000
	PfxVexVvvvAllowed      Prefixes = 0x80000
	PfxVexLRequired        Prefixes = 0x100000
	PfxVexLOnlyIfPPLt2     Prefixes = 0x200000
	PfxMvexAllowed         Prefixes = 0x400000
	PfxEvexAllowed         Prefixes = 0x800000
)

// Options, disasm.h's "Options" table.
type Options uint32

const (
	OptSizeSuffix       Options = 1
	OptVPrefixIfVEX     Options = 2
	OptKeepDest         Options = 4
	OptChangesOtherRegs Options = 8
	OptUnconditionalJmp Options = 0x10
	OptExplicitPrefixes Options = 0x20
	OptMayBeNOP         Options = 0x40
	OptHasShortForm     Options = 0x80
	OptAligned          Options = 0x100
	OptUnaligned        Options = 0x200
	OptNameDiffers64    Options = 0x400
	OptNoSizeSpecifier  Options = 0x800
	OptAltSizeSuffix    Options = 0x1000
)

// EvexMeta/MvexMeta hold the EVEX/MVEX interpretation bits described
// in spec.md §4.2 step 5 and original_source/src/disasm.h's "EVEX:"
// and "MVEX:" sections.
type EvexMeta uint16
type MvexMeta uint16

const (
	EvexBroadcastLL EvexMeta = 0x01
	EvexSaeLL       EvexMeta = 0x02
	EvexRoundSae    EvexMeta = 0x06
	EvexScalar      EvexMeta = 0x08

	EvexMaskNone       EvexMeta = 0x00
	EvexMaskZeroing    EvexMeta = 0x20
	EvexMaskNoZero     EvexMeta = 0x10
	EvexMaskNonzero    EvexMeta = 0x50
	EvexMaskModified   EvexMeta = 0x80

	EvexMultMemOpSize     EvexMeta = 0x0000
	EvexMultElementSize   EvexMeta = 0x1000
	EvexMultHalfVector    EvexMeta = 0x2200
	EvexMultQuarterVector EvexMeta = 0x2400
	EvexMultEighthVector  EvexMeta = 0x2600
)

// ImmClass picks how many trailing immediate/direct-address bytes a
// terminal entry consumes after any ModR/M+SIB+displacement field.
// disasm.h folds this into composed InstructionFormat values (0x20,
// 0x40, 0x60, 0x80, 0x100, 0x200, 0x400, 0x800); this implementation
// keeps it as its own field instead of packing it into Format's
// bitmask, since Go has no use for cramming two independent axes into
// one integer the way the original C structs' column alignment did.
// The decoder reads immediate bytes for Imm8, Imm16, Imm32, ImmZ, ImmV
// and ImmAddrZ; Imm16plus8, Imm24 and ImmFarDirect consume no bytes
// there, and no table row uses them.
type ImmClass uint8

const (
	ImmNone      ImmClass = iota
	Imm8                  // 1 byte (short jump, imm8, int imm8)
	Imm16                 // 2 bytes (ret imm16)
	Imm16plus8            // 2+1 bytes (insertq)
	Imm32                 // 4 bytes (call rel32 in 64-bit mode)
	ImmZ                  // 2 or 4 bytes depending on operand size (near jmp/call, imm32/16)
	Imm24                 // 2+1 = 3 bytes (enter)
	ImmV                  // 2, 4 or 8 bytes depending on operand size
	ImmFarDirect          // 2+2 or 4+2 bytes far direct jump/call
	ImmAddrZ              // direct memory operand, 2/4/8 bytes
)

// Def is one opcode-table entry: a tagged-variant record whose
// TableLink field discriminates between "router" (TableLink != 0,
// where InstructionSet is instead an index into Tables) and
// "terminal" forms (TableLink == 0, Format != 0). Per the Design
// Notes, this is deliberately a flat struct, not a per-opcode type
// hierarchy.
type Def struct {
	Name            string
	InstructionSet  uint32 // or table index when TableLink != 0
	AllowedPrefixes Prefixes
	Format          Format
	Imm             ImmClass
	Dest            disasm.OperandType
	Src1            disasm.OperandType
	Src2            disasm.OperandType
	Src3            disasm.OperandType
	Evex            EvexMeta
	Mvex            MvexMeta
	TableLink       TableLink
	Options         Options
}

// IsRouter reports whether this entry links to a subtable instead of
// terminating decoding.
func (d *Def) IsRouter() bool { return d.TableLink != LinkNone }

// Table is one addressable opcode (sub)table.
type Table []Def

// Tables is the forest of subtables, indexed by Def.InstructionSet
// when Def.TableLink != 0. Index 0 is the 256-entry primary map.
var Tables []Table

func register(t Table) uint32 {
	Tables = append(Tables, t)
	return uint32(len(Tables) - 1)
}

// Illegal is the fallback terminal entry for bytes with no table row.
var Illegal = Def{Name: "(bad)", Format: FormatIllegal}

// Root is the 256-entry primary one-byte opcode map, Tables[0].
var Root Table

func init() {
	Root = make(Table, 256)
	for i := range Root {
		Root[i] = Illegal
	}
	Tables = []Table{Root}
	populateGroups()
	populateTwoByte()
	populateRoot()
	populateVexTables()
}
