package opcode

import "github.com/halfbyte/objdis/pkg/disasm"

// VEX/EVEX table-selection indices, reached not through a Root byte
// but by the prefix scanner itself: once a VEX/EVEX/XOP introducer
// byte (C4/C5/62/8F) is consumed as a prefix (spec.md §4.2 step 1),
// traversal restarts at vex0FIdx/vex0F38Idx/vex0F3AIdx according to
// the consumed mmmm field, rather than at Tables[0].
var (
	vex0FIdx   uint32
	vex0F38Idx uint32
	vex0F3AIdx uint32
)

// VexRootIndex, Vex0F38Index, Vex0F3AIndex expose the Tables[] slots
// the decoder needs to start traversal from when a VEX/EVEX/XOP
// introducer selects mmmm=1/2/3 respectively.
func VexRootIndex() uint32 { return vex0FIdx }
func Vex0F38Index() uint32 { return vex0F38Idx }
func Vex0F3AIndex() uint32 { return vex0F3AIdx }

// populateVexTables fills in the small AVX subset this implementation
// targets (vaddps/vmulps/vsubps/vxorps/vmovaps, three-operand VEX.NDS
// form) and marks the AMD SSE5/DREX opcode space as reserved per the
// Open Question decision recorded in SPEC_FULL.md §9 — that hardware
// was cancelled before shipping and objconv itself treats it as a
// historical curiosity, so this implementation renders it rather than
// building out its (draft, never-finalized) encoding rules.
func populateVexTables() {
	m0F := make(Table, 256)
	for i := range m0F {
		m0F[i] = Illegal
	}
	m0F[0x28] = vexMovRow("vmovaps", disasm.OpVecFull)
	m0F[0x29] = vexMovRowReverse("vmovaps", disasm.OpVecFull)
	m0F[0x57] = vexArithRow("vxorps", "vxorpd", "", "")
	m0F[0x58] = vexArithRowEvex("vaddps", "vaddpd", "vaddss", "vaddsd")
	m0F[0x59] = vexArithRow("vmulps", "vmulpd", "vmulss", "vmulsd")
	m0F[0x5C] = vexArithRow("vsubps", "vsubpd", "vsubss", "vsubsd")
	vex0FIdx = register(m0F)

	m38 := make(Table, 256)
	for i := range m38 {
		m38[i] = Illegal
	}
	// vbroadcastss ymm, m32 — VEX.256.66.0F38.W0 18 /r
	m38[0x18] = Def{Name: "vbroadcastss", Format: FormatVexSrc1Rm,
		Dest: disasm.OpVecFull | VecYMM | SrcRegField, Src1: disasm.OpFloat32SSE | SrcModRM | disasm.OpMustBeMem,
		AllowedPrefixes: PfxVexOrEvexOrXopReq | PfxVexLAllowed}
	vex0F38Idx = register(m38)

	m3A := make(Table, 256)
	for i := range m3A {
		m3A[i] = Illegal
	}
	vex0F3AIdx = register(m3A)

	// AMD SSE5/DREX reserved stub: never-shipped hardware, rendered as
	// "(reserved)" rather than decoded, per the Open Question decision.
	Tables[twoByteTableIdx][0x24] = Def{Name: "(reserved)", Format: FormatDREX1Imm}
	Tables[twoByteTableIdx][0x25] = Def{Name: "(reserved)", Format: FormatDREX2}
}

// vexArithRow builds a 4-entry pp-indexed (none/66/F3/F2) subtable for
// the classic VEX.NDS three-operand float arithmetic shape
// (vXXXps/pd/ss/sd), reached from the opcode-map row via
// LinkMandatoryPrefix.
func vexArithRow(ps, pd, ss, sd string) Def {
	sub := make(Table, 4)
	sub[0] = vexNDS(ps, disasm.OpVecFull, VecXMMorYMMorZMM)
	sub[1] = vexNDS(pd, disasm.OpVecFull, VecXMMorYMMorZMM)
	if ss != "" {
		sub[2] = vexNDS(ss, disasm.OpFloat32SSE, VecXMM)
	}
	if sd != "" {
		sub[3] = vexNDS(sd, disasm.OpFloat64SSE, VecXMM)
	}
	return Def{Name: "(pp-select)", TableLink: LinkMandatoryPrefix, InstructionSet: register(sub)}
}

// vexArithRowEvex is vexArithRow plus EVEX broadcast/masking metadata
// on the packed-single form, so a memory source operand can carry the
// {1to16} broadcast decoration (the vaddps scenario in SPEC_FULL.md §14).
func vexArithRowEvex(ps, pd, ss, sd string) Def {
	d := vexArithRow(ps, pd, ss, sd)
	sub := Tables[d.InstructionSet]
	sub[0].Evex = EvexBroadcastLL | EvexMaskNonzero | EvexMaskZeroing
	sub[0].Mvex = 0
	sub[0].AllowedPrefixes |= PfxEvexAllowed
	return d
}

func vexNDS(name string, base disasm.OperandType, vec disasm.OperandType) Def {
	return Def{Name: name, Format: FormatVexNDS,
		Dest: base | vec | SrcRegField,
		Src1: base | vec | SrcVEXvvvv,
		Src2: base | vec | SrcModRM,
		AllowedPrefixes: PfxVexOrEvexOrXopReq | PfxVexVvvvAllowed | PfxVexLAllowed | PfxEvexAllowed}
}

func vexMovRow(name string, base disasm.OperandType) Def {
	return Def{Name: name, Format: FormatVexSrc1Rm,
		Dest: base | VecXMMorYMMorZMM | SrcRegField, Src1: base | VecXMMorYMMorZMM | SrcModRM,
		AllowedPrefixes: PfxVexOrEvexOrXopReq | PfxVexLAllowed | PfxEvexAllowed}
}

func vexMovRowReverse(name string, base disasm.OperandType) Def {
	return Def{Name: name, Format: FormatVexSrc1Rm,
		Dest: base | VecXMMorYMMorZMM | SrcModRM, Src1: base | VecXMMorYMMorZMM | SrcRegField,
		AllowedPrefixes: PfxVexOrEvexOrXopReq | PfxVexLAllowed | PfxEvexAllowed}
}
