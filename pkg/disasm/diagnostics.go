package disasm

// Diag is the per-instruction warning/error bitfield attached to a
// decoded instruction, spec.md §7. None of these abort a pass; pass-2
// renders them as trailing comments.
type Diag uint32

const (
	DiagReservedOpcode               Diag = 1 << iota
	DiagIllegalPrefixCombination
	DiagPrefixWithoutEffect
	DiagOperandSizeOverrideOnJump
	DiagRelocationSizeMismatch
	DiagTruncatedInstruction
	DiagUnalignedMemoryForAlignedForm
	DiagNonCanonicalDisplacement
	DiagDeprecatedOpcode
	DiagAMDOnlyInIntelMode
	DiagIntelOnlyInAMDMode
	DiagPrefixConflict
	DiagRexWOnByteOnly
	DiagVexLOnScalar
)

// Strings renders the set bits as the short tags pass-2 prints in the
// comment column.
func (d Diag) Strings() []string {
	var out []string
	add := func(bit Diag, s string) {
		if d&bit != 0 {
			out = append(out, s)
		}
	}
	add(DiagReservedOpcode, "reserved opcode")
	add(DiagIllegalPrefixCombination, "illegal prefix combination")
	add(DiagPrefixWithoutEffect, "prefix without effect")
	add(DiagOperandSizeOverrideOnJump, "operand-size override on jump")
	add(DiagRelocationSizeMismatch, "relocation size mismatch")
	add(DiagTruncatedInstruction, "truncated instruction")
	add(DiagUnalignedMemoryForAlignedForm, "unaligned memory for aligned form")
	add(DiagNonCanonicalDisplacement, "non-canonical displacement")
	add(DiagDeprecatedOpcode, "deprecated opcode")
	add(DiagAMDOnlyInIntelMode, "AMD-only in Intel mode")
	add(DiagIntelOnlyInAMDMode, "Intel-only in AMD mode")
	add(DiagPrefixConflict, "conflicting prefixes")
	add(DiagRexWOnByteOnly, "REX.W on byte-only instruction")
	add(DiagVexLOnScalar, "VEX.L on scalar")
	return out
}
