package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfbyte/objdis/pkg/disasm"
)

func TestDecodeTwoByteNOP(t *testing.T) {
	// 0F 1F 00 = nop [rax], a three-byte alignment NOP from the 0F map.
	inst, err := Decode([]byte{0x0F, 0x1F, 0x00}, 0, disasm.Word64, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "nop", inst.Mnemonic)
	assert.Equal(t, 3, inst.Length)
}

func TestDecodeMovRegReg64(t *testing.T) {
	// 48 89 C3 = mov rbx, rax
	inst, err := Decode([]byte{0x48, 0x89, 0xC3}, 0, disasm.Word64, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "mov", inst.Mnemonic)
	assert.True(t, inst.HasRex)
	require.Len(t, inst.Operands, 2)
	assert.True(t, inst.Operands[0].IsReg)
	assert.True(t, inst.Operands[1].IsReg)
}

func TestDecodeShortJump(t *testing.T) {
	// EB 05 = jmp +5
	inst, err := Decode([]byte{0xEB, 0x05}, 0, disasm.Word64, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "jmp", inst.Mnemonic)
	assert.True(t, inst.Unconditional)
	require.Len(t, inst.Operands, 1)
	assert.True(t, inst.Operands[0].HasImm)
	assert.EqualValues(t, 5, inst.Operands[0].Imm)
}

func TestDecodeGroup1ImmediateNotDropped(t *testing.T) {
	// 83 C0 05 = add eax, 5 (group1 sign-extended-imm8 form)
	inst, err := Decode([]byte{0x83, 0xC0, 0x05}, 0, disasm.Word64, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "add", inst.Mnemonic)
	require.Len(t, inst.Operands, 2)
	assert.True(t, inst.Operands[1].HasImm)
	assert.EqualValues(t, 5, inst.Operands[1].Imm)
}

func TestDecodeIllegalOpcode(t *testing.T) {
	// 0F FF is deliberately left undefined in internal/opcode.
	inst, err := Decode([]byte{0x0F, 0xFF}, 0, disasm.Word64, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "(bad)", inst.Mnemonic)
	assert.NotZero(t, inst.Diag&disasm.DiagReservedOpcode)
}

func TestDecodeTruncatedInstruction(t *testing.T) {
	// 48 89 alone is missing its ModR/M byte.
	_, err := Decode([]byte{0x48, 0x89}, 0, disasm.Word64, 1, nil)
	assert.Error(t, err)
}

func TestDecodeRetUnconditional(t *testing.T) {
	inst, err := Decode([]byte{0xC3}, 0, disasm.Word64, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "ret", inst.Mnemonic)
	assert.True(t, inst.Unconditional)
}

func TestDecodeAttachesRipRelativeMemRelocation(t *testing.T) {
	// 48 8B 05 00 00 00 00 = mov rax, [rip+0], the displacement field
	// (bytes 3-6) backed by a 4-byte relocation targeting old symbol
	// index 7.
	relocs := disasm.NewRelocStore()
	relocs.Add(disasm.Relocation{Section: 1, Offset: 3, Size: 4, TargetOld: 7})

	inst, err := Decode([]byte{0x48, 0x8B, 0x05, 0x00, 0x00, 0x00, 0x00}, 0, disasm.Word64, 1, relocs)
	require.NoError(t, err)
	require.Len(t, inst.Operands, 2)
	assert.True(t, inst.Operands[1].IsMem)
	assert.Equal(t, 7, inst.Operands[1].RelocTargetOld)
}

func TestDecodeNoRelocationLeavesFieldLiteral(t *testing.T) {
	inst, err := Decode([]byte{0x48, 0x8B, 0x05, 0x10, 0x00, 0x00, 0x00}, 0, disasm.Word64, 1, disasm.NewRelocStore())
	require.NoError(t, err)
	require.Len(t, inst.Operands, 2)
	assert.Zero(t, inst.Operands[1].RelocTargetOld)
	assert.EqualValues(t, 0x10, inst.Operands[1].Disp)
}
