package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfbyte/objdis/pkg/disasm"
)

func TestDriverEndToEndRet(t *testing.T) {
	drv := NewDriver(WithDialect(disasm.NASM))
	_, err := drv.AddSection(disasm.Section{
		Bytes: []byte{0xC3}, InitSize: 1, TotalSize: 1,
		Kind: disasm.SectionCode, WordSize: disasm.Word64, Name: ".text",
	})
	require.NoError(t, err)

	require.NoError(t, drv.Run())
	assert.Contains(t, string(drv.Output()), "ret")
}

func TestDriverIngestRejectedAfterRun(t *testing.T) {
	drv := NewDriver()
	_, err := drv.AddSection(disasm.Section{Bytes: []byte{0xC3}, InitSize: 1, TotalSize: 1, Kind: disasm.SectionCode, WordSize: disasm.Word64, Name: ".text"})
	require.NoError(t, err)
	require.NoError(t, drv.Run())

	_, err = drv.AddSection(disasm.Section{Name: ".data2"})
	assert.Error(t, err)
}

func TestDriverWriteToMatchesOutput(t *testing.T) {
	drv := NewDriver(WithDialect(disasm.MASM))
	_, err := drv.AddSection(disasm.Section{Bytes: []byte{0xC3}, InitSize: 1, TotalSize: 1, Kind: disasm.SectionCode, WordSize: disasm.Word64, Name: ".text"})
	require.NoError(t, err)
	require.NoError(t, drv.Run())

	var buf bytes.Buffer
	n, err := drv.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(drv.Output()), n)
	assert.Equal(t, drv.Output(), buf.Bytes())
}

func TestDriverCRLFLineEndings(t *testing.T) {
	drv := NewDriver(WithDialect(disasm.NASM), WithCRLF(true))
	_, err := drv.AddSection(disasm.Section{
		Bytes: []byte{0xC3, 0x90}, InitSize: 2, TotalSize: 2,
		Kind: disasm.SectionCode, WordSize: disasm.Word64, Name: ".text",
	})
	require.NoError(t, err)
	require.NoError(t, drv.Run())

	text := string(drv.Output())
	assert.True(t, strings.Contains(text, "\r\n"))
}

func TestDriverRunIsIdempotent(t *testing.T) {
	drv := NewDriver()
	_, err := drv.AddSection(disasm.Section{Bytes: []byte{0xC3}, InitSize: 1, TotalSize: 1, Kind: disasm.SectionCode, WordSize: disasm.Word64, Name: ".text"})
	require.NoError(t, err)

	require.NoError(t, drv.Run())
	first := drv.Output()
	require.NoError(t, drv.Run())
	assert.Equal(t, first, drv.Output())
}
