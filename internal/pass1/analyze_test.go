package pass1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfbyte/objdis/pkg/disasm"
)

func newTestStore(code []byte) (*disasm.SectionStore, int) {
	store := disasm.NewSectionStore()
	idx, err := store.Add(disasm.Section{
		Bytes:     code,
		InitSize:  int64(len(code)),
		TotalSize: int64(len(code)),
		Kind:      disasm.SectionCode,
		WordSize:  disasm.Word64,
		Name:      ".text",
	})
	if err != nil {
		panic(err)
	}
	return store, idx
}

func TestAnalyzeStraightLineFallsThroughToRet(t *testing.T) {
	// mov eax, 5 ; ret
	code := []byte{0xB8, 0x05, 0x00, 0x00, 0x00, 0xC3}
	store, _ := newTestStore(code)
	syms := disasm.NewSymbolTable()
	relocs := disasm.NewRelocStore()
	funcs := disasm.NewFunctionTable()

	result := Analyze(store, syms, relocs, funcs, disasm.NopReporter{})

	require.Len(t, result.Instructions, 2)
	assert.Equal(t, "mov", result.Instructions[0].Mnemonic)
	assert.Equal(t, "ret", result.Instructions[1].Mnemonic)
	assert.Empty(t, result.Dubious)
}

func TestAnalyzeCallDiscoversLabelAndFunction(t *testing.T) {
	// call +0 (targets the ret right after it) ; ret
	code := []byte{0xE8, 0x00, 0x00, 0x00, 0x00, 0xC3}
	store, section := newTestStore(code)
	syms := disasm.NewSymbolTable()
	relocs := disasm.NewRelocStore()
	funcs := disasm.NewFunctionTable()

	result := Analyze(store, syms, relocs, funcs, disasm.NopReporter{})

	require.Len(t, result.Instructions, 2)

	_, hasExact, _, _, _, _ := syms.FindByAddress(section, 5)
	assert.True(t, hasExact, "call target should have been marked as a label")

	_, ok := funcs.Containing(section, 5)
	assert.True(t, ok, "call should have discovered a function record for its target")
}

func TestAnalyzeUndecodableBytesAreDubious(t *testing.T) {
	// 0F FF is deliberately undefined, decodes to "(bad)" rather than an error.
	code := []byte{0x0F, 0xFF}
	store, _ := newTestStore(code)
	syms := disasm.NewSymbolTable()
	relocs := disasm.NewRelocStore()
	funcs := disasm.NewFunctionTable()

	result := Analyze(store, syms, relocs, funcs, disasm.NopReporter{})

	assert.Empty(t, result.Instructions)
	require.Len(t, result.Dubious, 1)
	assert.Equal(t, "(bad)", result.Dubious[0].Mnemonic)
}

func TestAnalyzeSeedsFromCodeSymbols(t *testing.T) {
	// Two independent ret-only entry points, the second reachable only
	// via a pre-existing ClassIsCode symbol rather than straight-line
	// fallthrough or a discovered call.
	code := []byte{0xC3, 0x90, 0xC3} // ret ; nop ; ret
	store, section := newTestStore(code)
	syms := disasm.NewSymbolTable()
	syms.Add(section, 2, 0, disasm.ClassIsCode, disasm.ScopeLocal, 0, "", "")
	relocs := disasm.NewRelocStore()
	funcs := disasm.NewFunctionTable()

	result := Analyze(store, syms, relocs, funcs, disasm.NopReporter{})

	assert.Len(t, result.Instructions, 2) // offset 0 (ret) and offset 2 (ret); offset 1 unreachable
}
