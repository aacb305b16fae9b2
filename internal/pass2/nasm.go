package pass2

import "strings"

// nasmEmitter renders NASM-flavored listings: 0x-prefixed hex
// literals, bare size keywords ("dword [rax]" instead of "dword ptr").
type nasmEmitter struct{}

func (nasmEmitter) Emit(w *strings.Builder, ctx *Context) {
	emitIntel(w, ctx, nasmSyntax(), sectionDirectives{
		section: func(name string) string { return "section " + name },
	})
}
