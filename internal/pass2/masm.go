package pass2

import "strings"

// masmEmitter renders MASM-flavored listings: h-suffixed hex literals,
// "byte ptr"/"dword ptr" size prefixes, segment.
type masmEmitter struct{}

func (masmEmitter) Emit(w *strings.Builder, ctx *Context) {
	emitIntel(w, ctx, masmSyntax(), sectionDirectives{
		section: func(name string) string { return name + " segment" },
	})
}
