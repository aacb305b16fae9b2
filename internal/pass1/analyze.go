// Package pass1 implements the analyzer stage, spec.md §5: walk every
// code section from its known entry points, decode instructions,
// classify the bytes they cover, discover labels and functions from
// control transfers, and follow register-indirect jump tables back to
// a base address with internal/tracer. Adapted from the teacher's
// Decoder.Decode loop (pkg/decoder/decoder.go), which walked a single
// flat byte slice front to back; this version walks a work list of
// entry points instead, since not every byte in a section is
// necessarily reachable code.
package pass1

import (
	"github.com/halfbyte/objdis/internal/decoder"
	"github.com/halfbyte/objdis/internal/tracer"
	"github.com/halfbyte/objdis/pkg/disasm"
)

// maxReruns bounds the fixpoint loop: a rerun follows any round that
// synthesized a new label (a branch, call or jump-table target), and
// that chain has to terminate somewhere.
const maxReruns = 4

// jumpTableProbeCap bounds how many consecutive relocation-backed
// entries a register-indirect jump is allowed to pull out of a
// suspected jump table, per the Open Question decision in
// SPEC_FULL.md §9.
const jumpTableProbeCap = 256

// Result is everything pass-1 produced for one section store: the
// decoded instructions (in worklist discovery order) plus a record of
// which bytes could not be decoded as instructions at all.
type Result struct {
	Instructions []disasm.Instruction
	Dubious      []disasm.Instruction // byte ranges flagged undecodable, kept separate from successfully decoded ones
}

// Analyze runs the bounded fixpoint pass-1 loop over every section in
// store. Known entry points are: the start of every section whose
// Kind is SectionCode, plus every symbol already in syms whose Type
// carries ClassIsCode.
func Analyze(store *disasm.SectionStore, syms *disasm.SymbolTable, relocs *disasm.RelocStore, funcs *disasm.FunctionTable, rep disasm.Reporter) Result {
	var last Result
	for round := 0; round < maxReruns; round++ {
		a := &analyzer{store: store, syms: syms, relocs: relocs, funcs: funcs, rep: rep, visited: map[key]bool{}}
		a.seed()
		a.run()
		last = Result{Instructions: a.instructions, Dubious: a.dubious}
		if !a.discoveredNewEntry {
			break
		}
	}
	return last
}

type key struct {
	section int
	offset  int64
}

type analyzer struct {
	store *disasm.SectionStore
	syms  *disasm.SymbolTable
	relocs *disasm.RelocStore
	funcs *disasm.FunctionTable
	rep   disasm.Reporter

	worklist []key
	visited  map[key]bool

	instructions       []disasm.Instruction
	dubious            []disasm.Instruction
	discoveredNewEntry bool
}

func (a *analyzer) seed() {
	for _, idx := range a.store.Indices() {
		sec, _ := a.store.Get(idx)
		if sec.Kind == disasm.SectionCode {
			a.worklist = append(a.worklist, key{idx, 0})
		}
	}
	for _, sym := range a.syms.All() {
		if sym.Type&disasm.ClassIsCode != 0 {
			a.worklist = append(a.worklist, key{sym.Section, sym.Offset})
		}
	}
}

func (a *analyzer) enqueue(section int, offset int64) {
	k := key{section, offset}
	if a.visited[k] {
		return
	}
	sec, ok := a.store.Get(section)
	if !ok || offset < 0 || offset >= sec.TotalSize {
		return
	}
	a.worklist = append(a.worklist, k)
}

func (a *analyzer) run() {
	state := tracer.New()
	var curFunc int = -1

	for len(a.worklist) > 0 {
		k := a.worklist[0]
		a.worklist = a.worklist[1:]
		if a.visited[k] {
			continue
		}
		a.visited[k] = true

		sec, ok := a.store.Get(k.section)
		if !ok {
			continue
		}
		if curFunc == -1 || !a.funcContains(curFunc, k) {
			state.Reset()
		}

		inst, err := decoder.Decode(sec.Bytes, int(k.offset), sec.WordSize, k.section, a.relocs)
		inst.Section = k.section
		inst.Offset = k.offset
		if err != nil {
			a.rep.Warnf("section %d offset %d: %v", k.section, k.offset, err)
			idx := a.syms.NewSymbol(k.section, k.offset, disasm.ScopeLocal)
			if sym, ok := a.syms.Get(idx); ok {
				sym.Type |= disasm.ClassIsDubious
			}
			a.dubious = append(a.dubious, inst)
			continue
		}
		if inst.Mnemonic == "(bad)" {
			a.dubious = append(a.dubious, inst)
			continue
		}

		a.instructions = append(a.instructions, inst)
		tracer.Observe(state, inst)
		a.resolveLeaSymbolBase(k, inst, state)
		a.extendFunction(&curFunc, k, inst)
		a.followControlFlow(k, inst, state)
	}
}

// resolveLeaSymbolBase fills in the real symbol index tracer.Observe
// left as a placeholder for "lea reg, [rip+disp]": only pass-1 has the
// relocation store needed to turn that displacement field into a
// known symbol, so it corrects the tracer's belief right after
// Observe records the shape.
func (a *analyzer) resolveLeaSymbolBase(k key, inst disasm.Instruction, state *tracer.State) {
	if inst.Mnemonic != "lea" || len(inst.Operands) != 2 {
		return
	}
	mem := inst.Operands[1]
	if !mem.IsMem || !mem.RipRelative {
		return
	}
	dest := inst.Operands[0]
	if !dest.IsReg {
		return
	}
	rel, ok := a.relocs.FindWithin(k.section, k.offset, int64(inst.Length))
	if !ok {
		state.Invalidate(dest.Reg)
		return
	}
	symIdx, ok := a.syms.OldToNew(rel.TargetOld)
	if !ok {
		state.Invalidate(dest.Reg)
		return
	}
	state.SetSymbolBase(dest.Reg, symIdx)
}

func (a *analyzer) funcContains(fnIdx int, k key) bool {
	fn, ok := a.funcs.Get(fnIdx)
	if !ok {
		return false
	}
	return fn.Section == k.section && k.offset >= fn.Start && (fn.EndUnknown || k.offset < fn.End)
}

func (a *analyzer) extendFunction(curFunc *int, k key, inst disasm.Instruction) {
	if *curFunc != -1 && a.funcContains(*curFunc, k) {
		a.funcs.ExtendEnd(*curFunc, k.offset+int64(inst.Length))
		return
	}
	if fn, ok := a.funcs.Containing(k.section, k.offset); ok {
		for i, f := range a.funcs.All() {
			if f == *fn {
				*curFunc = i
				break
			}
		}
		return
	}
	*curFunc = a.funcs.Add(disasm.Function{Section: k.section, Start: k.offset, EndUnknown: true, Scope: disasm.ScopeLocal})
}

// followControlFlow enqueues whatever a decoded instruction's control
// transfer (or straight-line fallthrough) reaches next.
func (a *analyzer) followControlFlow(k key, inst disasm.Instruction, state *tracer.State) {
	next := k.offset + int64(inst.Length)
	for _, op := range inst.Operands {
		switch op.Type.BaseType() {
		case disasm.OpShortJump, disasm.OpNearJump, disasm.OpNearCall:
			if op.HasImm {
				target := next + op.Imm
				a.markLabel(k.section, target, inst.Mnemonic == "call")
				a.enqueue(k.section, target)
			}
		case disasm.OpNearIndJmp:
			a.followJumpTable(k.section, op, state)
		}
	}
	if !inst.Unconditional {
		a.enqueue(k.section, next)
	}
}

func (a *analyzer) markLabel(section int, offset int64, isCall bool) {
	before := a.syms.Len()
	idx := a.syms.NewSymbol(section, offset, disasm.ScopeLocal)
	if a.syms.Len() != before {
		a.discoveredNewEntry = true
	}
	if sym, ok := a.syms.Get(idx); ok {
		sym.Type |= disasm.ClassIsCode
	}
	if isCall {
		a.funcs.Add(disasm.Function{Section: section, Start: offset, EndUnknown: true, Scope: disasm.ScopeLocal})
	}
}

// followJumpTable handles the "LEA reg,[rip+disp]; JMP [reg+idx*8]"
// shape: if the tracer believes the jump's base register holds a
// lea'd symbol address, walk consecutive pointer-sized relocation
// entries from that base until one of the three stop conditions in
// SPEC_FULL.md §9 fires.
func (a *analyzer) followJumpTable(section int, op disasm.Operand, state *tracer.State) {
	if !op.IsMem || op.BaseReg < 0 {
		return
	}
	base := state.Get(op.BaseReg)
	if base.Kind != tracer.SymbolBaseOf {
		return
	}
	sym, ok := a.syms.Get(base.Sym)
	if !ok {
		return
	}
	entrySize := int64(8)
	for i := 0; i < jumpTableProbeCap; i++ {
		off := sym.Offset + int64(i)*entrySize
		rel, found := a.relocs.Find(section, off)
		if !found {
			break
		}
		newIdx, ok := a.syms.OldToNew(rel.TargetOld)
		if !ok {
			break
		}
		targetSym, ok := a.syms.Get(newIdx)
		if !ok {
			break
		}
		if targetSym.Section != section {
			break // relocation target leaves the code section: stop
		}
		alreadyCode := targetSym.Type&disasm.ClassIsCode != 0
		before := a.syms.Len()
		a.markLabel(section, targetSym.Offset, false)
		a.enqueue(section, targetSym.Offset)
		if alreadyCode && a.syms.Len() == before {
			break // target already reached via ordinary flow: stop
		}
	}
}
