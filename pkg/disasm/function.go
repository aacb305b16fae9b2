package disasm

import "sort"

// Function is a contiguous [Start, End) range in a section treated as
// one function for scope and label emission, spec.md §3.
type Function struct {
	Section    int
	Start      int64
	End        int64
	EndUnknown bool // "unknown, extend on overrun" flag
	Scope      Scope
	OldSymbol  int
}

// FunctionTable is the sorted list of function records, spec.md §3.
type FunctionTable struct {
	funcs []Function
}

func NewFunctionTable() *FunctionTable { return &FunctionTable{} }

func (f *FunctionTable) Add(fn Function) int {
	f.funcs = append(f.funcs, fn)
	f.resort()
	for i := range f.funcs {
		if f.funcs[i] == fn {
			return i
		}
	}
	return len(f.funcs) - 1
}

func (f *FunctionTable) resort() {
	sort.SliceStable(f.funcs, func(i, j int) bool {
		if f.funcs[i].Section != f.funcs[j].Section {
			return f.funcs[i].Section < f.funcs[j].Section
		}
		return f.funcs[i].Start < f.funcs[j].Start
	})
}

// Containing returns the function whose [Start, End) contains offset
// in the given section; a function with EndUnknown set is treated as
// open-ended and contains every offset from its Start on. It does not
// modify the function it returns.
func (f *FunctionTable) Containing(section int, offset int64) (*Function, bool) {
	for i := range f.funcs {
		fn := &f.funcs[i]
		if fn.Section != section {
			continue
		}
		if offset >= fn.Start && (offset < fn.End || fn.EndUnknown) {
			return fn, true
		}
	}
	return nil, false
}

// ExtendEnd widens fn.End to cover target, provided target lies after
// fn.Start and fn.End; a target at or past the start of the next
// function in the same section is clamped to that start (spec.md §4.5
// branch/call handling). Returns whether it actually extended.
func (f *FunctionTable) ExtendEnd(i int, target int64) bool {
	if i < 0 || i >= len(f.funcs) {
		return false
	}
	fn := &f.funcs[i]
	if target <= fn.Start || target <= fn.End {
		return false
	}
	limit := int64(1<<63 - 1)
	for j := range f.funcs {
		if j == i || f.funcs[j].Section != fn.Section {
			continue
		}
		if f.funcs[j].Start > fn.Start && f.funcs[j].Start < limit {
			limit = f.funcs[j].Start
		}
	}
	if target >= limit {
		target = limit
	}
	if target > fn.End {
		fn.End = target
		fn.EndUnknown = false
		return true
	}
	return false
}

func (f *FunctionTable) Get(i int) (*Function, bool) {
	if i < 0 || i >= len(f.funcs) {
		return nil, false
	}
	return &f.funcs[i], true
}

func (f *FunctionTable) All() []Function { return f.funcs }

func (f *FunctionTable) Len() int { return len(f.funcs) }
