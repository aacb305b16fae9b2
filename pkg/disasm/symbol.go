package disasm

import (
	"fmt"
	"sort"
)

// Symbol is an address-keyed name, spec.md §3. OldIndex is the
// caller-supplied identifier used by relocations; it is zero when the
// core synthesized the symbol itself (NewSymbol). NewIndex is the
// post-sort dense index; every insertion re-sorts the table and
// renumbers NewIndex, so it does not stay fixed while symbols are
// still being added.
type Symbol struct {
	Section  int
	Offset   int64
	Size     int64
	Type     OperandType
	Scope    Scope
	Name     string
	DLLName  string
	OldIndex int
	NewIndex int
}

// SymbolTable is the address-keyed store backing label naming and
// cross-reference resolution, spec.md §4.4.
type SymbolTable struct {
	symbols  []Symbol
	oldToNew map[int]int
	nextOld  int // synthetic old-index counter for caller-less inserts
	counter  map[string]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		oldToNew: make(map[int]int),
		counter:  make(map[string]int),
	}
}

// Add inserts or deduplicates a caller-supplied symbol. Dedup is by
// (section, offset) when names match or the incoming symbol is
// nameless, matching spec.md §4.4.
func (t *SymbolTable) Add(section int, offset, size int64, typ OperandType, scope Scope, oldIndex int, name, dll string) int {
	for i := range t.symbols {
		s := &t.symbols[i]
		if s.Section == section && s.Offset == offset && (s.Name == name || name == "") {
			if size > s.Size {
				s.Size = size
			}
			s.Scope |= scope
			if name != "" {
				s.Name = name
			}
			if oldIndex != 0 {
				s.OldIndex = oldIndex
				t.oldToNew[oldIndex] = i
			}
			return i
		}
	}
	rec := Symbol{
		Section: section, Offset: offset, Size: size, Type: typ,
		Scope: scope, Name: name, DLLName: dll, OldIndex: oldIndex,
	}
	t.symbols = append(t.symbols, rec)
	t.resort()
	return t.indexOf(rec)
}

// NewSymbol synthesizes a nameless symbol (pass-1 label/data
// discovery), or merges the given scope into an existing symbol at
// the same (section, offset) — control transfers to an
// already-discovered address are the common case, not the exception.
// Its name is assigned later by AssignNames.
func (t *SymbolTable) NewSymbol(section int, offset int64, scope Scope) int {
	for i := range t.symbols {
		if t.symbols[i].Section == section && t.symbols[i].Offset == offset {
			t.symbols[i].Scope |= scope
			return i
		}
	}
	rec := Symbol{Section: section, Offset: offset, Scope: scope}
	t.symbols = append(t.symbols, rec)
	t.resort()
	return t.indexOf(rec)
}

// indexOf locates rec — captured before resort reordered the slice —
// by its stable identity fields (section, offset, name, OldIndex).
// FunctionTable.Add (function.go) uses the same capture-then-find
// pattern with whole-struct equality; Symbol can't use whole-struct
// equality here since NewIndex changes on every resort, so this
// compares only the fields resort leaves untouched.
func (t *SymbolTable) indexOf(rec Symbol) int {
	for i := range t.symbols {
		if t.symbols[i].Section == rec.Section && t.symbols[i].Offset == rec.Offset &&
			t.symbols[i].Name == rec.Name && t.symbols[i].OldIndex == rec.OldIndex {
			return i
		}
	}
	return len(t.symbols) - 1
}

func (t *SymbolTable) resort() {
	sort.SliceStable(t.symbols, func(i, j int) bool {
		if t.symbols[i].Section != t.symbols[j].Section {
			return t.symbols[i].Section < t.symbols[j].Section
		}
		return t.symbols[i].Offset < t.symbols[j].Offset
	})
	for i := range t.symbols {
		t.symbols[i].NewIndex = i
	}
	t.oldToNew = make(map[int]int, len(t.symbols))
	for i, s := range t.symbols {
		if s.OldIndex != 0 {
			t.oldToNew[s.OldIndex] = i
		}
	}
}

// FindByAddress returns the exact match (if any) plus the nearest
// symbol at-or-before and the nearest symbol after, spec.md §4.4.
func (t *SymbolTable) FindByAddress(section int, offset int64) (exact int, hasExact bool, lastBefore int, hasBefore bool, nextAfter int, hasNext bool) {
	lastBefore, hasBefore = -1, false
	nextAfter, hasNext = -1, false
	for i, s := range t.symbols {
		if s.Section != section {
			continue
		}
		switch {
		case s.Offset == offset:
			exact, hasExact = i, true
			lastBefore, hasBefore = i, true
		case s.Offset < offset:
			lastBefore, hasBefore = i, true
		case s.Offset > offset && !hasNext:
			nextAfter, hasNext = i, true
		}
	}
	return
}

// OldToNew translates a caller-supplied old_index into the current
// dense new_index. The boolean is false when there is no such old index.
func (t *SymbolTable) OldToNew(oldIndex int) (int, bool) {
	idx, ok := t.oldToNew[oldIndex]
	return idx, ok
}

// Get returns the symbol at dense index i.
func (t *SymbolTable) Get(i int) (*Symbol, bool) {
	if i < 0 || i >= len(t.symbols) {
		return nil, false
	}
	return &t.symbols[i], true
}

// Len returns the number of symbols currently in the table.
func (t *SymbolTable) Len() int { return len(t.symbols) }

// All returns every symbol, sorted by (section, offset).
func (t *SymbolTable) All() []Symbol { return t.symbols }

// AssignNames invents a name for every nameless symbol whose section
// is known, using prefix+counter per type, spec.md §4.4.
func (t *SymbolTable) AssignNames() {
	for i := range t.symbols {
		s := &t.symbols[i]
		if s.Name != "" || s.Section <= 0 {
			continue
		}
		prefix := labelPrefix(s.Type)
		t.counter[prefix]++
		s.Name = fmt.Sprintf("%s%d", prefix, t.counter[prefix])
	}
}

func labelPrefix(t OperandType) string {
	switch {
	case t&ClassIsData != 0:
		return "data_"
	case t&ClassIsDubious != 0:
		return "dubious_"
	default:
		return "L"
	}
}
