package disasm

import "sort"

// Relocation is a cross-reference the host object file described,
// spec.md §3. TargetOld/RefOld are caller (old) symbol indices;
// resolve them through SymbolTable.OldToNew before use.
type Relocation struct {
	Section   int
	Offset    int64
	Size      int64 // 1,2,4,6,8
	Type      RelocType
	Addend    int64
	TargetOld int
	RefOld    int
}

// RelocStore is the sorted list of cross-references by
// (section, offset), spec.md §3.
type RelocStore struct {
	relocs []Relocation
}

func NewRelocStore() *RelocStore { return &RelocStore{} }

func (r *RelocStore) Add(rel Relocation) {
	r.relocs = append(r.relocs, rel)
	r.resort()
}

func (r *RelocStore) resort() {
	sort.SliceStable(r.relocs, func(i, j int) bool {
		if r.relocs[i].Section != r.relocs[j].Section {
			return r.relocs[i].Section < r.relocs[j].Section
		}
		return r.relocs[i].Offset < r.relocs[j].Offset
	})
}

// Find returns the relocation, if any, whose field exactly starts at
// (section, offset).
func (r *RelocStore) Find(section int, offset int64) (*Relocation, bool) {
	i := sort.Search(len(r.relocs), func(i int) bool {
		if r.relocs[i].Section != section {
			return r.relocs[i].Section >= section
		}
		return r.relocs[i].Offset >= offset
	})
	if i < len(r.relocs) && r.relocs[i].Section == section && r.relocs[i].Offset == offset {
		return &r.relocs[i], true
	}
	return nil, false
}

// FindWithin returns the first relocation, if any, whose offset lies
// inside the byte range [start, start+length) — used to attach
// relocations to a decoded instruction's displacement/immediate field
// even when the relocation's own offset isn't the range's first byte.
// A relocation that starts before start is not matched.
func (r *RelocStore) FindWithin(section int, start, length int64) (*Relocation, bool) {
	end := start + length
	for i := range r.relocs {
		rel := &r.relocs[i]
		if rel.Section != section {
			continue
		}
		if rel.Offset >= start && rel.Offset < end {
			return rel, true
		}
	}
	return nil, false
}

// All returns every relocation, sorted by (section, offset).
func (r *RelocStore) All() []Relocation { return r.relocs }

// Len returns the number of relocations.
func (r *RelocStore) Len() int { return len(r.relocs) }
