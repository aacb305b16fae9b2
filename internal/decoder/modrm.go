package decoder

import (
	"encoding/binary"
	"fmt"

	"github.com/halfbyte/objdis/pkg/disasm"
)

// modrmResult is the decoded ModR/M (+ SIB + displacement) field,
// generalized from the teacher's decodeRegOrMem (pkg/decoder/decoder.go)
// and move.go, which handled only 16-bit mod/reg/r-m addressing. This
// version additionally covers the 32/64-bit SIB byte and RIP-relative
// addressing that 16-bit mode has no equivalent of.
type modrmResult struct {
	mod     byte
	regBits int // 3-bit reg field, REX.R not yet applied
	rmBits  int // 3-bit rm field, REX.B not yet applied

	isRegister  bool
	rmRegIndex  int // REX.B already applied when isRegister
	baseReg     int // -1 if absent
	indexReg    int // -1 if absent
	scale       int
	ripRelative bool
	hasDisp     bool
	disp        int64
	dispSize    int

	len int // total bytes consumed, including the ModR/M byte itself
}

// regField is the ModR/M.reg field with REX.R (or VEX/EVEX R/R') folded in.
func (r modrmResult) regField(rexR bool) int {
	f := r.regBits
	if rexR {
		f |= 0x8
	}
	return f
}

// decodeModRM reads the ModR/M byte at b[pos] and any SIB/displacement
// bytes that follow, per the addressing mode implied by wordSize and
// addrSize66 (the 0x67 prefix). 16-bit addressing uses the classic
// EffectiveAddressEquation table instead of a SIB byte, mirroring the
// teacher's decodeRegOrMem switch.
func decodeModRM(b []byte, pos int, wordSize disasm.WordSize, addrSize66, rexB, rexX bool) (modrmResult, error) {
	if pos >= len(b) {
		return modrmResult{}, fmt.Errorf("truncated instruction: missing ModR/M byte")
	}
	raw := b[pos]
	r := modrmResult{
		mod:      raw >> 6,
		regBits:  int(raw>>3) & 0x7,
		rmBits:   int(raw) & 0x7,
		baseReg:  -1,
		indexReg: -1,
		len:      1,
	}

	effAddrSize := wordSize
	if addrSize66 {
		switch wordSize {
		case disasm.Word64:
			effAddrSize = disasm.Word32
		case disasm.Word32:
			effAddrSize = disasm.Word16
		case disasm.Word16:
			effAddrSize = disasm.Word32
		}
	}

	if r.mod == 3 {
		r.isRegister = true
		r.rmRegIndex = r.rmBits
		if rexB {
			r.rmRegIndex |= 0x8
		}
		return r, nil
	}

	if effAddrSize == disasm.Word16 {
		return decodeModRM16(b, pos, r)
	}

	rmExt := r.rmBits
	if rexB {
		rmExt |= 0x8
	}

	if r.rmBits == 4 {
		// SIB byte follows.
		if pos+1 >= len(b) {
			return r, fmt.Errorf("truncated instruction: missing SIB byte")
		}
		sib := b[pos+1]
		r.len++
		scaleBits := sib >> 6
		idx := int(sib>>3) & 0x7
		base := int(sib) & 0x7
		r.scale = 1 << scaleBits
		if rexX {
			idx |= 0x8
		}
		if idx != 4 {
			r.indexReg = idx
		}
		if base == 5 && r.mod == 0 {
			r.baseReg = -1
		} else {
			baseExt := base
			if rexB {
				baseExt |= 0x8
			}
			r.baseReg = baseExt
		}
		if base == 5 && r.mod == 0 {
			if pos+1+r.len > len(b) {
				return r, fmt.Errorf("truncated instruction: missing SIB displacement")
			}
			d, n, err := readDisp32(b, pos+1+1)
			if err != nil {
				return r, err
			}
			r.hasDisp, r.disp, r.dispSize = true, d, 4
			r.len += n
		}
	} else if r.rmBits == 5 && r.mod == 0 {
		r.ripRelative = true
		d, n, err := readDisp32(b, pos+1)
		if err != nil {
			return r, err
		}
		r.hasDisp, r.disp, r.dispSize = true, d, 4
		r.len += n
	} else {
		r.baseReg = rmExt
	}

	switch r.mod {
	case 1:
		if pos+r.len >= len(b) {
			return r, fmt.Errorf("truncated instruction: missing 8-bit displacement")
		}
		r.hasDisp = true
		r.disp = int64(int8(b[pos+r.len]))
		r.dispSize = 1
		r.len++
	case 2:
		d, n, err := readDisp32(b, pos+r.len)
		if err != nil {
			return r, err
		}
		r.hasDisp, r.disp, r.dispSize = true, d, 4
		r.len += n
	}

	return r, nil
}

func readDisp32(b []byte, pos int) (int64, int, error) {
	if pos+4 > len(b) {
		return 0, 0, fmt.Errorf("truncated instruction: missing 32-bit displacement")
	}
	return int64(int32(binary.LittleEndian.Uint32(b[pos : pos+4]))), 4, nil
}

// decodeModRM16 implements the legacy 16-bit r/m table (Table 4-10 in
// the 8086 manual, the one table the teacher's EffectiveAddressEquation
// already covers): no SIB byte, base+index pairs are fixed per rm value.
func decodeModRM16(b []byte, pos int, r modrmResult) (modrmResult, error) {
	// bx+si, bx+di, bp+si, bp+di, si, di, bp(disp-only if mod==0), bx
	bases := []int{3, 3, 5, 5, 6, 7, 5, 3}
	indices := []int{6, 7, 6, 7, -1, -1, -1, -1}
	r.baseReg = bases[r.rmBits]
	r.indexReg = indices[r.rmBits]

	if r.mod == 0 && r.rmBits == 6 {
		r.baseReg = -1
		r.indexReg = -1
		if pos+1+2 > len(b) {
			return r, fmt.Errorf("truncated instruction: missing 16-bit direct address")
		}
		r.hasDisp = true
		r.disp = int64(binary.LittleEndian.Uint16(b[pos+1 : pos+3]))
		r.dispSize = 2
		r.len += 2
		return r, nil
	}

	switch r.mod {
	case 1:
		if pos+r.len >= len(b) {
			return r, fmt.Errorf("truncated instruction: missing 8-bit displacement")
		}
		r.hasDisp = true
		r.disp = int64(int8(b[pos+r.len]))
		r.dispSize = 1
		r.len++
	case 2:
		if pos+r.len+2 > len(b) {
			return r, fmt.Errorf("truncated instruction: missing 16-bit displacement")
		}
		r.hasDisp = true
		r.disp = int64(int16(binary.LittleEndian.Uint16(b[pos+r.len : pos+r.len+2])))
		r.dispSize = 2
		r.len += 2
	}
	return r, nil
}
