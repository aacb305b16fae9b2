package decoder

import "github.com/halfbyte/objdis/pkg/disasm"

// prefixState is the result of the prefix-scan stage, spec.md §4.2
// step 1: walk bytes classifying each into one of eight prefix
// categories (segment override, address-size, lock, repeat/VEX-intro,
// operand-size, REX, and the VEX/EVEX/MVEX payload itself) until a
// byte that isn't a recognized prefix is reached. Adapted from the
// teacher's string.go repeatPrefix, which recognized exactly one of
// these categories (F2/F3) and stopped there.
type prefixState struct {
	segOverride int // RegSeg index, -1 if none
	addrSize66  bool
	opSize66    bool
	lock        bool
	rep         disasm.RepKind

	hasRex bool
	rex    byte

	vex      bool
	vexClass disasm.VexClass
	vexMmmm  int
	vexPP    int
	vexL     bool
	vexW     bool
	vexVvvv  int
	vexR     bool
	vexX     bool
	vexB     bool

	// EVEX-only
	evexRPrime bool
	evexVPrime bool
	evexZ      bool
	evexAaa    int
	evexLL     int
	evexB      bool

	consumed int
}

var segOverrideByte = map[byte]int{
	0x26: 0, // es
	0x2E: 1, // cs
	0x36: 2, // ss
	0x3E: 3, // ds
	0x64: 4, // fs
	0x65: 5, // gs
}

// scanPrefixes consumes legacy prefixes, then (in 64-bit mode) a REX
// byte, then, if present, a VEX/XOP/EVEX introducer and its payload
// bytes. It stops at the first byte that starts an opcode.
func scanPrefixes(b []byte, pos int, wordSize disasm.WordSize) prefixState {
	st := prefixState{segOverride: -1}
	start := pos

legacy:
	for pos < len(b) {
		switch b[pos] {
		case 0x26, 0x2E, 0x36, 0x3E, 0x64, 0x65:
			st.segOverride = segOverrideByte[b[pos]]
			pos++
		case 0x66:
			st.opSize66 = true
			pos++
		case 0x67:
			st.addrSize66 = true
			pos++
		case 0xF0:
			st.lock = true
			pos++
		case 0xF2:
			st.rep = disasm.RepF2
			pos++
		case 0xF3:
			st.rep = disasm.RepF3
			pos++
		default:
			break legacy
		}
	}

	if wordSize == disasm.Word64 && pos < len(b) && b[pos]&0xF0 == 0x40 {
		st.hasRex = true
		st.rex = b[pos]
		pos++
	}

	if pos < len(b) {
		switch {
		case b[pos] == 0xC5 && pos+1 < len(b):
			st.vex = true
			st.vexClass = disasm.VexTwoByte
			p1 := b[pos+1]
			st.vexR = p1&0x80 == 0
			st.vexVvvv = int(^(p1 >> 3) & 0xF)
			st.vexL = p1&0x04 != 0
			st.vexPP = int(p1 & 0x3)
			st.vexMmmm = 1
			pos += 2
		case b[pos] == 0xC4 && pos+2 < len(b):
			st.vex = true
			st.vexClass = disasm.VexThreeByte
			p1, p2 := b[pos+1], b[pos+2]
			st.vexR = p1&0x80 == 0
			st.vexX = p1&0x40 == 0
			st.vexB = p1&0x20 == 0
			st.vexMmmm = int(p1 & 0x1F)
			st.vexW = p2&0x80 != 0
			st.vexVvvv = int(^(p2 >> 3) & 0xF)
			st.vexL = p2&0x04 != 0
			st.vexPP = int(p2 & 0x3)
			pos += 3
		case b[pos] == 0x8F && pos+2 < len(b) && b[pos+1]&0x1F >= 8:
			st.vex = true
			st.vexClass = disasm.VexXOP
			p1, p2 := b[pos+1], b[pos+2]
			st.vexR = p1&0x80 == 0
			st.vexX = p1&0x40 == 0
			st.vexB = p1&0x20 == 0
			st.vexMmmm = int(p1 & 0x1F)
			st.vexW = p2&0x80 != 0
			st.vexVvvv = int(^(p2 >> 3) & 0xF)
			st.vexL = p2&0x04 != 0
			st.vexPP = int(p2 & 0x3)
			pos += 3
		case b[pos] == 0x62 && pos+3 < len(b) && wordSize == disasm.Word64:
			st.vex = true
			st.vexClass = disasm.VexEvex
			p1, p2, p3 := b[pos+1], b[pos+2], b[pos+3]
			st.vexR = p1&0x80 == 0
			st.vexX = p1&0x40 == 0
			st.vexB = p1&0x20 == 0
			st.evexRPrime = p1&0x10 == 0
			st.vexMmmm = int(p1 & 0x3)
			st.vexW = p2&0x80 != 0
			st.vexVvvv = int(^(p2 >> 3) & 0xF)
			st.vexPP = int(p2 & 0x3)
			st.evexZ = p3&0x80 != 0
			st.evexLL = int((p3 >> 5) & 0x3)
			st.evexB = p3&0x10 != 0
			st.evexVPrime = p3&0x08 == 0
			st.evexAaa = int(p3 & 0x7)
			pos += 4
		}
	}

	st.consumed = pos - start
	return st
}

func (st prefixState) vexVectorLength() int {
	if st.vexClass == disasm.VexEvex {
		switch st.evexLL {
		case 0:
			return 128
		case 1:
			return 256
		default:
			return 512
		}
	}
	if st.vexL {
		return 256
	}
	return 128
}
