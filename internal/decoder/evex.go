package decoder

import (
	"fmt"

	"github.com/halfbyte/objdis/internal/opcode"
	"github.com/halfbyte/objdis/pkg/disasm"
)

// applyEvexDecoration fills in the EVEX-only trimmings spec.md §4.2
// step 5 describes: opmask register + zeroing on the destination, and
// the {1toN} broadcast decoration on a memory source operand when
// EVEX.b selects it instead of rounding control.
func applyEvexDecoration(inst *disasm.Instruction, ops []disasm.Operand, entry opcode.Def, st prefixState, opSize disasm.WordSize) {
	if st.evexAaa != 0 {
		inst.MaskReg = st.evexAaa
		inst.Zeroing = st.evexZ
	}

	if !st.evexB {
		return
	}
	if entry.Evex&opcode.EvexBroadcastLL == 0 {
		return
	}
	for i := range ops {
		if !ops[i].IsMem {
			continue
		}
		elemBits := 32
		if base := ops[i].Type.BaseType(); base == disasm.OpFloat64SSE.BaseType() {
			elemBits = 64
		}
		n := st.vexVectorLength() / elemBits
		ops[i].Broadcast = fmt.Sprintf("1to%d", n)
	}
}
