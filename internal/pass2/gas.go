package pass2

import (
	"strconv"
	"strings"

	"github.com/halfbyte/objdis/internal/opcode"
	"github.com/halfbyte/objdis/pkg/disasm"
)

// gasEmitter renders GNU assembler AT&T-syntax listings: operands in
// src, dest order, %-prefixed registers, $-prefixed immediates, and a
// size suffix on the mnemonic when no register operand already pins
// down the width.
type gasEmitter struct{}

func (gasEmitter) Emit(w *strings.Builder, ctx *Context) {
	insts := coalesceNOPRuns(ctx, byAddress(ctx.Result.Instructions))
	curSection := -1
	for _, inst := range insts {
		if inst.Section != curSection {
			curSection = inst.Section
			if sec, ok := ctx.Sections.Get(inst.Section); ok {
				w.WriteString(".section " + sec.Name)
				w.WriteByte('\n')
			}
		}
		if name, ok := labelFor(ctx, inst.Section, inst.Offset); ok {
			w.WriteString(name)
			w.WriteString(":\n")
		}

		w.WriteString("    ")
		w.WriteString(gasMnemonic(inst))
		if len(inst.Operands) > 0 {
			w.WriteByte(' ')
			w.WriteString(gasOperandList(ctx, inst))
		}
		if c := diagComment(inst.Diag); c != "" {
			w.WriteString(" # ")
			w.WriteString(strings.TrimPrefix(c, "; "))
		}
		w.WriteByte('\n')
	}
}

// gasMnemonic appends the b/w/l/q size suffix AT&T syntax requires
// whenever every operand is memory or immediate (no register operand
// to infer width from), and handles lock/rep the same way Intel does.
func gasMnemonic(inst disasm.Instruction) string {
	if inst.Mnemonic == "align" {
		return ".align"
	}
	m := inst.Mnemonic
	if needsGasSuffix(inst) {
		m += gasSizeSuffix(inst)
	}
	if inst.HasLock {
		m = "lock " + m
	}
	switch inst.RepKind {
	case disasm.RepF3:
		if strings.HasSuffix(inst.Mnemonic, "s") && len(inst.Mnemonic) <= 6 {
			m = "rep " + m
		}
	case disasm.RepF2:
		if strings.HasPrefix(inst.Mnemonic, "cmp") || strings.HasPrefix(inst.Mnemonic, "scas") {
			m = "repne " + m
		}
	}
	return m
}

func needsGasSuffix(inst disasm.Instruction) bool {
	hasMem := false
	for _, op := range inst.Operands {
		if op.IsReg || op.Type.VecSize() != 0 {
			return false
		}
		if op.IsMem {
			hasMem = true
		}
	}
	return hasMem
}

func gasSizeSuffix(inst disasm.Instruction) string {
	for _, op := range inst.Operands {
		if !op.IsMem {
			continue
		}
		switch op.Type.BaseType() {
		case disasm.OpInt8:
			return "b"
		case disasm.OpInt16:
			return "w"
		case disasm.OpInt64:
			return "q"
		default:
			return "l"
		}
	}
	return ""
}

// gasOperandList renders operands in AT&T (src, dest) order: the
// reverse of every other field on Instruction, which stays in
// Intel (dest, src) order throughout decode/analyze.
func gasOperandList(ctx *Context, inst disasm.Instruction) string {
	segName := ""
	if inst.SegOverride >= 0 {
		segName = opcode.RegSeg[inst.SegOverride]
	}
	parts := make([]string, 0, len(inst.Operands))
	for _, op := range inst.Operands {
		switch op.Type {
		case disasm.OpShortJump, disasm.OpNearJump, disasm.OpNearCall:
			if op.HasImm {
				parts = append(parts, resolveBranchTarget(ctx, inst.Section, inst.Offset+int64(inst.Length), op.Imm))
				continue
			}
		}
		parts = append(parts, formatGasOperand(ctx, inst, op, segName))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ", ")
}

func formatGasOperand(ctx *Context, inst disasm.Instruction, op disasm.Operand, segName string) string {
	if op.HasImm && !op.IsMem && !op.IsReg {
		if inst.Mnemonic == "align" {
			return strconv.Itoa(int(op.Imm))
		}
		if op.RelocTargetOld != 0 {
			if name, ok := relocSymbolName(ctx, op.RelocTargetOld); ok {
				return "$" + name
			}
		}
		return "$" + gasHex(op.Imm)
	}
	if op.IsReg {
		return "%" + gasRegName(inst, op)
	}
	if op.IsMem {
		return formatGasMem(ctx, op, segName)
	}
	return "?"
}

func gasHex(v int64) string {
	if v < 0 {
		return "-0x" + strconv.FormatInt(-v, 16)
	}
	return "0x" + strconv.FormatInt(v, 16)
}

func gasRegName(inst disasm.Instruction, op disasm.Operand) string {
	base := op.Type.BaseType()
	switch {
	case op.Type.VecSize() != 0:
		return vecRegName(op)
	case base == disasm.OpSegReg.BaseType():
		return opcode.RegSeg[op.Reg&0x7]
	case base == disasm.OpMaskReg.BaseType():
		return opcode.RegMask[op.Reg&0x7]
	case base == disasm.OpCtrlReg.BaseType():
		return opcode.RegControl[op.Reg&0xF]
	case base == disasm.OpDebugReg.BaseType():
		return opcode.RegDebug[op.Reg&0xF]
	case base == disasm.OpInt8.BaseType():
		return opcode.GPRName(op.Reg, disasm.Word32, true, inst.HasRex || inst.VexPresent)
	default:
		return opcode.GPRName(op.Reg, gprWidth(op.Type), false, true)
	}
}

// formatGasMem renders AT&T memory syntax: disp(base,index,scale),
// with %rip-relative addressing spelled disp(%rip) and a segment
// override prefixed as %fs:disp(...).
func formatGasMem(ctx *Context, op disasm.Operand, segName string) string {
	var sb strings.Builder
	if segName != "" {
		sb.WriteString("%" + segName + ":")
	}
	if op.RelocTargetOld != 0 {
		if name, ok := relocSymbolName(ctx, op.RelocTargetOld); ok {
			sb.WriteString(name)
		} else if op.HasDisp && op.Disp != 0 {
			sb.WriteString(gasHex(op.Disp))
		}
	} else if op.HasDisp && op.Disp != 0 {
		sb.WriteString(gasHex(op.Disp))
	} else if !op.RipRelative && op.BaseReg < 0 && op.IndexReg < 0 {
		sb.WriteString("0x0")
	}
	if op.RipRelative {
		sb.WriteString("(%rip)")
		if op.Broadcast != "" {
			sb.WriteString("{" + op.Broadcast + "}")
		}
		return sb.String()
	}
	if op.BaseReg < 0 && op.IndexReg < 0 {
		return sb.String()
	}
	sb.WriteByte('(')
	if op.BaseReg >= 0 {
		sb.WriteString("%" + opcode.GPRName(op.BaseReg, disasm.Word64, false, true))
	}
	if op.IndexReg >= 0 {
		sb.WriteByte(',')
		sb.WriteString("%" + opcode.GPRName(op.IndexReg, disasm.Word64, false, true))
		sb.WriteByte(',')
		scale := op.Scale
		if scale == 0 {
			scale = 1
		}
		sb.WriteString(strconv.Itoa(scale))
	}
	sb.WriteByte(')')
	if op.Broadcast != "" {
		sb.WriteString("{" + op.Broadcast + "}")
	}
	return sb.String()
}
