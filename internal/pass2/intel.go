package pass2

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/halfbyte/objdis/internal/opcode"
	"github.com/halfbyte/objdis/pkg/disasm"
)

// intelSyntax holds the handful of spellings that differ between
// MASM and NASM even though both are Intel-operand-order syntaxes.
type intelSyntax struct {
	hexLiteral func(v int64) string
	ptrKeyword func(size string) string // "" if the dialect omits size prefixes when unambiguous
	seg        func(name string) string
	rip        string
}

func masmSyntax() intelSyntax {
	return intelSyntax{
		hexLiteral: func(v int64) string {
			if v < 0 {
				return "-" + hexSuffix(-v)
			}
			return hexSuffix(v)
		},
		ptrKeyword: func(size string) string { return size + " ptr " },
		seg:        func(name string) string { return name + ":" },
		rip:        "rip",
	}
}

func nasmSyntax() intelSyntax {
	return intelSyntax{
		hexLiteral: func(v int64) string {
			if v < 0 {
				return fmt.Sprintf("-0x%x", -v)
			}
			return fmt.Sprintf("0x%x", v)
		},
		ptrKeyword: func(size string) string { return size + " " },
		seg:        func(name string) string { return name + ":" },
		rip:        "rip",
	}
}

func hexSuffix(v int64) string {
	s := strconv.FormatInt(v, 16)
	if s[0] >= 'a' && s[0] <= 'f' {
		s = "0" + s
	}
	return s + "h"
}

// sizeKeyword is only consulted for scalar GPR memory operands;
// vector operands carry their width in the mnemonic itself (movaps,
// vmovaps, ...) and skip the size prefix via needsSizePrefix.
func sizeKeyword(t disasm.OperandType) string {
	switch t.BaseType() {
	case disasm.OpInt8:
		return "byte"
	case disasm.OpInt16:
		return "word"
	case disasm.OpInt64:
		return "qword"
	default:
		return "dword"
	}
}

// formatIntelOperand renders one operand in Intel (dest, src) order
// for either MASM or NASM, given the already-resolved register name
// table and addressing info.
func formatIntelOperand(sx intelSyntax, ctx *Context, inst disasm.Instruction, op disasm.Operand, segOverrideName string) string {
	if op.HasImm && !op.IsMem && !op.IsReg {
		if inst.Mnemonic == "align" {
			return strconv.Itoa(int(op.Imm))
		}
		if op.RelocTargetOld != 0 {
			if name, ok := relocSymbolName(ctx, op.RelocTargetOld); ok {
				return name
			}
		}
		return sx.hexLiteral(op.Imm)
	}
	if op.IsReg {
		return intelRegName(inst, op)
	}
	if op.IsMem {
		return formatIntelMem(sx, ctx, inst, op, segOverrideName)
	}
	return "?"
}

func intelRegName(inst disasm.Instruction, op disasm.Operand) string {
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

func formatIntelMem(sx intelSyntax, ctx *Context, inst disasm.Instruction, op disasm.Operand, segOverrideName string) string {
	var sb strings.Builder
	if sx.ptrKeyword != nil && needsSizePrefix(op.Type) {
		sb.WriteString(sx.ptrKeyword(sizeKeyword(op.Type)))
	}
	if segOverrideName != "" {
		sb.WriteString(sx.seg(segOverrideName))
	}
	sb.WriteByte('[')
	wrote := false
	if op.RipRelative {
		sb.WriteString(sx.rip)
		wrote = true
	} else if op.BaseReg >= 0 {
		sb.WriteString(opcode.GPRName(op.BaseReg, disasm.Word64, false, true))
		wrote = true
	}
	if op.IndexReg >= 0 {
		if wrote {
			sb.WriteByte('+')
		}
		sb.WriteString(opcode.GPRName(op.IndexReg, disasm.Word64, false, true))
		if op.Scale > 1 {
			sb.WriteByte('*')
			sb.WriteString(strconv.Itoa(op.Scale))
		}
		wrote = true
	}
	if op.RelocTargetOld != 0 {
		if name, ok := relocSymbolName(ctx, op.RelocTargetOld); ok {
			if wrote {
				sb.WriteByte('+')
			}
			sb.WriteString(name)
			sb.WriteByte(']')
			if op.Broadcast != "" {
				sb.WriteString("{" + op.Broadcast + "}")
			}
			return sb.String()
		}
	}
	if op.HasDisp && (op.Disp != 0 || !wrote) {
		if op.Disp < 0 {
			sb.WriteString(sx.hexLiteral(op.Disp))
		} else if wrote {
			sb.WriteByte('+')
			sb.WriteString(sx.hexLiteral(op.Disp))
		} else {
			sb.WriteString(sx.hexLiteral(op.Disp))
		}
	}
	sb.WriteByte(']')
	if op.Broadcast != "" {
		sb.WriteString("{" + op.Broadcast + "}")
	}
	return sb.String()
}

func needsSizePrefix(t disasm.OperandType) bool {
	return t.VecSize() == 0 // vector mnemonics already disambiguate width by name (movaps/movq/...)
}

// emitIntel is the shared body behind masmEmitter.Emit and
// nasmEmitter.Emit: identical instruction selection/ordering logic,
// differing only in operand-text spelling (sx) and section-directive
// spelling (directives).
func emitIntel(w *strings.Builder, ctx *Context, sx intelSyntax, directives sectionDirectives) {
	insts := coalesceNOPRuns(ctx, byAddress(ctx.Result.Instructions))
	curSection := -1
	for _, inst := range insts {
		if inst.Section != curSection {
			curSection = inst.Section
			if sec, ok := ctx.Sections.Get(inst.Section); ok {
				w.WriteString(directives.section(sec.Name))
				w.WriteByte('\n')
			}
		}
		if name, ok := labelFor(ctx, inst.Section, inst.Offset); ok {
			w.WriteString(name)
			w.WriteString(":\n")
		}

		w.WriteString("    ")
		w.WriteString(mnemonicText(inst))
		if len(inst.Operands) > 0 {
			w.WriteByte(' ')
			w.WriteString(intelOperandList(sx, ctx, inst))
		}
		if c := diagComment(inst.Diag); c != "" {
			w.WriteString(" ")
			w.WriteString(c)
		}
		w.WriteByte('\n')
	}
}

func mnemonicText(inst disasm.Instruction) string {
	m := inst.Mnemonic
	if inst.HasLock {
		m = "lock " + m
	}
	switch inst.RepKind {
	case disasm.RepF3:
		if strings.HasSuffix(m, "s") && len(m) <= 6 {
			m = "rep " + m
		}
	case disasm.RepF2:
		if strings.HasPrefix(m, "cmp") || strings.HasPrefix(m, "scas") {
			m = "repne " + m
		}
	}
	return m
}

func intelOperandList(sx intelSyntax, ctx *Context, inst disasm.Instruction) string {
	segName := ""
	if inst.SegOverride >= 0 {
		segName = opcode.RegSeg[inst.SegOverride]
	}
	var parts []string
	for _, op := range inst.Operands {
		switch op.Type {
		case disasm.OpShortJump, disasm.OpNearJump, disasm.OpNearCall:
			if op.HasImm {
				parts = append(parts, resolveBranchTarget(ctx, inst.Section, inst.Offset+int64(inst.Length), op.Imm))
				continue
			}
		}
		parts = append(parts, formatIntelOperand(sx, ctx, inst, op, segName))
	}
	return strings.Join(parts, ", ")
}

// sectionDirectives holds the per-dialect section-start spelling.
type sectionDirectives struct {
	section func(name string) string
}
