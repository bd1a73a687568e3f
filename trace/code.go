package trace

import (
	"fmt"

	"github.com/retronym/asm/bytecode"
)

const (
	codeNotStarted = iota
	codeAccumulating
	codeFinished
)

// CodeTracer renders the events of one method: member-scope events,
// then the body between VisitCode and VisitMaxs. Labels get symbolic
// names L0, L1, ... assigned on first reference and stable for the
// rest of the method. Body events delivered after VisitMaxs violate
// the caller contract and panic with *ContractError.
type CodeTracer struct {
	MemberTracer
	cv     bytecode.CodeVisitor
	labels map[*bytecode.Label]string
	state  int
}

func NewCodeTracer(cv bytecode.CodeVisitor) *CodeTracer {
	t := &CodeTracer{
		MemberTracer: MemberTracer{text: &Text{}, indent: "    "},
		labels:       map[*bytecode.Label]string{},
	}
	if cv != nil {
		t.cv = cv
		t.mv = cv
	}
	return t
}

// labelName returns the symbolic name of a label, assigning the next
// free one on first reference.
func (t *CodeTracer) labelName(l *bytecode.Label) string {
	name, ok := t.labels[l]
	if !ok {
		name = fmt.Sprintf("L%d", len(t.labels))
		t.labels[l] = name
	}
	return name
}

func (t *CodeTracer) body(op string) {
	if t.state == codeFinished {
		violate(op, "method body already finished")
	}
}

func (t *CodeTracer) VisitAnnotationDefault() bytecode.AnnotationVisitor {
	t.text.Add("    default=")
	at := NewAnnotationTracer(nil)
	t.text.AddChild(at.text)
	t.text.Add("\n")
	if t.cv != nil {
		at.av = t.cv.VisitAnnotationDefault()
	}
	return at
}

func (t *CodeTracer) VisitParameterAnnotation(parameter int, descriptor string, visible bool) bytecode.AnnotationVisitor {
	t.text.Add("    @" + descriptor + "(")
	at := NewAnnotationTracer(nil)
	t.text.AddChild(at.text)
	if visible {
		t.text.Add(fmt.Sprintf(") // parameter %d\n", parameter))
	} else {
		t.text.Add(fmt.Sprintf(") // invisible, parameter %d\n", parameter))
	}
	if t.cv != nil {
		at.av = t.cv.VisitParameterAnnotation(parameter, descriptor, visible)
	}
	return at
}

func (t *CodeTracer) VisitCode() {
	if t.state != codeNotStarted {
		violate("VisitCode", "method body already started")
	}
	t.state = codeAccumulating
	if t.cv != nil {
		t.cv.VisitCode()
	}
}

func (t *CodeTracer) VisitFrame(kind bytecode.FrameKind) {
	t.body("VisitFrame")
	t.text.Add(fmt.Sprintf("    FRAME %s\n", kind))
	if t.cv != nil {
		t.cv.VisitFrame(kind)
	}
}

func (t *CodeTracer) VisitInsn(opcode bytecode.Opcode) {
	t.body("VisitInsn")
	t.text.Add(fmt.Sprintf("    %s\n", opcode))
	if t.cv != nil {
		t.cv.VisitInsn(opcode)
	}
}

var arrayTypeNames = map[int32]string{
	4:  "T_BOOLEAN",
	5:  "T_CHAR",
	6:  "T_FLOAT",
	7:  "T_DOUBLE",
	8:  "T_BYTE",
	9:  "T_SHORT",
	10: "T_INT",
	11: "T_LONG",
}

func (t *CodeTracer) VisitIntInsn(opcode bytecode.Opcode, operand int32) {
	t.body("VisitIntInsn")
	if name, ok := arrayTypeNames[operand]; opcode == bytecode.Newarray && ok {
		t.text.Add(fmt.Sprintf("    %s %s\n", opcode, name))
	} else {
		t.text.Add(fmt.Sprintf("    %s %d\n", opcode, operand))
	}
	if t.cv != nil {
		t.cv.VisitIntInsn(opcode, operand)
	}
}

func (t *CodeTracer) VisitVarInsn(opcode bytecode.Opcode, slot int) {
	t.body("VisitVarInsn")
	t.text.Add(fmt.Sprintf("    %s %d\n", opcode, slot))
	if t.cv != nil {
		t.cv.VisitVarInsn(opcode, slot)
	}
}

func (t *CodeTracer) VisitTypeInsn(opcode bytecode.Opcode, name string) {
	t.body("VisitTypeInsn")
	t.text.Add(fmt.Sprintf("    %s %s\n", opcode, name))
	if t.cv != nil {
		t.cv.VisitTypeInsn(opcode, name)
	}
}

func (t *CodeTracer) VisitFieldInsn(opcode bytecode.Opcode, owner, name, descriptor string) {
	t.body("VisitFieldInsn")
	t.text.Add(fmt.Sprintf("    %s %s %s %s\n", opcode, owner, name, descriptor))
	if t.cv != nil {
		t.cv.VisitFieldInsn(opcode, owner, name, descriptor)
	}
}

func (t *CodeTracer) VisitMethodInsn(opcode bytecode.Opcode, owner, name, descriptor string) {
	t.body("VisitMethodInsn")
	t.text.Add(fmt.Sprintf("    %s %s %s %s\n", opcode, owner, name, descriptor))
	if t.cv != nil {
		t.cv.VisitMethodInsn(opcode, owner, name, descriptor)
	}
}

func (t *CodeTracer) VisitJumpInsn(opcode bytecode.Opcode, target *bytecode.Label) {
	t.body("VisitJumpInsn")
	t.text.Add(fmt.Sprintf("    %s %s\n", opcode, t.labelName(target)))
	if t.cv != nil {
		t.cv.VisitJumpInsn(opcode, target)
	}
}

func (t *CodeTracer) VisitLabel(label *bytecode.Label) {
	t.body("VisitLabel")
	t.text.Add(fmt.Sprintf("   %s\n", t.labelName(label)))
	if t.cv != nil {
		t.cv.VisitLabel(label)
	}
}

func (t *CodeTracer) VisitLdcInsn(value any) {
	t.body("VisitLdcInsn")
	t.buf.Reset()
	t.buf.WriteString("    LDC ")
	appendConst(&t.buf, value)
	t.buf.WriteByte('\n')
	t.text.Add(t.buf.String())
	if t.cv != nil {
		t.cv.VisitLdcInsn(value)
	}
}

func (t *CodeTracer) VisitIincInsn(slot, increment int) {
	t.body("VisitIincInsn")
	t.text.Add(fmt.Sprintf("    IINC %d %d\n", slot, increment))
	if t.cv != nil {
		t.cv.VisitIincInsn(slot, increment)
	}
}

func (t *CodeTracer) VisitTableSwitchInsn(min, max int32, dflt *bytecode.Label, targets []*bytecode.Label) {
	t.body("VisitTableSwitchInsn")
	if len(targets) != int(max-min)+1 {
		violate("VisitTableSwitchInsn", "%d targets for range %d..%d", len(targets), min, max)
	}
	t.buf.Reset()
	t.buf.WriteString("    TABLESWITCH\n")
	for i, target := range targets {
		fmt.Fprintf(&t.buf, "      %d: %s\n", min+int32(i), t.labelName(target))
	}
	fmt.Fprintf(&t.buf, "      default: %s\n", t.labelName(dflt))
	t.text.Add(t.buf.String())
	if t.cv != nil {
		t.cv.VisitTableSwitchInsn(min, max, dflt, targets)
	}
}

func (t *CodeTracer) VisitLookupSwitchInsn(dflt *bytecode.Label, keys []int32, targets []*bytecode.Label) {
	t.body("VisitLookupSwitchInsn")
	if len(keys) != len(targets) {
		violate("VisitLookupSwitchInsn", "%d keys for %d targets", len(keys), len(targets))
	}
	t.buf.Reset()
	t.buf.WriteString("    LOOKUPSWITCH\n")
	for i, target := range targets {
		fmt.Fprintf(&t.buf, "      %d: %s\n", keys[i], t.labelName(target))
	}
	fmt.Fprintf(&t.buf, "      default: %s\n", t.labelName(dflt))
	t.text.Add(t.buf.String())
	if t.cv != nil {
		t.cv.VisitLookupSwitchInsn(dflt, keys, targets)
	}
}

func (t *CodeTracer) VisitMultiANewArrayInsn(descriptor string, dims int) {
	t.body("VisitMultiANewArrayInsn")
	t.text.Add(fmt.Sprintf("    MULTIANEWARRAY %s %d\n", descriptor, dims))
	if t.cv != nil {
		t.cv.VisitMultiANewArrayInsn(descriptor, dims)
	}
}

func (t *CodeTracer) VisitTryCatchBlock(start, end, handler *bytecode.Label, catchType string) {
	t.body("VisitTryCatchBlock")
	caught := catchType
	if caught == "" {
		caught = "null"
	}
	t.text.Add(fmt.Sprintf("    TRYCATCHBLOCK %s %s %s %s\n",
		t.labelName(start), t.labelName(end), t.labelName(handler), caught))
	if t.cv != nil {
		t.cv.VisitTryCatchBlock(start, end, handler, catchType)
	}
}

func (t *CodeTracer) VisitLocalVariable(name, descriptor, signature string, start, end *bytecode.Label, slot int) {
	t.body("VisitLocalVariable")
	t.buf.Reset()
	fmt.Fprintf(&t.buf, "    LOCALVARIABLE %s %s %s %s %d",
		name, descriptor, t.labelName(start), t.labelName(end), slot)
	if signature != "" {
		t.buf.WriteString(" // " + signature)
	}
	t.buf.WriteByte('\n')
	t.text.Add(t.buf.String())
	if t.cv != nil {
		t.cv.VisitLocalVariable(name, descriptor, signature, start, end, slot)
	}
}

func (t *CodeTracer) VisitLineNumber(line int, start *bytecode.Label) {
	t.body("VisitLineNumber")
	t.text.Add(fmt.Sprintf("    LINENUMBER %d %s\n", line, t.labelName(start)))
	if t.cv != nil {
		t.cv.VisitLineNumber(line, start)
	}
}

func (t *CodeTracer) VisitMaxs(maxStack, maxLocals int) {
	t.body("VisitMaxs")
	t.text.Add(fmt.Sprintf("    MAXSTACK = %d\n    MAXLOCALS = %d\n", maxStack, maxLocals))
	t.state = codeFinished
	if t.cv != nil {
		t.cv.VisitMaxs(maxStack, maxLocals)
	}
}
