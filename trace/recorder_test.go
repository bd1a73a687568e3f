package trace

import (
	"fmt"

	"github.com/retronym/asm/bytecode"
)

// recorder collects one line per event so tests can compare the exact
// stream a downstream visitor observes.
type recorder struct {
	events []string
}

func (r *recorder) log(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type recordClass struct{ *recorder }

func (r recordClass) Visit(version uint32, access bytecode.Access, name, signature, superName string, interfaces []string) {
	r.log("Visit %d %d %s %q %s %v", version, access, name, signature, superName, interfaces)
}

func (r recordClass) VisitSource(file, debug string) {
	r.log("VisitSource %q %q", file, debug)
}

func (r recordClass) VisitOuterClass(owner, name, descriptor string) {
	r.log("VisitOuterClass %s %s %s", owner, name, descriptor)
}

func (r recordClass) VisitInnerClass(name, outerName, innerName string, access bytecode.Access) {
	r.log("VisitInnerClass %s %s %s %d", name, outerName, innerName, access)
}

func (r recordClass) VisitAnnotation(descriptor string, visible bool) bytecode.AnnotationVisitor {
	r.log("VisitAnnotation %s %t", descriptor, visible)
	return recordAnnotation{r.recorder}
}

func (r recordClass) VisitAttribute(attr *bytecode.Attribute) {
	r.log("VisitAttribute %s %d", attr.Name, len(attr.Data))
}

func (r recordClass) VisitField(access bytecode.Access, name, descriptor, signature string, value any) bytecode.MemberVisitor {
	r.log("VisitField %d %s %s %q %v", access, name, descriptor, signature, value)
	return recordMember{r.recorder}
}

func (r recordClass) VisitMethod(access bytecode.Access, name, descriptor, signature string, exceptions []string) bytecode.CodeVisitor {
	r.log("VisitMethod %d %s %s %q %v", access, name, descriptor, signature, exceptions)
	return recordCode{recordMember{r.recorder}}
}

func (r recordClass) VisitEnd() { r.log("VisitEnd") }

type recordMember struct{ *recorder }

func (r recordMember) VisitAnnotation(descriptor string, visible bool) bytecode.AnnotationVisitor {
	r.log("member VisitAnnotation %s %t", descriptor, visible)
	return recordAnnotation{r.recorder}
}

func (r recordMember) VisitAttribute(attr *bytecode.Attribute) {
	r.log("member VisitAttribute %s %d", attr.Name, len(attr.Data))
}

func (r recordMember) VisitEnd() { r.log("member VisitEnd") }

type recordCode struct{ recordMember }

func (r recordCode) VisitAnnotationDefault() bytecode.AnnotationVisitor {
	r.log("VisitAnnotationDefault")
	return recordAnnotation{r.recorder}
}

func (r recordCode) VisitParameterAnnotation(parameter int, descriptor string, visible bool) bytecode.AnnotationVisitor {
	r.log("VisitParameterAnnotation %d %s %t", parameter, descriptor, visible)
	return recordAnnotation{r.recorder}
}

func (r recordCode) VisitCode() { r.log("VisitCode") }

func (r recordCode) VisitFrame(kind bytecode.FrameKind) { r.log("VisitFrame %s", kind) }

func (r recordCode) VisitInsn(opcode bytecode.Opcode) { r.log("VisitInsn %s", opcode) }

func (r recordCode) VisitIntInsn(opcode bytecode.Opcode, operand int32) {
	r.log("VisitIntInsn %s %d", opcode, operand)
}

func (r recordCode) VisitVarInsn(opcode bytecode.Opcode, slot int) {
	r.log("VisitVarInsn %s %d", opcode, slot)
}

func (r recordCode) VisitTypeInsn(opcode bytecode.Opcode, name string) {
	r.log("VisitTypeInsn %s %s", opcode, name)
}

func (r recordCode) VisitFieldInsn(opcode bytecode.Opcode, owner, name, descriptor string) {
	r.log("VisitFieldInsn %s %s %s %s", opcode, owner, name, descriptor)
}

func (r recordCode) VisitMethodInsn(opcode bytecode.Opcode, owner, name, descriptor string) {
	r.log("VisitMethodInsn %s %s %s %s", opcode, owner, name, descriptor)
}

func (r recordCode) VisitJumpInsn(opcode bytecode.Opcode, target *bytecode.Label) {
	r.log("VisitJumpInsn %s %p", opcode, target)
}

func (r recordCode) VisitLabel(label *bytecode.Label) { r.log("VisitLabel %p", label) }

func (r recordCode) VisitLdcInsn(value any) { r.log("VisitLdcInsn %v", value) }

func (r recordCode) VisitIincInsn(slot, increment int) {
	r.log("VisitIincInsn %d %d", slot, increment)
}

func (r recordCode) VisitTableSwitchInsn(min, max int32, dflt *bytecode.Label, targets []*bytecode.Label) {
	r.log("VisitTableSwitchInsn %d %d %p %d", min, max, dflt, len(targets))
}

func (r recordCode) VisitLookupSwitchInsn(dflt *bytecode.Label, keys []int32, targets []*bytecode.Label) {
	r.log("VisitLookupSwitchInsn %p %v %d", dflt, keys, len(targets))
}

func (r recordCode) VisitMultiANewArrayInsn(descriptor string, dims int) {
	r.log("VisitMultiANewArrayInsn %s %d", descriptor, dims)
}

func (r recordCode) VisitTryCatchBlock(start, end, handler *bytecode.Label, catchType string) {
	r.log("VisitTryCatchBlock %p %p %p %s", start, end, handler, catchType)
}

func (r recordCode) VisitLocalVariable(name, descriptor, signature string, start, end *bytecode.Label, slot int) {
	r.log("VisitLocalVariable %s %s %q %p %p %d", name, descriptor, signature, start, end, slot)
}

func (r recordCode) VisitLineNumber(line int, start *bytecode.Label) {
	r.log("VisitLineNumber %d %p", line, start)
}

func (r recordCode) VisitMaxs(maxStack, maxLocals int) {
	r.log("VisitMaxs %d %d", maxStack, maxLocals)
}

type recordAnnotation struct{ *recorder }

func (r recordAnnotation) Visit(name string, value any) { r.log("ann Visit %q %v", name, value) }

func (r recordAnnotation) VisitEnum(name, descriptor, value string) {
	r.log("ann VisitEnum %q %s %s", name, descriptor, value)
}

func (r recordAnnotation) VisitAnnotation(name, descriptor string) bytecode.AnnotationVisitor {
	r.log("ann VisitAnnotation %q %s", name, descriptor)
	return recordAnnotation{r.recorder}
}

func (r recordAnnotation) VisitArray(name string) bytecode.AnnotationVisitor {
	r.log("ann VisitArray %q", name)
	return recordAnnotation{r.recorder}
}

func (r recordAnnotation) VisitEnd() { r.log("ann VisitEnd") }
