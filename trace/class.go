package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/retronym/asm/bytecode"
)

// ClassTracer renders a whole class as a disassembled listing. Member
// headers are rendered inline; member bodies land in child buffers
// created by VisitField and VisitMethod, so the listing stays in
// declaration order even though the bodies arrive later. VisitEnd
// flattens the document and writes it once.
type ClassTracer struct {
	text *Text
	buf  strings.Builder
	cv   bytecode.ClassVisitor
	w    io.Writer
	err  error
}

// NewClassTracer wraps cv, which may be nil, and writes the finished
// listing to w when the class ends.
func NewClassTracer(cv bytecode.ClassVisitor, w io.Writer) *ClassTracer {
	t := &ClassTracer{text: &Text{}, w: w}
	if cv != nil {
		t.cv = cv
	}
	return t
}

// Err reports the write error of the final flatten, if any.
func (t *ClassTracer) Err() error { return t.err }

func (t *ClassTracer) Visit(version uint32, access bytecode.Access, name, signature, superName string, interfaces []string) {
	major := version & 0xFFFF
	minor := version >> 16
	t.buf.Reset()
	fmt.Fprintf(&t.buf, "// class version %d.%d (%d)\n", major, minor, version)
	if access.Has(bytecode.AccDeprecated) {
		t.buf.WriteString("// DEPRECATED\n")
	}
	fmt.Fprintf(&t.buf, "// access flags %d\n", access)
	appendAccess(&t.buf, access&^bytecode.AccSuper, kindClass)
	switch {
	case access.Has(bytecode.AccInterface):
		t.buf.WriteString("interface ")
	case access.Has(bytecode.AccEnum):
		t.buf.WriteString("enum ")
	default:
		t.buf.WriteString("class ")
	}
	t.buf.WriteString(name)
	t.buf.WriteByte(' ')
	if superName != "" && superName != "java/lang/Object" {
		t.buf.WriteString("extends " + superName + " ")
	}
	if len(interfaces) > 0 {
		t.buf.WriteString("implements ")
		for _, itf := range interfaces {
			t.buf.WriteString(itf + " ")
		}
	}
	if signature != "" {
		t.buf.WriteString("/* " + signature + " */ ")
	}
	t.buf.WriteString("{\n\n")
	t.text.Add(t.buf.String())

	if t.cv != nil {
		t.cv.Visit(version, access, name, signature, superName, interfaces)
	}
}

func (t *ClassTracer) VisitSource(file, debug string) {
	t.buf.Reset()
	if file != "" {
		t.buf.WriteString("  // compiled from: " + file + "\n")
	}
	if debug != "" {
		t.buf.WriteString("  // debug info: " + debug + "\n")
	}
	if t.buf.Len() > 0 {
		t.text.Add(t.buf.String())
	}

	if t.cv != nil {
		t.cv.VisitSource(file, debug)
	}
}

func (t *ClassTracer) VisitOuterClass(owner, name, descriptor string) {
	t.text.Add(fmt.Sprintf("  OUTERCLASS %s %s %s\n", owner, name, descriptor))
	if t.cv != nil {
		t.cv.VisitOuterClass(owner, name, descriptor)
	}
}

func (t *ClassTracer) VisitInnerClass(name, outerName, innerName string, access bytecode.Access) {
	t.text.Add(fmt.Sprintf("  INNERCLASS %s %s %s %d\n", name, outerName, innerName, access))
	if t.cv != nil {
		t.cv.VisitInnerClass(name, outerName, innerName, access)
	}
}

func (t *ClassTracer) VisitAnnotation(descriptor string, visible bool) bytecode.AnnotationVisitor {
	t.text.Add("\n")
	at := annotationInto(t.text, "  ", descriptor, visible)
	if t.cv != nil {
		at.av = t.cv.VisitAnnotation(descriptor, visible)
	}
	return at
}

func (t *ClassTracer) VisitAttribute(attr *bytecode.Attribute) {
	t.text.Add(fmt.Sprintf("\n  ATTRIBUTE %s : %d bytes\n", attr.Name, len(attr.Data)))
	if t.cv != nil {
		t.cv.VisitAttribute(attr)
	}
}

func (t *ClassTracer) VisitField(access bytecode.Access, name, descriptor, signature string, value any) bytecode.MemberVisitor {
	t.buf.Reset()
	t.buf.WriteByte('\n')
	if access.Has(bytecode.AccDeprecated) {
		t.buf.WriteString("  // DEPRECATED\n")
	}
	fmt.Fprintf(&t.buf, "  // access flags %d\n", access)
	t.buf.WriteString("  ")
	appendAccess(&t.buf, access, kindField)
	if access.Has(bytecode.AccEnum) {
		t.buf.WriteString("enum ")
	}
	t.buf.WriteString(descriptor + " " + name)
	if value != nil {
		t.buf.WriteString(" = ")
		appendConst(&t.buf, value)
	}
	if signature != "" {
		t.buf.WriteString(" // " + signature)
	}
	t.buf.WriteByte('\n')
	t.text.Add(t.buf.String())

	var down bytecode.MemberVisitor
	if t.cv != nil {
		down = t.cv.VisitField(access, name, descriptor, signature, value)
	}
	ft := NewMemberTracer(down)
	t.text.AddChild(ft.text)
	return ft
}

func (t *ClassTracer) VisitMethod(access bytecode.Access, name, descriptor, signature string, exceptions []string) bytecode.CodeVisitor {
	t.buf.Reset()
	t.buf.WriteByte('\n')
	if access.Has(bytecode.AccDeprecated) {
		t.buf.WriteString("  // DEPRECATED\n")
	}
	fmt.Fprintf(&t.buf, "  // access flags %d\n", access)
	t.buf.WriteString("  ")
	appendAccess(&t.buf, access, kindMethod)
	t.buf.WriteString(name + " " + descriptor)
	if len(exceptions) > 0 {
		t.buf.WriteString(" throws")
		for _, ex := range exceptions {
			t.buf.WriteString(" " + ex)
		}
	}
	if signature != "" {
		t.buf.WriteString(" // " + signature)
	}
	t.buf.WriteByte('\n')
	t.text.Add(t.buf.String())

	var down bytecode.CodeVisitor
	if t.cv != nil {
		down = t.cv.VisitMethod(access, name, descriptor, signature, exceptions)
	}
	ct := NewCodeTracer(down)
	t.text.AddChild(ct.text)
	return ct
}

func (t *ClassTracer) VisitEnd() {
	t.text.Add("}\n")
	t.text.seal()
	if t.cv != nil {
		t.cv.VisitEnd()
	}

	var sb strings.Builder
	t.text.flatten(&sb)
	if _, err := io.WriteString(t.w, sb.String()); err != nil {
		t.err = err
	}
}
