package trace

import (
	"fmt"
	"strings"

	"github.com/retronym/asm/bytecode"
)

// MemberTracer renders the events of one field and forwards them to an
// optional downstream member visitor. Its fragment buffer is owned by
// the class tracer that created it; the end event seals the buffer.
type MemberTracer struct {
	text   *Text
	buf    strings.Builder
	mv     bytecode.MemberVisitor
	indent string
}

func NewMemberTracer(mv bytecode.MemberVisitor) *MemberTracer {
	t := &MemberTracer{text: &Text{}, indent: "  "}
	if mv != nil {
		t.mv = mv
	}
	return t
}

// Text returns the tracer's fragment buffer.
func (t *MemberTracer) Text() *Text { return t.text }

func (t *MemberTracer) VisitAnnotation(descriptor string, visible bool) bytecode.AnnotationVisitor {
	at := annotationInto(t.text, t.indent, descriptor, visible)
	if t.mv != nil {
		at.av = t.mv.VisitAnnotation(descriptor, visible)
	}
	return at
}

func (t *MemberTracer) VisitAttribute(attr *bytecode.Attribute) {
	t.buf.Reset()
	fmt.Fprintf(&t.buf, "%sATTRIBUTE %s : %d bytes\n", t.indent, attr.Name, len(attr.Data))
	t.text.Add(t.buf.String())
	if t.mv != nil {
		t.mv.VisitAttribute(attr)
	}
}

func (t *MemberTracer) VisitEnd() {
	t.text.seal()
	if t.mv != nil {
		t.mv.VisitEnd()
	}
}

// annotationInto renders the opening and closing fragments of one
// annotation around a child buffer that the returned tracer fills in
// as values arrive.
func annotationInto(text *Text, indent, descriptor string, visible bool) *AnnotationTracer {
	text.Add(indent + "@" + descriptor + "(")
	at := NewAnnotationTracer(nil)
	text.AddChild(at.text)
	if visible {
		text.Add(")\n")
	} else {
		text.Add(") // invisible\n")
	}
	return at
}
