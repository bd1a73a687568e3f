package trace

import (
	"strings"

	"github.com/retronym/asm/bytecode"
)

// AnnotationTracer renders the values of one annotation, comma
// separated, into its own fragment buffer. The surrounding tracer has
// already placed the buffer between the opening and closing fragments
// of the annotation, so values written later still land in the right
// spot.
type AnnotationTracer struct {
	text  *Text
	buf   strings.Builder
	av    bytecode.AnnotationVisitor
	count int
}

func NewAnnotationTracer(av bytecode.AnnotationVisitor) *AnnotationTracer {
	return &AnnotationTracer{text: &Text{}, av: av}
}

// Text returns the tracer's fragment buffer.
func (t *AnnotationTracer) Text() *Text { return t.text }

func (t *AnnotationTracer) lead(name string) {
	if t.count > 0 {
		t.buf.WriteString(", ")
	}
	t.count++
	if name != "" {
		t.buf.WriteString(name)
		t.buf.WriteByte('=')
	}
}

func (t *AnnotationTracer) Visit(name string, value any) {
	t.buf.Reset()
	t.lead(name)
	appendConst(&t.buf, value)
	t.text.Add(t.buf.String())
	if t.av != nil {
		t.av.Visit(name, value)
	}
}

func (t *AnnotationTracer) VisitEnum(name, descriptor, value string) {
	t.buf.Reset()
	t.lead(name)
	t.buf.WriteString(descriptor)
	t.buf.WriteByte('.')
	t.buf.WriteString(value)
	t.text.Add(t.buf.String())
	if t.av != nil {
		t.av.VisitEnum(name, descriptor, value)
	}
}

func (t *AnnotationTracer) VisitAnnotation(name, descriptor string) bytecode.AnnotationVisitor {
	t.buf.Reset()
	t.lead(name)
	t.buf.WriteByte('@')
	t.buf.WriteString(descriptor)
	t.buf.WriteByte('(')
	t.text.Add(t.buf.String())
	nested := NewAnnotationTracer(nil)
	t.text.AddChild(nested.text)
	t.text.Add(")")
	if t.av != nil {
		nested.av = t.av.VisitAnnotation(name, descriptor)
	}
	return nested
}

func (t *AnnotationTracer) VisitArray(name string) bytecode.AnnotationVisitor {
	t.buf.Reset()
	t.lead(name)
	t.buf.WriteByte('{')
	t.text.Add(t.buf.String())
	nested := NewAnnotationTracer(nil)
	t.text.AddChild(nested.text)
	t.text.Add("}")
	if t.av != nil {
		nested.av = t.av.VisitArray(name)
	}
	return nested
}

func (t *AnnotationTracer) VisitEnd() {
	t.text.seal()
	if t.av != nil {
		t.av.VisitEnd()
	}
}
