package trace

import (
	"testing"

	"github.com/retronym/asm/bytecode"
)

func TestAnnotationRendering(t *testing.T) {
	mt := NewMemberTracer(nil)
	av := mt.VisitAnnotation("Lcom/example/Marker;", true)
	av.Visit("name", "value")
	av.Visit("count", int32(3))
	av.VisitEnum("kind", "Lcom/example/Kind;", "ALPHA")

	nested := av.VisitAnnotation("extra", "Lcom/example/Extra;")
	nested.Visit("flag", true)
	nested.VisitEnd()

	arr := av.VisitArray("values")
	arr.Visit("", int32(1))
	arr.Visit("", int32(2))
	arr.VisitEnd()

	av.VisitEnd()
	mt.VisitEnd()

	want := `  @Lcom/example/Marker;(name="value", count=3, kind=Lcom/example/Kind;.ALPHA, ` +
		`extra=@Lcom/example/Extra;(flag=true), values={1, 2})` + "\n"
	if got := mt.Text().String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestAnnotationInvisible(t *testing.T) {
	mt := NewMemberTracer(nil)
	av := mt.VisitAnnotation("Lcom/example/Hidden;", false)
	av.VisitEnd()
	mt.VisitEnd()

	want := "  @Lcom/example/Hidden;() // invisible\n"
	if got := mt.Text().String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAnnotationDeferredValues(t *testing.T) {
	mt := NewMemberTracer(nil)
	av := mt.VisitAnnotation("LA;", true)

	// Another member event lands before the annotation's values do.
	mt.VisitAttribute(&bytecode.Attribute{Name: "Custom", Data: []byte{1, 2}})

	av.Visit("", int32(7))
	av.VisitEnd()
	mt.VisitEnd()

	want := "  @LA;(7)\n  ATTRIBUTE Custom : 2 bytes\n"
	if got := mt.Text().String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCodeTracerAnnotationEvents(t *testing.T) {
	t.Run("annotation default", func(t *testing.T) {
		ct := NewCodeTracer(nil)
		av := ct.VisitAnnotationDefault()
		av.Visit("", "fallback")
		av.VisitEnd()
		ct.VisitEnd()

		want := "    default=\"fallback\"\n"
		if got := ct.Text().String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("parameter annotations", func(t *testing.T) {
		ct := NewCodeTracer(nil)
		ct.VisitParameterAnnotation(0, "LA;", true).VisitEnd()
		ct.VisitParameterAnnotation(1, "LB;", false).VisitEnd()
		ct.VisitEnd()

		want := "    @LA;() // parameter 0\n    @LB;() // invisible, parameter 1\n"
		if got := ct.Text().String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestAnnotationForwardsDownstream(t *testing.T) {
	direct := &recorder{}
	drive := func(av bytecode.AnnotationVisitor) {
		av.Visit("n", int64(5))
		av.VisitEnum("e", "LE;", "X")
		av.VisitArray("a").VisitEnd()
		av.VisitEnd()
	}
	drive(recordAnnotation{direct})

	forwarded := &recorder{}
	mt := NewMemberTracer(recordMember{forwarded})
	drive(mt.VisitAnnotation("LA;", true))

	// Drop the member-level VisitAnnotation event before comparing.
	got := forwarded.events[1:]
	for i, want := range direct.events {
		if i >= len(got) || got[i] != want {
			t.Fatalf("event %d: got %q, want %q", i, got, direct.events)
		}
	}
}
