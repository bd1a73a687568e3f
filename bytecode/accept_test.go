package bytecode_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retronym/asm/bytecode"
	"github.com/retronym/asm/classfile"
	"github.com/retronym/asm/trace"
)

// image builds a class file byte by byte.
type image struct {
	bytes.Buffer
}

func (b *image) u1(v int) { b.WriteByte(byte(v)) }

func (b *image) u2(v int) { b.Write([]byte{byte(v >> 8), byte(v)}) }

func (b *image) u4(v int) {
	b.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func (b *image) utf8(s string) {
	b.u1(1)
	b.u2(len(s))
	b.WriteString(s)
}

func (b *image) class(name int) {
	b.u1(7)
	b.u2(name)
}

func (b *image) str(utf8 int) {
	b.u1(8)
	b.u2(utf8)
}

func (b *image) ref(tag, a, c int) {
	b.u1(tag)
	b.u2(a)
	b.u2(c)
}

// helloClass synthesizes the container bytes of a Hello class with a
// printing main method and a private loop method carrying line number
// debug info.
func helloClass() []byte {
	b := &image{}
	b.u4(0xCAFEBABE)
	b.u2(0)  // minor
	b.u2(49) // major

	b.u2(27)                         // constant pool count
	b.utf8("Hello")                  // 1
	b.class(1)                       // 2
	b.utf8("java/lang/Object")       // 3
	b.class(3)                       // 4
	b.utf8("main")                   // 5
	b.utf8("([Ljava/lang/String;)V") // 6
	b.utf8("Code")                   // 7
	b.utf8("java/lang/System")       // 8
	b.class(8)                       // 9
	b.utf8("out")                    // 10
	b.utf8("Ljava/io/PrintStream;")  // 11
	b.ref(12, 10, 11)                // 12: NameAndType
	b.ref(9, 9, 12)                  // 13: Fieldref
	b.utf8("hello")                  // 14
	b.str(14)                        // 15
	b.utf8("java/io/PrintStream")    // 16
	b.class(16)                      // 17
	b.utf8("println")                // 18
	b.utf8("(Ljava/lang/String;)V")  // 19
	b.ref(12, 18, 19)                // 20: NameAndType
	b.ref(10, 17, 20)                // 21: Methodref
	b.utf8("SourceFile")             // 22
	b.utf8("Hello.java")             // 23
	b.utf8("loop")                   // 24
	b.utf8("()V")                    // 25
	b.utf8("LineNumberTable")        // 26

	b.u2(0x0031) // public final super
	b.u2(2)      // this: Hello
	b.u2(4)      // super: java/lang/Object
	b.u2(0)      // interfaces
	b.u2(0)      // fields

	b.u2(2) // methods

	// public static main ([Ljava/lang/String;)V
	b.u2(0x0009)
	b.u2(5)
	b.u2(6)
	b.u2(1) // one attribute
	b.u2(7) // Code
	b.u4(21)
	b.u2(2) // max stack
	b.u2(1) // max locals
	b.u4(9)
	b.Write([]byte{
		0xB2, 0x00, 0x0D, // getstatic #13
		0x12, 0x0F,       // ldc #15
		0xB6, 0x00, 0x15, // invokevirtual #21
		0xB1,             // return
	})
	b.u2(0) // exception table
	b.u2(0) // code attributes

	// private loop ()V, with a line number entry
	b.u2(0x0002)
	b.u2(24)
	b.u2(25)
	b.u2(1) // one attribute
	b.u2(7) // Code
	b.u4(30)
	b.u2(1) // max stack
	b.u2(1) // max locals
	b.u4(6)
	b.Write([]byte{
		0x03,             // iconst_0
		0x3B,             // istore_0
		0x1A,             // iload_0
		0xA7, 0xFF, 0xFF, // goto offset 2
	})
	b.u2(0)  // exception table
	b.u2(1)  // code attributes
	b.u2(26) // LineNumberTable
	b.u4(6)
	b.u2(1)
	b.u2(0)  // pc
	b.u2(42) // line

	b.u2(1) // class attributes
	b.u2(22)
	b.u4(2)
	b.u2(23)

	return b.Bytes()
}

const helloListing = `// class version 49.0 (49)
// access flags 49
public final class Hello {

  // compiled from: Hello.java

  // access flags 9
  public static main ([Ljava/lang/String;)V
    GETSTATIC java/lang/System out Ljava/io/PrintStream;
    LDC "hello"
    INVOKEVIRTUAL java/io/PrintStream println (Ljava/lang/String;)V
    RETURN
    MAXSTACK = 2
    MAXLOCALS = 1

  // access flags 2
  private loop ()V
   L0
    LINENUMBER 42 L0
    ICONST_0
    ISTORE 0
   L1
    ILOAD 0
    GOTO L1
    MAXSTACK = 1
    MAXLOCALS = 1
}
`

func TestAcceptRendersHello(t *testing.T) {
	cf, err := classfile.Parse(helloClass())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cf.ThisClass != "Hello" || cf.SuperClass != "java/lang/Object" {
		t.Fatalf("parsed wrong class: %s extends %s", cf.ThisClass, cf.SuperClass)
	}

	var out strings.Builder
	tracer := trace.NewClassTracer(nil, &out)
	if err := bytecode.Accept(cf, tracer, bytecode.Options{}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := tracer.Err(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if got := out.String(); got != helloListing {
		t.Errorf("listing mismatch:\ngot:\n%s\nwant:\n%s", got, helloListing)
	}
}

func TestAcceptSkipDebug(t *testing.T) {
	cf, err := classfile.Parse(helloClass())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var out strings.Builder
	if err := bytecode.Accept(cf, trace.NewClassTracer(nil, &out), bytecode.Options{SkipDebug: true}); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	got := out.String()
	if strings.Contains(got, "LINENUMBER") {
		t.Errorf("debug info rendered despite SkipDebug:\n%s", got)
	}
	// The branch target keeps its label, renumbered from zero.
	if !strings.Contains(got, "    GOTO L0\n") {
		t.Errorf("branch label missing:\n%s", got)
	}
}

func TestAcceptDeterministic(t *testing.T) {
	cf, err := classfile.Parse(helloClass())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var first, second strings.Builder
	if err := bytecode.Accept(cf, trace.NewClassTracer(nil, &first), bytecode.Options{}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := bytecode.Accept(cf, trace.NewClassTracer(nil, &second), bytecode.Options{}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("renderings differ:\n%s\nvs:\n%s", first.String(), second.String())
	}
}

func TestAcceptRejectsMalformedCode(t *testing.T) {
	b := &image{}
	b.u4(0xCAFEBABE)
	b.u2(0)
	b.u2(49)
	b.u2(8)                    // constant pool count
	b.utf8("Bad")              // 1
	b.class(1)                 // 2
	b.utf8("java/lang/Object") // 3
	b.class(3)                 // 4
	b.utf8("f")                // 5
	b.utf8("()V")              // 6
	b.utf8("Code")             // 7

	b.u2(0x0021)
	b.u2(2)
	b.u2(4)
	b.u2(0) // interfaces
	b.u2(0) // fields

	b.u2(1) // methods
	b.u2(0x0001)
	b.u2(5)
	b.u2(6)
	b.u2(1) // one attribute
	b.u2(7) // Code
	b.u4(14)
	b.u2(0) // max stack
	b.u2(1) // max locals
	b.u4(2)
	b.Write([]byte{0x11, 0x00}) // sipush cut off mid instruction
	b.u2(0)                     // exception table
	b.u2(0)                     // code attributes

	b.u2(0) // class attributes

	cf, err := classfile.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var out strings.Builder
	if err := bytecode.Accept(cf, trace.NewClassTracer(nil, &out), bytecode.Options{}); err == nil {
		t.Error("expected an error for truncated bytecode")
	}
}
