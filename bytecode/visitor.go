// Package bytecode defines the structural event surface for JVM
// classes: visitor interfaces for class, member, code and annotation
// scope, the opcode name tables, and a driver that fires the events
// from a parsed class file.
//
// Visitors form open-ended chains: any implementation may wrap another
// of the same scope and forward events to it. A nil downstream is
// always legal.
package bytecode

// Access widens the container's 16-bit flag word so that synthesized
// pseudo-flags fit alongside the real ones.
type Access uint32

const (
	AccPublic       Access = 0x0001
	AccPrivate      Access = 0x0002
	AccProtected    Access = 0x0004
	AccStatic       Access = 0x0008
	AccFinal        Access = 0x0010
	AccSuper        Access = 0x0020
	AccSynchronized Access = 0x0020
	AccVolatile     Access = 0x0040
	AccBridge       Access = 0x0040
	AccTransient    Access = 0x0080
	AccVarargs      Access = 0x0080
	AccNative       Access = 0x0100
	AccInterface    Access = 0x0200
	AccAbstract     Access = 0x0400
	AccStrict       Access = 0x0800
	AccSynthetic    Access = 0x1000
	AccAnnotation   Access = 0x2000
	AccEnum         Access = 0x4000
	AccModule       Access = 0x8000

	// AccDeprecated is synthesized from the Deprecated attribute; it
	// has no bit in the container format.
	AccDeprecated Access = 0x20000
)

func (a Access) Has(flag Access) bool { return a&flag != 0 }

// Label identifies one position in a method body. Identity is pointer
// identity: the same position is always represented by the same Label,
// no matter how many events reference it.
type Label struct {
	offset int
}

// Offset returns the bytecode offset the label marks.
func (l *Label) Offset() int { return l.offset }

// Attribute is a non-standard attribute crossing the event surface as
// an opaque name plus payload.
type Attribute struct {
	Name string
	Data []byte
}

// TypeRef is a class constant loaded by LDC, distinguished from string
// constants.
type TypeRef string

// ClassVisitor receives the events of one class, in the fixed order:
// Visit, then source and outer class info, then inner classes,
// annotations and attributes, then fields and methods in declaration
// order, then VisitEnd.
type ClassVisitor interface {
	// Visit starts the class. version packs the container version as
	// minor<<16 | major.
	Visit(version uint32, access Access, name, signature, superName string, interfaces []string)
	VisitSource(file, debug string)
	VisitOuterClass(owner, name, descriptor string)
	VisitInnerClass(name, outerName, innerName string, access Access)
	VisitAnnotation(descriptor string, visible bool) AnnotationVisitor
	VisitAttribute(attr *Attribute)
	// VisitField starts a field; the returned visitor (which may be
	// nil) receives the field's own events.
	VisitField(access Access, name, descriptor, signature string, value any) MemberVisitor
	// VisitMethod starts a method; the returned visitor (which may be
	// nil) receives the method's own events, including its body.
	VisitMethod(access Access, name, descriptor, signature string, exceptions []string) CodeVisitor
	VisitEnd()
}

// MemberVisitor receives the events common to fields and methods.
type MemberVisitor interface {
	VisitAnnotation(descriptor string, visible bool) AnnotationVisitor
	VisitAttribute(attr *Attribute)
	VisitEnd()
}

// CodeVisitor receives the events of one method, member-scope events
// first, then VisitCode through VisitMaxs for the body if there is one,
// then VisitEnd.
type CodeVisitor interface {
	MemberVisitor
	VisitAnnotationDefault() AnnotationVisitor
	VisitParameterAnnotation(parameter int, descriptor string, visible bool) AnnotationVisitor
	VisitCode()
	VisitFrame(kind FrameKind)
	VisitInsn(opcode Opcode)
	VisitIntInsn(opcode Opcode, operand int32)
	VisitVarInsn(opcode Opcode, slot int)
	VisitTypeInsn(opcode Opcode, name string)
	VisitFieldInsn(opcode Opcode, owner, name, descriptor string)
	VisitMethodInsn(opcode Opcode, owner, name, descriptor string)
	VisitJumpInsn(opcode Opcode, target *Label)
	VisitLabel(label *Label)
	VisitLdcInsn(value any)
	VisitIincInsn(slot, increment int)
	VisitTableSwitchInsn(min, max int32, dflt *Label, targets []*Label)
	VisitLookupSwitchInsn(dflt *Label, keys []int32, targets []*Label)
	VisitMultiANewArrayInsn(descriptor string, dims int)
	VisitTryCatchBlock(start, end, handler *Label, catchType string)
	VisitLocalVariable(name, descriptor, signature string, start, end *Label, slot int)
	VisitLineNumber(line int, start *Label)
	VisitMaxs(maxStack, maxLocals int)
}

// AnnotationVisitor receives the values of one annotation. name is
// empty for array element values.
type AnnotationVisitor interface {
	Visit(name string, value any)
	VisitEnum(name, descriptor, value string)
	VisitAnnotation(name, descriptor string) AnnotationVisitor
	VisitArray(name string) AnnotationVisitor
	VisitEnd()
}

// FrameKind classifies a stack map frame snapshot.
type FrameKind uint8

const (
	FrameSame FrameKind = iota
	FrameSame1
	FrameChop
	FrameAppend
	FrameFull
)

var frameKindNames = [...]string{"SAME", "SAME1", "CHOP", "APPEND", "FULL"}

func (k FrameKind) String() string {
	if int(k) < len(frameKindNames) {
		return frameKindNames[k]
	}
	return "UNKNOWN"
}
