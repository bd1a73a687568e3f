// Package classfile reads the binary JVM class file container: constant
// pool, access flags, fields, methods and attributes. It resolves pool
// indices to names eagerly, so the rest of the module works with plain
// strings instead of pool handles.
package classfile

const magic = 0xCAFEBABE

// ObjectClass is the internal name of the implicit root type.
const ObjectClass = "java/lang/Object"

type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }

// ClassFile is one parsed class. Class, super and interface references
// are resolved to internal names (slash-separated).
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         ConstantPool
	Access       AccessFlags
	ThisClass    string
	SuperClass   string
	Interfaces   []string
	Fields       []Member
	Methods      []Member
	Attrs        []Attribute
}

// Attr returns the first class-level attribute with the given name, or
// nil if the class has none.
func (cf *ClassFile) Attr(name string) *Attribute {
	return findAttr(cf.Attrs, name)
}

// Member is a field or a method; both share the same container layout.
type Member struct {
	Access     AccessFlags
	Name       string
	Descriptor string
	Attrs      []Attribute
}

func (m *Member) Attr(name string) *Attribute {
	return findAttr(m.Attrs, name)
}

func findAttr(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}
