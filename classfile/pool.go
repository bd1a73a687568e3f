package classfile

import "math"

type ConstTag uint8

const (
	TagUtf8               ConstTag = 1
	TagInteger            ConstTag = 3
	TagFloat              ConstTag = 4
	TagLong               ConstTag = 5
	TagDouble             ConstTag = 6
	TagClass              ConstTag = 7
	TagString             ConstTag = 8
	TagFieldref           ConstTag = 9
	TagMethodref          ConstTag = 10
	TagInterfaceMethodref ConstTag = 11
	TagNameAndType        ConstTag = 12
	TagMethodHandle       ConstTag = 15
	TagMethodType         ConstTag = 16
	TagDynamic            ConstTag = 17
	TagInvokeDynamic      ConstTag = 18
	TagModule             ConstTag = 19
	TagPackage            ConstTag = 20
)

// Const is one constant pool slot. Str holds Utf8 payloads, Bits holds
// the raw bits of numeric constants, A and B hold index operands whose
// meaning depends on the tag. Long and double constants occupy two
// slots; the second slot has a zero tag.
type Const struct {
	Tag  ConstTag
	Str  string
	Bits uint64
	A, B uint16
}

// ConstantPool is indexed one-based, as in the container format.
type ConstantPool []Const

func (cp ConstantPool) at(index uint16) *Const {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return &cp[index-1]
}

func (cp ConstantPool) Utf8(index uint16) string {
	if c := cp.at(index); c != nil && c.Tag == TagUtf8 {
		return c.Str
	}
	return ""
}

// ClassName resolves a Class constant to its internal name.
func (cp ConstantPool) ClassName(index uint16) string {
	if c := cp.at(index); c != nil && c.Tag == TagClass {
		return cp.Utf8(c.A)
	}
	return ""
}

func (cp ConstantPool) NameAndType(index uint16) (name, descriptor string) {
	if c := cp.at(index); c != nil && c.Tag == TagNameAndType {
		return cp.Utf8(c.A), cp.Utf8(c.B)
	}
	return "", ""
}

// Ref resolves a Fieldref, Methodref or InterfaceMethodref constant.
func (cp ConstantPool) Ref(index uint16) (owner, name, descriptor string) {
	c := cp.at(index)
	if c == nil {
		return "", "", ""
	}
	switch c.Tag {
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		owner = cp.ClassName(c.A)
		name, descriptor = cp.NameAndType(c.B)
	}
	return
}

// DynamicRef resolves the name and descriptor of a Dynamic or
// InvokeDynamic constant. The bootstrap method is not resolved.
func (cp ConstantPool) DynamicRef(index uint16) (name, descriptor string) {
	if c := cp.at(index); c != nil && (c.Tag == TagDynamic || c.Tag == TagInvokeDynamic) {
		return cp.NameAndType(c.B)
	}
	return "", ""
}

// ClassValue marks a class constant resolved by Value, so callers can
// tell it apart from an ordinary string constant.
type ClassValue string

// MethodTypeValue marks a method type constant resolved by Value.
type MethodTypeValue string

// Value resolves a loadable constant to its Go value: int32, float32,
// int64, float64, string, ClassValue or MethodTypeValue. Returns nil
// for indices that do not name a loadable constant.
func (cp ConstantPool) Value(index uint16) any {
	c := cp.at(index)
	if c == nil {
		return nil
	}
	switch c.Tag {
	case TagInteger:
		return int32(uint32(c.Bits))
	case TagFloat:
		return math.Float32frombits(uint32(c.Bits))
	case TagLong:
		return int64(c.Bits)
	case TagDouble:
		return math.Float64frombits(c.Bits)
	case TagString:
		return cp.Utf8(c.A)
	case TagClass:
		return ClassValue(cp.Utf8(c.A))
	case TagMethodType:
		return MethodTypeValue(cp.Utf8(c.A))
	case TagDynamic:
		name, descriptor := cp.NameAndType(c.B)
		return name + " : " + descriptor
	}
	return nil
}
