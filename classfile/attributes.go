package classfile

// Attribute is one attribute as it appears in the container: a resolved
// name plus the undecoded payload. Payloads are decoded on demand by
// the As* methods, so unknown attributes survive untouched.
type Attribute struct {
	Name string
	Data []byte
}

// Attribute names decoded by this package.
const (
	AttrCode                          = "Code"
	AttrConstantValue                 = "ConstantValue"
	AttrDeprecated                    = "Deprecated"
	AttrEnclosingMethod               = "EnclosingMethod"
	AttrExceptions                    = "Exceptions"
	AttrInnerClasses                  = "InnerClasses"
	AttrLineNumberTable               = "LineNumberTable"
	AttrLocalVariableTable            = "LocalVariableTable"
	AttrSignature                     = "Signature"
	AttrSourceDebugExtension          = "SourceDebugExtension"
	AttrSourceFile                    = "SourceFile"
	AttrStackMapTable                 = "StackMapTable"
	AttrSynthetic                     = "Synthetic"
	AttrAnnotationDefault             = "AnnotationDefault"
	AttrVisibleAnnotations            = "RuntimeVisibleAnnotations"
	AttrInvisibleAnnotations          = "RuntimeInvisibleAnnotations"
	AttrVisibleParameterAnnotations   = "RuntimeVisibleParameterAnnotations"
	AttrInvisibleParameterAnnotations = "RuntimeInvisibleParameterAnnotations"
)

// Code is a decoded Code attribute. Bytecode stays raw; instruction
// decoding belongs to the bytecode package.
type Code struct {
	MaxStack  uint16
	MaxLocals uint16
	Bytecode  []byte
	Handlers  []Handler
	Attrs     []Attribute
}

// Handler is one exception table entry. CatchType is the internal name
// of the caught class, empty for a catch-all entry.
type Handler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType string
}

func (c *Code) Attr(name string) *Attribute {
	return findAttr(c.Attrs, name)
}

func (a *Attribute) AsCode(cp ConstantPool) (*Code, error) {
	c := &cursor{data: a.Data}
	code := &Code{
		MaxStack:  c.u2(),
		MaxLocals: c.u2(),
	}
	code.Bytecode = c.bytes(int(c.u4()))
	handlers := int(c.u2())
	code.Handlers = make([]Handler, 0, handlers)
	for i := 0; i < handlers && c.err == nil; i++ {
		code.Handlers = append(code.Handlers, Handler{
			StartPC:   c.u2(),
			EndPC:     c.u2(),
			HandlerPC: c.u2(),
			CatchType: cp.ClassName(c.u2()),
		})
	}
	var err error
	code.Attrs, err = readAttributes(c, cp)
	if err != nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	return code, nil
}

type LineNumber struct {
	PC   uint16
	Line uint16
}

func (a *Attribute) AsLineNumbers() ([]LineNumber, error) {
	c := &cursor{data: a.Data}
	count := int(c.u2())
	lines := make([]LineNumber, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		lines = append(lines, LineNumber{PC: c.u2(), Line: c.u2()})
	}
	return lines, c.err
}

// LocalVar is one local variable table entry, with name and descriptor
// resolved. The variable is live over [StartPC, StartPC+Length).
type LocalVar struct {
	StartPC    uint16
	Length     uint16
	Name       string
	Descriptor string
	Slot       uint16
}

func (a *Attribute) AsLocalVars(cp ConstantPool) ([]LocalVar, error) {
	c := &cursor{data: a.Data}
	count := int(c.u2())
	vars := make([]LocalVar, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		vars = append(vars, LocalVar{
			StartPC:    c.u2(),
			Length:     c.u2(),
			Name:       cp.Utf8(c.u2()),
			Descriptor: cp.Utf8(c.u2()),
			Slot:       c.u2(),
		})
	}
	return vars, c.err
}

// Frame is one stack map frame, reduced to its tag and offset delta.
// Verification type payloads are skipped; the trace surface only marks
// frame positions.
type Frame struct {
	Tag         uint8
	OffsetDelta int
}

func (a *Attribute) AsFrames() ([]Frame, error) {
	c := &cursor{data: a.Data}
	count := int(c.u2())
	frames := make([]Frame, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		tag := c.u1()
		var delta int
		switch {
		case tag <= 63: // same_frame
			delta = int(tag)
		case tag <= 127: // same_locals_1_stack_item_frame
			delta = int(tag) - 64
			c.skipVerificationType()
		case tag == 247: // same_locals_1_stack_item_frame_extended
			delta = int(c.u2())
			c.skipVerificationType()
		case tag >= 248 && tag <= 251: // chop_frame, same_frame_extended
			delta = int(c.u2())
		case tag >= 252 && tag <= 254: // append_frame
			delta = int(c.u2())
			for k := 0; k < int(tag)-251; k++ {
				c.skipVerificationType()
			}
		case tag == 255: // full_frame
			delta = int(c.u2())
			for k, n := 0, int(c.u2()); k < n && c.err == nil; k++ {
				c.skipVerificationType()
			}
			for k, n := 0, int(c.u2()); k < n && c.err == nil; k++ {
				c.skipVerificationType()
			}
		default:
			c.fail("reserved stack map frame tag %d", tag)
		}
		frames = append(frames, Frame{Tag: tag, OffsetDelta: delta})
	}
	return frames, c.err
}

func (c *cursor) skipVerificationType() {
	switch tag := c.u1(); tag {
	case 7, 8: // Object_variable_info, Uninitialized_variable_info
		c.u2()
	}
}

// InnerClass is one InnerClasses entry with all references resolved.
type InnerClass struct {
	Name      string
	OuterName string
	InnerName string
	Access    AccessFlags
}

func (a *Attribute) AsInnerClasses(cp ConstantPool) ([]InnerClass, error) {
	c := &cursor{data: a.Data}
	count := int(c.u2())
	classes := make([]InnerClass, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		classes = append(classes, InnerClass{
			Name:      cp.ClassName(c.u2()),
			OuterName: cp.ClassName(c.u2()),
			InnerName: cp.Utf8(c.u2()),
			Access:    AccessFlags(c.u2()),
		})
	}
	return classes, c.err
}

// AsEnclosingMethod resolves an EnclosingMethod attribute. Method name
// and descriptor are empty when the class is not enclosed in a method.
func (a *Attribute) AsEnclosingMethod(cp ConstantPool) (owner, name, descriptor string, err error) {
	c := &cursor{data: a.Data}
	owner = cp.ClassName(c.u2())
	name, descriptor = cp.NameAndType(c.u2())
	return owner, name, descriptor, c.err
}

func (a *Attribute) AsConstantValue(cp ConstantPool) (any, error) {
	c := &cursor{data: a.Data}
	index := c.u2()
	if c.err != nil {
		return nil, c.err
	}
	return cp.Value(index), nil
}

func (a *Attribute) AsExceptions(cp ConstantPool) ([]string, error) {
	c := &cursor{data: a.Data}
	count := int(c.u2())
	names := make([]string, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		names = append(names, cp.ClassName(c.u2()))
	}
	return names, c.err
}

func (a *Attribute) AsUtf8(cp ConstantPool) (string, error) {
	c := &cursor{data: a.Data}
	index := c.u2()
	if c.err != nil {
		return "", c.err
	}
	return cp.Utf8(index), nil
}

// Annotation is a decoded runtime annotation with element values
// resolved against the pool.
type Annotation struct {
	Type   string
	Values []NamedValue
}

type NamedValue struct {
	Name  string
	Value ElementValue
}

// ElementValue is one annotation element value. Exactly one of the
// payload fields is meaningful, selected by Kind (the element value
// tag byte from the container format).
type ElementValue struct {
	Kind      byte
	Const     any    // B C D F I J S Z s c: resolved constant
	EnumType  string // e
	EnumConst string // e
	Nested    *Annotation
	Elems     []ElementValue // [
}

func (a *Attribute) AsAnnotations(cp ConstantPool) ([]Annotation, error) {
	c := &cursor{data: a.Data}
	anns := readAnnotations(c, cp)
	return anns, c.err
}

func (a *Attribute) AsParameterAnnotations(cp ConstantPool) ([][]Annotation, error) {
	c := &cursor{data: a.Data}
	count := int(c.u1())
	params := make([][]Annotation, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		params = append(params, readAnnotations(c, cp))
	}
	return params, c.err
}

func (a *Attribute) AsAnnotationDefault(cp ConstantPool) (ElementValue, error) {
	c := &cursor{data: a.Data}
	v := readElementValue(c, cp)
	return v, c.err
}

func readAnnotations(c *cursor, cp ConstantPool) []Annotation {
	count := int(c.u2())
	anns := make([]Annotation, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		anns = append(anns, readAnnotation(c, cp))
	}
	return anns
}

func readAnnotation(c *cursor, cp ConstantPool) Annotation {
	ann := Annotation{Type: cp.Utf8(c.u2())}
	pairs := int(c.u2())
	for i := 0; i < pairs && c.err == nil; i++ {
		ann.Values = append(ann.Values, NamedValue{
			Name:  cp.Utf8(c.u2()),
			Value: readElementValue(c, cp),
		})
	}
	return ann
}

func readElementValue(c *cursor, cp ConstantPool) ElementValue {
	v := ElementValue{Kind: c.u1()}
	switch v.Kind {
	case 'B', 'C', 'I', 'S':
		if n, ok := cp.Value(c.u2()).(int32); ok {
			v.Const = n
		}
	case 'Z':
		if n, ok := cp.Value(c.u2()).(int32); ok {
			v.Const = n != 0
		}
	case 'D', 'F', 'J':
		v.Const = cp.Value(c.u2())
	case 's':
		v.Const = cp.Utf8(c.u2())
	case 'c':
		v.Const = ClassValue(cp.Utf8(c.u2()))
	case 'e':
		v.EnumType = cp.Utf8(c.u2())
		v.EnumConst = cp.Utf8(c.u2())
	case '@':
		nested := readAnnotation(c, cp)
		v.Nested = &nested
	case '[':
		count := int(c.u2())
		for i := 0; i < count && c.err == nil; i++ {
			v.Elems = append(v.Elems, readElementValue(c, cp))
		}
	default:
		c.fail("unknown element value tag %q", v.Kind)
	}
	return v
}
