package bytecode

import (
	"fmt"

	"github.com/retronym/asm/classfile"
)

// Options controls which events Accept emits.
type Options struct {
	// SkipDebug omits source debug info, line numbers and local
	// variable events.
	SkipDebug bool
}

// Accept walks a parsed class file and fires its events on cv, in the
// order the ClassVisitor contract requires. Decoding failures are
// returned as errors; nothing is emitted past the point of failure.
func Accept(cf *classfile.ClassFile, cv ClassVisitor, opts Options) error {
	pool := cf.Pool

	access := classAccess(cf.Access, cf.Attrs)
	version := uint32(cf.MinorVersion)<<16 | uint32(cf.MajorVersion)
	signature, err := attrUtf8(cf.Attr(classfile.AttrSignature), pool)
	if err != nil {
		return fmt.Errorf("class signature: %w", err)
	}
	cv.Visit(version, access, cf.ThisClass, signature, cf.SuperClass, cf.Interfaces)

	sourceFile, err := attrUtf8(cf.Attr(classfile.AttrSourceFile), pool)
	if err != nil {
		return fmt.Errorf("source file: %w", err)
	}
	var debug string
	if a := cf.Attr(classfile.AttrSourceDebugExtension); a != nil && !opts.SkipDebug {
		debug = string(a.Data)
	}
	if sourceFile != "" || debug != "" {
		cv.VisitSource(sourceFile, debug)
	}

	if a := cf.Attr(classfile.AttrEnclosingMethod); a != nil {
		owner, name, descriptor, err := a.AsEnclosingMethod(pool)
		if err != nil {
			return fmt.Errorf("enclosing method: %w", err)
		}
		cv.VisitOuterClass(owner, name, descriptor)
	}

	if err := acceptAnnotations(cf.Attrs, pool, cv.VisitAnnotation); err != nil {
		return fmt.Errorf("class annotations: %w", err)
	}
	acceptUnknownAttrs(cf.Attrs, classAttrNames, cv.VisitAttribute)

	if a := cf.Attr(classfile.AttrInnerClasses); a != nil {
		classes, err := a.AsInnerClasses(pool)
		if err != nil {
			return fmt.Errorf("inner classes: %w", err)
		}
		for _, ic := range classes {
			cv.VisitInnerClass(ic.Name, ic.OuterName, ic.InnerName, Access(ic.Access))
		}
	}

	for i := range cf.Fields {
		if err := acceptField(&cf.Fields[i], pool, cv); err != nil {
			return fmt.Errorf("field %s: %w", cf.Fields[i].Name, err)
		}
	}
	for i := range cf.Methods {
		if err := acceptMethod(&cf.Methods[i], pool, cv, opts); err != nil {
			return fmt.Errorf("method %s%s: %w", cf.Methods[i].Name, cf.Methods[i].Descriptor, err)
		}
	}

	cv.VisitEnd()
	return nil
}

var classAttrNames = map[string]bool{
	classfile.AttrSourceFile:           true,
	classfile.AttrSourceDebugExtension: true,
	classfile.AttrEnclosingMethod:      true,
	classfile.AttrInnerClasses:         true,
	classfile.AttrSignature:            true,
	classfile.AttrDeprecated:           true,
	classfile.AttrSynthetic:            true,
	classfile.AttrVisibleAnnotations:   true,
	classfile.AttrInvisibleAnnotations: true,
}

var fieldAttrNames = map[string]bool{
	classfile.AttrConstantValue:        true,
	classfile.AttrSignature:            true,
	classfile.AttrDeprecated:           true,
	classfile.AttrSynthetic:            true,
	classfile.AttrVisibleAnnotations:   true,
	classfile.AttrInvisibleAnnotations: true,
}

var methodAttrNames = map[string]bool{
	classfile.AttrCode:                          true,
	classfile.AttrExceptions:                    true,
	classfile.AttrSignature:                     true,
	classfile.AttrDeprecated:                    true,
	classfile.AttrSynthetic:                     true,
	classfile.AttrAnnotationDefault:             true,
	classfile.AttrVisibleAnnotations:            true,
	classfile.AttrInvisibleAnnotations:          true,
	classfile.AttrVisibleParameterAnnotations:   true,
	classfile.AttrInvisibleParameterAnnotations: true,
}

func classAccess(flags classfile.AccessFlags, attrs []classfile.Attribute) Access {
	access := Access(flags)
	for i := range attrs {
		switch attrs[i].Name {
		case classfile.AttrDeprecated:
			access |= AccDeprecated
		case classfile.AttrSynthetic:
			access |= AccSynthetic
		}
	}
	return access
}

func attrUtf8(a *classfile.Attribute, pool classfile.ConstantPool) (string, error) {
	if a == nil {
		return "", nil
	}
	return a.AsUtf8(pool)
}

func acceptField(f *classfile.Member, pool classfile.ConstantPool, cv ClassVisitor) error {
	signature, err := attrUtf8(f.Attr(classfile.AttrSignature), pool)
	if err != nil {
		return err
	}
	var value any
	if a := f.Attr(classfile.AttrConstantValue); a != nil {
		v, err := a.AsConstantValue(pool)
		if err != nil {
			return err
		}
		value = constValue(v)
	}
	fv := cv.VisitField(classAccess(f.Access, f.Attrs), f.Name, f.Descriptor, signature, value)
	if fv == nil {
		return nil
	}
	if err := acceptAnnotations(f.Attrs, pool, fv.VisitAnnotation); err != nil {
		return err
	}
	acceptUnknownAttrs(f.Attrs, fieldAttrNames, fv.VisitAttribute)
	fv.VisitEnd()
	return nil
}

func acceptMethod(m *classfile.Member, pool classfile.ConstantPool, cv ClassVisitor, opts Options) error {
	signature, err := attrUtf8(m.Attr(classfile.AttrSignature), pool)
	if err != nil {
		return err
	}
	var exceptions []string
	if a := m.Attr(classfile.AttrExceptions); a != nil {
		if exceptions, err = a.AsExceptions(pool); err != nil {
			return err
		}
	}
	mv := cv.VisitMethod(classAccess(m.Access, m.Attrs), m.Name, m.Descriptor, signature, exceptions)
	if mv == nil {
		return nil
	}

	if a := m.Attr(classfile.AttrAnnotationDefault); a != nil {
		value, err := a.AsAnnotationDefault(pool)
		if err != nil {
			return err
		}
		if av := mv.VisitAnnotationDefault(); av != nil {
			acceptElementValue(av, "", value)
			av.VisitEnd()
		}
	}
	if err := acceptAnnotations(m.Attrs, pool, mv.VisitAnnotation); err != nil {
		return err
	}
	if err := acceptParameterAnnotations(m.Attrs, pool, mv); err != nil {
		return err
	}
	acceptUnknownAttrs(m.Attrs, methodAttrNames, mv.VisitAttribute)

	if a := m.Attr(classfile.AttrCode); a != nil {
		code, err := a.AsCode(pool)
		if err != nil {
			return err
		}
		if err := acceptCode(code, pool, mv, opts); err != nil {
			return err
		}
	}
	mv.VisitEnd()
	return nil
}

func acceptAnnotations(attrs []classfile.Attribute, pool classfile.ConstantPool,
	visit func(descriptor string, visible bool) AnnotationVisitor) error {

	for _, name := range [...]string{classfile.AttrVisibleAnnotations, classfile.AttrInvisibleAnnotations} {
		a := findAttr(attrs, name)
		if a == nil {
			continue
		}
		anns, err := a.AsAnnotations(pool)
		if err != nil {
			return err
		}
		visible := name == classfile.AttrVisibleAnnotations
		for i := range anns {
			acceptAnnotation(visit(anns[i].Type, visible), &anns[i])
		}
	}
	return nil
}

func acceptParameterAnnotations(attrs []classfile.Attribute, pool classfile.ConstantPool, mv CodeVisitor) error {
	for _, name := range [...]string{classfile.AttrVisibleParameterAnnotations, classfile.AttrInvisibleParameterAnnotations} {
		a := findAttr(attrs, name)
		if a == nil {
			continue
		}
		params, err := a.AsParameterAnnotations(pool)
		if err != nil {
			return err
		}
		visible := name == classfile.AttrVisibleParameterAnnotations
		for p, anns := range params {
			for i := range anns {
				acceptAnnotation(mv.VisitParameterAnnotation(p, anns[i].Type, visible), &anns[i])
			}
		}
	}
	return nil
}

func findAttr(attrs []classfile.Attribute, name string) *classfile.Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

func acceptUnknownAttrs(attrs []classfile.Attribute, known map[string]bool, visit func(*Attribute)) {
	for i := range attrs {
		if !known[attrs[i].Name] {
			visit(&Attribute{Name: attrs[i].Name, Data: attrs[i].Data})
		}
	}
}

func acceptAnnotation(av AnnotationVisitor, ann *classfile.Annotation) {
	if av == nil {
		return
	}
	for _, nv := range ann.Values {
		acceptElementValue(av, nv.Name, nv.Value)
	}
	av.VisitEnd()
}

func acceptElementValue(av AnnotationVisitor, name string, v classfile.ElementValue) {
	switch v.Kind {
	case 'e':
		av.VisitEnum(name, v.EnumType, v.EnumConst)
	case '@':
		acceptAnnotation(av.VisitAnnotation(name, v.Nested.Type), v.Nested)
	case '[':
		arr := av.VisitArray(name)
		for _, e := range v.Elems {
			if arr != nil {
				acceptElementValue(arr, "", e)
			}
		}
		if arr != nil {
			arr.VisitEnd()
		}
	default:
		av.Visit(name, constValue(v.Const))
	}
}

// constValue maps pool-level constant wrappers onto the event surface.
func constValue(v any) any {
	if cls, ok := v.(classfile.ClassValue); ok {
		return TypeRef(cls)
	}
	return v
}
