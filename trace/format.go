package trace

import (
	"fmt"
	"strings"

	"github.com/retronym/asm/bytecode"
)

const (
	kindClass = iota
	kindField
	kindMethod
)

// appendAccess writes the modifier keywords for access in canonical
// order, each followed by a space. Bits 0x40 and 0x80 are overloaded by
// the container format, so kind picks the keyword.
func appendAccess(b *strings.Builder, access bytecode.Access, kind int) {
	if access.Has(bytecode.AccPublic) {
		b.WriteString("public ")
	}
	if access.Has(bytecode.AccPrivate) {
		b.WriteString("private ")
	}
	if access.Has(bytecode.AccProtected) {
		b.WriteString("protected ")
	}
	if access.Has(bytecode.AccFinal) {
		b.WriteString("final ")
	}
	if access.Has(bytecode.AccStatic) {
		b.WriteString("static ")
	}
	if access.Has(bytecode.AccSynchronized) {
		b.WriteString("synchronized ")
	}
	if kind == kindMethod {
		if access.Has(bytecode.AccNative) {
			b.WriteString("native ")
		}
		if access.Has(bytecode.AccBridge) {
			b.WriteString("bridge ")
		}
		if access.Has(bytecode.AccVarargs) {
			b.WriteString("varargs ")
		}
	} else {
		if access.Has(bytecode.AccVolatile) {
			b.WriteString("volatile ")
		}
		if access.Has(bytecode.AccTransient) {
			b.WriteString("transient ")
		}
	}
	if access.Has(bytecode.AccAbstract) {
		b.WriteString("abstract ")
	}
	if access.Has(bytecode.AccStrict) {
		b.WriteString("strictfp ")
	}
}

// appendConst writes one constant value: strings quoted, class
// references with a .class suffix, everything else in its natural
// decimal form.
func appendConst(b *strings.Builder, v any) {
	switch x := v.(type) {
	case string:
		fmt.Fprintf(b, "%q", x)
	case bytecode.TypeRef:
		b.WriteString(string(x))
		b.WriteString(".class")
	default:
		fmt.Fprint(b, v)
	}
}
