package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/retronym/asm/classfile"
)

// acceptCode fires the body events of one method: try/catch ranges
// first, then instructions in offset order with labels, line numbers
// and frame markers interleaved, then local variables and the bounds
// summary.
func acceptCode(code *classfile.Code, pool classfile.ConstantPool, mv CodeVisitor, opts Options) error {
	d := &codeDecoder{code: code.Bytecode, pool: pool, labels: map[int]*Label{}}
	if err := d.scan(); err != nil {
		return err
	}

	lines := map[int][]int{}
	var locals []classfile.LocalVar
	if !opts.SkipDebug {
		if a := code.Attr(classfile.AttrLineNumberTable); a != nil {
			table, err := a.AsLineNumbers()
			if err != nil {
				return err
			}
			for _, ln := range table {
				pc := int(ln.PC)
				lines[pc] = append(lines[pc], int(ln.Line))
				d.label(pc)
			}
		}
		if a := code.Attr(classfile.AttrLocalVariableTable); a != nil {
			var err error
			if locals, err = a.AsLocalVars(pool); err != nil {
				return err
			}
			for _, lv := range locals {
				d.label(int(lv.StartPC))
				d.label(int(lv.StartPC) + int(lv.Length))
			}
		}
	}

	frames := map[int]FrameKind{}
	if a := code.Attr(classfile.AttrStackMapTable); a != nil {
		table, err := a.AsFrames()
		if err != nil {
			return err
		}
		pc := -1
		for _, f := range table {
			pc += f.OffsetDelta + 1
			frames[pc] = frameKind(f.Tag)
		}
	}

	for _, h := range code.Handlers {
		d.label(int(h.StartPC))
		d.label(int(h.EndPC))
		d.label(int(h.HandlerPC))
	}

	mv.VisitCode()
	for _, h := range code.Handlers {
		mv.VisitTryCatchBlock(d.label(int(h.StartPC)), d.label(int(h.EndPC)),
			d.label(int(h.HandlerPC)), h.CatchType)
	}
	if err := d.emit(mv, lines, frames); err != nil {
		return err
	}
	for _, lv := range locals {
		start := d.label(int(lv.StartPC))
		end := d.label(int(lv.StartPC) + int(lv.Length))
		mv.VisitLocalVariable(lv.Name, lv.Descriptor, "", start, end, int(lv.Slot))
	}
	mv.VisitMaxs(int(code.MaxStack), int(code.MaxLocals))
	return nil
}

func frameKind(tag uint8) FrameKind {
	switch {
	case tag <= 63, tag == 251:
		return FrameSame
	case tag <= 127, tag == 247:
		return FrameSame1
	case tag >= 248 && tag <= 250:
		return FrameChop
	case tag >= 252 && tag <= 254:
		return FrameAppend
	default:
		return FrameFull
	}
}

type codeDecoder struct {
	code   []byte
	pool   classfile.ConstantPool
	labels map[int]*Label
}

// label returns the unique Label for an offset, creating it on first
// use. The same offset always yields the same pointer.
func (d *codeDecoder) label(offset int) *Label {
	l, ok := d.labels[offset]
	if !ok {
		l = &Label{offset: offset}
		d.labels[offset] = l
	}
	return l
}

func (d *codeDecoder) u2(offset int) uint16 {
	return binary.BigEndian.Uint16(d.code[offset:])
}

func (d *codeDecoder) s2(offset int) int {
	return int(int16(d.u2(offset)))
}

func (d *codeDecoder) s4(offset int) int {
	return int(int32(binary.BigEndian.Uint32(d.code[offset:])))
}

// scan validates instruction boundaries and creates labels for every
// branch target, so the emit pass hands out stable label identities.
func (d *codeDecoder) scan() error {
	for offset := 0; offset < len(d.code); {
		op := Opcode(d.code[offset])
		size, err := d.insnSize(offset, op)
		if err != nil {
			return err
		}
		switch opcodeShapes[op] {
		case shapeJump:
			d.branch(offset + d.s2(offset+1))
		case shapeJumpWide:
			d.branch(offset + d.s4(offset+1))
		case shapeTableSwitch:
			base := offset + 1 + pad4(offset+1)
			d.branch(offset + d.s4(base))
			low, high := d.s4(base+4), d.s4(base+8)
			for i := 0; i <= high-low; i++ {
				d.branch(offset + d.s4(base+12+4*i))
			}
		case shapeLookupSwitch:
			base := offset + 1 + pad4(offset+1)
			d.branch(offset + d.s4(base))
			pairs := d.s4(base + 4)
			for i := 0; i < pairs; i++ {
				d.branch(offset + d.s4(base+8+8*i+4))
			}
		}
		offset += size
	}
	return nil
}

func (d *codeDecoder) branch(target int) {
	if target >= 0 && target <= len(d.code) {
		d.label(target)
	}
}

func pad4(offset int) int {
	return (4 - offset%4) % 4
}

func (d *codeDecoder) insnSize(offset int, op Opcode) (int, error) {
	if int(op) >= len(opcodeNames) {
		return 0, fmt.Errorf("unknown opcode 0x%02X at offset %d", uint8(op), offset)
	}
	var size int
	switch opcodeShapes[op] {
	case shapeNone, shapeVarShort, shapeVarShortStore:
		size = 1
	case shapeInt8, shapeArrayType, shapeVar, shapeLdc:
		size = 2
	case shapeInt16, shapeLdcWide, shapeType, shapeField, shapeMethod,
		shapeJump, shapeIinc:
		size = 3
	case shapeMultiANewArray:
		size = 4
	case shapeInterfaceMethod, shapeInvokeDynamic, shapeJumpWide:
		size = 5
	case shapeWide:
		if offset+1 >= len(d.code) {
			return 0, fmt.Errorf("truncated wide instruction at offset %d", offset)
		}
		if Opcode(d.code[offset+1]) == Iinc {
			size = 6
		} else {
			size = 4
		}
	case shapeTableSwitch:
		base := offset + 1 + pad4(offset+1)
		if base+12 > len(d.code) {
			return 0, fmt.Errorf("truncated tableswitch at offset %d", offset)
		}
		low, high := d.s4(base+4), d.s4(base+8)
		if high < low {
			return 0, fmt.Errorf("tableswitch at offset %d: high %d below low %d", offset, high, low)
		}
		size = base - offset + 12 + 4*(high-low+1)
	case shapeLookupSwitch:
		base := offset + 1 + pad4(offset+1)
		if base+8 > len(d.code) {
			return 0, fmt.Errorf("truncated lookupswitch at offset %d", offset)
		}
		pairs := d.s4(base + 4)
		if pairs < 0 {
			return 0, fmt.Errorf("lookupswitch at offset %d: negative pair count", offset)
		}
		size = base - offset + 8 + 8*pairs
	}
	if offset+size > len(d.code) {
		return 0, fmt.Errorf("truncated %s at offset %d", op, offset)
	}
	return size, nil
}

// emit decodes instructions a second time and fires one event each,
// normalizing the compressed and wide container forms away.
func (d *codeDecoder) emit(mv CodeVisitor, lines map[int][]int, frames map[int]FrameKind) error {
	for offset := 0; offset < len(d.code); {
		if l, ok := d.labels[offset]; ok {
			mv.VisitLabel(l)
		}
		for _, line := range lines[offset] {
			mv.VisitLineNumber(line, d.labels[offset])
		}
		if kind, ok := frames[offset]; ok {
			mv.VisitFrame(kind)
		}

		op := Opcode(d.code[offset])
		size, err := d.insnSize(offset, op)
		if err != nil {
			return err
		}
		switch opcodeShapes[op] {
		case shapeNone:
			mv.VisitInsn(op)
		case shapeInt8:
			mv.VisitIntInsn(op, int32(int8(d.code[offset+1])))
		case shapeInt16:
			mv.VisitIntInsn(op, int32(int16(d.u2(offset+1))))
		case shapeArrayType:
			mv.VisitIntInsn(op, int32(d.code[offset+1]))
		case shapeVar:
			mv.VisitVarInsn(op, int(d.code[offset+1]))
		case shapeVarShort:
			mv.VisitVarInsn(Iload+Opcode(op-0x1A)>>2, int(op-0x1A)&3)
		case shapeVarShortStore:
			mv.VisitVarInsn(Istore+Opcode(op-0x3B)>>2, int(op-0x3B)&3)
		case shapeLdc, shapeLdcWide:
			var index uint16
			if opcodeShapes[op] == shapeLdc {
				index = uint16(d.code[offset+1])
			} else {
				index = d.u2(offset + 1)
			}
			value := d.pool.Value(index)
			if value == nil {
				return fmt.Errorf("ldc at offset %d: constant %d is not loadable", offset, index)
			}
			mv.VisitLdcInsn(constValue(value))
		case shapeType:
			mv.VisitTypeInsn(op, d.pool.ClassName(d.u2(offset+1)))
		case shapeField:
			owner, name, descriptor := d.pool.Ref(d.u2(offset + 1))
			mv.VisitFieldInsn(op, owner, name, descriptor)
		case shapeMethod, shapeInterfaceMethod:
			owner, name, descriptor := d.pool.Ref(d.u2(offset + 1))
			mv.VisitMethodInsn(op, owner, name, descriptor)
		case shapeInvokeDynamic:
			name, descriptor := d.pool.DynamicRef(d.u2(offset + 1))
			mv.VisitMethodInsn(Invokedynamic, "", name, descriptor)
		case shapeJump:
			mv.VisitJumpInsn(op, d.label(offset+d.s2(offset+1)))
		case shapeJumpWide:
			target := d.label(offset + d.s4(offset+1))
			if op == opGotoW {
				mv.VisitJumpInsn(Goto, target)
			} else {
				mv.VisitJumpInsn(Jsr, target)
			}
		case shapeIinc:
			mv.VisitIincInsn(int(d.code[offset+1]), int(int8(d.code[offset+2])))
		case shapeMultiANewArray:
			mv.VisitMultiANewArrayInsn(d.pool.ClassName(d.u2(offset+1)), int(d.code[offset+3]))
		case shapeWide:
			sub := Opcode(d.code[offset+1])
			if sub == Iinc {
				mv.VisitIincInsn(int(d.u2(offset+2)), d.s2(offset+4))
			} else {
				mv.VisitVarInsn(sub, int(d.u2(offset+2)))
			}
		case shapeTableSwitch:
			base := offset + 1 + pad4(offset+1)
			dflt := d.label(offset + d.s4(base))
			low, high := d.s4(base+4), d.s4(base+8)
			targets := make([]*Label, 0, high-low+1)
			for i := 0; i <= high-low; i++ {
				targets = append(targets, d.label(offset+d.s4(base+12+4*i)))
			}
			mv.VisitTableSwitchInsn(int32(low), int32(high), dflt, targets)
		case shapeLookupSwitch:
			base := offset + 1 + pad4(offset+1)
			dflt := d.label(offset + d.s4(base))
			pairs := d.s4(base + 4)
			keys := make([]int32, 0, pairs)
			targets := make([]*Label, 0, pairs)
			for i := 0; i < pairs; i++ {
				keys = append(keys, int32(d.s4(base+8+8*i)))
				targets = append(targets, d.label(offset+d.s4(base+8+8*i+4)))
			}
			mv.VisitLookupSwitchInsn(dflt, keys, targets)
		}
		offset += size
	}
	if l, ok := d.labels[len(d.code)]; ok {
		mv.VisitLabel(l)
	}
	return nil
}
