package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// cursor walks a byte slice, latching the first error so callers can
// read a whole record and check once.
type cursor struct {
	data []byte
	pos  int
	err  error
}

func (c *cursor) fail(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf(format, args...)
	}
}

func (c *cursor) need(n int) bool {
	if c.err != nil {
		return false
	}
	if c.pos+n > len(c.data) {
		c.fail("truncated at offset %d: need %d bytes, have %d", c.pos, n, len(c.data)-c.pos)
		return false
	}
	return true
}

func (c *cursor) u1() uint8 {
	if !c.need(1) {
		return 0
	}
	b := c.data[c.pos]
	c.pos++
	return b
}

func (c *cursor) u2() uint16 {
	if !c.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v
}

func (c *cursor) u4() uint32 {
	if !c.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v
}

func (c *cursor) bytes(n int) []byte {
	if n < 0 || !c.need(n) {
		return nil
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b
}

// ParseFile reads and parses a .class file from disk.
func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class file: %w", err)
	}
	return Parse(data)
}

// ParseReader parses a class file from a stream.
func ParseReader(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read class file: %w", err)
	}
	return Parse(data)
}

// Parse parses a class file image.
func Parse(data []byte) (*ClassFile, error) {
	c := &cursor{data: data}

	if m := c.u4(); c.err == nil && m != magic {
		return nil, fmt.Errorf("not a class file: magic 0x%08X", m)
	}

	cf := &ClassFile{
		MinorVersion: c.u2(),
		MajorVersion: c.u2(),
	}

	poolCount := int(c.u2())
	if c.err != nil {
		return nil, fmt.Errorf("read class file header: %w", c.err)
	}
	if poolCount == 0 {
		return nil, fmt.Errorf("malformed constant pool count 0")
	}
	cf.Pool = make(ConstantPool, 0, poolCount-1)
	for i := 1; i < poolCount && c.err == nil; i++ {
		entry := readConst(c)
		cf.Pool = append(cf.Pool, entry)
		if entry.Tag == TagLong || entry.Tag == TagDouble {
			// Wide constants occupy two pool slots.
			cf.Pool = append(cf.Pool, Const{})
			i++
		}
	}
	if c.err != nil {
		return nil, fmt.Errorf("read constant pool: %w", c.err)
	}

	cf.Access = AccessFlags(c.u2())
	cf.ThisClass = cf.Pool.ClassName(c.u2())
	cf.SuperClass = cf.Pool.ClassName(c.u2())
	for i, n := 0, int(c.u2()); i < n && c.err == nil; i++ {
		cf.Interfaces = append(cf.Interfaces, cf.Pool.ClassName(c.u2()))
	}
	if c.err != nil {
		return nil, fmt.Errorf("read class declaration: %w", c.err)
	}

	var err error
	if cf.Fields, err = readMembers(c, cf.Pool); err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	if cf.Methods, err = readMembers(c, cf.Pool); err != nil {
		return nil, fmt.Errorf("read methods: %w", err)
	}
	if cf.Attrs, err = readAttributes(c, cf.Pool); err != nil {
		return nil, fmt.Errorf("read class attributes: %w", err)
	}
	if c.err != nil {
		return nil, c.err
	}
	return cf, nil
}

func readConst(c *cursor) Const {
	tag := ConstTag(c.u1())
	switch tag {
	case TagUtf8:
		return Const{Tag: tag, Str: decodeModifiedUTF8(c.bytes(int(c.u2())))}
	case TagInteger, TagFloat:
		return Const{Tag: tag, Bits: uint64(c.u4())}
	case TagLong, TagDouble:
		high, low := c.u4(), c.u4()
		return Const{Tag: tag, Bits: uint64(high)<<32 | uint64(low)}
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		return Const{Tag: tag, A: c.u2()}
	case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType,
		TagDynamic, TagInvokeDynamic:
		return Const{Tag: tag, A: c.u2(), B: c.u2()}
	case TagMethodHandle:
		return Const{Tag: tag, A: uint16(c.u1()), B: c.u2()}
	default:
		c.fail("unknown constant pool tag %d", tag)
		return Const{}
	}
}

func readMembers(c *cursor, cp ConstantPool) ([]Member, error) {
	count := int(c.u2())
	members := make([]Member, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		m := Member{
			Access:     AccessFlags(c.u2()),
			Name:       cp.Utf8(c.u2()),
			Descriptor: cp.Utf8(c.u2()),
		}
		attrs, err := readAttributes(c, cp)
		if err != nil {
			return nil, err
		}
		m.Attrs = attrs
		members = append(members, m)
	}
	return members, c.err
}

func readAttributes(c *cursor, cp ConstantPool) ([]Attribute, error) {
	count := int(c.u2())
	attrs := make([]Attribute, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		name := cp.Utf8(c.u2())
		data := c.bytes(int(c.u4()))
		attrs = append(attrs, Attribute{Name: name, Data: data})
	}
	return attrs, c.err
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8: no NUL bytes, no
// four-byte sequences, supplementary characters as surrogate pairs.
func decodeModifiedUTF8(b []byte) string {
	var sb strings.Builder
	for i := 0; i < len(b); {
		switch {
		case b[i]&0x80 == 0:
			sb.WriteByte(b[i])
			i++
		case b[i]&0xE0 == 0xC0 && i+1 < len(b):
			sb.WriteRune(rune(b[i]&0x1F)<<6 | rune(b[i+1]&0x3F))
			i += 2
		case b[i]&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3]&0xF0 == 0xE0 {
				low := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					sb.WriteRune(0x10000 + (r-0xD800)<<10 + (low - 0xDC00))
					i += 6
					continue
				}
			}
			sb.WriteRune(r)
			i += 3
		default:
			sb.WriteByte(b[i])
			i++
		}
	}
	return sb.String()
}
