package bytecode

import "testing"

func TestOpcodeNamesComplete(t *testing.T) {
	for op := range opcodeNames {
		if opcodeNames[op] == "" {
			t.Errorf("opcode 0x%02X has no mnemonic", op)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	cases := []struct {
		op   Opcode
		want string
	}{
		{Nop, "NOP"},
		{AconstNull, "ACONST_NULL"},
		{Iinc, "IINC"},
		{IfIcmpge, "IF_ICMPGE"},
		{Getstatic, "GETSTATIC"},
		{Invokeinterface, "INVOKEINTERFACE"},
		{Multianewarray, "MULTIANEWARRAY"},
		{Ifnonnull, "IFNONNULL"},
		{opJsrW, "JSR_W"},
		{Opcode(0xFE), "UNKNOWN(0xFE)"},
	}
	for _, c := range cases {
		if got := c.op.String(); got != c.want {
			t.Errorf("0x%02X: String() = %q, want %q", uint8(c.op), got, c.want)
		}
	}
}

func TestInsnSize(t *testing.T) {
	cases := []struct {
		name string
		code []byte
		want int
	}{
		{"nop", []byte{0x00}, 1},
		{"iload_2", []byte{0x1C}, 1},
		{"astore_3", []byte{0x4E}, 1},
		{"bipush", []byte{0x10, 5}, 2},
		{"sipush", []byte{0x11, 1, 0}, 3},
		{"ldc", []byte{0x12, 7}, 2},
		{"ldc_w", []byte{0x13, 0, 7}, 3},
		{"iinc", []byte{0x84, 1, 1}, 3},
		{"multianewarray", []byte{0xC5, 0, 2, 3}, 4},
		{"invokeinterface", []byte{0xB9, 0, 1, 2, 0}, 5},
		{"wide iload", []byte{0xC4, 0x15, 1, 0}, 4},
		{"wide iinc", []byte{0xC4, 0x84, 0, 1, 0, 5}, 6},
		{"goto_w", []byte{0xC8, 0, 0, 0, 5}, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := &codeDecoder{code: c.code}
			got, err := d.insnSize(0, Opcode(c.code[0]))
			if err != nil {
				t.Fatalf("insnSize: %v", err)
			}
			if got != c.want {
				t.Errorf("size = %d, want %d", got, c.want)
			}
		})
	}
}

func TestInsnSizeErrors(t *testing.T) {
	cases := []struct {
		name string
		code []byte
	}{
		{"truncated sipush", []byte{0x11, 1}},
		{"truncated wide", []byte{0xC4}},
		{"truncated tableswitch", []byte{0xAA, 0, 0, 0}},
		{"inverted tableswitch bounds", []byte{
			0xAA, 0, 0, 0, // padding to offset 4
			0, 0, 0, 12, // default
			0, 0, 0, 5, // low
			0, 0, 0, 2, // high < low
		}},
		{"unknown opcode", []byte{0xFE}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := &codeDecoder{code: c.code}
			if _, err := d.insnSize(0, Opcode(c.code[0])); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestTableSwitchSize(t *testing.T) {
	// Opcode at offset 0: 3 padding bytes, then default, low=0, high=1
	// and two targets.
	code := []byte{
		0xAA, 0, 0, 0,
		0, 0, 0, 20, // default
		0, 0, 0, 0, // low
		0, 0, 0, 1, // high
		0, 0, 0, 8, // case 0
		0, 0, 0, 12, // case 1
	}
	d := &codeDecoder{code: code}
	got, err := d.insnSize(0, Tableswitch)
	if err != nil {
		t.Fatalf("insnSize: %v", err)
	}
	if want := len(code); got != want {
		t.Errorf("size = %d, want %d", got, want)
	}
}

func TestFrameKind(t *testing.T) {
	cases := []struct {
		tag  uint8
		want FrameKind
	}{
		{0, FrameSame},
		{63, FrameSame},
		{64, FrameSame1},
		{127, FrameSame1},
		{247, FrameSame1},
		{248, FrameChop},
		{250, FrameChop},
		{251, FrameSame},
		{252, FrameAppend},
		{254, FrameAppend},
		{255, FrameFull},
	}
	for _, c := range cases {
		if got := frameKind(c.tag); got != c.want {
			t.Errorf("frameKind(%d) = %s, want %s", c.tag, got, c.want)
		}
	}
}
