package bytecode

import "fmt"

// Opcode is one JVM instruction opcode. The constants below name the
// opcodes that appear on the event surface; the compressed load/store
// forms (ILOAD_0 and friends), the wide prefix and the wide LDC and
// GOTO forms are normalized away by the driver and never reach a
// visitor.
type Opcode uint8

const (
	Nop             Opcode = 0x00
	AconstNull      Opcode = 0x01
	IconstM1        Opcode = 0x02
	Iconst0         Opcode = 0x03
	Iconst1         Opcode = 0x04
	Iconst2         Opcode = 0x05
	Iconst3         Opcode = 0x06
	Iconst4         Opcode = 0x07
	Iconst5         Opcode = 0x08
	Lconst0         Opcode = 0x09
	Lconst1         Opcode = 0x0A
	Fconst0         Opcode = 0x0B
	Fconst1         Opcode = 0x0C
	Fconst2         Opcode = 0x0D
	Dconst0         Opcode = 0x0E
	Dconst1         Opcode = 0x0F
	Bipush          Opcode = 0x10
	Sipush          Opcode = 0x11
	Ldc             Opcode = 0x12
	Iload           Opcode = 0x15
	Lload           Opcode = 0x16
	Fload           Opcode = 0x17
	Dload           Opcode = 0x18
	Aload           Opcode = 0x19
	Iaload          Opcode = 0x2E
	Laload          Opcode = 0x2F
	Faload          Opcode = 0x30
	Daload          Opcode = 0x31
	Aaload          Opcode = 0x32
	Baload          Opcode = 0x33
	Caload          Opcode = 0x34
	Saload          Opcode = 0x35
	Istore          Opcode = 0x36
	Lstore          Opcode = 0x37
	Fstore          Opcode = 0x38
	Dstore          Opcode = 0x39
	Astore          Opcode = 0x3A
	Iastore         Opcode = 0x4F
	Lastore         Opcode = 0x50
	Fastore         Opcode = 0x51
	Dastore         Opcode = 0x52
	Aastore         Opcode = 0x53
	Bastore         Opcode = 0x54
	Castore         Opcode = 0x55
	Sastore         Opcode = 0x56
	Pop             Opcode = 0x57
	Pop2            Opcode = 0x58
	Dup             Opcode = 0x59
	DupX1           Opcode = 0x5A
	DupX2           Opcode = 0x5B
	Dup2            Opcode = 0x5C
	Dup2X1          Opcode = 0x5D
	Dup2X2          Opcode = 0x5E
	Swap            Opcode = 0x5F
	Iadd            Opcode = 0x60
	Ladd            Opcode = 0x61
	Fadd            Opcode = 0x62
	Dadd            Opcode = 0x63
	Isub            Opcode = 0x64
	Lsub            Opcode = 0x65
	Fsub            Opcode = 0x66
	Dsub            Opcode = 0x67
	Imul            Opcode = 0x68
	Lmul            Opcode = 0x69
	Fmul            Opcode = 0x6A
	Dmul            Opcode = 0x6B
	Idiv            Opcode = 0x6C
	Ldiv            Opcode = 0x6D
	Fdiv            Opcode = 0x6E
	Ddiv            Opcode = 0x6F
	Irem            Opcode = 0x70
	Lrem            Opcode = 0x71
	Frem            Opcode = 0x72
	Drem            Opcode = 0x73
	Ineg            Opcode = 0x74
	Lneg            Opcode = 0x75
	Fneg            Opcode = 0x76
	Dneg            Opcode = 0x77
	Ishl            Opcode = 0x78
	Lshl            Opcode = 0x79
	Ishr            Opcode = 0x7A
	Lshr            Opcode = 0x7B
	Iushr           Opcode = 0x7C
	Lushr           Opcode = 0x7D
	Iand            Opcode = 0x7E
	Land            Opcode = 0x7F
	Ior             Opcode = 0x80
	Lor             Opcode = 0x81
	Ixor            Opcode = 0x82
	Lxor            Opcode = 0x83
	Iinc            Opcode = 0x84
	I2l             Opcode = 0x85
	I2f             Opcode = 0x86
	I2d             Opcode = 0x87
	L2i             Opcode = 0x88
	L2f             Opcode = 0x89
	L2d             Opcode = 0x8A
	F2i             Opcode = 0x8B
	F2l             Opcode = 0x8C
	F2d             Opcode = 0x8D
	D2i             Opcode = 0x8E
	D2l             Opcode = 0x8F
	D2f             Opcode = 0x90
	I2b             Opcode = 0x91
	I2c             Opcode = 0x92
	I2s             Opcode = 0x93
	Lcmp            Opcode = 0x94
	Fcmpl           Opcode = 0x95
	Fcmpg           Opcode = 0x96
	Dcmpl           Opcode = 0x97
	Dcmpg           Opcode = 0x98
	Ifeq            Opcode = 0x99
	Ifne            Opcode = 0x9A
	Iflt            Opcode = 0x9B
	Ifge            Opcode = 0x9C
	Ifgt            Opcode = 0x9D
	Ifle            Opcode = 0x9E
	IfIcmpeq        Opcode = 0x9F
	IfIcmpne        Opcode = 0xA0
	IfIcmplt        Opcode = 0xA1
	IfIcmpge        Opcode = 0xA2
	IfIcmpgt        Opcode = 0xA3
	IfIcmple        Opcode = 0xA4
	IfAcmpeq        Opcode = 0xA5
	IfAcmpne        Opcode = 0xA6
	Goto            Opcode = 0xA7
	Jsr             Opcode = 0xA8
	Ret             Opcode = 0xA9
	Tableswitch     Opcode = 0xAA
	Lookupswitch    Opcode = 0xAB
	Ireturn         Opcode = 0xAC
	Lreturn         Opcode = 0xAD
	Freturn         Opcode = 0xAE
	Dreturn         Opcode = 0xAF
	Areturn         Opcode = 0xB0
	Return          Opcode = 0xB1
	Getstatic       Opcode = 0xB2
	Putstatic       Opcode = 0xB3
	Getfield        Opcode = 0xB4
	Putfield        Opcode = 0xB5
	Invokevirtual   Opcode = 0xB6
	Invokespecial   Opcode = 0xB7
	Invokestatic    Opcode = 0xB8
	Invokeinterface Opcode = 0xB9
	Invokedynamic   Opcode = 0xBA
	New             Opcode = 0xBB
	Newarray        Opcode = 0xBC
	Anewarray       Opcode = 0xBD
	Arraylength     Opcode = 0xBE
	Athrow          Opcode = 0xBF
	Checkcast       Opcode = 0xC0
	Instanceof      Opcode = 0xC1
	Monitorenter    Opcode = 0xC2
	Monitorexit     Opcode = 0xC3
	Multianewarray  Opcode = 0xC5
	Ifnull          Opcode = 0xC6
	Ifnonnull       Opcode = 0xC7
)

// Container-only forms, normalized away during decoding.
const (
	opLdcW  Opcode = 0x13
	opLdc2W Opcode = 0x14
	opWide  Opcode = 0xC4
	opGotoW Opcode = 0xC8
	opJsrW  Opcode = 0xC9
)

// opcodeNames maps every container opcode to its mnemonic, including
// the compressed forms that never reach visitors.
var opcodeNames = [0xCA]string{
	"NOP", "ACONST_NULL", "ICONST_M1", "ICONST_0", "ICONST_1", "ICONST_2",
	"ICONST_3", "ICONST_4", "ICONST_5", "LCONST_0", "LCONST_1", "FCONST_0",
	"FCONST_1", "FCONST_2", "DCONST_0", "DCONST_1", "BIPUSH", "SIPUSH",
	"LDC", "LDC_W", "LDC2_W", "ILOAD", "LLOAD", "FLOAD", "DLOAD", "ALOAD",
	"ILOAD_0", "ILOAD_1", "ILOAD_2", "ILOAD_3",
	"LLOAD_0", "LLOAD_1", "LLOAD_2", "LLOAD_3",
	"FLOAD_0", "FLOAD_1", "FLOAD_2", "FLOAD_3",
	"DLOAD_0", "DLOAD_1", "DLOAD_2", "DLOAD_3",
	"ALOAD_0", "ALOAD_1", "ALOAD_2", "ALOAD_3",
	"IALOAD", "LALOAD", "FALOAD", "DALOAD", "AALOAD", "BALOAD", "CALOAD",
	"SALOAD", "ISTORE", "LSTORE", "FSTORE", "DSTORE", "ASTORE",
	"ISTORE_0", "ISTORE_1", "ISTORE_2", "ISTORE_3",
	"LSTORE_0", "LSTORE_1", "LSTORE_2", "LSTORE_3",
	"FSTORE_0", "FSTORE_1", "FSTORE_2", "FSTORE_3",
	"DSTORE_0", "DSTORE_1", "DSTORE_2", "DSTORE_3",
	"ASTORE_0", "ASTORE_1", "ASTORE_2", "ASTORE_3",
	"IASTORE", "LASTORE", "FASTORE", "DASTORE", "AASTORE", "BASTORE",
	"CASTORE", "SASTORE", "POP", "POP2", "DUP", "DUP_X1", "DUP_X2",
	"DUP2", "DUP2_X1", "DUP2_X2", "SWAP", "IADD", "LADD", "FADD", "DADD",
	"ISUB", "LSUB", "FSUB", "DSUB", "IMUL", "LMUL", "FMUL", "DMUL",
	"IDIV", "LDIV", "FDIV", "DDIV", "IREM", "LREM", "FREM", "DREM",
	"INEG", "LNEG", "FNEG", "DNEG", "ISHL", "LSHL", "ISHR", "LSHR",
	"IUSHR", "LUSHR", "IAND", "LAND", "IOR", "LOR", "IXOR", "LXOR",
	"IINC", "I2L", "I2F", "I2D", "L2I", "L2F", "L2D", "F2I", "F2L",
	"F2D", "D2I", "D2L", "D2F", "I2B", "I2C", "I2S", "LCMP", "FCMPL",
	"FCMPG", "DCMPL", "DCMPG", "IFEQ", "IFNE", "IFLT", "IFGE", "IFGT",
	"IFLE", "IF_ICMPEQ", "IF_ICMPNE", "IF_ICMPLT", "IF_ICMPGE",
	"IF_ICMPGT", "IF_ICMPLE", "IF_ACMPEQ", "IF_ACMPNE", "GOTO", "JSR",
	"RET", "TABLESWITCH", "LOOKUPSWITCH", "IRETURN", "LRETURN",
	"FRETURN", "DRETURN", "ARETURN", "RETURN", "GETSTATIC", "PUTSTATIC",
	"GETFIELD", "PUTFIELD", "INVOKEVIRTUAL", "INVOKESPECIAL",
	"INVOKESTATIC", "INVOKEINTERFACE", "INVOKEDYNAMIC", "NEW",
	"NEWARRAY", "ANEWARRAY", "ARRAYLENGTH", "ATHROW", "CHECKCAST",
	"INSTANCEOF", "MONITORENTER", "MONITOREXIT", "WIDE",
	"MULTIANEWARRAY", "IFNULL", "IFNONNULL", "GOTO_W", "JSR_W",
}

// String returns the mnemonic.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(op))
}

// Instruction encoding shapes, indexed by container opcode.
const (
	shapeNone uint8 = iota
	shapeInt8          // bipush
	shapeInt16         // sipush
	shapeArrayType     // newarray
	shapeVar           // load/store with one-byte slot
	shapeVarShort      // compressed load form
	shapeVarShortStore // compressed store form
	shapeLdc
	shapeLdcWide
	shapeType
	shapeField
	shapeMethod
	shapeInterfaceMethod
	shapeInvokeDynamic
	shapeJump
	shapeJumpWide
	shapeIinc
	shapeTableSwitch
	shapeLookupSwitch
	shapeMultiANewArray
	shapeWide
)

var opcodeShapes = [0xCA]uint8{
	Bipush:   shapeInt8,
	Sipush:   shapeInt16,
	Newarray: shapeArrayType,
	Ldc:      shapeLdc,
	opLdcW:   shapeLdcWide,
	opLdc2W:  shapeLdcWide,
	Iload:    shapeVar, Lload: shapeVar, Fload: shapeVar, Dload: shapeVar,
	Aload: shapeVar, Istore: shapeVar, Lstore: shapeVar, Fstore: shapeVar,
	Dstore: shapeVar, Astore: shapeVar, Ret: shapeVar,
	New: shapeType, Anewarray: shapeType, Checkcast: shapeType,
	Instanceof: shapeType,
	Getstatic:  shapeField, Putstatic: shapeField, Getfield: shapeField,
	Putfield: shapeField,
	Invokevirtual: shapeMethod, Invokespecial: shapeMethod,
	Invokestatic:    shapeMethod,
	Invokeinterface: shapeInterfaceMethod,
	Invokedynamic:   shapeInvokeDynamic,
	Ifeq:            shapeJump, Ifne: shapeJump, Iflt: shapeJump,
	Ifge: shapeJump, Ifgt: shapeJump, Ifle: shapeJump,
	IfIcmpeq: shapeJump, IfIcmpne: shapeJump, IfIcmplt: shapeJump,
	IfIcmpge: shapeJump, IfIcmpgt: shapeJump, IfIcmple: shapeJump,
	IfAcmpeq: shapeJump, IfAcmpne: shapeJump, Goto: shapeJump,
	Jsr: shapeJump, Ifnull: shapeJump, Ifnonnull: shapeJump,
	opGotoW: shapeJumpWide, opJsrW: shapeJumpWide,
	Iinc:           shapeIinc,
	Tableswitch:    shapeTableSwitch,
	Lookupswitch:   shapeLookupSwitch,
	Multianewarray: shapeMultiANewArray,
	opWide:         shapeWide,
}

func init() {
	for op := 0x1A; op <= 0x2D; op++ { // iload_0 .. aload_3
		opcodeShapes[op] = shapeVarShort
	}
	for op := 0x3B; op <= 0x4E; op++ { // istore_0 .. astore_3
		opcodeShapes[op] = shapeVarShortStore
	}
}
