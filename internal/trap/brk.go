package trap

import "fmt"

// brkOpcodeMask is the fixed bits of the AArch64 BRK instruction; the
// 16-bit immediate occupies bits [20:5].
const brkOpcodeMask = 0xD4200000

// brkTable maps the BRK immediate the code generator emits to the trap
// code it signals. Index 0..5 are the codes spec.md's table names;
// anything else decodes to CodeUnknown.
var brkTable = [...]Code{
	0: CodeUnreachable,
	1: CodeOutOfBoundsMemoryAccess,
	2: CodeIndirectCallTypeMismatch,
	3: CodeInvalidConversionToInteger,
	4: CodeIntegerDivideByZero,
	5: CodeIntegerOverflow,
}

// BRKCode maps a BRK immediate to the trap code it encodes. ok is false for
// an immediate the generator never emits as a trap marker.
func BRKCode(imm16 uint16) (Code, bool) {
	if int(imm16) < len(brkTable) {
		return brkTable[imm16], true
	}
	return CodeUnknown, false
}

// DecodeBRKInstruction decodes a raw 32-bit AArch64 instruction word,
// returning the trap code it signals if the word is a BRK with an
// immediate the generator uses, or (CodeUnknown, false) otherwise
// (including for non-BRK instructions).
func DecodeBRKInstruction(instr uint32) (Code, bool) {
	if instr&0xFFE0001F != brkOpcodeMask {
		return CodeUnknown, false
	}
	imm16 := uint16((instr >> 5) & 0xFFFF)
	return BRKCode(imm16)
}

// EncodeBRK produces the raw AArch64 BRK instruction word for the
// immediate the generator would use to signal code. It exists for the
// round-trip test and for a future codegen component to import rather than
// re-derive the encoding.
func EncodeBRK(code Code) (uint32, error) {
	for imm, c := range brkTable {
		if c == code {
			return brkOpcodeMask | (uint32(imm) << 5), nil
		}
	}
	return 0, fmt.Errorf("trap: code %s has no BRK immediate", code)
}
