package main

import "fmt"

// EncodedField is one bit-field produced by an encoder: Bits holds the
// value right-justified, Width says how many low bits of it are
// significant. This stands in for the Rust side's Int<const BITS: u32> —
// Go has no const generics, so the width travels alongside the value
// instead of being baked into the type.
type EncodedField struct {
	Bits  uint32
	Width uint8
}

func field(v uint32, width uint8) EncodedField { return EncodedField{Bits: v, Width: width} }

// Emitter is the subset of the assembler's emission state an encoder needs:
// the address and in-progress bit position of the instruction currently
// being encoded (for PC-relative label math and fixup bookkeeping) and the
// ability to resolve or defer a label reference. emitter.go implements
// this interface.
type Emitter interface {
	PC() uint64
	BitIdx() uint8
	ResolveLabel(k LabelKey) (uint64, bool)
	PushLabelFixup(fx Fixup)
}

// EncodeGpr encodes a plain numbered register; SP and ZR are rejected.
func EncodeGpr(v Gpr) (EncodedField, error) {
	if v.RegKind != GprR {
		return EncodedField{}, &EncodeError{Code: ErrInvalidGpr}
	}
	return field(uint32(v.Index), 5), nil
}

// EncodeGprOrSp encodes a register field that accepts SP (encoded as 31)
// but not ZR.
func EncodeGprOrSp(v Gpr) (EncodedField, error) {
	switch v.RegKind {
	case GprR:
		return field(uint32(v.Index), 5), nil
	case GprSP:
		return field(31, 5), nil
	default:
		return EncodedField{}, &EncodeError{Code: ErrInvalidGpr}
	}
}

// EncodeGprOrZr encodes a register field that accepts ZR (encoded as 31)
// but not SP.
func EncodeGprOrZr(v Gpr) (EncodedField, error) {
	switch v.RegKind {
	case GprR:
		return field(uint32(v.Index), 5), nil
	case GprZR:
		return field(31, 5), nil
	default:
		return EncodedField{}, &EncodeError{Code: ErrInvalidGpr}
	}
}

// EncodeSf encodes AArch64's ubiquitous 1-bit "sf" field: 1 when the
// operation is 64-bit (Xn), 0 when 32-bit (Wn).
func EncodeSf(v Gpr) EncodedField {
	if v.Size == SizeB8 {
		return field(1, 1)
	}
	return field(0, 1)
}

// EncodeUImm encodes an unsigned immediate in width bits.
func EncodeUImm(width uint8, v Imm) (EncodedField, error) {
	if v.Value < 0 || !fitsUnsigned(uint64(v.Value), width) {
		return EncodedField{}, &EncodeError{Code: ErrOutOfRange}
	}
	return field(uint32(v.Value)&uint32(maskLo(width)), width), nil
}

// EncodeSImm encodes a signed immediate in width bits, two's complement.
func EncodeSImm(width uint8, v Imm) (EncodedField, error) {
	if !fitsSigned(v.Value, width) {
		return EncodedField{}, &EncodeError{Code: ErrOutOfRange}
	}
	return field(truncateSigned(v.Value, width), width), nil
}

// EncodeUImmAlign encodes an unsigned immediate that must be a multiple of
// 2^shift, storing only the shifted-down value in width bits (e.g. the
// 12-bit, 4-byte-aligned LDR/STR unsigned offset).
func EncodeUImmAlign(width, shift uint8, v Imm) (EncodedField, error) {
	if v.Value < 0 || !lowZerosUnsigned(uint64(v.Value), shift) {
		return EncodedField{}, &EncodeError{Code: ErrNotAligned}
	}
	return EncodeUImm(width, Imm{Value: v.Value >> shift})
}

// EncodeSImmAlign is the signed counterpart of EncodeUImmAlign (used by
// STP/LDP's signed, scaled 7-bit offset).
func EncodeSImmAlign(width, shift uint8, v Imm) (EncodedField, error) {
	if !lowZeros(v.Value, shift) {
		return EncodedField{}, &EncodeError{Code: ErrNotAligned}
	}
	return EncodeSImm(width, Imm{Value: v.Value >> shift})
}

// EncodeShiftKind encodes the 2-bit shift-operation field; an absent shift
// (nil) defaults to LSL, matching DefaultShift.
func EncodeShiftKind(v *Shift) EncodedField {
	if v == nil {
		return field(uint32(ShiftLSL), 2)
	}
	return field(uint32(v.Kind), 2)
}

// EncodeShiftAmount encodes the shift-amount field in width bits; absent
// defaults to 0.
func EncodeShiftAmount(width uint8, v *Shift) EncodedField {
	if v == nil {
		return field(0, width)
	}
	return field(uint32(v.Amount), width)
}

// EncodeShiftConst encodes the single-bit field used by instructions (like
// ADD extended-register) whose encoding distinguishes "no shift" (0) from
// "the one fixed shift this variant allows" (1); any other shift is a
// mismatch, not a different variant.
func EncodeShiftConst(kind ShiftKind, amount uint8, v *Shift) (EncodedField, error) {
	if v == nil {
		return field(0, 1), nil
	}
	if v.Kind == kind && v.Amount == amount {
		return field(1, 1), nil
	}
	return EncodedField{}, &EncodeError{Code: ErrMismatchedConstShift}
}

// EncodeExtendKind encodes the 3-bit extend-operation field; absent
// defaults to UXTB, matching DefaultExtend.
func EncodeExtendKind(v *Extend) EncodedField {
	if v == nil {
		return field(uint32(ExtUXTB), 3)
	}
	return field(uint32(v.Kind), 3)
}

// EncodeExtendLShift encodes the extend's left-shift-amount field; absent
// left-shift (nil amount, or no Extend at all) encodes as 0.
func EncodeExtendLShift(v *Extend) EncodedField {
	if v == nil || v.LeftShiftAmount == nil {
		return field(0, 3)
	}
	return field(uint32(*v.LeftShiftAmount), 3)
}

// ValidExtendWidth rejects a 64-bit-only extend kind (SXTX/UXTX) paired
// with a 32-bit (Wn) register, the one cross-operand validation rule
// extend encoding needs.
func ValidExtendWidth(ext *Extend, gpr Gpr) error {
	if ext == nil {
		return nil
	}
	if (ext.Kind == ExtSXTX || ext.Kind == ExtUXTX) && gpr.Size != SizeB8 {
		return &EncodeError{Code: ErrInvalidExtendWidth}
	}
	return nil
}

// EncodeCond encodes the 4-bit condition-code field.
func EncodeCond(v Cond) EncodedField {
	return field(uint32(v.Kind), 4)
}

// EncodeLabel resolves a label reference to a PC-relative offset and
// encodes it as a signed, align-scaled immediate in width bits. If the
// label isn't defined yet, it registers a fixup that re-runs the same
// encoding once the label resolves, and in the meantime encodes a
// placeholder zero so the instruction stream stays the right length.
func EncodeLabel(width, shift uint8, lbl Label, e Emitter) (EncodedField, error) {
	instrAddr := e.PC()
	if addr, ok := e.ResolveLabel(lbl.Name); ok {
		offset := int64(addr) - int64(instrAddr)
		return EncodeSImmAlign(width, shift, Imm{Value: offset})
	}
	e.PushLabelFixup(Fixup{
		Label:      lbl.Name,
		PC:         instrAddr,
		BitIdx:     e.BitIdx(),
		Width:      width,
		ShiftAlign: shift,
	})
	return field(0, width), nil
}

// EncodeErrorCode enumerates why an operand failed to encode.
type EncodeErrorCode int

const (
	ErrRequired EncodeErrorCode = iota
	ErrUnexpected
	ErrOutOfRange
	ErrNotAligned
	ErrInvalidGpr
	ErrMismatchedConstShift
	ErrInvalidExtendWidth
	ErrResolve
	ErrUnmatchedVariant
	ErrMultiple
	ErrNone
	ErrDuplicateLabel
)

func (c EncodeErrorCode) String() string {
	switch c {
	case ErrRequired:
		return "required argument missing"
	case ErrUnexpected:
		return "unexpected argument"
	case ErrOutOfRange:
		return "immediate out of range"
	case ErrNotAligned:
		return "immediate not aligned"
	case ErrInvalidGpr:
		return "invalid register for this operand position"
	case ErrMismatchedConstShift:
		return "shift does not match the fixed shift this variant requires"
	case ErrInvalidExtendWidth:
		return "extend kind requires a 64-bit register"
	case ErrResolve:
		return "label never defined"
	case ErrUnmatchedVariant:
		return "no instruction variant matches these operands"
	case ErrMultiple:
		return "more than one instruction variant matches these operands"
	case ErrNone:
		return "no instruction variant matches these operands"
	case ErrDuplicateLabel:
		return "label defined more than once"
	default:
		return "encode error"
	}
}

// EncodeError is the error type every encoder and the selector return.
type EncodeError struct {
	Code EncodeErrorCode
	Msg  string
}

func (e *EncodeError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	return e.Code.String()
}
