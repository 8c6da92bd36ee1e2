package main

// This file is the declarative instruction-description table: for every
// mnemonic, the list of candidate variants it can narrow to, each carrying
// a parameter schema (what kinds of operands it accepts, and in what
// order) and an encoding recipe (the bit-field recipe that turns a
// matched argument list into a 32-bit word). It is the direct Go
// translation of the Rust side's `def_instrs!` macro table: Go has no
// macros, so the table is written out as plain data (slices of structs)
// instead of being expanded at compile time.

// ParamSpec describes one position in a variant's argument schema.
type ParamSpec struct {
	Kind     Kind
	Optional bool
	GprAllow GprAllow // only consulted when Kind == KindGpr
}

// GprAllow controls which special registers are acceptable in a Gpr
// argument position: a plain Gpr() schema entry rejects SP and ZR, while
// Gpr(AllowSp)/Gpr(AllowZr) admit one of them (matching the per-position
// register legality AArch64 itself enforces, e.g. ADD's destination may be
// SP but never ZR).
type GprAllow uint8

const (
	GprPlain GprAllow = iota
	GprAllowSp
	GprAllowZr
)

// FieldKind says which encoder a recipe field uses.
type FieldKind uint8

const (
	FConst FieldKind = iota
	FSf
	FGpr
	FUImm
	FSImm
	FUImmAlign
	FSImmAlign
	FShiftKind
	FShiftAmount
	FShiftConst
	FExtendKind
	FExtendLShift
	FCond
	FLabel
	// FSize2 is LDR/STR's 2-bit transfer-size field: 0b10 for a 32-bit
	// (Wn) transfer, 0b11 for 64-bit (Xn), read off the Gpr at Arg.
	FSize2
	// FPairOpc2 is STP/LDP's 2-bit size-class field: 0b00 for a 32-bit
	// (Wn) pair, 0b10 for 64-bit (Xn), read off the Gpr at Arg.
	FPairOpc2
)

// Field is one entry of an encoding recipe, in the MSB-to-LSB order the
// bits are pushed onto the bit stack. Arg indexes into the variant's
// resolved argument slice; it is unused (and left at 0) for FConst.
type Field struct {
	Kind             FieldKind
	Width            uint8 // explicit width for UImm/SImm/UImmAlign/SImmAlign/ShiftAmount/Label
	Arg              int
	ConstBits        uint32
	GprAllow         GprAllow
	ShiftAlign       uint8
	FixedShiftKind   ShiftKind
	FixedShiftAmount uint8

	// GprScaleArg, when HasGprScale is set, names the argument index of a
	// Gpr whose size (4 or 8 bytes) picks the alignment shift for a
	// UImmAlign/SImmAlign field at emit time instead of a fixed
	// ShiftAlign — used by LDR/STR/STP/LDP, whose immediate's scale
	// tracks the transferred register's width.
	GprScaleArg int
	HasGprScale bool

	// DefaultGpr is substituted when Arg's operand is absent (nil) in an
	// optional Gpr field — used by RET's implicit "X30 if omitted".
	DefaultGpr    Gpr
	HasDefaultGpr bool

	// ExtGprArg names the Rm argument an FExtendKind field's extend must
	// be validated against (SXTX/UXTX require a 64-bit Rm).
	ExtGprArg int
}

func cbits(bits uint32, width uint8) Field { return Field{Kind: FConst, ConstBits: bits, Width: width} }
func fsf(arg int) Field                    { return Field{Kind: FSf, Arg: arg, Width: 1} }
func fgpr(arg int, allow GprAllow) Field   { return Field{Kind: FGpr, Arg: arg, Width: 5, GprAllow: allow} }
func fuimm(arg int, width uint8) Field     { return Field{Kind: FUImm, Arg: arg, Width: width} }
func fsimm(arg int, width uint8) Field     { return Field{Kind: FSImm, Arg: arg, Width: width} }
func fuimmAlign(arg int, width, shift uint8) Field {
	return Field{Kind: FUImmAlign, Arg: arg, Width: width, ShiftAlign: shift}
}
func fsimmAlign(arg int, width, shift uint8) Field {
	return Field{Kind: FSImmAlign, Arg: arg, Width: width, ShiftAlign: shift}
}
func fshiftKind(arg int) Field   { return Field{Kind: FShiftKind, Arg: arg, Width: 2} }
func fshiftAmount(arg int, width uint8) Field {
	return Field{Kind: FShiftAmount, Arg: arg, Width: width}
}
func fshiftConst(arg int, kind ShiftKind, amount uint8) Field {
	return Field{Kind: FShiftConst, Arg: arg, Width: 1, FixedShiftKind: kind, FixedShiftAmount: amount}
}
func fextendKind(arg, gprArg int) Field {
	return Field{Kind: FExtendKind, Arg: arg, Width: 3, ExtGprArg: gprArg}
}
func fextendLShift(arg int) Field { return Field{Kind: FExtendLShift, Arg: arg, Width: 3} }
func fcond(arg int) Field         { return Field{Kind: FCond, Arg: arg, Width: 4} }
func flabel(arg int, width, shift uint8) Field {
	return Field{Kind: FLabel, Arg: arg, Width: width, ShiftAlign: shift}
}

// Variant is one instruction form: a schema the selector matches argument
// lists against, and a recipe the emitter turns into a 32-bit word once a
// match is found.
type Variant struct {
	Mnemonic Mnemonic
	Name     string
	Params   []ParamSpec
	Recipe   []Field
}

func req(k Kind) ParamSpec               { return ParamSpec{Kind: k} }
func reqGpr(allow GprAllow) ParamSpec     { return ParamSpec{Kind: KindGpr, GprAllow: allow} }
func opt(k Kind) ParamSpec                { return ParamSpec{Kind: k, Optional: true} }

// instrTable maps every mnemonic to its candidate variants. Schema
// overlap between two variants of the same mnemonic is resolved in the
// schema itself (see ADD's ShiftedRegister comment below), not by
// declaration order — selector.go treats more than one match as an error.
var instrTable = map[Mnemonic][]Variant{
	MnemADD: {
		{
			Mnemonic: MnemADD, Name: "Immediate",
			Params: []ParamSpec{reqGpr(GprAllowSp), reqGpr(GprAllowSp), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b00100010, 8), fshiftConst(3, ShiftLSL, 12),
				fuimm(2, 12), fgpr(1, GprAllowSp), fgpr(0, GprAllowSp),
			},
		},
		{
			Mnemonic: MnemADD, Name: "ShiftedRegister",
			// Shift is Required, not Optional, here: a bare three-register
			// ADD also satisfies ExtendedRegister's schema (a plain Gpr
			// always satisfies any GprAllow), so without an explicit
			// trailing shift this variant must refuse to match, routing
			// "ADD X1, X2, X3" to ExtendedRegister instead of leaving two
			// variants tied.
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr), req(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b0001011, 7), fshiftKind(3), cbits(0, 1),
				fgpr(2, GprPlain), fshiftAmount(3, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
		{
			Mnemonic: MnemADD, Name: "ExtendedRegister",
			Params: []ParamSpec{reqGpr(GprAllowSp), reqGpr(GprAllowSp), reqGpr(GprAllowZr), opt(KindExtend)},
			Recipe: []Field{
				fsf(0), cbits(0b0001011001, 10), fgpr(2, GprAllowZr),
				fextendKind(3, 2), fextendLShift(3), fgpr(1, GprAllowSp), fgpr(0, GprAllowSp),
			},
		},
	},
	MnemADDS: {
		{
			Mnemonic: MnemADDS, Name: "Immediate",
			Params: []ParamSpec{req(KindGpr), reqGpr(GprAllowSp), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b01100010, 8), fshiftConst(3, ShiftLSL, 12),
				fuimm(2, 12), fgpr(1, GprAllowSp), fgpr(0, GprPlain),
			},
		},
		{
			Mnemonic: MnemADDS, Name: "ExtendedRegister",
			Params: []ParamSpec{req(KindGpr), reqGpr(GprAllowSp), reqGpr(GprAllowZr), opt(KindExtend)},
			Recipe: []Field{
				fsf(0), cbits(0b0101011001, 10), fgpr(2, GprAllowZr),
				fextendKind(3, 2), fextendLShift(3), fgpr(1, GprAllowSp), fgpr(0, GprPlain),
			},
		},
	},
	MnemSUB: {
		{
			Mnemonic: MnemSUB, Name: "Immediate",
			Params: []ParamSpec{reqGpr(GprAllowSp), reqGpr(GprAllowSp), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b10100010, 8), fshiftConst(3, ShiftLSL, 12),
				fuimm(2, 12), fgpr(1, GprAllowSp), fgpr(0, GprAllowSp),
			},
		},
		{
			Mnemonic: MnemSUB, Name: "ShiftedRegister",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b1001011, 7), fshiftKind(3), cbits(0, 1),
				fgpr(2, GprPlain), fshiftAmount(3, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	MnemSUBS: {
		{
			Mnemonic: MnemSUBS, Name: "Immediate",
			Params: []ParamSpec{req(KindGpr), reqGpr(GprAllowSp), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b11100010, 8), fshiftConst(3, ShiftLSL, 12),
				fuimm(2, 12), fgpr(1, GprAllowSp), fgpr(0, GprPlain),
			},
		},
		{
			Mnemonic: MnemSUBS, Name: "ShiftedRegister",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b1101011, 7), fshiftKind(3), cbits(0, 1),
				fgpr(2, GprPlain), fshiftAmount(3, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	// CMP and CMN are aliases of SUBS/ADDS with the destination forced to
	// the zero register; represented here as their own mnemonic whose
	// recipe hard-wires Rd to 31 rather than consuming a schema slot for
	// it, matching the way the architecture itself defines them as
	// "preferred disassembly" aliases rather than distinct opcodes.
	MnemCMP: {
		{
			Mnemonic: MnemCMP, Name: "Immediate",
			Params: []ParamSpec{reqGpr(GprAllowSp), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b11100010, 8), fshiftConst(2, ShiftLSL, 12),
				fuimm(1, 12), fgpr(0, GprAllowSp), cbits(31, 5),
			},
		},
		{
			Mnemonic: MnemCMP, Name: "ShiftedRegister",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b1101011, 7), fshiftKind(2), cbits(0, 1),
				fgpr(1, GprPlain), fshiftAmount(2, 6), fgpr(0, GprPlain), cbits(31, 5),
			},
		},
	},
	MnemCMN: {
		{
			Mnemonic: MnemCMN, Name: "Immediate",
			Params: []ParamSpec{reqGpr(GprAllowSp), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b01100010, 8), fshiftConst(2, ShiftLSL, 12),
				fuimm(1, 12), fgpr(0, GprAllowSp), cbits(31, 5),
			},
		},
		{
			Mnemonic: MnemCMN, Name: "ShiftedRegister",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b0101011, 7), fshiftKind(2), cbits(0, 1),
				fgpr(1, GprPlain), fshiftAmount(2, 6), fgpr(0, GprPlain), cbits(31, 5),
			},
		},
	},
	MnemMOVZ: {
		{
			Mnemonic: MnemMOVZ, Name: "Default",
			Params: []ParamSpec{req(KindGpr), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b10100101, 8), fshiftAmount(2, 2), fuimm(1, 16), fgpr(0, GprPlain),
			},
		},
	},
	MnemMOVN: {
		{
			Mnemonic: MnemMOVN, Name: "Default",
			Params: []ParamSpec{req(KindGpr), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b00100101, 8), fshiftAmount(2, 2), fuimm(1, 16), fgpr(0, GprPlain),
			},
		},
	},
	MnemMOVK: {
		{
			Mnemonic: MnemMOVK, Name: "Default",
			Params: []ParamSpec{req(KindGpr), req(KindImm), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b11100101, 8), fshiftAmount(2, 2), fuimm(1, 16), fgpr(0, GprPlain),
			},
		},
	},
	// MOV is the register-move and wide-immediate-move alias: two
	// variants that select on the second argument's kind (a bare MOV
	// never carries a shift, so there is no ambiguity to narrow between
	// them beyond that).
	MnemMOV: {
		{
			Mnemonic: MnemMOV, Name: "Register",
			Params: []ParamSpec{reqGpr(GprAllowZr), reqGpr(GprAllowZr)},
			// alias of ORR (shifted register) Xd, XZR, Xm, LSL #0; ORR's
			// register fields never admit SP, so "MOV SP, Xn"/"MOV Xd, SP"
			// are out of scope for this alias (they are really ADD #0 in
			// the architecture's own alias table).
			Recipe: []Field{
				fsf(0), cbits(0b0101010, 7), cbits(0b00, 2), cbits(0, 1),
				fgpr(1, GprAllowZr), cbits(0, 6), cbits(31, 5), fgpr(0, GprAllowZr),
			},
		},
		{
			Mnemonic: MnemMOV, Name: "Immediate",
			Params: []ParamSpec{req(KindGpr), req(KindImm)},
			// alias of MOVZ Xd, #imm, LSL #0
			Recipe: []Field{
				fsf(0), cbits(0b10100101, 8), cbits(0b00, 2), fuimm(1, 16), fgpr(0, GprPlain),
			},
		},
	},
	MnemAND: {
		{
			Mnemonic: MnemAND, Name: "ShiftedRegister",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b0001010, 7), fshiftKind(3), cbits(0, 1),
				fgpr(2, GprPlain), fshiftAmount(3, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	MnemORR: {
		{
			Mnemonic: MnemORR, Name: "ShiftedRegister",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b0101010, 7), fshiftKind(3), cbits(0, 1),
				fgpr(2, GprPlain), fshiftAmount(3, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	MnemEOR: {
		{
			Mnemonic: MnemEOR, Name: "ShiftedRegister",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr), opt(KindShift)},
			Recipe: []Field{
				fsf(0), cbits(0b1001010, 7), fshiftKind(3), cbits(0, 1),
				fgpr(2, GprPlain), fshiftAmount(3, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	// LSL/LSR/ASR (register) are aliases of LSLV/LSRV/ASRV (data
	// processing 2-source), the variable-shift-amount register forms.
	MnemLSL: {
		{
			Mnemonic: MnemLSL, Name: "Register",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr)},
			Recipe: []Field{
				fsf(0), cbits(0b0011010110, 10), fgpr(2, GprPlain),
				cbits(0b001000, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	MnemLSR: {
		{
			Mnemonic: MnemLSR, Name: "Register",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr)},
			Recipe: []Field{
				fsf(0), cbits(0b0011010110, 10), fgpr(2, GprPlain),
				cbits(0b001001, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	MnemASR: {
		{
			Mnemonic: MnemASR, Name: "Register",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), req(KindGpr)},
			Recipe: []Field{
				fsf(0), cbits(0b0011010110, 10), fgpr(2, GprPlain),
				cbits(0b001010, 6), fgpr(1, GprPlain), fgpr(0, GprPlain),
			},
		},
	},
	// LDR/STR (unsigned immediate offset): [Xn, #imm], imm scaled by the
	// transfer size (4 bytes for Wn, 8 for Xn).
	MnemLDR: {
		{
			Mnemonic: MnemLDR, Name: "UnsignedOffset",
			Params: []ParamSpec{req(KindGpr), reqGpr(GprAllowSp), opt(KindImm)},
			Recipe: ldStRecipe(1),
		},
	},
	MnemSTR: {
		{
			Mnemonic: MnemSTR, Name: "UnsignedOffset",
			Params: []ParamSpec{req(KindGpr), reqGpr(GprAllowSp), opt(KindImm)},
			Recipe: ldStRecipe(0),
		},
	},
	// STP/LDP (signed offset): [Xn, #imm] with imm scaled by register size
	// and a paired second source/destination register.
	MnemSTP: {
		{
			Mnemonic: MnemSTP, Name: "SignedOffset",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), reqGpr(GprAllowSp), opt(KindImm)},
			Recipe: stpLdpRecipe(0),
		},
	},
	MnemLDP: {
		{
			Mnemonic: MnemLDP, Name: "SignedOffset",
			Params: []ParamSpec{req(KindGpr), req(KindGpr), reqGpr(GprAllowSp), opt(KindImm)},
			Recipe: stpLdpRecipe(1),
		},
	},
	MnemB: {
		{
			Mnemonic: MnemB, Name: "Default",
			Params: []ParamSpec{req(KindLabel)},
			Recipe: []Field{cbits(0b000101, 6), flabel(0, 26, 2)},
		},
	},
	// B.cond's condition isn't a parsed argument: it's part of the
	// mnemonic token itself ("B.EQ", "B.NE", ...). The caller that
	// narrows B.cond (emitter.go's EmitInstruction) appends the
	// parsed CondKind as a synthetic Cond operand after the declared
	// Label argument, at index 1, which is what fcond(1) below reads.
	MnemBCond: {
		{
			Mnemonic: MnemBCond, Name: "Condition",
			Params: []ParamSpec{req(KindLabel)},
			Recipe:  []Field{cbits(0b01010100, 8), flabel(0, 19, 2), cbits(0, 1), fcond(1)},
		},
	},
	MnemBL: {
		{
			Mnemonic: MnemBL, Name: "Default",
			Params: []ParamSpec{req(KindLabel)},
			Recipe: []Field{cbits(0b100101, 6), flabel(0, 26, 2)},
		},
	},
	MnemRET: {
		{
			Mnemonic: MnemRET, Name: "Default",
			Params: []ParamSpec{opt(KindGpr)},
			Recipe: []Field{
				cbits(0b1101011001011111000000, 22), fgprOrDefaultLR(0), cbits(0, 5),
			},
		},
	},
	MnemCBZ: {
		{
			Mnemonic: MnemCBZ, Name: "Default",
			Params: []ParamSpec{req(KindGpr), req(KindLabel)},
			Recipe: []Field{fsf(0), cbits(0b0110100, 7), flabel(1, 19, 2), fgpr(0, GprAllowZr)},
		},
	},
	MnemCBNZ: {
		{
			Mnemonic: MnemCBNZ, Name: "Default",
			Params: []ParamSpec{req(KindGpr), req(KindLabel)},
			Recipe: []Field{fsf(0), cbits(0b0110101, 7), flabel(1, 19, 2), fgpr(0, GprAllowZr)},
		},
	},
}

// ldStRecipe builds the LDR/STR unsigned-immediate-offset recipe; opc
// selects load (1) vs store (0). Arg indexes are (Rt, Rn, Opt(Imm)); the
// immediate's scale and the size field both track Rt's (arg 0) width.
func ldStRecipe(opc uint32) []Field {
	return []Field{
		{Kind: FSize2, Arg: 0, Width: 2},
		cbits(0b111001, 6), cbits(opc, 2),
		{Kind: FUImmAlign, Arg: 2, Width: 12, GprScaleArg: 0, HasGprScale: true},
		fgpr(1, GprAllowSp), fgpr(0, GprPlain),
	}
}

// stpLdpRecipe builds the STP/LDP signed-offset recipe; l selects load (1)
// vs store (0). Arg indexes are (Rt, Rt2, Rn, Opt(Imm)).
func stpLdpRecipe(l uint32) []Field {
	return []Field{
		{Kind: FPairOpc2, Arg: 0, Width: 2},
		cbits(0b1010010, 7), cbits(l, 1),
		{Kind: FSImmAlign, Arg: 3, Width: 7, GprScaleArg: 0, HasGprScale: true},
		fgpr(1, GprPlain), fgpr(2, GprAllowSp), fgpr(0, GprPlain),
	}
}

// fgprOrDefaultLR encodes RET's optional register operand: X30 (the link
// register) when omitted, matching "RET" as shorthand for "RET X30".
func fgprOrDefaultLR(arg int) Field {
	return Field{Kind: FGpr, Arg: arg, Width: 5, GprAllow: GprPlain,
		DefaultGpr: Gpr{RegKind: GprR, Index: 30, Size: SizeB8}, HasDefaultGpr: true}
}

// gprScaleShift maps a Gpr's size to the alignment shift its transfer
// immediate must respect: a 4-byte (Wn) transfer scales by 4 (shift 2), an
// 8-byte (Xn) transfer scales by 8 (shift 3).
func gprScaleShift(size Size) uint8 {
	if size == SizeB8 {
		return 3
	}
	return 2
}
