package main

// Fixup records a label reference encoded before its address was known:
// the instruction word's address (PC, for the PC-relative offset math),
// how many bits of that word had already been pushed when the
// placeholder field went in (BitIdx, MSB-relative — the bit stack's
// length at push time, not an LSB offset), the field's width, and its
// alignment shift. Resolving a fixup re-runs the same signed, scaled
// encoding the original field used and patches just that slice of bits.
type Fixup struct {
	Label      LabelKey
	PC         uint64
	BitIdx     uint8
	Width      uint8
	ShiftAlign uint8
}

// Emission is the assembler's running state: the page-addressed output
// buffer, the current write position, the label symbol table, and the
// fixups deferred until every label is known. One Emission assembles one
// translation unit start to finish.
type Emission struct {
	Bin      *SparseBin
	Interner *LabelInterner

	pc      uint64
	labels  map[LabelKey]uint64
	exports map[LabelKey]bool
	fixups  []Fixup
	stack   BitStack
}

// NewEmission returns an emitter starting at address 0.
func NewEmission() *Emission {
	return &Emission{
		Bin:      NewSparseBin(),
		Interner: NewLabelInterner(),
		labels:   make(map[LabelKey]uint64),
		exports:  make(map[LabelKey]bool),
	}
}

// PC returns the address of the instruction currently being encoded.
func (e *Emission) PC() uint64 { return e.pc }

// BitIdx returns how many bits of the current instruction word have
// already been pushed onto the bit stack.
func (e *Emission) BitIdx() uint8 { return e.stack.Len() }

// ResolveLabel looks up a previously defined label's address.
func (e *Emission) ResolveLabel(k LabelKey) (uint64, bool) {
	addr, ok := e.labels[k]
	return addr, ok
}

// PushLabelFixup defers a label encoding until every label is known.
func (e *Emission) PushLabelFixup(fx Fixup) {
	e.fixups = append(e.fixups, fx)
}

// SetOrigin moves the write cursor without writing data, leaving a gap
// in the address space.
func (e *Emission) SetOrigin(pc uint64) { e.pc = pc }

// DefineLabel binds name to the current address, failing if it was
// already defined.
func (e *Emission) DefineLabel(name string) error {
	k := e.Interner.Intern(name)
	if _, ok := e.labels[k]; ok {
		return &EncodeError{Code: ErrDuplicateLabel, Msg: name}
	}
	e.labels[k] = e.pc
	return nil
}

// IsExported reports whether the label k was named in a .global directive.
func (e *Emission) IsExported(k LabelKey) bool { return e.exports[k] }

// LabelAddress looks up a defined label's address by name, for callers
// (the ELF writer's entry-point lookup) that only have the source name.
func (e *Emission) LabelAddress(name string) (uint64, bool) {
	k, ok := e.Interner.Get(name)
	if !ok {
		return 0, false
	}
	return e.ResolveLabel(k)
}

// EmitInstruction narrows mnemonicTok/args to a single instruction
// variant and encodes it, advancing the write cursor by 4 bytes.
func (e *Emission) EmitInstruction(mnemonicTok string, args []Operand) error {
	mnemonic, cond, ok := MnemonicFromString(mnemonicTok)
	if !ok {
		return &EncodeError{Code: ErrUnmatchedVariant, Msg: mnemonicTok}
	}
	variant, resolved, err := SelectVariant(mnemonic, args)
	if err != nil {
		return err
	}
	if mnemonic == MnemBCond {
		// The condition rode in on the mnemonic token itself, not the
		// parsed argument list; append it as the synthetic operand
		// instrtable.go's fcond(1) expects.
		resolved = append(resolved, Cond{Kind: cond})
	}
	return e.emitVariant(variant, resolved)
}

func (e *Emission) emitVariant(v Variant, args []Operand) error {
	e.stack = BitStack{}
	startPC := e.pc
	for _, f := range v.Recipe {
		ef, err := applyField(e, f, args)
		if err != nil {
			return err
		}
		e.stack.Push(ef.Bits, ef.Width)
	}
	if !e.stack.AllBitsWritten() {
		panic("emitter: " + v.Mnemonic.String() + "/" + v.Name + " recipe does not sum to 32 bits")
	}
	addr, ok := NewAligned4(startPC)
	if !ok {
		panic("emitter: instruction address is not 4-byte aligned")
	}
	e.Bin.WriteU32(addr, e.stack.Value())
	e.pc = startPC + 4
	return nil
}

// ResolveFixups re-encodes every deferred label reference now that
// assembly is complete, patching each instruction word in place. Call
// once, after every instruction and directive has been processed.
func (e *Emission) ResolveFixups() []error {
	var errs []error
	for _, fx := range e.fixups {
		addr, ok := e.labels[fx.Label]
		if !ok {
			errs = append(errs, &EncodeError{Code: ErrResolve, Msg: e.Interner.Resolve(fx.Label)})
			continue
		}
		offset := int64(addr) - int64(fx.PC)
		ef, err := EncodeSImmAlign(fx.Width, fx.ShiftAlign, Imm{Value: offset})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wordAddr, ok := NewAligned4(fx.PC)
		if !ok {
			panic("emitter: fixup address is not 4-byte aligned")
		}
		// Fixup.BitIdx is the bit stack's length (MSB-relative) at the
		// moment the placeholder field was pushed; Patch wants an
		// LSB-relative offset into the finished 32-bit word.
		offsetFromLsb := 32 - fx.BitIdx - fx.Width
		word := e.Bin.GetU32(wordAddr)
		e.Bin.WriteU32(wordAddr, Patch(word, ef.Bits, fx.Width, offsetFromLsb))
	}
	return errs
}

// applyField runs the one encoder a recipe field names against the
// resolved argument list, dispatching on FieldKind.
func applyField(e *Emission, f Field, args []Operand) (EncodedField, error) {
	switch f.Kind {
	case FConst:
		return field(f.ConstBits, f.Width), nil

	case FSf:
		g, err := argGpr(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		return EncodeSf(g), nil

	case FGpr:
		g, err := resolveGprArg(f, args)
		if err != nil {
			return EncodedField{}, err
		}
		switch f.GprAllow {
		case GprAllowSp:
			return EncodeGprOrSp(g)
		case GprAllowZr:
			return EncodeGprOrZr(g)
		default:
			return EncodeGpr(g)
		}

	case FUImm:
		imm, err := argImm(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		return EncodeUImm(f.Width, imm)

	case FSImm:
		imm, err := argImm(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		return EncodeSImm(f.Width, imm)

	case FUImmAlign:
		imm, err := argImm(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		shift, err := resolveScaleShift(f, args)
		if err != nil {
			return EncodedField{}, err
		}
		return EncodeUImmAlign(f.Width, shift, imm)

	case FSImmAlign:
		imm, err := argImm(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		shift, err := resolveScaleShift(f, args)
		if err != nil {
			return EncodedField{}, err
		}
		return EncodeSImmAlign(f.Width, shift, imm)

	case FShiftKind:
		return EncodeShiftKind(argShift(args, f.Arg)), nil

	case FShiftAmount:
		s := argShift(args, f.Arg)
		if s != nil && !fitsUnsigned(uint64(s.Amount), f.Width) {
			return EncodedField{}, &EncodeError{Code: ErrOutOfRange, Msg: "shift amount"}
		}
		return EncodeShiftAmount(f.Width, s), nil

	case FShiftConst:
		return EncodeShiftConst(f.FixedShiftKind, f.FixedShiftAmount, argShift(args, f.Arg))

	case FExtendKind:
		ext := argExtend(args, f.Arg)
		rm, err := argGpr(args, f.ExtGprArg)
		if err != nil {
			return EncodedField{}, err
		}
		if err := ValidExtendWidth(ext, rm); err != nil {
			return EncodedField{}, err
		}
		return EncodeExtendKind(ext), nil

	case FExtendLShift:
		ext := argExtend(args, f.Arg)
		if ext != nil && ext.LeftShiftAmount != nil && !fitsUnsigned(uint64(*ext.LeftShiftAmount), f.Width) {
			return EncodedField{}, &EncodeError{Code: ErrOutOfRange, Msg: "extend shift amount"}
		}
		return EncodeExtendLShift(ext), nil

	case FCond:
		c, err := argCond(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		return EncodeCond(c), nil

	case FLabel:
		lbl, err := argLabel(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		return EncodeLabel(f.Width, f.ShiftAlign, lbl, e)

	case FSize2:
		g, err := argGpr(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		if g.Size == SizeB8 {
			return field(0b11, 2), nil
		}
		return field(0b10, 2), nil

	case FPairOpc2:
		g, err := argGpr(args, f.Arg)
		if err != nil {
			return EncodedField{}, err
		}
		if g.Size == SizeB8 {
			return field(0b10, 2), nil
		}
		return field(0b00, 2), nil

	default:
		return EncodedField{}, &EncodeError{Code: ErrUnexpected, Msg: "unknown field kind"}
	}
}

// resolveGprArg reads the Gpr at f.Arg, substituting f.DefaultGpr when
// the argument is absent and the field declared one (RET's implicit
// X30), and rejecting absence otherwise.
func resolveGprArg(f Field, args []Operand) (Gpr, error) {
	op := argAt(args, f.Arg)
	if op == nil {
		if f.HasDefaultGpr {
			return f.DefaultGpr, nil
		}
		return Gpr{}, &EncodeError{Code: ErrRequired}
	}
	g, ok := op.(Gpr)
	if !ok {
		return Gpr{}, &EncodeError{Code: ErrInvalidGpr}
	}
	return g, nil
}

// resolveScaleShift returns f.ShiftAlign, or, when the field tracks
// another argument's register width (LDR/STR/STP/LDP), the shift that
// register's size implies.
func resolveScaleShift(f Field, args []Operand) (uint8, error) {
	if !f.HasGprScale {
		return f.ShiftAlign, nil
	}
	g, err := argGpr(args, f.GprScaleArg)
	if err != nil {
		return 0, err
	}
	return gprScaleShift(g.Size), nil
}

func argAt(args []Operand, i int) Operand {
	if i < 0 || i >= len(args) {
		return nil
	}
	return args[i]
}

func argGpr(args []Operand, i int) (Gpr, error) {
	op := argAt(args, i)
	if op == nil {
		return Gpr{}, &EncodeError{Code: ErrRequired}
	}
	g, ok := op.(Gpr)
	if !ok {
		return Gpr{}, &EncodeError{Code: ErrInvalidGpr}
	}
	return g, nil
}

func argImm(args []Operand, i int) (Imm, error) {
	op := argAt(args, i)
	if op == nil {
		return Imm{}, &EncodeError{Code: ErrRequired}
	}
	imm, ok := op.(Imm)
	if !ok {
		return Imm{}, &EncodeError{Code: ErrUnexpected}
	}
	return imm, nil
}

func argCond(args []Operand, i int) (Cond, error) {
	op := argAt(args, i)
	if op == nil {
		return Cond{}, &EncodeError{Code: ErrRequired}
	}
	c, ok := op.(Cond)
	if !ok {
		return Cond{}, &EncodeError{Code: ErrUnexpected}
	}
	return c, nil
}

func argLabel(args []Operand, i int) (Label, error) {
	op := argAt(args, i)
	if op == nil {
		return Label{}, &EncodeError{Code: ErrRequired}
	}
	l, ok := op.(Label)
	if !ok {
		return Label{}, &EncodeError{Code: ErrUnexpected}
	}
	return l, nil
}

func argShift(args []Operand, i int) *Shift {
	op := argAt(args, i)
	if op == nil {
		return nil
	}
	s := op.(Shift)
	return &s
}

func argExtend(args []Operand, i int) *Extend {
	op := argAt(args, i)
	if op == nil {
		return nil
	}
	ex := op.(Extend)
	return &ex
}
