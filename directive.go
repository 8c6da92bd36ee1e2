package main

import "strings"

// The directive engine runs assembler pseudo-ops: anything in the
// source that shapes the output without being an instruction. The
// original only defines one (.global, a no-op that just marks a label
// exported); this one adds .word and .align so there is more than a
// single handler to dispatch between, and so an assembled binary can
// actually lay out data next to code.
//
// Directives share the same ParamSpec/matchVariant schema machinery as
// instructions (selector.go): each directive name maps to a candidate
// list of DirectiveVariant, narrowed against the resolved argument list
// exactly the way SelectVariant narrows an instruction's, rather than a
// bespoke per-directive switch/type-assertion dispatcher.

// DirectiveVariant is a directive's counterpart to Variant: a parameter
// schema to match the resolved argument list against, and a Handler to
// run once matched in place of an instruction's bit-field Recipe.
type DirectiveVariant struct {
	Name    string
	Params  []ParamSpec
	Handler func(e *Emission, args []Operand) error
}

// directiveTable maps every directive name (lowercased) to its candidate
// variants, the direct counterpart of instrTable.
var directiveTable = map[string][]DirectiveVariant{
	"global": {
		{Name: "Default", Params: []ParamSpec{req(KindLabel)}, Handler: execGlobal},
	},
	"word": {
		{Name: "Default", Params: []ParamSpec{req(KindImm)}, Handler: execWord},
	},
	"align": {
		{Name: "Default", Params: []ParamSpec{req(KindImm)}, Handler: execAlign},
	},
}

// ExecuteDirective runs one parsed directive against e, advancing the
// write cursor (.word) or moving it forward without writing (.align),
// or recording symbol visibility (.global) without touching the cursor
// at all.
func (e *Emission) ExecuteDirective(name string, args []Operand) error {
	v, resolved, err := SelectDirectiveVariant(strings.ToLower(name), args)
	if err != nil {
		return err
	}
	return v.Handler(e, resolved)
}

func execGlobal(e *Emission, args []Operand) error {
	lbl, err := argLabel(args, 0)
	if err != nil {
		return err
	}
	e.exports[lbl.Name] = true
	return nil
}

func execWord(e *Emission, args []Operand) error {
	imm, err := argImm(args, 0)
	if err != nil {
		return err
	}
	if !fitsUnsigned(uint64(imm.Value), 32) && !fitsSigned(imm.Value, 32) {
		return &EncodeError{Code: ErrOutOfRange, Msg: ".word value does not fit in 32 bits"}
	}
	addr, ok := NewAligned4(e.pc)
	if !ok {
		return &EncodeError{Code: ErrNotAligned, Msg: ".word requires a 4-byte-aligned position"}
	}
	e.Bin.WriteU32(addr, uint32(imm.Value))
	e.pc += 4
	return nil
}

func execAlign(e *Emission, args []Operand) error {
	imm, err := argImm(args, 0)
	if err != nil {
		return err
	}
	if imm.Value <= 0 || imm.Value&(imm.Value-1) != 0 {
		return &EncodeError{Code: ErrUnexpected, Msg: ".align argument must be a positive power of two"}
	}
	e.pc = alignUp(e.pc, uint64(imm.Value))
	return nil
}
