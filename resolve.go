package main

import "strings"

// ResolveOperand converts one parsed argument expression into the Operand
// value the selector and encoder work with. Register and scalar-FP names
// resolve directly against the register tables; anything else identifier-
// shaped falls back to a label reference, interned so it can be resolved
// (or deferred as a fixup) once every label in the unit is known.
func (e *Emission) ResolveOperand(expr Expr) (Operand, error) {
	switch v := expr.(type) {
	case ExprIdent:
		return e.resolveIdent(v.Name), nil
	case ExprInt:
		return Imm{Value: v.Value}, nil
	case ExprFloat:
		return nil, &EncodeError{Code: ErrUnexpected, Msg: "floating-point literals are not a valid instruction operand"}
	case ExprModified:
		return e.resolveModified(v)
	case ExprMem:
		return nil, &EncodeError{Code: ErrUnexpected, Msg: "'[...]' may only appear as a whole argument, not nested in one"}
	default:
		return nil, &EncodeError{Code: ErrUnexpected, Msg: "unsupported operand"}
	}
}

func (e *Emission) resolveIdent(name string) Operand {
	if validRegisterCase(name) {
		lower := strings.ToLower(name)
		if g, ok := GprByName(lower); ok {
			return g
		}
		if d, ok := DprByName(lower); ok {
			return d
		}
	}
	return Label{Name: e.Interner.Intern(name)}
}

// validRegisterCase reports whether name is spelled entirely lowercase
// or entirely uppercase — register names are case-insensitive but never
// mixed-case ("Sp", "wZr" are not register spellings, just identifiers
// that happen to collide with one letter-for-letter).
func validRegisterCase(name string) bool {
	return name == strings.ToLower(name) || name == strings.ToUpper(name)
}

func (e *Emission) resolveModified(m ExprModified) (Operand, error) {
	if k, ok := ShiftKindByName(m.Modifier); ok {
		var amount uint8
		if m.Amount != nil {
			amount = uint8(*m.Amount)
		}
		return Shift{Kind: k, Amount: amount}, nil
	}
	if k, ok := ExtendKindByName(m.Modifier); ok {
		var amt *uint8
		if m.Amount != nil {
			a := uint8(*m.Amount)
			amt = &a
		}
		return Extend{Kind: k, LeftShiftAmount: amt}, nil
	}
	return nil, &EncodeError{Code: ErrUnexpected, Msg: "unknown shift/extend modifier " + m.Modifier}
}

// ResolveArgs flattens a parsed argument list into the Operand slice
// EmitInstruction and ExecuteDirective expect. A bracketed address
// expression occupies one argument slot in the source ("[SP, #16]") but
// becomes two resolved operands here, the base register and an offset
// immediate (defaulting to #0 when the source wrote none) — matching how
// LDR/STR/STP/LDP declare the offset as its own, optional Imm parameter
// rather than a single combined memory-operand kind.
func (e *Emission) ResolveArgs(exprs []Expr) ([]Operand, error) {
	var out []Operand
	for _, expr := range exprs {
		mem, ok := expr.(ExprMem)
		if !ok {
			op, err := e.ResolveOperand(expr)
			if err != nil {
				return nil, err
			}
			out = append(out, op)
			continue
		}
		if !validRegisterCase(mem.Base) {
			return nil, &EncodeError{Code: ErrInvalidGpr, Msg: mem.Base}
		}
		base, ok := GprByName(strings.ToLower(mem.Base))
		if !ok {
			return nil, &EncodeError{Code: ErrInvalidGpr, Msg: mem.Base}
		}
		offset := Imm{Value: 0}
		if mem.Offset != nil {
			op, err := e.ResolveOperand(*mem.Offset)
			if err != nil {
				return nil, err
			}
			imm, ok := op.(Imm)
			if !ok {
				return nil, &EncodeError{Code: ErrUnexpected, Msg: "address offset must be an immediate"}
			}
			offset = imm
		}
		out = append(out, base, offset)
	}
	return out, nil
}
