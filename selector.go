package main

// Variant narrowing: given a mnemonic and the argument list a parser
// produced, find the one candidate Variant whose schema matches and
// return its resolved argument slice (one Operand per Param, nil for an
// absent Optional). This is a whole-list match rather than the
// incremental allow()/check_next() streaming pass the Rust side runs
// while parsing one token at a time: Go's parser already builds the
// complete argument list before selection ever runs, so there is
// nothing left to stream over and a single pass over each candidate's
// schema is the direct equivalent.

// matchVariant reports whether args satisfies the parameter schema params
// (an instruction Variant's or a DirectiveVariant's), and if so returns
// the resolved argument slice (len(params), with a nil entry wherever an
// Optional param had nothing supplied).
func matchVariant(params []ParamSpec, args []Operand) ([]Operand, bool) {
	resolved := make([]Operand, len(params))
	ai := 0
	for pi, p := range params {
		if ai < len(args) && kindMatches(p, args[ai]) {
			resolved[pi] = args[ai]
			ai++
			continue
		}
		if p.Optional {
			resolved[pi] = nil
			continue
		}
		return nil, false
	}
	if ai != len(args) {
		return nil, false
	}
	return resolved, true
}

// kindMatches reports whether arg is acceptable in a parameter position,
// including the GprAllow legality check for Gpr positions (SP/ZR are
// only acceptable where the schema says so).
func kindMatches(p ParamSpec, arg Operand) bool {
	if arg.Kind() != p.Kind {
		return false
	}
	if p.Kind != KindGpr {
		return true
	}
	g := arg.(Gpr)
	switch g.RegKind {
	case GprR:
		return true
	case GprSP:
		return p.GprAllow == GprAllowSp
	case GprZR:
		return p.GprAllow == GprAllowZr
	default:
		return false
	}
}

// SelectVariant narrows mnemonic's candidate list against args, requiring
// exactly one candidate to match. Schemas that would otherwise overlap
// (ADD's ShiftedRegister and ExtendedRegister both accept three plain
// registers) are disambiguated in the table itself — ShiftedRegister's
// trailing shift is Required, so a bare three-register ADD only
// satisfies ExtendedRegister — rather than by preferring one match over
// another here; the selector treats more than one match as a genuine
// ambiguity (ErrMultiple), not something it resolves by ordering.
func SelectVariant(mnemonic Mnemonic, args []Operand) (Variant, []Operand, error) {
	candidates, ok := instrTable[mnemonic]
	if !ok || len(candidates) == 0 {
		return Variant{}, nil, &EncodeError{Code: ErrUnmatchedVariant, Msg: mnemonic.String()}
	}
	var match Variant
	var resolved []Operand
	matches := 0
	for _, v := range candidates {
		if r, ok := matchVariant(v.Params, args); ok {
			match, resolved = v, r
			matches++
		}
	}
	switch matches {
	case 0:
		return Variant{}, nil, &EncodeError{Code: ErrUnmatchedVariant, Msg: mnemonic.String()}
	case 1:
		return match, resolved, nil
	default:
		return Variant{}, nil, &EncodeError{Code: ErrMultiple, Msg: mnemonic.String()}
	}
}

// SelectDirectiveVariant narrows name's candidate list in directiveTable
// against args using the same schema machinery as SelectVariant — a
// directive is just a mnemonic whose "encoding" is a Go handler instead
// of a bit-field recipe, so argument narrowing follows the identical
// single-match-or-error shape.
func SelectDirectiveVariant(name string, args []Operand) (DirectiveVariant, []Operand, error) {
	candidates, ok := directiveTable[name]
	if !ok || len(candidates) == 0 {
		return DirectiveVariant{}, nil, &EncodeError{Code: ErrUnmatchedVariant, Msg: "." + name}
	}
	var match DirectiveVariant
	var resolved []Operand
	matches := 0
	for _, v := range candidates {
		if r, ok := matchVariant(v.Params, args); ok {
			match, resolved = v, r
			matches++
		}
	}
	switch matches {
	case 0:
		return DirectiveVariant{}, nil, &EncodeError{Code: ErrUnmatchedVariant, Msg: "." + name}
	case 1:
		return match, resolved, nil
	default:
		return DirectiveVariant{}, nil, &EncodeError{Code: ErrMultiple, Msg: "." + name}
	}
}
