package main

import "fmt"

// Node is anything the parser produces that can render itself back to
// source-like text for diagnostics and debugging.
type Node interface {
	String() string
}

// Top is one top-level item: a label definition, a directive, an
// instruction, or a line the parser could not make sense of.
type Top interface {
	Node
	topNode()
}

// TopLabel is a `name:` line, defining name at the current address.
type TopLabel struct {
	Name string
	Span Span
}

func (TopLabel) topNode() {}
func (t TopLabel) String() string { return t.Name + ":" }

// TopInstruction is a mnemonic plus its operand expressions. Mnem's
// Value already carries any `.cond` suffix (`B.EQ`) as a single token,
// per MnemonicFromString.
type TopInstruction struct {
	Mnem Token
	Args []Expr
	Span Span
}

func (TopInstruction) topNode() {}

func (t TopInstruction) String() string {
	s := t.Mnem.Value
	for i, a := range t.Args {
		if i == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += a.String()
	}
	return s
}

// TopDirective is a `.name arg, ...` pseudo-op line.
type TopDirective struct {
	Name Token
	Args []Expr
	Span Span
}

func (TopDirective) topNode() {}

func (t TopDirective) String() string {
	s := "." + t.Name.Value
	for i, a := range t.Args {
		if i == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += a.String()
	}
	return s
}

// TopError marks a line the parser rejected; the diagnostic explaining
// why was already recorded against a *Diagnostics collector. It lets
// the emitter skip the line without aborting the rest of the file.
type TopError struct {
	Span Span
}

func (TopError) topNode()         {}
func (TopError) String() string { return "<error>" }

// Expr is one operand expression: an identifier (register name,
// condition suffix, label reference), a literal, a memory address
// form, or an identifier modified by a trailing shift/extend/scale.
type Expr interface {
	Node
	exprNode()
}

// ExprIdent is a bare identifier: a register name or a label reference.
// A B.cond condition stays part of TopInstruction.Mnem and never appears
// as an argument.
type ExprIdent struct {
	Name string
	Span Span
}

func (ExprIdent) exprNode()       {}
func (e ExprIdent) String() string { return e.Name }

// ExprInt is a `#`-prefixed integer literal (decimal, 0x hex, 0b binary,
// with optional `_` digit separators already stripped by the lexer).
type ExprInt struct {
	Value int64
	Span  Span
}

func (ExprInt) exprNode()       {}
func (e ExprInt) String() string { return fmt.Sprintf("#%d", e.Value) }

// ExprFloat is a `#`-prefixed floating-point literal.
type ExprFloat struct {
	Value float64
	Span  Span
}

func (ExprFloat) exprNode()       {}
func (e ExprFloat) String() string { return fmt.Sprintf("#%g", e.Value) }

// ExprMem is the bracketed addressing form: `[reg]` or `[reg, #imm]`.
type ExprMem struct {
	Base   string
	Offset *Expr
	Span   Span
}

func (ExprMem) exprNode() {}

func (e ExprMem) String() string {
	if e.Offset == nil {
		return fmt.Sprintf("[%s]", e.Base)
	}
	return fmt.Sprintf("[%s, %s]", e.Base, (*e.Offset).String())
}

// ExprModified is an identifier-followed-by-integer operand, a shift
// (`LSL #3`) or an extend (`UXTW #2`), or a bare extend name (`UXTX`,
// Amount nil). Modifier is the identifier's text, upper-cased by the
// parser. The parser builds one for any identifier followed by an
// integer; ResolveOperand accepts only shift and extend names.
type ExprModified struct {
	Base     Expr
	Modifier string
	Amount   *int64
	Span     Span
}

func (ExprModified) exprNode() {}

func (e ExprModified) String() string {
	if e.Amount == nil {
		return e.Modifier
	}
	return fmt.Sprintf("%s #%d", e.Modifier, *e.Amount)
}
