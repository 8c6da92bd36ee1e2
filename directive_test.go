package main

import "testing"

func TestDirectiveWordWritesRawImmediate(t *testing.T) {
	e := NewEmission()
	if err := e.ExecuteDirective("word", []Operand{Imm{Value: 0xdeadbeef}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readWord(t, e, 0); got != 0xdeadbeef {
		t.Fatalf("got %#08x, want %#08x", got, 0xdeadbeef)
	}
	if e.PC() != 4 {
		t.Fatalf("got pc %d, want 4", e.PC())
	}
}

func TestDirectiveAlignPadsCursor(t *testing.T) {
	e := NewEmission()
	if err := e.ExecuteDirective("word", []Operand{Imm{Value: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.ExecuteDirective("align", []Operand{Imm{Value: 16}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.PC() != 16 {
		t.Fatalf("got pc %d, want 16", e.PC())
	}
}

func TestDirectiveGlobalMarksLabelExported(t *testing.T) {
	e := NewEmission()
	lbl := e.Interner.Intern("_start")
	if err := e.DefineLabel("_start"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.ExecuteDirective("global", []Operand{Label{Name: lbl}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsExported(lbl) {
		t.Fatalf("expected _start to be marked exported")
	}
}

func TestDirectiveUnknownNameIsError(t *testing.T) {
	e := NewEmission()
	if err := e.ExecuteDirective("bogus", nil); err == nil {
		t.Fatalf("expected an error for an unknown directive")
	}
}

func TestDirectiveWordWrongArgCountIsUnmatched(t *testing.T) {
	e := NewEmission()
	err := e.ExecuteDirective("word", []Operand{Imm{Value: 1}, Imm{Value: 2}})
	if err == nil {
		t.Fatalf("expected an error for .word with two arguments")
	}
}

func TestDirectiveGlobalRejectsNonLabelArgument(t *testing.T) {
	e := NewEmission()
	err := e.ExecuteDirective("global", []Operand{Imm{Value: 1}})
	if err == nil {
		t.Fatalf("expected an error for .global given an immediate instead of a label")
	}
}

func TestDirectiveNameIsCaseInsensitive(t *testing.T) {
	e := NewEmission()
	if err := e.ExecuteDirective("WORD", []Operand{Imm{Value: 7}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readWord(t, e, 0); got != 7 {
		t.Fatalf("got %#08x, want %#08x", got, 7)
	}
}
