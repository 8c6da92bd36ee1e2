package main

import "testing"

func TestResolveArgsPlainRegisters(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{
		ExprIdent{Name: "X1"},
		ExprIdent{Name: "X2"},
		ExprIdent{Name: "X3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("got %d operands, want 3: %+v", len(ops), ops)
	}
	for i, want := range []Gpr{
		{RegKind: GprR, Index: 1, Size: SizeB8},
		{RegKind: GprR, Index: 2, Size: SizeB8},
		{RegKind: GprR, Index: 3, Size: SizeB8},
	} {
		g, ok := ops[i].(Gpr)
		if !ok || g != want {
			t.Fatalf("operand %d: got %+v, want %+v", i, ops[i], want)
		}
	}
}

func TestResolveArgsShiftModifier(t *testing.T) {
	e := NewEmission()
	amount := int64(3)
	ops, err := e.ResolveArgs([]Expr{
		ExprModified{Base: ExprIdent{Name: "X3"}, Modifier: "LSL", Amount: &amount},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shift, ok := ops[0].(Shift)
	if !ok || shift.Kind != ShiftLSL || shift.Amount != 3 {
		t.Fatalf("got %+v, want Shift{LSL, 3}", ops[0])
	}
}

func TestResolveArgsExtendModifierWithoutAmount(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{
		ExprModified{Base: ExprIdent{Name: "X3"}, Modifier: "UXTX"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ext, ok := ops[0].(Extend)
	if !ok || ext.Kind != ExtUXTX || ext.LeftShiftAmount != nil {
		t.Fatalf("got %+v, want Extend{UXTX, nil}", ops[0])
	}
}

func TestResolveArgsMemoryOperandFlattensToBaseAndOffset(t *testing.T) {
	e := NewEmission()
	offset := Expr(ExprInt{Value: 16})
	ops, err := e.ResolveArgs([]Expr{
		ExprIdent{Name: "X0"},
		ExprMem{Base: "SP", Offset: &offset},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("got %d operands, want 3 (Rt, Rn, imm): %+v", len(ops), ops)
	}
	base, ok := ops[1].(Gpr)
	if !ok || base.RegKind != GprSP {
		t.Fatalf("got %+v, want the SP register", ops[1])
	}
	imm, ok := ops[2].(Imm)
	if !ok || imm.Value != 16 {
		t.Fatalf("got %+v, want Imm{16}", ops[2])
	}
}

func TestResolveArgsMemoryOperandWithoutOffsetDefaultsToZero(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{
		ExprIdent{Name: "X0"},
		ExprMem{Base: "SP"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	imm, ok := ops[2].(Imm)
	if !ok || imm.Value != 0 {
		t.Fatalf("got %+v, want Imm{0}", ops[2])
	}
}

func TestResolveArgsUnknownIdentifierBecomesLabel(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{ExprIdent{Name: "loop_start"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lbl, ok := ops[0].(Label)
	if !ok {
		t.Fatalf("got %T, want Label", ops[0])
	}
	if e.Interner.Resolve(lbl.Name) != "loop_start" {
		t.Fatalf("got label %q, want loop_start", e.Interner.Resolve(lbl.Name))
	}
}

func TestResolveArgsLowercaseRegisterNameResolves(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{ExprIdent{Name: "x1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, ok := ops[0].(Gpr)
	if !ok || g.RegKind != GprR || g.Index != 1 {
		t.Fatalf("got %+v, want X1", ops[0])
	}
}

func TestResolveArgsMixedCaseRegisterNameBecomesLabelNotRegister(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{ExprIdent{Name: "Sp"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ops[0].(Gpr); ok {
		t.Fatalf("got %+v, want a mixed-case spelling to NOT resolve as a register", ops[0])
	}
	lbl, ok := ops[0].(Label)
	if !ok {
		t.Fatalf("got %T, want Label", ops[0])
	}
	if e.Interner.Resolve(lbl.Name) != "Sp" {
		t.Fatalf("got label %q, want Sp", e.Interner.Resolve(lbl.Name))
	}
}

func TestResolveArgsMixedCaseMemoryBaseIsInvalidGpr(t *testing.T) {
	e := NewEmission()
	_, err := e.ResolveArgs([]Expr{ExprMem{Base: "wZr"}})
	if err == nil {
		t.Fatalf("expected an error for a mixed-case memory base register")
	}
	encErr, ok := err.(*EncodeError)
	if !ok || encErr.Code != ErrInvalidGpr {
		t.Fatalf("got %v, want ErrInvalidGpr", err)
	}
}

func TestResolveArgsUppercaseMemoryBaseResolves(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{ExprMem{Base: "SP"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base, ok := ops[0].(Gpr)
	if !ok || base.RegKind != GprSP {
		t.Fatalf("got %+v, want the SP register", ops[0])
	}
}

func TestResolveArgsEndToEndThroughEmitInstruction(t *testing.T) {
	e := NewEmission()
	ops, err := e.ResolveArgs([]Expr{
		ExprIdent{Name: "X1"},
		ExprIdent{Name: "X2"},
		ExprIdent{Name: "X3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.EmitInstruction("ADD", ops); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.PC() != 4 {
		t.Fatalf("got pc %d, want 4", e.PC())
	}
}
