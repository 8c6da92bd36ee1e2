package main

import "testing"

func TestDiagnosticsAccumulatesAcrossLevels(t *testing.T) {
	d := NewDiagnostics("in.s")
	d.Warn(CategorySyntax, Span{Line: 1, Column: 1}, "unused label %q", "foo")
	d.Error(CategorySemantic, Span{Line: 2, Column: 3}, "undefined label %q", "bar")
	if !d.HasErrors() {
		t.Fatalf("expected HasErrors true")
	}
	if d.HasFatal() {
		t.Fatalf("expected HasFatal false")
	}
	if got := d.Count(LevelWarning); got != 1 {
		t.Fatalf("got %d warnings, want 1", got)
	}
	if got := d.Count(LevelError); got != 1 {
		t.Fatalf("got %d errors, want 1", got)
	}
	items := d.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Span.File != "in.s" {
		t.Fatalf("expected collector to stamp the file name, got %q", items[0].Span.File)
	}
}

func TestDiagnosticsErrorAtWrapsEncodeError(t *testing.T) {
	d := NewDiagnostics("in.s")
	d.ErrorAt(CategoryEncoding, Span{Line: 5, Column: 1}, &EncodeError{Code: ErrOutOfRange, Msg: "#4096"})
	items := d.Items()
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Category != CategoryEncoding {
		t.Fatalf("got category %v, want CategoryEncoding", items[0].Category)
	}
}

func TestDiagnosticsReportIncludesSummary(t *testing.T) {
	d := NewDiagnostics("in.s")
	d.Error(CategoryFixup, Span{Line: 1, Column: 1}, "label %q never defined", "done")
	report := d.Report()
	if report == "" {
		t.Fatalf("expected non-empty report")
	}
}

func TestDiagnosticsFatalIsDetected(t *testing.T) {
	d := NewDiagnostics("in.s")
	d.Fatal(CategoryEncoding, Span{Line: 1, Column: 1}, "internal: recipe does not sum to 32 bits")
	if !d.HasFatal() {
		t.Fatalf("expected HasFatal true")
	}
}
