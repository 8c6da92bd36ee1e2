package main

import (
	"fmt"
	"os"
)

// Assemble reads the assembly source at inputPath, runs it through the
// full pipeline (lex, parse, resolve operands, emit, patch fixups), and
// writes a standalone ELF64 executable to outputPath. This is the one
// entry point main.go calls; tests exercise the stages it wires
// individually.
func Assemble(inputPath, outputPath string) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	tops, diags := ParseSource(inputPath, string(src))
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "aasm: parsed %d top-level item(s) from %s\n", len(tops), inputPath)
	}

	e := NewEmission()
	for _, top := range tops {
		if err := emitTop(e, top); err != nil {
			diags.ErrorAt(CategorySemantic, spanOf(top), err)
		}
	}
	for _, fixupErr := range e.ResolveFixups() {
		diags.ErrorAt(CategoryFixup, Span{File: inputPath}, fixupErr)
	}

	if VerboseMode || diags.HasErrors() {
		fmt.Fprint(os.Stderr, diags.Report())
	}
	if diags.HasErrors() {
		return fmt.Errorf("assembly of %s failed with %d error(s)",
			inputPath, diags.Count(LevelError)+diags.Count(LevelFatal))
	}

	entryAddr := uint64(0)
	if addr, ok := e.LabelAddress("_start"); ok {
		entryAddr = addr
	}
	w := NewELFWriter(e.Bin, EntryAddress(entryAddr))
	img := w.Write(e.PC())

	if err := os.WriteFile(outputPath, img, 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "aasm: wrote %s (%d bytes)\n", outputPath, len(img))
	}
	return nil
}

// emitTop dispatches one parsed top-level item to the emitter: a label
// definition, a directive, an instruction, or (a line the parser already
// gave up on and recorded) nothing at all.
func emitTop(e *Emission, top Top) error {
	switch t := top.(type) {
	case TopLabel:
		return e.DefineLabel(t.Name)
	case TopDirective:
		args, err := e.ResolveArgs(t.Args)
		if err != nil {
			return err
		}
		return e.ExecuteDirective(t.Name.Value, args)
	case TopInstruction:
		args, err := e.ResolveArgs(t.Args)
		if err != nil {
			return err
		}
		return e.EmitInstruction(t.Mnem.Value, args)
	case TopError:
		return nil
	default:
		return fmt.Errorf("unknown top-level item %T", top)
	}
}

func spanOf(top Top) Span {
	switch t := top.(type) {
	case TopLabel:
		return t.Span
	case TopDirective:
		return t.Span
	case TopInstruction:
		return t.Span
	case TopError:
		return t.Span
	default:
		return Span{}
	}
}
