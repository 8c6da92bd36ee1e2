package main

import (
	"fmt"
	"strings"
)

// ErrorLevel is the severity of a diagnostic.
type ErrorLevel int

const (
	LevelWarning ErrorLevel = iota
	LevelError
	LevelFatal
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal error"
	default:
		return "unknown"
	}
}

// Category classifies where in the pipeline a diagnostic originated.
type Category int

const (
	CategorySyntax Category = iota
	CategorySemantic
	CategoryEncoding
	CategoryFixup
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategorySemantic:
		return "semantic"
	case CategoryEncoding:
		return "encoding"
	case CategoryFixup:
		return "fixup"
	default:
		return "unknown"
	}
}

// Span locates a diagnostic in the input source.
type Span struct {
	File   string
	Line   int
	Column int
	Length int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Diagnostic is one reported problem: a parse error, an out-of-range
// immediate, an unresolved fixup, or a warning about a questionable
// but legal construct.
type Diagnostic struct {
	Level    ErrorLevel
	Category Category
	Message  string
	Span     Span
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Level, d.Message)
}

// Diagnostics accumulates every diagnostic raised while translating one
// unit, so the parser and the assembly driver (for emitter and fixup
// errors) report problems against a shared list instead of aborting on
// the first one.
type Diagnostics struct {
	items []Diagnostic
	file  string
}

// NewDiagnostics returns a collector that stamps file onto every
// diagnostic that doesn't already carry one.
func NewDiagnostics(file string) *Diagnostics {
	return &Diagnostics{file: file}
}

func (d *Diagnostics) add(level ErrorLevel, cat Category, span Span, format string, a ...any) {
	if span.File == "" {
		span.File = d.file
	}
	d.items = append(d.items, Diagnostic{
		Level:    level,
		Category: cat,
		Message:  fmt.Sprintf(format, a...),
		Span:     span,
	})
}

// Warn records a recoverable diagnostic that does not fail assembly.
func (d *Diagnostics) Warn(cat Category, span Span, format string, a ...any) {
	d.add(LevelWarning, cat, span, format, a...)
}

// Error records a diagnostic that fails assembly but lets the caller
// keep scanning for further problems in the same unit.
func (d *Diagnostics) Error(cat Category, span Span, format string, a ...any) {
	d.add(LevelError, cat, span, format, a...)
}

// ErrorAt wraps an *EncodeError (or any error) at span, tagged cat.
func (d *Diagnostics) ErrorAt(cat Category, span Span, err error) {
	d.add(LevelError, cat, span, "%s", err)
}

// Fatal records a diagnostic severe enough that the caller should stop
// translating this unit immediately.
func (d *Diagnostics) Fatal(cat Category, span Span, format string, a ...any) {
	d.add(LevelFatal, cat, span, format, a...)
}

// HasErrors reports whether any Error or Fatal diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Level == LevelError || item.Level == LevelFatal {
			return true
		}
	}
	return false
}

// HasFatal reports whether any Fatal diagnostic was recorded.
func (d *Diagnostics) HasFatal() bool {
	for _, item := range d.items {
		if item.Level == LevelFatal {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at exactly level.
func (d *Diagnostics) Count(level ErrorLevel) int {
	n := 0
	for _, item := range d.items {
		if item.Level == level {
			n++
		}
	}
	return n
}

// Items returns every diagnostic recorded so far, in report order.
func (d *Diagnostics) Items() []Diagnostic {
	return d.items
}

// Report renders every diagnostic as one line per item plus a trailing
// summary, the way a CLI prints them to stderr.
func (d *Diagnostics) Report() string {
	var sb strings.Builder
	for _, item := range d.items {
		sb.WriteString(item.Error())
		sb.WriteString("\n")
	}
	errs, warns := d.Count(LevelError)+d.Count(LevelFatal), d.Count(LevelWarning)
	if errs > 0 || warns > 0 {
		switch {
		case errs > 0 && warns > 0:
			fmt.Fprintf(&sb, "%d error(s), %d warning(s)\n", errs, warns)
		case errs > 0:
			fmt.Fprintf(&sb, "%d error(s)\n", errs)
		default:
			fmt.Fprintf(&sb, "%d warning(s)\n", warns)
		}
	}
	return sb.String()
}
