package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser turns a flat token stream into a []Top: a label, a directive, an
// instruction, or (on a malformed line) a TopError, with a diagnostic
// recorded against diags explaining why. A label followed by an
// instruction on the same line yields two items. A bad line never aborts the rest of the file — recover() skips to
// the next newline and parsing carries on, the same per-item-fatal shape
// errors.go's Diagnostics collector is built for.
type Parser struct {
	lexer    *Lexer
	current  Token
	peek     Token
	filename string
	source   string
	arena    *Arena
	diags    *Diagnostics
}

// NewParser returns a parser over src, recording file against every
// token's span and every diagnostic it raises.
func NewParser(file, src string, arena *Arena, diags *Diagnostics) *Parser {
	p := &Parser{
		lexer:    NewLexer(file, src),
		filename: file,
		source:   src,
		arena:    arena,
		diags:    diags,
	}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) atEOF() bool { return p.current.Type == TokEOF }

func (p *Parser) skipNewlines() {
	for p.current.Type == TokNewline {
		p.nextToken()
	}
}

// ParseFile parses every line of the source into top-level items.
func (p *Parser) ParseFile() []Top {
	var tops []Top
	p.skipNewlines()
	for !p.atEOF() {
		tops = append(tops, p.parseLine())
		p.skipNewlines()
	}
	return tops
}

// ParseSource is the one-call convenience entry point: lex and parse src
// in one pass, returning the top-level items alongside the diagnostics
// collector parsing populated.
func ParseSource(file, src string) ([]Top, *Diagnostics) {
	diags := NewDiagnostics(file)
	p := NewParser(file, src, NewArena(), diags)
	return p.ParseFile(), diags
}

func (p *Parser) parseLine() Top {
	startSpan := p.current.Span

	if p.current.Type == TokDot {
		return p.parseDirective(startSpan)
	}
	if p.current.Type == TokIdent && p.peek.Type == TokColon {
		name := p.current.Value
		p.nextToken() // identifier
		p.nextToken() // ':'
		return p.arena.NewTop(TopLabel{Name: name, Span: startSpan})
	}
	if p.current.Type != TokIdent {
		return p.recover(startSpan, fmt.Sprintf("expected a label, directive, or instruction, got %s", p.current.Type))
	}
	return p.parseInstruction(startSpan)
}

func (p *Parser) parseDirective(startSpan Span) Top {
	p.nextToken() // '.'
	if p.current.Type != TokIdent {
		return p.recover(startSpan, "expected a directive name after '.'")
	}
	name := p.current
	p.nextToken()
	args, ok := p.parseArgList()
	if !ok {
		return p.recover(startSpan, "malformed directive arguments")
	}
	return p.arena.NewTop(TopDirective{Name: name, Args: args, Span: startSpan})
}

func (p *Parser) parseInstruction(startSpan Span) Top {
	mnem := p.current
	p.nextToken()
	args, ok := p.parseArgList()
	if !ok {
		return p.recover(startSpan, "malformed instruction operands")
	}
	return p.arena.NewTop(TopInstruction{Mnem: mnem, Args: args, Span: startSpan})
}

// parseArgList parses zero or more comma-separated operands up to the
// line's terminating newline or EOF.
func (p *Parser) parseArgList() ([]Expr, bool) {
	var args []Expr
	if p.current.Type == TokNewline || p.current.Type == TokEOF {
		return args, true
	}
	for {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, e)
		if p.current.Type != TokComma {
			break
		}
		p.nextToken()
	}
	if p.current.Type != TokNewline && p.current.Type != TokEOF {
		p.diags.Error(CategorySyntax, p.current.Span, "unexpected %s after operand list", p.current.Type)
		return nil, false
	}
	return args, true
}

// parseExpr parses one operand: a bracketed memory address, an integer
// or float literal, or an identifier, optionally followed with no comma
// in between by an integer literal, forming a shift/extend modifier
// (ADD's trailing "LSL #3", "UXTW #2", or a bare "UXTX").
func (p *Parser) parseExpr() (Expr, bool) {
	switch p.current.Type {
	case TokLBracket:
		return p.parseMem()
	case TokInt:
		return p.parseIntLit()
	case TokFloat:
		return p.parseFloatLit()
	case TokIdent:
		return p.parseIdentOperand()
	default:
		p.diags.Error(CategorySyntax, p.current.Span, "expected an operand, got %s", p.current.Type)
		return nil, false
	}
}

func (p *Parser) parseIntLit() (Expr, bool) {
	tok := p.current
	v, err := parseIntLiteral(tok.Value)
	if err != nil {
		p.diags.Error(CategorySyntax, tok.Span, "invalid integer literal %q: %v", tok.Value, err)
		return nil, false
	}
	p.nextToken()
	return p.arena.NewExpr(ExprInt{Value: v, Span: tok.Span}), true
}

func (p *Parser) parseFloatLit() (Expr, bool) {
	tok := p.current
	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		p.diags.Error(CategorySyntax, tok.Span, "invalid float literal %q: %v", tok.Value, err)
		return nil, false
	}
	p.nextToken()
	return p.arena.NewExpr(ExprFloat{Value: v, Span: tok.Span}), true
}

func (p *Parser) parseIdentOperand() (Expr, bool) {
	tok := p.current
	p.nextToken()
	base := Expr(p.arena.NewExpr(ExprIdent{Name: tok.Value, Span: tok.Span}))
	if p.current.Type != TokInt {
		if _, ok := ExtendKindByName(tok.Value); ok {
			return p.arena.NewExpr(ExprModified{
				Base:     base,
				Modifier: strings.ToUpper(tok.Value),
				Span:     tok.Span,
			}), true
		}
		return base, true
	}
	amountTok := p.current
	amount, err := parseIntLiteral(amountTok.Value)
	if err != nil {
		p.diags.Error(CategorySyntax, amountTok.Span, "invalid integer literal %q: %v", amountTok.Value, err)
		return nil, false
	}
	p.nextToken()
	return p.arena.NewExpr(ExprModified{
		Base:     base,
		Modifier: strings.ToUpper(tok.Value),
		Amount:   &amount,
		Span:     tok.Span,
	}), true
}

func (p *Parser) parseMem() (Expr, bool) {
	span := p.current.Span
	p.nextToken() // '['
	if p.current.Type != TokIdent {
		p.diags.Error(CategorySyntax, p.current.Span, "expected a base register inside '[...]'")
		return nil, false
	}
	base := p.current.Value
	p.nextToken()

	var offset *Expr
	if p.current.Type == TokComma {
		p.nextToken()
		off, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		offset = &off
	}
	if p.current.Type != TokRBracket {
		p.diags.Error(CategorySyntax, p.current.Span, "expected ']'")
		return nil, false
	}
	p.nextToken()
	return p.arena.NewExpr(ExprMem{Base: base, Offset: offset, Span: span}), true
}

// recover records a diagnostic against span and skips tokens up to (and
// including) the line's terminating newline, so one malformed line
// doesn't stop the rest of the file from parsing.
func (p *Parser) recover(span Span, msg string) Top {
	p.diags.Error(CategorySyntax, span, "%s", msg)
	for p.current.Type != TokNewline && p.current.Type != TokEOF {
		p.nextToken()
	}
	return p.arena.NewTop(TopError{Span: span})
}

// parseIntLiteral parses a lexer-produced integer token value (decimal,
// 0x hex, or 0b binary, with any '_' separators already stripped) into a
// signed int64.
func parseIntLiteral(s string) (int64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return int64(v), err
	}
	if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		v, err := strconv.ParseUint(s[2:], 2, 64)
		return int64(v), err
	}
	return strconv.ParseInt(s, 10, 64)
}
