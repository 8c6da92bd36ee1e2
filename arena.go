package main

// Arena is a bump allocator for the AST nodes one translation unit
// produces. Parsing a file allocates a steady stream of small, same-
// lifetime Top/Expr values that the emitter reads once and then the
// whole batch is discarded together; a scope-per-unit arena tracks
// that batch so it can be dropped as a unit once the emitter is done,
// the same "scope" idea as the teacher's per-frame/per-function
// allocation scopes, minus the generated malloc/free calls since these
// values live on the Go heap already.
type Arena struct {
	tops  []Top
	exprs []Expr
}

// NewArena returns an arena scoped to one translation unit.
func NewArena() *Arena {
	return &Arena{}
}

// NewTop records v as belonging to this arena and returns it.
func (a *Arena) NewTop(v Top) Top {
	a.tops = append(a.tops, v)
	return v
}

// NewExpr records v as belonging to this arena and returns it.
func (a *Arena) NewExpr(v Expr) Expr {
	a.exprs = append(a.exprs, v)
	return v
}

// Tops returns every Top value allocated so far, in allocation order.
func (a *Arena) Tops() []Top { return a.tops }

// Reset drops every node the arena holds, for reuse across translation
// units without a fresh allocation.
func (a *Arena) Reset() {
	a.tops = a.tops[:0]
	a.exprs = a.exprs[:0]
}
