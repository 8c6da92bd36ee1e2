package main

// LabelKey identifies an interned label name. The zero value is never
// produced by LabelInterner.Intern, so it is safe to use as an "absent" sentinel
// in maps that track per-label state (e.g. "not yet defined").
type LabelKey int32

// LabelInterner assigns a stable, small integer key to every label name
// seen in a translation unit and resolves it back to the original string.
// This is the Go stand-in for the Rust side's generated `label` interner
// module (a `lasso::Rodeo` wrapped by the `typed_interner!` macro); Go has
// no macros to generate a family of these, so this is written out directly
// for the one key type the assembler needs.
type LabelInterner struct {
	keys  map[string]LabelKey
	names []string
}

// NewLabelInterner returns an empty interner.
func NewLabelInterner() *LabelInterner {
	return &LabelInterner{keys: make(map[string]LabelKey)}
}

// Intern returns the key for name, assigning a new one on first use.
func (in *LabelInterner) Intern(name string) LabelKey {
	if k, ok := in.keys[name]; ok {
		return k
	}
	in.names = append(in.names, name)
	k := LabelKey(len(in.names))
	in.keys[name] = k
	return k
}

// Get returns the key for name without interning it, ok=false if unseen.
func (in *LabelInterner) Get(name string) (LabelKey, bool) {
	k, ok := in.keys[name]
	return k, ok
}

// Resolve returns the original string for a key produced by Intern.
// Panics on a key from a different interner, same as resolve_unchecked's
// debug_assert! contract on the Rust side.
func (in *LabelInterner) Resolve(k LabelKey) string {
	idx := int(k) - 1
	if idx < 0 || idx >= len(in.names) {
		panic("intern: key not from this interner")
	}
	return in.names[idx]
}

// Len reports how many distinct labels have been interned.
func (in *LabelInterner) Len() int {
	return len(in.names)
}
