package incparse

// SymbolID identifies a grammar symbol (terminal or non-terminal) by
// its index into Tables.Symbols. A handful of negative values are
// reserved for symbols that never appear in a grammar's own alphabet.
type SymbolID int32

const (
	// symbolEOF is the synthetic end-of-input terminal the lexer
	// returns once the reader is exhausted.
	symbolEOF SymbolID = -1
	// symbolError marks an unrecognized lexer run; it never reaches
	// the action table directly, only the recovery routine in
	// recovery.go inspects it.
	symbolError SymbolID = -2
)

// SymbolKind distinguishes terminals (token kinds, produced by the
// lexer) from non-terminals (rule kinds, produced by reduce).
type SymbolKind uint8

const (
	SymbolTerminal SymbolKind = iota
	SymbolNonTerminal
)

func (k SymbolKind) String() string {
	if k == SymbolTerminal {
		return "terminal"
	}
	return "non-terminal"
}

// SymbolInfo is the grammar-compiler-supplied metadata for one symbol.
// Tables.Symbols is indexed by SymbolID.
type SymbolInfo struct {
	Name string
	Kind SymbolKind
	// Ubiquitous marks a terminal admissible between any two grammar
	// tokens (whitespace, newlines, comments) without being named by
	// any rule. Meaningless for non-terminals.
	Ubiquitous bool
	// Anonymous marks a terminal (typically fixed punctuation like '['
	// or ',') that should never appear as a visible child: it still
	// occupies its byte span and counts toward its parent's size, it
	// just doesn't show up in ChildCount/Child or printed output. The
	// non-terminal counterpart of this is Rule.Hidden, which elides an
	// entire production's own node by splicing its children upward
	// instead — the two exist separately because a terminal has no
	// children to splice in its place.
	Anonymous bool
}
