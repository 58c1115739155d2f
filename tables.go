package incparse

// Tables is the immutable artifact a grammar compiler hands to a
// Document: the lexer's DFA, the LR action/goto tables and the
// symbol alphabet. Nothing in this module mutates a Tables after
// construction, so a single instance can back any number of
// documents concurrently.
type Tables struct {
	Symbols []SymbolInfo
	Lex     LexDFA
	States  []ParseState
	Rules   []Rule
	Start   StateID
}

func (t *Tables) symbolName(id SymbolID) string {
	switch id {
	case symbolEOF:
		return "EOF"
	case symbolError:
		return "ERROR"
	}
	if int(id) < 0 || int(id) >= len(t.Symbols) {
		return "?"
	}
	return t.Symbols[id].Name
}

func (t *Tables) isUbiquitous(id SymbolID) bool {
	if int(id) < 0 || int(id) >= len(t.Symbols) {
		return false
	}
	return t.Symbols[id].Ubiquitous
}

func (t *Tables) isAnonymous(id SymbolID) bool {
	if int(id) < 0 || int(id) >= len(t.Symbols) {
		return false
	}
	return t.Symbols[id].Anonymous
}

// ---- Lexer DFA ----

// LexStateID indexes LexDFA.States.
type LexStateID int32

// LexDFA is a table-driven DFA over bytes. Starting at State 0, each
// byte either transitions to another state or falls through to the
// default (failure) transition. States that are accepting carry one
// or more AcceptCandidates; the longest match wins, and among
// candidates of equal length the lexer consults the parser's current
// lookahead set to break ties (see lexer.go).
type LexDFA struct {
	States []LexState
}

type LexState struct {
	Transitions []ByteTransition
	// Accept lists the candidate symbols this state accepts, longest
	// rule first isn't required — lexer.go keeps the longest accepting
	// match it reaches at run time since match length is a property of
	// the run, not the state.
	Accept []AcceptCandidate
	// Wildcard, when HasWildcard is set, is taken for any byte with no
	// explicit transition — used for tokens like line comments
	// that run until a terminator the DFA can't enumerate per-byte
	// (e.g. "any byte other than newline").
	Wildcard    LexStateID
	HasWildcard bool
}

// ByteTransition moves the DFA from one state to another on an exact
// byte match.
type ByteTransition struct {
	Byte   byte
	Target LexStateID
}

func (s LexState) next(b byte) (LexStateID, bool) {
	for _, tr := range s.Transitions {
		if tr.Byte == b {
			return tr.Target, true
		}
	}
	if s.HasWildcard {
		return s.Wildcard, true
	}
	return 0, false
}

// AcceptCandidate names a symbol a DFA state accepts, along with a
// priority used only to break same-length-match ties deterministically
// when the parser's lookahead set doesn't disambiguate either
// (lower Priority wins — grammar-declaration order, same convention
// the parse tables use for reduce/reduce ties).
type AcceptCandidate struct {
	Symbol   SymbolID
	Priority int
}

// ---- Parse tables ----

// StateID indexes Tables.States.
type StateID int32

type ActionKind uint8

const (
	ActionShift ActionKind = iota
	ActionReduce
	ActionAccept
)

// Action is one candidate action for a (state, lookahead) pair.
// ParseState.Actions maps a symbol to a slice of 1 or 2 of these:
// two only when the grammar has an unresolved shift/reduce or
// reduce/reduce conflict that resolveAction must break at parse
// time (see parser.go).
type Action struct {
	Kind   ActionKind
	Target StateID // for ActionShift: state to push
	Rule   int     // for ActionReduce: index into Tables.Rules
}

// Rule is one grammar production. Arity is how many stack entries a
// reduce pops; Hidden marks a pass-through production (e.g. a
// single-child wrapper the grammar author doesn't want materialized)
// whose result is spliced into its parent's children instead of
// appearing as a node of its own — the same flattening mechanism
// trivia groups use.
type Rule struct {
	NonTerminal SymbolID
	Arity       int
	Precedence  int
	Hidden      bool
}

// ParseState is one LR automaton state: a lookahead-keyed action
// table plus a goto table for the non-terminals this state can
// receive via reduce.
type ParseState struct {
	Actions map[SymbolID][]Action
	Goto    map[SymbolID]StateID
	// LookaheadSet is the set of terminals this state has some action
	// for — passed to the lexer, which uses it to break longest-match
	// ties and to decide whether a ubiquitous match is trivia.
	LookaheadSet map[SymbolID]bool
}

// candidates returns the raw, unresolved action list for a (state,
// lookahead) pair — resolveAction in parser.go picks the winner,
// since doing so needs Tables.Rules for precedence lookups that
// ParseState alone doesn't carry.
func (ps ParseState) candidates(sym SymbolID) ([]Action, bool) {
	cands, ok := ps.Actions[sym]
	if !ok || len(cands) == 0 {
		return nil, false
	}
	return cands, true
}
