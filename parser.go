package incparse

// parser drives Tables.States against a lexer, producing ref-counted
// Node trees. parseDocument drives a full top-level parse from
// Tables.Start; run drives the incremental driver's localized
// re-derivation of a single subtree, seeded at some interior node's
// stored enterState (see increment.go).
type parser struct {
	tables  *Tables
	lx      *lexer
	cfg     *Config
	pending *pendingRecovery
}

// pendingRecovery holds an ERROR node (plus any preserved siblings
// unwound alongside it) that recovery has committed to the tree but
// has nowhere to attach yet, since unwinding the stack back to the
// restart level never by itself advances the automaton — only the
// next real shift does. shift folds these nodes in as extra leading
// material ahead of the token it is about to push, the same way it
// folds in ordinary trivia. start is recorded separately because a
// *node carries no absolute position of its own.
type pendingRecovery struct {
	nodes []*node
	start int
}

func newParser(tables *Tables, lx *lexer, cfg *Config) *parser {
	return &parser{tables: tables, lx: lx, cfg: cfg}
}

func (p *parser) lookaheadSet(state StateID) map[SymbolID]bool {
	return p.tables.States[state].LookaheadSet
}

// run drives a bounded sub-parse: stack is seeded with exactly one
// entry above its bottom sentinel (at baseLen := stack.len()), and run
// stops as soon as the next reduce would reach below that baseline —
// a complete phrase was derived and whatever follows belongs to the
// caller's enclosing context — handing back the one node sitting just
// above the seed along with the byte position it ends at. The caller
// compares that end position against where the old node's extent says
// the phrase should have ended; a mismatch means this sub-parse never
// converged (e.g. recovery consumed tokens belonging to siblings) and
// a broader reparse is needed (see reparseNodeFromScratch in
// increment.go). parseDocument below drives the unbounded,
// whole-document case separately, since its termination condition
// (ActionAccept, or EOF with nothing left to recover) and result
// shape (possibly several top-level siblings) are different enough
// that sharing one loop would obscure both.
func (p *parser) run(stack *parseStack, pos int) (*node, int) {
	baseLen := stack.len()
	lookahead := p.lx.Next(pos, p.lookaheadSet(stack.topState()))

	for {
		ps := p.tables.States[stack.topState()]
		cands, ok := ps.candidates(lookahead.Symbol)

		if !ok {
			newPos, stuck := p.recover(stack, &lookahead, baseLen)
			pos = newPos
			if stuck {
				return p.wrapEntries(stack, baseLen, lookahead), pos
			}
			continue
		}

		act := resolveAction(cands, p.tables)

		switch act.Kind {
		case ActionShift:
			p.shift(stack, lookahead, act.Target)
			pos = lookahead.End()
			lookahead = p.lx.Next(pos, p.lookaheadSet(stack.topState()))

		case ActionReduce:
			rule := p.tables.Rules[act.Rule]
			if stack.len()-rule.Arity < baseLen {
				top := stack.top()
				return top.n, top.end()
			}
			p.reduce(stack, act.Rule)
			// lookahead is unchanged; the new top state is re-evaluated
			// against it on the next loop iteration without re-lexing.

		case ActionAccept:
			top := stack.top()
			return top.n, pos
		}
	}
}

// parseDocument drives a full top-to-bottom parse from an empty stack
// and returns the single node to install as the document's sole
// child, or — when input ends with unresolved ERROR material still
// sitting above the grammar's accepted result — a Group of every
// top-level entry so the caller can splice them in as siblings (a
// trailing parse failure such as `123 *` leaves the valid prefix and
// an ERROR node side by side under DOCUMENT).
func (p *parser) parseDocument() *node {
	stack := newParseStack(p.tables.Start)
	pos := 0
	lookahead := p.lx.Next(pos, p.lookaheadSet(stack.topState()))

	for {
		ps := p.tables.States[stack.topState()]
		cands, ok := ps.candidates(lookahead.Symbol)

		if !ok {
			newPos, stuck := p.recover(stack, &lookahead, 1)
			pos = newPos
			if stuck {
				return p.wrapTopLevel(stack, lookahead)
			}
			continue
		}

		act := resolveAction(cands, p.tables)

		switch act.Kind {
		case ActionShift:
			p.shift(stack, lookahead, act.Target)
			pos = lookahead.End()
			lookahead = p.lx.Next(pos, p.lookaheadSet(stack.topState()))

		case ActionReduce:
			p.reduce(stack, act.Rule)

		case ActionAccept:
			if len(lookahead.Trivia) == 0 {
				return stack.top().n
			}
			return p.wrapTopLevel(stack, lookahead)
		}
	}
}

// wrapTopLevel flattens whatever remains above the bottom sentinel
// (hidden/group nodes splice their children in, same as any other
// reduce), plus any trivia still attached to the token the driver
// stopped on — trivia that would otherwise have been attached to a
// following real token, except end-of-input never supplies one — into
// one Group so Document.SetInput can hand its children straight to
// the DOCUMENT node.
func (p *parser) wrapTopLevel(stack *parseStack, trailing Token) *node {
	return p.wrapEntries(stack, 1, trailing)
}

// wrapEntries pops every entry above stack index above-1 and folds
// them, plus trailing's still-unattached trivia, into one Group. run
// uses it with its sub-parse baseline when recovery hits end of input
// — the stack may then hold a valid prefix phrase with a trailing
// ERROR above it, and both must come back to the caller, not just the
// topmost entry.
func (p *parser) wrapEntries(stack *parseStack, above int, trailing Token) *node {
	entries := stack.pop(stack.len() - above)
	children := make([]*node, 0, len(entries)+len(trailing.Trivia))
	for _, e := range entries {
		children = flattenInto(children, e.n)
	}
	for _, tr := range trailing.Trivia {
		tn := newNode(nodeTerminal, tr.Symbol, stack.topState())
		tn.size = tr.Length
		children = append(children, tn)
	}
	grp := newNode(nodeGroup, symbolError, stack.topState())
	grp.setChildren(children)
	return grp
}

// resolveAction breaks a shift/reduce or reduce/reduce conflict: shift
// wins unless a competing reduce carries a strictly positive, higher
// declared precedence; among reduces, higher precedence wins and ties
// go to the earlier-declared rule (lower index).
func resolveAction(cands []Action, tables *Tables) Action {
	if len(cands) == 1 {
		return cands[0]
	}
	var shiftAct *Action
	var bestReduce *Action
	for i := range cands {
		c := &cands[i]
		switch c.Kind {
		case ActionShift:
			shiftAct = c
		case ActionReduce:
			if bestReduce == nil {
				bestReduce = c
				continue
			}
			rp := tables.Rules[c.Rule].Precedence
			bp := tables.Rules[bestReduce.Rule].Precedence
			if rp > bp || (rp == bp && c.Rule < bestReduce.Rule) {
				bestReduce = c
			}
		}
	}
	switch {
	case shiftAct != nil && bestReduce != nil:
		if tables.Rules[bestReduce.Rule].Precedence > 0 {
			return *bestReduce
		}
		return *shiftAct
	case shiftAct != nil:
		return *shiftAct
	default:
		return *bestReduce
	}
}

// shift attaches any leading trivia to the token being shifted (via
// an anonymous Group that flattens away the moment a future reduce
// pops it) and pushes the resulting entry. A pending recovery ERROR
// (see pendingRecovery) is folded in ahead of that trivia, so the
// node the parser just committed to during recovery rides in on the
// very next token it manages to shift rather than sitting as a stack
// entry of its own.
func (p *parser) shift(stack *parseStack, tok Token, target StateID) {
	enterState := stack.topState()
	start := tok.leadingStart()

	term := newNode(nodeTerminal, tok.Symbol, enterState)
	term.size = tok.Length

	var pieces []*node
	if p.pending != nil {
		pieces = append(pieces, p.pending.nodes...)
		start = p.pending.start
		p.pending = nil
	}
	for _, tr := range tok.Trivia {
		tn := newNode(nodeTerminal, tr.Symbol, enterState)
		tn.size = tr.Length
		pieces = append(pieces, tn)
	}

	if len(pieces) == 0 {
		stack.push(stackEntry{state: target, n: term, start: start})
		return
	}

	pieces = append(pieces, term)
	grp := newNode(nodeGroup, symbolError /* unused for groups */, enterState)
	grp.setChildren(pieces)
	stack.push(stackEntry{state: target, n: grp, start: start})
}

func (p *parser) reduce(stack *parseStack, ruleIdx int) {
	rule := p.tables.Rules[ruleIdx]
	popped := stack.pop(rule.Arity)

	var start int
	if len(popped) > 0 {
		start = popped[0].start
	} else {
		start = stack.top().end()
	}

	baseState := stack.topState()
	children := make([]*node, 0, len(popped))
	for _, e := range popped {
		children = flattenInto(children, e.n)
	}

	kind := nodeNonTerminal
	if rule.Hidden {
		kind = nodeGroup
	}
	newN := newNode(kind, rule.NonTerminal, baseState)
	newN.setChildren(children)

	target, ok := p.tables.States[baseState].Goto[rule.NonTerminal]
	if !ok {
		contractViolation("parser.reduce", "missing goto for %s from state %d", p.tables.symbolName(rule.NonTerminal), baseState)
	}
	stack.push(stackEntry{state: target, n: newN, start: start})
}
