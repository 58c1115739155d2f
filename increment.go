package incparse

// incrementalReparser holds the one edit Document.Edit is currently
// applying — editStart/editEndOld in the old tree's byte coordinates,
// editEndNew in the new text's — plus enough runtime context (tables,
// a lexer bound to the document's live reader, config) to re-lex or
// re-parse whatever the edit touches.
type incrementalReparser struct {
	tables *Tables
	lx     *lexer
	cfg    *Config

	editStart  int
	editEndOld int
	editEndNew int
}

// delta is how many bytes the edit grew (or, negative, shrank) the
// document by. A node untouched by the edit keeps its size; a node
// containing the whole edit must come out exactly delta bytes
// different, which is what the convergence checks below test for.
func (ir *incrementalReparser) delta() int { return ir.editEndNew - ir.editEndOld }

// rebuild walks the old tree rooted at n (whose absolute start is
// start, in old coordinates) and returns the node to use in its
// place. Subtrees entirely before or entirely after the edit are
// retained verbatim — this alone is what keeps the lexer from ever
// touching bytes the edit didn't reach. A single overlapping leaf
// token is re-lexed in place; a single overlapping child is recursed
// into; anything broader (the edit spans more than one child) falls
// back to reparseNodeFromScratch.
//
// The second return is false when no local re-derivation converged at
// this level — the sub-parse ran past (or stopped short of) where the
// old extent says this node should end, meaning the edit's effects
// leak into sibling territory. The caller then reparses one level
// broader; at the top, Document.Edit falls all the way back to a full
// parse of the remaining input.
func (ir *incrementalReparser) rebuild(n *node, start int) (*node, bool) {
	oldEnd := start + n.size
	if oldEnd <= ir.editStart || start >= ir.editEndOld {
		return n.retain(), true
	}

	if n.kind == nodeTerminal {
		if relexed, ok := ir.relexSingleToken(n, start); ok {
			return relexed, true
		}
		return ir.reparseNodeFromScratch(n, start)
	}

	overlap := -1
	for i, s := range n.children {
		childStart := start + s.offset
		childEnd := childStart + s.n.size
		if childEnd > ir.editStart && childStart < ir.editEndOld {
			if overlap != -1 {
				overlap = -2 // more than one child touched
				break
			}
			overlap = i
		}
	}

	if overlap >= 0 {
		slot := n.children[overlap]
		rebuilt, ok := ir.rebuild(slot.n, start+slot.offset)
		if !ok {
			return ir.reparseNodeFromScratch(n, start)
		}
		children := make([]*node, 0, len(n.children))
		for i, s := range n.children {
			if i == overlap {
				// rebuild on a bounded sub-parse (see run in parser.go) can
				// stop before every hidden wrapper above the rebuilt node
				// has been reduced away, handing back a still-unflattened
				// Group. flattenInto splices it the same way an ordinary
				// reduce would, so a Group never ends up stored as a
				// literal child here either.
				children = flattenInto(children, rebuilt)
			} else {
				children = append(children, s.n.retain())
			}
		}
		out := newNode(n.kind, n.symbol, n.enterState)
		out.setChildren(children)
		return out, true
	}

	return ir.reparseNodeFromScratch(n, start)
}

// relexSingleToken re-lexes exactly the one token at start. The node
// is reusable only if the DFA still settles on the same symbol there
// and the match grew or shrank by exactly the edit's delta — i.e. the
// edit stayed inside this token. A changed symbol means the edit
// altered what kind of token this text now forms (e.g. turned an
// identifier into a keyword); a wrong length means the edit split the
// token or fused it with a neighbor. Both are structural changes the
// caller must hand to reparseNodeFromScratch instead.
func (ir *incrementalReparser) relexSingleToken(n *node, start int) (*node, bool) {
	sym, length := ir.lx.lexRaw(start, nil)
	if sym != n.symbol || length != n.size+ir.delta() {
		return nil, false
	}
	out := newNode(nodeTerminal, sym, n.enterState)
	out.size = length
	return out, true
}

// reparseNodeFromScratch reseeds a bounded sub-parse at n's stored
// enterState and drives it from start, replacing n entirely with
// whatever the grammar derives there now. Every node — terminal or
// not — carries the LR state active just before it began, so this
// works uniformly regardless of what kind of node n is.
//
// The sub-parse converged only if it ended exactly where the old
// node's extent, shifted by the edit's delta, says it should. Ending
// anywhere else means the replacement either swallowed bytes
// belonging to following siblings (recovery scanned past the node's
// end) or left some of its own bytes unclaimed; either way the
// result is discarded and false returned so the caller reparses one
// level broader.
func (ir *incrementalReparser) reparseNodeFromScratch(n *node, start int) (*node, bool) {
	stack := newParseStack(ir.tables.Start)
	stack.push(stackEntry{state: n.enterState, start: start})
	p := newParser(ir.tables, ir.lx, ir.cfg)
	result, end := p.run(stack, start)
	if result == nil {
		return nil, false
	}
	if end != start+n.size+ir.delta() {
		result.release()
		return nil, false
	}
	return result, true
}
