package incparse

// recover implements a simplified error-recovery search. Tree-sitter's
// own recovery picks among candidate restart points by comparing the
// cost of the discarded material; this instead takes the first
// (shallowest, smallest-discard) stack level that admits the token
// currently under the scanning cursor, scanning token-by-token forward
// from the original failing lookahead. The two are equivalent for the
// common single-bad-token case and diverge on deliberately ambiguous
// inputs — for two adjacent values where only one fits, the first is
// folded into an ERROR and the second survives as its own node here,
// where a cost-based search might fold both into one ERROR; this
// implementation's tests are written against its own output, not
// against that finer-grained merge.
//
// The lowest stack level recovery may restart at is baseLen-1: the
// seed entry itself in a sub-parse, or the grammar's bottom sentinel
// in a full parse. floor is the level just below it (an exclusive
// bound for findRestartLevel), so recovery never unwinds past the
// seed or sentinel.
//
// The returned bool is true once the token recovery settled on is
// symbolEOF: there is no further forward scanning that could ever
// find a better restart point past the end of input, so the caller
// must treat this as final rather than looping back through the
// ordinary shift/reduce/recover cycle again.
func (p *parser) recover(stack *parseStack, lookahead *Token, baseLen int) (int, bool) {
	floor := baseLen - 2
	// errStart ignores the failing token's own leading trivia: trivia
	// lexed fine, it just never got a chance to attach anywhere since
	// the token it was leading turned out to be unusable. It is folded
	// back in as an ordinary (invisible, since ubiquitous tokens are
	// anonymous) sibling by commitRecovery, not swallowed into the
	// error's reported span.
	errStart := lookahead.Offset
	leadingTrivia := lookahead.Trivia
	tok := *lookahead

	budget := p.cfg.GetInt(ConfigRecoveryBudget)
	for i := 0; i < budget; i++ {
		if level, ok := p.findRestartLevel(stack, floor, tok.Symbol); ok {
			pos := p.commitRecovery(stack, level, errStart, leadingTrivia, tok, lookahead)
			return pos, tok.Symbol == symbolEOF
		}
		if tok.Symbol == symbolEOF {
			break
		}
		tok = p.lx.Next(tok.End(), nil)
	}

	pos := p.commitRecovery(stack, stack.len()-1, errStart, leadingTrivia, tok, lookahead)
	return pos, tok.Symbol == symbolEOF
}

// isInvisibleDiscard reports whether n is safe to resurrect as a
// sibling when unwound during recovery — an anonymous terminal
// (punctuation, never itself meaningful) or an already-built trivia
// group (nothing but such terminals). Anything else represents a
// grammar decision the final parse never actually reached and must
// not reappear in the tree.
func (p *parser) isInvisibleDiscard(n *node) bool {
	switch n.kind {
	case nodeTerminal:
		return p.tables.isAnonymous(n.symbol) || p.tables.isUbiquitous(n.symbol)
	case nodeGroup:
		for _, s := range n.children {
			if !p.isInvisibleDiscard(s.n) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// findRestartLevel scans the stack top to bottom, returning the
// shallowest level whose state would shift sym. Only shift actions
// qualify: a restart level is only useful if the ordinary
// shift/reduce loop can resume by pushing the recovery token itself
// (see shift's pending-recovery handling below), and a reduce action
// never does that — it consumes no input.
func (p *parser) findRestartLevel(stack *parseStack, floor int, sym SymbolID) (int, bool) {
	for level := stack.len() - 1; level > floor; level-- {
		st := p.tables.States[stack.entries[level].state]
		cands, ok := st.candidates(sym)
		if !ok {
			continue
		}
		for _, c := range cands {
			if c.Kind == ActionShift {
				return level, true
			}
		}
	}
	return 0, false
}

// commitRecovery discards every stack entry above level and builds an
// ERROR node (possibly wrapped with leading siblings) spanning
// [errStart, tok.Offset). It does not push that node onto the stack
// itself — doing so would insert an extra entry the grammar's reduce
// arities don't know about, desyncing every reduce downstream of the
// restart point from the real shape of the stack. Instead it's
// stashed as p.pending and folded in by the very next shift, exactly
// like leading trivia: the ordinary shift/reduce loop resumes against
// tok without the restart ever needing to be a special case to
// anything past this function. tok's own leading trivia is dropped
// for the same reason it's never double counted: tok.Offset already
// excludes it, and errEnd is defined as tok.Offset, so those bytes
// are already inside the ERROR's reported size.
//
// The one exception is tok.Symbol == symbolEOF: there is no next
// shift ever coming, so the ERROR is pushed directly and the caller
// (recover, then parseDocument/run) treats the parse as stuck.
//
// Entries unwound past level need somewhere to put their bytes.
// Purely syntactic ones (anonymous punctuation, already-flattened
// trivia groups) are harmless to resurrect as invisible siblings
// ahead of the ERROR node — they never represented a grammar decision
// worth remembering, just bytes that still need to count toward
// someone's size. A discarded entry that built real grammar content
// (e.g. a value the parser had already reduced before discovering the
// token after it didn't fit) can't be resurrected without fabricating
// a node the final parse never actually produced, so its span is
// folded backward into the ERROR instead and the node itself
// released.
func (p *parser) commitRecovery(stack *parseStack, level int, errStart int, leadingTrivia []Token, tok Token, lookahead *Token) int {
	discarded := stack.popAbove(level)
	state := stack.entries[level].state

	absorb := false
	for _, e := range discarded {
		if !p.isInvisibleDiscard(e.n) {
			absorb = true
			break
		}
	}

	var leading []*node
	if absorb {
		// The discarded content's own span already reaches back before
		// errStart, so once it's folded in, the current token's
		// leading trivia falls *inside* [errStart, errEnd) rather than
		// before it — it must not also be emitted as a separate
		// sibling, or its bytes would be counted twice.
		if len(discarded) > 0 && discarded[0].start < errStart {
			errStart = discarded[0].start
		}
		for _, e := range discarded {
			e.n.release()
		}
	} else {
		for _, e := range discarded {
			leading = flattenInto(leading, e.n)
		}
		for _, tr := range leadingTrivia {
			tn := newNode(nodeTerminal, tr.Symbol, state)
			tn.size = tr.Length
			leading = append(leading, tn)
		}
	}

	errEnd := tok.Offset
	if errEnd < errStart {
		errEnd = errStart
	}

	errNode := newNode(nodeError, symbolError, state)
	errNode.size = errEnd - errStart

	combinedStart := errStart
	if len(leading) > 0 {
		if len(discarded) > 0 {
			combinedStart = discarded[0].start
		} else if len(leadingTrivia) > 0 {
			combinedStart = leadingTrivia[0].Offset
		}
	}
	pieces := append(leading, errNode)

	// A pending recovery that never got its shift (recovery ran twice
	// back to back, e.g. the restart token itself turned out to have
	// no action at the restart level) is merged in ahead of this one
	// rather than dropped — its bytes still need to land somewhere.
	if p.pending != nil {
		pieces = append(append([]*node(nil), p.pending.nodes...), pieces...)
		if p.pending.start < combinedStart {
			combinedStart = p.pending.start
		}
		p.pending = nil
	}

	if tok.Symbol == symbolEOF {
		// No further shift is ever coming to fold pieces into, so push
		// them now. tok's trailing trivia bytes (whitespace lexed during
		// the forward scan) already fall inside [errStart, errEnd) and
		// count toward the ERROR's size; drop them so the caller's
		// wrap-up doesn't emit them a second time.
		tok.Trivia = nil
		*lookahead = tok
		if len(pieces) == 1 {
			stack.push(stackEntry{state: state, n: errNode, start: errStart})
		} else {
			grp := newNode(nodeGroup, symbolError, state)
			grp.setChildren(pieces)
			stack.push(stackEntry{state: state, n: grp, start: combinedStart})
		}
		return tok.Offset
	}

	// tok's own leading trivia needs no separate handling: tok.Offset
	// already excludes it, and errEnd is defined as tok.Offset, so
	// those bytes already count inside the ERROR's own size. Clearing
	// it here stops the next shift from attaching it a second time.
	tok.Trivia = nil
	*lookahead = tok
	p.pending = &pendingRecovery{nodes: pieces, start: combinedStart}
	return tok.Offset
}
