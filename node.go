package incparse

// nodeKind distinguishes the handful of shapes a tree node can take.
// Only Terminal and NonTerminal are named by the grammar; Error and
// Group are synthesized by the parser itself (Group for trivia runs
// and hidden-rule pass-throughs, always flattened into whatever real
// node ends up containing them), and Document wraps the single root.
type nodeKind uint8

const (
	nodeTerminal nodeKind = iota
	nodeNonTerminal
	nodeError
	nodeGroup
	nodeDocument
)

// childSlot records where a child starts relative to its parent.
// The offset lives here, in the parent's slot, rather than inside the
// child node itself — a reused subtree is the same *node pointer
// under two different tree generations, possibly at two different
// relative offsets (an earlier sibling may have grown or shrunk), and
// storing the offset on the node would corrupt whichever generation
// didn't just write it.
type childSlot struct {
	offset int
	n      *node
}

// node is the tree's internal, storage-only representation: no back
// pointers (a node doesn't know its parent or its absolute position —
// those are derived by walking down from an ancestor, see Node),
// ref-counted so a subtree can be shared by an arbitrary number of
// tree generations at once.
type node struct {
	kind     nodeKind
	symbol   SymbolID
	size     int
	children []childSlot
	refcount int32

	// enterState is the LR state the parser was in immediately before
	// this node was shifted (terminal) or before the first symbol of
	// its reduction was shifted (non-terminal). The incremental driver
	// uses it to reseed a parser mid-tree without replaying everything
	// from the document start.
	enterState StateID
}

func newNode(kind nodeKind, symbol SymbolID, enterState StateID) *node {
	return &node{kind: kind, symbol: symbol, enterState: enterState, refcount: 1}
}

func (n *node) retain() *node {
	if n != nil {
		n.refcount++
	}
	return n
}

func (n *node) release() {
	if n == nil {
		return
	}
	n.refcount--
	if n.refcount > 0 {
		return
	}
	for _, s := range n.children {
		s.n.release()
	}
	n.children = nil
}

// setChildren lays children out left to right starting at offset 0
// and sets n.size to their combined extent. Used both when a reduce
// first builds a node and when the incremental driver assembles a
// node whose children were partly reused, partly rebuilt.
func (n *node) setChildren(children []*node) {
	slots := make([]childSlot, len(children))
	cum := 0
	for i, c := range children {
		slots[i] = childSlot{offset: cum, n: c}
		cum += c.size
	}
	n.children = slots
	n.size = cum
}

// flattenInto appends n's contribution to a growing children list: an
// anonymous Group (trivia run or hidden-rule result) splices its own
// children in directly; anything else is appended as-is. This is the
// single mechanism behind both ubiquitous-trivia attachment and
// hidden-production flattening (tables.go's Rule.Hidden).
func flattenInto(dst []*node, n *node) []*node {
	if n.kind == nodeGroup {
		for _, s := range n.children {
			dst = flattenInto(dst, s.n)
		}
		return dst
	}
	return append(dst, n)
}

// Node is the public, ephemeral view over a tree position: a node
// pointer plus the absolute byte offset it sits at, computed once
// when the handle is created by walking down from an ancestor (or up
// from the document root). Handles are cheap value types — there is
// no cost to discarding one and re-deriving another from a Document.
type Node struct {
	doc *Document
	n   *node
	pos int
}

func (nd Node) valid() bool { return nd.n != nil }

// Kind reports whether this is a terminal, a named production, an
// ERROR node, or the synthetic document wrapper. Anonymous Group
// nodes never escape to callers — they are always flattened before a
// Node handle is handed out.
type NodeKind uint8

const (
	KindTerminal NodeKind = iota
	KindNonTerminal
	KindError
	KindDocument
)

func (nd Node) Kind() NodeKind {
	switch nd.n.kind {
	case nodeTerminal:
		return KindTerminal
	case nodeError:
		return KindError
	case nodeDocument:
		return KindDocument
	default:
		return KindNonTerminal
	}
}

func (nd Node) IsError() bool { return nd.n.kind == nodeError }

// Name returns the grammar symbol's declared name, "ERROR" for an
// error node, or "DOCUMENT" for the root wrapper.
func (nd Node) Name() string {
	switch nd.n.kind {
	case nodeError:
		return "ERROR"
	case nodeDocument:
		return "DOCUMENT"
	default:
		return nd.doc.tables.symbolName(nd.n.symbol)
	}
}

func (nd Node) Pos() int  { return nd.pos }
func (nd Node) Size() int { return nd.n.size }
func (nd Node) Range() Range {
	return Range{Start: nd.pos, End: nd.pos + nd.n.size}
}

// visible reports whether c should appear in the public child list: an
// anonymous terminal (fixed punctuation the grammar never names) is
// skipped, even though its bytes still count toward the parent's
// size. Every other stored kind — named terminal, non-terminal, error
// — is visible; a hidden production never survives in storage as its
// own node in the first place (flattenInto splices it away at the
// moment it would otherwise become a child, see reduce in parser.go).
func (nd Node) visible(c *node) bool {
	return c.kind != nodeTerminal || !nd.doc.tables.isAnonymous(c.symbol)
}

// ChildCount returns the number of visible children — anonymous
// terminals and already-flattened hidden productions don't count.
func (nd Node) ChildCount() int {
	n := 0
	for _, s := range nd.n.children {
		if nd.visible(s.n) {
			n++
		}
	}
	return n
}

func (nd Node) Child(i int) Node {
	if i < 0 {
		contractViolation("Node.Child", "index %d out of range", i)
	}
	seen := 0
	for _, s := range nd.n.children {
		if !nd.visible(s.n) {
			continue
		}
		if seen == i {
			return Node{doc: nd.doc, n: s.n, pos: nd.pos + s.offset}
		}
		seen++
	}
	contractViolation("Node.Child", "index %d out of range [0,%d)", i, seen)
	return Node{}
}

// Text returns the node's current bytes, read live from the
// document's reader — never cached, since an incremental reparse can
// leave a reused node's underlying bytes unchanged while everything
// around it shifts, or (for ERROR previews) the bytes at an offset
// may simply have changed since the node was built.
func (nd Node) Text() (string, error) {
	return nd.doc.readRange(nd.Range())
}

// Retain bumps the node's reference count; pair with Release once the
// caller is done holding onto it independent of its Document.
func (nd Node) Retain() Node {
	nd.n.retain()
	return nd
}

func (nd Node) Release() {
	nd.n.release()
}

// FindForPos descends to the deepest node whose range contains pos.
// When pos sits exactly on a boundary between two children, the
// later (right-hand) child wins, matching where a cursor at that
// offset would be typing into.
func (nd Node) FindForPos(pos int) Node {
	cur := nd
	for {
		if cur.ChildCount() == 0 {
			return cur
		}
		idx := -1
		for i := 0; i < cur.ChildCount(); i++ {
			c := cur.Child(i)
			if pos >= c.Pos() && pos <= c.Pos()+c.Size() {
				idx = i
			}
			if pos < c.Pos() {
				break
			}
		}
		if idx == -1 {
			return cur
		}
		cur = cur.Child(idx)
	}
}
