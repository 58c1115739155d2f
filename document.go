package incparse

import "fmt"

// Document owns the current tree, the input reader, and the grammar
// reference — the lifecycle spec.md describes: created empty →
// language set → input set (first parse) → a sequence of edits, each
// re-parsing → freed. It is not safe for concurrent mutation; callers
// owning several independent documents may use them from different
// goroutines freely, since parse tables are immutable and shared.
type Document struct {
	tables *Tables
	reader Reader
	cfg    *Config

	root *node
	pos  *posIndex
}

// NewDocument creates an empty document with default configuration.
// SetLanguage and SetInput must both be called before RootNode or
// Edit are usable.
func NewDocument() *Document {
	return &Document{cfg: NewConfig()}
}

// SetLanguage installs the parse tables, discarding any tree built
// under a previous language — nodes from one grammar mean nothing to
// another's states.
func (d *Document) SetLanguage(t *Tables) {
	if t == nil {
		contractViolation("Document.SetLanguage", "tables must not be nil")
	}
	if d.root != nil {
		d.root.release()
		d.root = nil
		d.pos = nil
	}
	d.tables = t
}

// SetConfig installs a non-default configuration; skip this to keep
// NewConfig's defaults.
func (d *Document) SetConfig(cfg *Config) {
	if cfg == nil {
		contractViolation("Document.SetConfig", "config must not be nil")
	}
	d.cfg = cfg
}

// SetInput installs the reader and runs the first, full parse. The
// reader must already reflect the document's starting content.
func (d *Document) SetInput(r Reader) Node {
	if d.tables == nil {
		contractViolation("Document.SetInput", "no language installed, call SetLanguage first")
	}
	if r == nil {
		contractViolation("Document.SetInput", "reader must not be nil")
	}
	if d.root != nil {
		d.root.release()
	}

	d.reader = r
	d.pos = nil

	lx := newLexer(r, d.tables)
	p := newParser(d.tables, lx, d.cfg)
	d.root = p.parseDocument()

	return d.RootNode()
}

// RootNode returns a retained handle on the DOCUMENT node: a synthetic
// wrapper whose children are the grammar's start symbol's node (the
// ordinary case), that node's own children when the rule that built it
// is hidden (ERROR nodes from recovery can sit among them, first
// included), or, when a trailing parse failure left material the
// grammar could never reduce, the flattened top-level entries with the
// ERROR node after them.
func (d *Document) RootNode() Node {
	if d.root == nil {
		contractViolation("Document.RootNode", "no input set, call SetInput first")
	}
	return Node{doc: d, n: d.wrappedRoot(), pos: 0}
}

// wrappedRoot lazily builds the DOCUMENT wrapper. d.root itself is
// whatever parseDocument/Edit produced — either a single accepted
// node or a Group of top-level siblings — and is never mutated here.
func (d *Document) wrappedRoot() *node {
	var children []*node
	if d.root.kind == nodeGroup {
		for _, s := range d.root.children {
			children = flattenInto(children, s.n)
		}
	} else {
		children = []*node{d.root}
	}
	doc := newNode(nodeDocument, 0, d.tables.Start)
	doc.setChildren(children)
	return doc
}

// Free releases the document's root, transitively freeing any nodes
// with no outstanding external retains. The document must not be used
// again afterward.
func (d *Document) Free() {
	if d.root != nil {
		d.root.release()
		d.root = nil
	}
	d.reader = nil
	d.pos = nil
}

// Edit applies a previously-made change to the reader's underlying
// bytes — editStart/editEndOld describe the replaced span in the old
// text, editEndNew the same span's new end — and incrementally
// re-derives the tree, reusing every subtree untouched by the edit.
// The reader must already serve the new bytes; Edit only walks the
// existing tree deciding what can be reused versus what must be
// re-lexed or re-parsed.
func (d *Document) Edit(editStart, editEndOld, editEndNew int) Node {
	if d.root == nil {
		contractViolation("Document.Edit", "no input set, call SetInput first")
	}
	if editStart < 0 || editEndOld < editStart || editEndNew < editStart {
		contractViolation("Document.Edit", "invalid edit range [%d,%d)->%d", editStart, editEndOld, editEndNew)
	}

	ir := &incrementalReparser{
		tables:     d.tables,
		lx:         newLexer(d.reader, d.tables),
		cfg:        d.cfg,
		editStart:  editStart,
		editEndOld: editEndOld,
		editEndNew: editEndNew,
	}

	old := d.root
	newRoot, ok := ir.rebuild(old, 0)
	if !ok {
		// Nothing local converged, not even a root-level re-derivation
		// — re-parse the whole input from the top.
		p := newParser(d.tables, newLexer(d.reader, d.tables), d.cfg)
		newRoot = p.parseDocument()
	}
	d.root = newRoot
	old.release()
	d.pos = nil

	return d.RootNode()
}

// readRange reads exactly r.Len() bytes from the live reader, used by
// Node.Text and by error-node previews. It never consults the lexer's
// or tree's cached bytes — an incremental reparse can leave a reused
// node's bytes unchanged while everything around it moves, and an
// ERROR preview in particular must reflect whatever the reader serves
// right now, not whatever was true when the node was built.
func (d *Document) readRange(r Range) (string, error) {
	if d.reader == nil {
		return "", fmt.Errorf("incparse: document has no input")
	}
	if r.Len() <= 0 {
		return "", nil
	}
	buf := make([]byte, 0, r.Len())
	pos := r.Start
	for pos < r.End {
		chunk, err := d.reader.ReadChunk(pos)
		if err != nil {
			return "", err
		}
		if len(chunk) == 0 {
			break
		}
		take := r.End - pos
		if take > len(chunk) {
			take = len(chunk)
		}
		buf = append(buf, chunk[:take]...)
		pos += take
	}
	return string(buf), nil
}

// ensurePosIndex reads the whole current input once, lazily, the
// first time a Location/Span query is made since the last parse or
// edit.
func (d *Document) ensurePosIndex() *posIndex {
	if d.pos != nil {
		return d.pos
	}
	var all []byte
	pos := 0
	for {
		chunk, err := d.reader.ReadChunk(pos)
		if err != nil || len(chunk) == 0 {
			break
		}
		all = append(all, chunk...)
		pos += len(chunk)
	}
	d.pos = newPosIndex(all, int32(d.cfg.GetInt(ConfigTabWidth)))
	return d.pos
}

// LocationAt converts a byte offset into a 1-indexed line/column.
func (d *Document) LocationAt(cursor int) Location {
	return d.ensurePosIndex().LocationAt(cursor)
}

// UTF16OffsetAt converts a byte offset into the equivalent UTF-16
// code-unit offset, for consumers that address positions the way LSP
// clients do.
func (d *Document) UTF16OffsetAt(cursor int) int {
	return d.ensurePosIndex().CursorU16(cursor)
}

// RuneOffsetAt converts a byte offset into a rune offset.
func (d *Document) RuneOffsetAt(cursor int) int {
	return d.ensurePosIndex().CursorRunes(cursor)
}

// SpanOf converts a byte Range into its Location pair.
func (d *Document) SpanOf(r Range) Span {
	return d.ensurePosIndex().Span(r)
}
