package incparse

import (
	"fmt"
	"strings"
)

// String renders the node as a plain S-expression: "(name child ...)"
// for a named production, "(name)" for a childless terminal or
// production, and "(ERROR 'x')" for an error node, where x is the
// first byte of input remaining at the error's start (just "(ERROR)"
// when no input remains there), read live from
// the document's reader (never cached — the whole point of an
// incremental reparse is that bytes under a stale offset may have
// changed since this node was built).
func (nd Node) String() string {
	var b strings.Builder
	writeNode(&b, nd)
	return b.String()
}

func writeNode(b *strings.Builder, nd Node) {
	if nd.n.kind == nodeError {
		b.WriteString("(ERROR")
		if preview, ok := nd.errorPreview(); ok {
			fmt.Fprintf(b, " '%s'", preview)
		}
		writeChildren(b, nd)
		b.WriteByte(')')
		return
	}

	b.WriteByte('(')
	b.WriteString(nd.Name())
	writeChildren(b, nd)
	b.WriteByte(')')
}

func writeChildren(b *strings.Builder, nd Node) {
	for i := 0; i < nd.ChildCount(); i++ {
		b.WriteByte(' ')
		writeNode(b, nd.Child(i))
	}
}

// errorPreview reads the single byte (escaped if it's a quote,
// backslash, newline, carriage return or tab) at the error's start
// offset, straight from the
// document's live reader. It is a hint about what sits at that
// position, not a claim about the node's own size — a zero-size
// ERROR (an inserted, not skipped, error) still previews the byte
// immediately at its position.
func (nd Node) errorPreview() (string, bool) {
	text, err := nd.doc.readRange(Range{Start: nd.pos, End: nd.pos + 1})
	if err != nil || len(text) == 0 {
		return "", false
	}
	return escapeLiteral(text), true
}

var literalSanitizer = strings.NewReplacer(
	`'`, `\'`,
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalSanitizer.Replace(s)
}
