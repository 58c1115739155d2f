// Package testutil holds test-only helpers shared across this
// module's test files — chiefly a reader that records what it was
// asked to read, so tests can observe how much of the input an
// incremental reparse actually touched.
package testutil

// SpyReader serves an in-memory buffer (Data), each read returning
// everything from the offset to the end of Data, and records every
// range handed back, so a test can assert the "minimal re-read" property spec.md
// promises after an incremental edit: the recorded ranges after a
// localized edit should be a small, contiguous span near the edit,
// not the whole document. Grounded on original_source's SpyReader,
// which instruments the C runtime's input callback the same way.
type SpyReader struct {
	Data  []byte
	Reads []Range
}

// Range is a plain (offset, length) pair — deliberately not the core
// module's Range type, since testutil must not import incparse (it
// would create an import cycle with _test.go files in package
// incparse that also import testutil).
type Range struct {
	Offset int
	Length int
}

func NewSpyReader(data []byte) *SpyReader {
	return &SpyReader{Data: append([]byte(nil), data...)}
}

func (r *SpyReader) ReadChunk(offset int) ([]byte, error) {
	if offset < 0 || offset >= len(r.Data) {
		return nil, nil
	}
	chunk := r.Data[offset:]
	r.Reads = append(r.Reads, Range{Offset: offset, Length: len(chunk)})
	return chunk, nil
}

// TotalBytesRead sums the length of every recorded read, counting
// overlapping re-reads of the same bytes more than once — the
// intentionally pessimistic number a "reads far less than the whole
// document" assertion should use.
func (r *SpyReader) TotalBytesRead() int {
	n := 0
	for _, rr := range r.Reads {
		n += rr.Length
	}
	return n
}

// Reset clears the recorded reads without touching Data — used
// between an initial parse and the edit a test wants to measure.
func (r *SpyReader) Reset() {
	r.Reads = nil
}

// MinOffset returns the smallest recorded read offset, or -1 if
// nothing has been read yet.
func (r *SpyReader) MinOffset() int {
	if len(r.Reads) == 0 {
		return -1
	}
	min := r.Reads[0].Offset
	for _, rr := range r.Reads[1:] {
		if rr.Offset < min {
			min = rr.Offset
		}
	}
	return min
}
