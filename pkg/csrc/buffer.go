// Package csrc holds the source buffer and position types shared by every
// layer of the front end.
package csrc

// Buffer is the immutable text of one translation unit. Every token and
// trivia record refers back into it by (start, length); nothing upstream
// of the parser ever copies source text wholesale.
type Buffer struct {
	Name string
	Text []byte
}

// NewBuffer wraps src as the source of a translation unit named name. The
// name is used only for position reporting.
func NewBuffer(name string, src []byte) *Buffer {
	return &Buffer{Name: name, Text: src}
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.Text)
}

// Slice returns the raw bytes of [start, start+length).
func (b *Buffer) Slice(start, length int) []byte {
	return b.Text[start : start+length]
}

// String returns [start, start+length) as a string.
func (b *Buffer) String(start, length int) string {
	return string(b.Slice(start, length))
}

// Position is a (line, col) pair, 1-based, derived on demand from an
// offset. Nothing upstream caches it: spec.md requires line/col to stay a
// lazily-computed view, never stored on the token.
type Position struct {
	File string
	Line int
	Col  int
}

// PositionAt computes the line/col of offset by scanning for newlines up
// to it. Lines and columns are both 1-based. A "\r\n" pair counts as the
// newline that ends the line it terminates.
func (b *Buffer) PositionAt(offset int) Position {
	line := 1
	col := 1
	for i := 0; i < offset && i < len(b.Text); i++ {
		if b.Text[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Position{File: b.Name, Line: line, Col: col}
}
