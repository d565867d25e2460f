package token

import (
	"fmt"
	"sort"
)

// Position describes a location in a source file. Line and Column are
// 1-based; Column counts bytes.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position has a line number.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	s := p.Filename
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// File maps byte offsets of one source file to positions.
type File struct {
	name  string
	size  int
	lines []int // offsets of the first byte of each line
}

// NewFile indexes the line starts of src.
func NewFile(name string, src []byte) *File {
	f := &File{name: name, size: len(src), lines: []int{0}}
	for i, c := range src {
		if c == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

func (f *File) Name() string { return f.name }

func (f *File) Size() int { return f.size }

func (f *File) LineCount() int { return len(f.lines) }

// Position converts offset into a Position. Offsets outside the file
// are clamped.
func (f *File) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > f.size {
		offset = f.size
	}
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	return Position{
		Filename: f.name,
		Offset:   offset,
		Line:     i + 1,
		Column:   offset - f.lines[i] + 1,
	}
}
