package biz

import (
	"strings"
)

// Grid is a rows x cols board stored column-major: cell i sits at
// row i%rows of column i/rows. Row 0 is the top of a column.
type Grid struct {
	rows  int
	cols  int
	cells []Symbol
}

// NewGrid fills a rows x cols grid from src.
func NewGrid(rows, cols int, src SymbolSource) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, configError("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	g := &Grid{rows: rows, cols: cols, cells: make([]Symbol, rows*cols)}
	for i := range g.cells {
		g.cells[i] = src.NextSymbol()
	}
	return g, nil
}

// GridOf wraps a copy of cells, which must hold exactly rows*cols symbols.
func GridOf(rows, cols int, cells []Symbol) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, configError("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	if len(cells) != rows*cols {
		return nil, configError("grid %dx%d needs %d cells, got %d", rows, cols, rows*cols, len(cells))
	}
	return &Grid{rows: rows, cols: cols, cells: append([]Symbol(nil), cells...)}, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Len() int  { return len(g.cells) }

func (g *Grid) At(i int) Symbol     { return g.cells[i] }
func (g *Grid) Set(i int, s Symbol) { g.cells[i] = s }

// Row and Col decompose a linear index.
func (g *Grid) Row(i int) int { return i % g.rows }
func (g *Grid) Col(i int) int { return i / g.rows }

// Index is the inverse of Row/Col.
func (g *Grid) Index(row, col int) int { return col*g.rows + row }

// Cells returns a copy of the cells in storage order.
func (g *Grid) Cells() []Symbol { return append([]Symbol(nil), g.cells...) }

// Column returns a copy of column c, top row first.
func (g *Grid) Column(c int) []Symbol {
	base := c * g.rows
	return append([]Symbol(nil), g.cells[base:base+g.rows]...)
}

// Clone returns an independent snapshot.
func (g *Grid) Clone() *Grid {
	return &Grid{rows: g.rows, cols: g.cols, cells: g.Cells()}
}

// Neighbours returns the in-bounds cells sharing an edge with i: up and down
// within the column, left and right across adjacent columns.
func (g *Grid) Neighbours(i int) []int {
	if i < 0 || i >= len(g.cells) {
		return nil
	}
	nb := make([]int, 0, 4)
	r, c := g.Row(i), g.Col(i)
	if r > 0 {
		nb = append(nb, i-1)
	}
	if r < g.rows-1 {
		nb = append(nb, i+1)
	}
	if c > 0 {
		nb = append(nb, i-g.rows)
	}
	if c < g.cols-1 {
		nb = append(nb, i+g.rows)
	}
	return nb
}

// Strings returns the cells as plain strings, the payload representation.
func (g *Grid) Strings() []string {
	out := make([]string, len(g.cells))
	for i, s := range g.cells {
		out[i] = string(s)
	}
	return out
}

// String renders the board row by row, for logs and test failures.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			s := g.cells[g.Index(r, c)]
			if s == empty {
				s = "."
			}
			b.WriteString(string(s))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
