package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"
)

// Glyphs used by the ASCII renderer, later layers overwrite earlier ones
const (
	shellGlyph    = '·'
	memberGlyph   = '─'
	deformedGlyph = '•'
	nodeGlyph     = 'o'
	supportGlyph  = '▲'
)

// canvas is a character grid with the origin at the bottom left
type canvas struct {
	w, h  int
	cells [][]rune
	minP  Point
	scale float64
	view  View
}

func newCanvas(s Scene, v View, width, height int) *canvas {
	c := &canvas{w: width, h: height, view: v}
	c.cells = make([][]rune, height)
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", width))
	}

	minP, maxP, _ := s.Bounds(v)
	for _, q := range s.Supports {
		p := v.Project(q)
		minP.X, minP.Y = math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)
		maxP.X, maxP.Y = math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)
	}
	c.minP = minP

	// Characters are about twice as tall as they are wide
	sx := float64(width-1) / math.Max(maxP.X-minP.X, 1e-12)
	sy := 2 * float64(height-1) / math.Max(maxP.Y-minP.Y, 1e-12)
	c.scale = math.Min(sx, sy)
	return c
}

func (c *canvas) cell(p r3.Vec) (int, int) {
	q := c.view.Project(p)
	col := int(math.Round((q.X - c.minP.X) * c.scale))
	row := int(math.Round((q.Y - c.minP.Y) * c.scale / 2))
	return col, row
}

func (c *canvas) plot(col, row int, r rune) {
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	c.cells[c.h-1-row][col] = r
}

// line rasterises a segment with Bresenham's algorithm
func (c *canvas) line(a, b r3.Vec, r rune) {
	x0, y0 := c.cell(a)
	x1, y1 := c.cell(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.plot(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	border := strings.Repeat("─", c.w)
	sb.WriteString(fmt.Sprintf("  ┌%s┐\n", border))
	for _, row := range c.cells {
		sb.WriteString(fmt.Sprintf("  │%s│\n", string(row)))
	}
	sb.WriteString(fmt.Sprintf("  └%s┘\n", border))
	return sb.String()
}

// DrawASCIIModel renders a scene as text, members as lines, shells as
// dotted outlines, the deformed shape on top and supports last
func DrawASCIIModel(s Scene, v View, width, height int) string {
	if width < 8 {
		width = 8
	}
	if height < 4 {
		height = 4
	}
	c := newCanvas(s, v, width, height)

	for _, poly := range s.Polygons {
		for i := range poly.Points {
			c.line(poly.Points[i], poly.Points[(i+1)%len(poly.Points)], shellGlyph)
		}
	}
	for _, seg := range s.Segments {
		c.line(seg.From, seg.To, memberGlyph)
	}
	if s.Deformed {
		for _, poly := range s.Polygons {
			for i := range poly.Displaced {
				c.line(poly.Displaced[i], poly.Displaced[(i+1)%len(poly.Displaced)], deformedGlyph)
			}
		}
		for _, seg := range s.Segments {
			c.line(seg.DispFrom, seg.DispTo, deformedGlyph)
		}
	}
	for _, seg := range s.Segments {
		col, row := c.cell(seg.From)
		c.plot(col, row, nodeGlyph)
		col, row = c.cell(seg.To)
		c.plot(col, row, nodeGlyph)
	}
	for _, q := range s.Supports {
		col, row := c.cell(q)
		c.plot(col, row, supportGlyph)
	}

	var sb strings.Builder
	title := s.Title
	if s.Deformed {
		title = fmt.Sprintf("%s  deformed ×%g", s.Title, s.Scale)
	}
	sb.WriteString(fmt.Sprintf("\n  %s (%s view)\n", title, v))
	sb.WriteString(c.String())
	sb.WriteString(fmt.Sprintf("  %c member  %c shell  %c deformed  %c node  %c support\n",
		memberGlyph, shellGlyph, deformedGlyph, nodeGlyph, supportGlyph))
	return sb.String()
}

// DrawDisplacementChart plots displacement magnitudes in node order
func DrawDisplacementChart(magnitudes []float64, caption string) string {
	if len(magnitudes) == 0 {
		return ""
	}
	data := magnitudes
	if len(data) == 1 {
		// asciigraph needs two points for a line
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(6),
		asciigraph.Caption(caption),
	)
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len(title)
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
