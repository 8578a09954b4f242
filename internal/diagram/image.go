package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	outlineColor = color.Gray{Y: 140}
	shellFill    = color.RGBA{R: 100, G: 149, B: 237, A: 60}
	supportColor = color.RGBA{R: 139, G: 69, B: 19, A: 255}
)

// Heat maps a displacement ratio in [0, 1] from blue to red
func Heat(ratio float64) color.RGBA {
	if ratio < 0 || ratio != ratio {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return color.RGBA{R: uint8(255 * ratio), G: 40, B: uint8(255 * (1 - ratio)), A: 255}
}

// ExportModel exports a model scene to an image file. The format follows
// the extension (.png, .svg, .pdf); anything else gets .png appended.
func ExportModel(s Scene, filename string, v View) error {
	if len(s.Segments) == 0 && len(s.Polygons) == 0 {
		return fmt.Errorf("nothing to draw")
	}

	p := plot.New()
	p.Title.Text = s.Title
	if s.Deformed {
		p.Title.Text = fmt.Sprintf("%s (deformed ×%g, max %.3g)", s.Title, s.Scale, s.MaxDisp)
	}
	p.X.Label.Text = fmt.Sprintf("%s view", v)

	// Keep the aspect ratio square
	minP, maxP, _ := s.Bounds(v)
	span := maxP.X - minP.X
	if h := maxP.Y - minP.Y; h > span {
		span = h
	}
	pad := span*0.05 + 1e-9
	cx, cy := (minP.X+maxP.X)/2, (minP.Y+maxP.Y)/2
	p.X.Min, p.X.Max = cx-span/2-pad, cx+span/2+pad
	p.Y.Min, p.Y.Max = cy-span/2-pad, cy+span/2+pad

	for _, poly := range s.Polygons {
		pts := make(plotter.XYs, len(poly.Points))
		for i, q := range poly.Points {
			pp := v.Project(q)
			pts[i] = plotter.XY{X: pp.X, Y: pp.Y}
		}
		shape, err := plotter.NewPolygon(pts)
		if err != nil {
			return err
		}
		shape.Color = shellFill
		shape.LineStyle.Color = outlineColor
		if s.Deformed {
			shape.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		}
		p.Add(shape)

		if s.Deformed {
			if err := addOutline(p, v, poly.Displaced, Heat(poly.Magnitude/s.MaxDisp)); err != nil {
				return err
			}
		}
	}

	for _, seg := range s.Segments {
		from, to := v.Project(seg.From), v.Project(seg.To)
		line, err := plotter.NewLine(plotter.XYs{{X: from.X, Y: from.Y}, {X: to.X, Y: to.Y}})
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = color.Black
		if s.Deformed {
			line.LineStyle.Width = vg.Points(1)
			line.LineStyle.Color = outlineColor
			line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		}
		p.Add(line)

		if s.Deformed {
			df, dt := v.Project(seg.DispFrom), v.Project(seg.DispTo)
			moved, err := plotter.NewLine(plotter.XYs{{X: df.X, Y: df.Y}, {X: dt.X, Y: dt.Y}})
			if err != nil {
				return err
			}
			moved.LineStyle.Width = vg.Points(2)
			moved.LineStyle.Color = Heat(seg.Magnitude / s.MaxDisp)
			p.Add(moved)
		}
	}

	if len(s.Supports) > 0 {
		pts := make(plotter.XYs, len(s.Supports))
		for i, q := range s.Supports {
			pp := v.Project(q)
			pts[i] = plotter.XY{X: pp.X, Y: pp.Y}
		}
		supports, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		supports.GlyphStyle.Color = supportColor
		supports.GlyphStyle.Radius = vg.Points(5)
		supports.GlyphStyle.Shape = draw.TriangleGlyph{}
		p.Add(supports)
	}

	if s.Deformed {
		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: p.X.Min + pad, Y: p.Y.Max - pad}},
			Labels: []string{fmt.Sprintf("max |u| = %.4g", s.MaxDisp)},
		})
		if err != nil {
			return err
		}
		p.Add(l)
	}

	return save(p, 8*vg.Inch, 8*vg.Inch, filename)
}

func addOutline(p *plot.Plot, v View, pts3 []r3.Vec, c color.Color) error {
	if len(pts3) < 2 {
		return nil
	}
	pts := make(plotter.XYs, len(pts3)+1)
	for i, q := range pts3 {
		pp := v.Project(q)
		pts[i] = plotter.XY{X: pp.X, Y: pp.Y}
	}
	pts[len(pts3)] = pts[0]
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	p.Add(line)
	return nil
}

// ExportDisplacementPlot plots displacement magnitude per node
func ExportDisplacementPlot(title string, nodes []int, magnitudes []float64, filename string) error {
	if len(nodes) != len(magnitudes) {
		return fmt.Errorf("%d nodes but %d values", len(nodes), len(magnitudes))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Node"
	p.Y.Label.Text = "|u|"

	pts := make(plotter.XYs, len(nodes))
	for i := range nodes {
		pts[i] = plotter.XY{X: float64(nodes[i]), Y: magnitudes[i]}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	points.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	points.GlyphStyle.Radius = vg.Points(3)
	p.Add(line, points)

	return save(p, 8*vg.Inch, 5*vg.Inch, filename)
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
