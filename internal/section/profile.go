package section

import (
	"math"

	"github.com/alexiusacademia/ifcfem/internal/model"
)

// FrameProperties holds the stiffness-relevant properties of a frame section.
// Iy is about the local y axis (profile X), Iz about the local z axis.
type FrameProperties struct {
	A  float64
	Iy float64
	Iz float64
	J  float64
}

// FromProfile derives frame properties from a parametric or arbitrary
// profile. It reports false when the profile carries no usable dimensions.
func FromProfile(p model.Profile) (FrameProperties, bool) {
	var fp FrameProperties
	switch p.Kind {
	case model.RectangleProfile:
		if p.XDim <= 0 || p.YDim <= 0 {
			return fp, false
		}
		fp = rectangle(p.XDim, p.YDim)
		if t := p.WallThickness; t > 0 && 2*t < p.XDim && 2*t < p.YDim {
			fp = hollowRectangle(p.XDim, p.YDim, t)
		}
	case model.CircleProfile:
		if p.Radius <= 0 {
			return fp, false
		}
		fp = circle(p.Radius)
		if t := p.WallThickness; t > 0 && t < p.Radius {
			inner := circle(p.Radius - t)
			fp = FrameProperties{A: fp.A - inner.A, Iy: fp.Iy - inner.Iy, Iz: fp.Iz - inner.Iz, J: fp.J - inner.J}
		}
	case model.IShapeProfile:
		b, h, tw, tf := p.OverallWidth, p.OverallDepth, p.WebThickness, p.FlangeThickness
		if b <= 0 || h <= 0 || tw <= 0 || tf <= 0 || 2*tf >= h || tw > b {
			return fp, false
		}
		fp = ishape(b, h, tw, tf)
	case model.ArbitraryProfile:
		props := FromOutline(p.Name, p.Outline).CalculateProperties()
		if props.Area <= 0 {
			return fp, false
		}
		fp = FrameProperties{A: props.Area, Iy: props.Ix, Iz: props.Iy, J: props.J}
	default:
		return fp, false
	}
	return fp, true
}

// rectangle of width b (profile X) and depth h (profile Y)
func rectangle(b, h float64) FrameProperties {
	fp := FrameProperties{
		A:  b * h,
		Iy: b * h * h * h / 12,
		Iz: b * b * b * h / 12,
	}
	fp.J = rectangleTorsion(b, h)
	return fp
}

// rectangleTorsion is the Saint-Venant constant with the short side as b
func rectangleTorsion(b, h float64) float64 {
	if b == h {
		return 9 * b * b * b * b / 64
	}
	if b > h {
		b, h = h, b
	}
	r := b / h
	return h * b * b * b * (1.0/3.0 - 0.21*r*(1-math.Pow(r, 4)/12))
}

// hollowRectangle uses the outer minus inner rectangle and Bredt's thin-wall
// torsion constant on the wall centreline
func hollowRectangle(b, h, t float64) FrameProperties {
	outer := rectangle(b, h)
	bi, hi := b-2*t, h-2*t
	fp := FrameProperties{
		A:  outer.A - bi*hi,
		Iy: outer.Iy - bi*hi*hi*hi/12,
		Iz: outer.Iz - bi*bi*bi*hi/12,
	}
	bm, hm := b-t, h-t
	fp.J = 2 * t * bm * bm * hm * hm / (bm + hm)
	return fp
}

func circle(r float64) FrameProperties {
	i := math.Pi * r * r * r * r / 4
	return FrameProperties{A: math.Pi * r * r, Iy: i, Iz: i, J: 2 * i}
}

// ishape is a doubly symmetric I with flanges parallel to profile X
func ishape(b, h, tw, tf float64) FrameProperties {
	l := h - 2*tf
	return FrameProperties{
		A:  b*h - l*(b-tw),
		Iy: b*h*h*h/12 - (b-tw)*l*l*l/12,
		Iz: l*tw*tw*tw/12 + tf*b*b*b/6,
		J:  (2*b*tf*tf*tf + l*tw*tw*tw) / 3,
	}
}
