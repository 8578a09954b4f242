package section

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CalculateProperties computes geometric properties of the section
func (s *Section) CalculateProperties() *SectionProperties {
	props := &SectionProperties{}

	if len(s.Vertices) < 3 {
		return props
	}

	// Find bounding box
	props.MinX, props.MaxX = s.Vertices[0].X, s.Vertices[0].X
	props.MinY, props.MaxY = s.Vertices[0].Y, s.Vertices[0].Y

	for _, v := range s.Vertices {
		props.MinX = math.Min(props.MinX, v.X)
		props.MaxX = math.Max(props.MaxX, v.X)
		props.MinY = math.Min(props.MinY, v.Y)
		props.MaxY = math.Max(props.MaxY, v.Y)
	}

	props.Width = props.MaxX - props.MinX
	props.Height = props.MaxY - props.MinY

	// Calculate area and centroid using the shoelace formula
	props.Area, props.CentroidX, props.CentroidY = s.calculateAreaAndCentroid()

	s.calculateSecondMoments(props)

	if ip := props.Ix + props.Iy; ip > 0 {
		a := props.Area
		props.J = a * a * a * a / (4 * math.Pi * math.Pi * ip)
	}

	return props
}

// calculateAreaAndCentroid uses the shoelace formula
func (s *Section) calculateAreaAndCentroid() (area, cx, cy float64) {
	n := len(s.Vertices)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea float64
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := s.Vertices[i].X*s.Vertices[j].Y - s.Vertices[j].X*s.Vertices[i].Y
		signedArea += cross
		sumX += (s.Vertices[i].X + s.Vertices[j].X) * cross
		sumY += (s.Vertices[i].Y + s.Vertices[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}

// calculateSecondMoments integrates over the outline relative to the
// centroid, so the result does not depend on where the origin was put
func (s *Section) calculateSecondMoments(props *SectionProperties) {
	n := len(s.Vertices)
	if props.Area == 0 {
		return
	}

	var signedArea, ixx, iyy, ixy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := s.Vertices[i].X-props.CentroidX, s.Vertices[i].Y-props.CentroidY
		xj, yj := s.Vertices[j].X-props.CentroidX, s.Vertices[j].Y-props.CentroidY
		cross := xi*yj - xj*yi
		signedArea += cross
		ixx += (yi*yi + yi*yj + yj*yj) * cross
		iyy += (xi*xi + xi*xj + xj*xj) * cross
		ixy += (xi*yj + 2*xi*yi + 2*xj*yj + xj*yi) * cross
	}

	// Clockwise outlines integrate to negative values
	sign := 1.0
	if signedArea < 0 {
		sign = -1
	}
	props.Ix = sign * ixx / 12
	props.Iy = sign * iyy / 12
	props.Ixy = sign * ixy / 24
}

// FromOutline builds a section from profile plane coordinates, dropping Z
func FromOutline(name string, outline []r3.Vec) *Section {
	s := &Section{Name: name, Vertices: make([]Point, len(outline))}
	for i, v := range outline {
		s.Vertices[i] = Point{X: v.X, Y: v.Y}
	}
	return s
}
