package section

import "fmt"

// Section is a planar cross-section defined by its outline vertices.
// The outline is given in the profile plane where:
// - X runs along the member's local y axis (width)
// - Y runs along the member's local z axis (depth)
// - Origin can be at any convenient location
type Section struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Vertices of a simple closed polygon, either winding, no closing duplicate
	Vertices []Point `json:"vertices"`
}

// Point represents a 2D coordinate in model length units
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SectionProperties holds calculated geometric properties
type SectionProperties struct {
	// Overall dimensions
	Width  float64 // Extent along X
	Height float64 // Extent along Y
	Area   float64

	// Centroid location
	CentroidX float64
	CentroidY float64

	// Bounding box
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64

	// Second moments about centroidal axes parallel to X and Y
	Ix  float64 // ∫y² dA, bending about the local y axis
	Iy  float64 // ∫x² dA, bending about the local z axis
	Ixy float64

	// Saint-Venant torsion constant, A⁴/(4π²Ip) approximation
	J float64
}

// Validate checks if the section definition is valid
func (s *Section) Validate() error {
	if len(s.Vertices) < 3 {
		return &ValidationError{"section must have at least 3 vertices"}
	}
	props := s.CalculateProperties()
	if props.Area <= 0 {
		return &ValidationError{"section outline encloses no area"}
	}
	return nil
}

// ValidationError represents a section validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("section validation error: %s", e.Message)
}
