package model

import (
	"fmt"
	"strconv"
)

// SectionKind distinguishes frame sections from shell sections
type SectionKind int

const (
	FrameSection SectionKind = iota
	ShellSection
)

func (k SectionKind) String() string {
	if k == ShellSection {
		return "shell"
	}
	return "frame"
}

// SectionDescriptor holds cross-section properties. Frame sections use
// A, Iy, Iz and J; shell sections use Thickness.
type SectionDescriptor struct {
	Name      string      `json:"name"`
	Kind      SectionKind `json:"kind"`
	A         float64     `json:"a,omitempty"`
	Iy        float64     `json:"iy,omitempty"`
	Iz        float64     `json:"iz,omitempty"`
	J         float64     `json:"j,omitempty"`
	Thickness float64     `json:"thickness,omitempty"`
	Default   bool        `json:"default,omitempty"`
}

// Key identifies the descriptor by value. Names are not part of the key.
func (s SectionDescriptor) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", s.Kind,
		fkey(s.A), fkey(s.Iy), fkey(s.Iz), fkey(s.J), fkey(s.Thickness))
}

// MaterialDescriptor holds linear elastic material constants
type MaterialDescriptor struct {
	Name    string  `json:"name"`
	E       float64 `json:"e"`
	G       float64 `json:"g"`
	Nu      float64 `json:"nu"`
	Rho     float64 `json:"rho"`
	Default bool    `json:"default,omitempty"`
}

// Key identifies the descriptor by value
func (m MaterialDescriptor) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", fkey(m.E), fkey(m.G), fkey(m.Nu), fkey(m.Rho))
}

// fkey formats a float with enough digits to be stable across runs
func fkey(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}
