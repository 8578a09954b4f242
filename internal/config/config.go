package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"gopkg.in/yaml.v3"
)

// Synonym lists the property names accepted for one canonical property.
// Entries may be bare names or qualified as "Pset.Name".
type Synonym struct {
	Canonical string   `json:"canonical" yaml:"canonical"`
	Accept    []string `json:"accept" yaml:"accept"`
}

// Canonical property names
const (
	Area          = "area"
	Iy            = "iy"
	Iz            = "iz"
	J             = "j"
	Thickness     = "thickness"
	YoungsModulus = "youngs_modulus"
	ShearModulus  = "shear_modulus"
	PoissonRatio  = "poisson_ratio"
	Density       = "density"
)

// Mesh controls node deduplication and boundary conditions
type Mesh struct {
	Tolerance        float64 `json:"tolerance" yaml:"tolerance"`
	SupportTolerance float64 `json:"support_tolerance" yaml:"support_tolerance"`
	FixBase          bool    `json:"fix_base" yaml:"fix_base"`
}

// SupportEpsilon is the support matching distance, the node tolerance when unset
func (m Mesh) SupportEpsilon() float64 {
	if m.SupportTolerance > 0 {
		return m.SupportTolerance
	}
	return m.Tolerance
}

// Geometry holds degeneracy thresholds
type Geometry struct {
	MinLength float64 `json:"min_length" yaml:"min_length"`
	MinArea   float64 `json:"min_area" yaml:"min_area"`
}

// Defaults are the fallback descriptors used when properties are missing
type Defaults struct {
	Section  model.SectionDescriptor  `json:"section" yaml:"section"`
	Shell    model.SectionDescriptor  `json:"shell" yaml:"shell"`
	Material model.MaterialDescriptor `json:"material" yaml:"material"`
}

// Loads controls the generated self-weight load
type Loads struct {
	SelfWeight  bool    `json:"self_weight" yaml:"self_weight"`
	Gravity     float64 `json:"gravity" yaml:"gravity"`
	Combination string  `json:"combination" yaml:"combination"`
}

// Config is the complete conversion configuration
type Config struct {
	Mesh     Mesh      `json:"mesh" yaml:"mesh"`
	Geometry Geometry  `json:"geometry" yaml:"geometry"`
	Defaults Defaults  `json:"defaults" yaml:"defaults"`
	Synonyms []Synonym `json:"synonyms" yaml:"synonyms"`
	Loads    Loads     `json:"loads" yaml:"loads"`
}

// DefaultSection is used for frame members without section data
var DefaultSection = model.SectionDescriptor{
	Name:    "DefaultSection",
	Kind:    model.FrameSection,
	A:       0.1,
	Iy:      0.001,
	Iz:      0.001,
	J:       0.0001,
	Default: true,
}

// DefaultShell is used for slabs and walls without a thickness
var DefaultShell = model.SectionDescriptor{
	Name:      "DefaultShell",
	Kind:      model.ShellSection,
	Thickness: 0.2,
	Default:   true,
}

// DefaultMaterial is structural steel in SI units
var DefaultMaterial = model.MaterialDescriptor{
	Name:    "DefaultMaterial",
	E:       200e9,
	G:       76.92e9,
	Nu:      0.3,
	Rho:     7850,
	Default: true,
}

// DefaultSynonyms is the built-in property name table
var DefaultSynonyms = []Synonym{
	{Canonical: Area, Accept: []string{"CrossSectionArea", "CrossSectionalArea", "SectionArea", "Area", "A"}},
	{Canonical: Iy, Accept: []string{"MomentOfInertiaY", "SecondMomentOfAreaY", "InertiaY", "Iy", "Iyy"}},
	{Canonical: Iz, Accept: []string{"MomentOfInertiaZ", "SecondMomentOfAreaZ", "InertiaZ", "Iz", "Izz"}},
	{Canonical: J, Accept: []string{"TorsionalConstantX", "TorsionalConstant", "TorsionConstant", "J", "It"}},
	{Canonical: Thickness, Accept: []string{"Thickness", "NominalThickness", "Width"}},
	{Canonical: YoungsModulus, Accept: []string{"YoungModulus", "YoungsModulus", "ModulusOfElasticity", "ElasticModulus", "E"}},
	{Canonical: ShearModulus, Accept: []string{"ShearModulus", "G"}},
	{Canonical: PoissonRatio, Accept: []string{"PoissonRatio", "PoissonsRatio", "Nu"}},
	{Canonical: Density, Accept: []string{"MassDensity", "Density", "Rho"}},
}

// Default returns the built-in configuration
func Default() Config {
	synonyms := make([]Synonym, len(DefaultSynonyms))
	for i, s := range DefaultSynonyms {
		synonyms[i] = Synonym{Canonical: s.Canonical, Accept: append([]string(nil), s.Accept...)}
	}

	return Config{
		Mesh: Mesh{
			Tolerance: 1e-3,
		},
		Geometry: Geometry{
			MinLength: 1e-9,
			MinArea:   1e-12,
		},
		Defaults: Defaults{
			Section:  DefaultSection,
			Shell:    DefaultShell,
			Material: DefaultMaterial,
		},
		Synonyms: synonyms,
		Loads: Loads{
			Gravity:     9.81,
			Combination: "1",
		},
	}
}

// Load reads a JSON or YAML configuration file on top of the defaults.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that tolerances and defaults are usable
func (c Config) Validate() error {
	if !(c.Mesh.Tolerance > 0) {
		return &ValidationError{"mesh tolerance must be positive"}
	}
	if c.Mesh.SupportTolerance < 0 {
		return &ValidationError{"support tolerance must not be negative"}
	}
	if c.Geometry.MinLength < 0 || c.Geometry.MinArea < 0 {
		return &ValidationError{"geometry thresholds must not be negative"}
	}
	s := c.Defaults.Section
	if s.A <= 0 || s.Iy <= 0 || s.Iz <= 0 || s.J <= 0 {
		return &ValidationError{"default section properties must be positive"}
	}
	if c.Defaults.Shell.Thickness <= 0 {
		return &ValidationError{"default shell thickness must be positive"}
	}
	m := c.Defaults.Material
	if m.E <= 0 || m.G <= 0 || m.Rho < 0 {
		return &ValidationError{"default material constants must be positive"}
	}
	if c.Loads.SelfWeight && c.Loads.Gravity <= 0 {
		return &ValidationError{"gravity must be positive when self weight is enabled"}
	}
	seen := make(map[string]bool)
	for _, s := range c.Synonyms {
		if s.Canonical == "" {
			return &ValidationError{"synonym entry without canonical name"}
		}
		if seen[s.Canonical] {
			return &ValidationError{fmt.Sprintf("duplicate synonym entry %q", s.Canonical)}
		}
		seen[s.Canonical] = true
	}
	return nil
}

// ValidationError represents an invalid configuration
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
