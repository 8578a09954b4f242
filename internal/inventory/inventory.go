package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/geometry"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/alexiusacademia/ifcfem/internal/section"
)

// Unassigned groups elements without a material in the material totals
const Unassigned = "(none)"

// Quantity names read from IFC quantity and property sets before falling
// back to the resolved geometry
var (
	volumeNames = []string{"NetVolume", "GrossVolume", "Volume"}
	areaNames   = []string{"NetArea", "GrossArea", "NetSideArea", "GrossSideArea", "CrossSectionArea", "Area"}
	lengthNames = []string{"Length", "Height", "Span"}
)

// Row is the quantity take-off of one element
type Row struct {
	ID       int
	Name     string
	Type     string
	Kind     model.ElementKind
	Volume   float64
	Area     float64
	Length   float64
	Material string
	Geometry bool
}

// MaterialTotals sums quantities over the elements of one material
type MaterialTotals struct {
	Material string
	Count    int
	Volume   float64
	Area     float64
	Length   float64
}

// Issue is a problem found while validating the extracted elements
type Issue struct {
	Source  model.SourceRef
	Problem string
}

func (i Issue) String() string {
	if i.Source.EntityID == 0 {
		return i.Problem
	}
	return fmt.Sprintf("%s: %s", i.Source, i.Problem)
}

// Inventory is the element listing, material totals and validation report
// of one model
type Inventory struct {
	Rows      []Row
	Materials []MaterialTotals
	Issues    []Issue
}

// Build takes off quantities for every element. Linear members report
// their length, cross-section area and volume; slabs and walls report
// their plan area and volume. Quantities found in the element's property
// sets take precedence over the resolved geometry.
func Build(els []model.StructuralElement, cfg config.Geometry) *Inventory {
	inv := &Inventory{}
	if len(els) == 0 {
		inv.Issues = append(inv.Issues, Issue{Problem: "no structural elements found"})
		return inv
	}

	resolver := geometry.NewResolver(cfg)
	totals := make(map[string]*MaterialTotals)
	for _, el := range els {
		row := Row{
			ID:   el.Source.EntityID,
			Name: el.Source.Name,
			Type: el.Source.Type,
			Kind: el.Kind,
		}

		g, err := resolver.Resolve(el)
		if err != nil {
			inv.Issues = append(inv.Issues, Issue{Source: el.Source, Problem: fmt.Sprintf("no usable geometry: %v", err)})
		} else {
			row.Geometry = true
			measure(&row, el, g)
		}
		if v, ok := quantity(el, volumeNames); ok {
			row.Volume = v
		}
		if v, ok := quantity(el, areaNames); ok {
			row.Area = v
		}
		if v, ok := quantity(el, lengthNames); ok && el.Kind.IsLinear() {
			row.Length = v
		}

		names := make([]string, 0, len(el.Materials))
		for _, m := range el.Materials {
			if m.Name != "" {
				names = append(names, m.Name)
			}
		}
		row.Material = strings.Join(names, ", ")
		if len(names) == 0 {
			inv.Issues = append(inv.Issues, Issue{Source: el.Source, Problem: "no material"})
		}
		if row.Volume == 0 {
			inv.Issues = append(inv.Issues, Issue{Source: el.Source, Problem: "zero volume"})
		}

		key := Unassigned
		if len(names) > 0 {
			key = names[0]
		}
		t, ok := totals[key]
		if !ok {
			t = &MaterialTotals{Material: key}
			totals[key] = t
		}
		t.Count++
		t.Volume += row.Volume
		t.Area += row.Area
		t.Length += row.Length

		inv.Rows = append(inv.Rows, row)
	}

	for _, t := range totals {
		inv.Materials = append(inv.Materials, *t)
	}
	sort.Slice(inv.Materials, func(i, j int) bool {
		return inv.Materials[i].Material < inv.Materials[j].Material
	})
	return inv
}

// measure fills the row from the canonical geometry
func measure(row *Row, el model.StructuralElement, g model.CanonicalGeometry) {
	if el.Kind.IsLinear() {
		row.Length = g.Length
		if body := el.Representation.Body; body != nil {
			if fp, ok := section.FromProfile(body.Profile); ok {
				row.Area = fp.A
				row.Volume = fp.A * g.Length
			}
		}
		return
	}
	row.Area = g.Area
	row.Volume = g.Area * g.Thickness
}

// quantity returns the first numeric property matching one of names,
// compared case-insensitively
func quantity(el model.StructuralElement, names []string) (float64, bool) {
	for _, name := range names {
		for _, p := range el.Properties {
			if p.Numeric && p.Value > 0 && strings.EqualFold(p.Name, name) {
				return p.Value, true
			}
		}
	}
	return 0, false
}

// WriteCSV writes one row per element with the columns
// ID, Name, Type, Volume, Area, Length, Material
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Type", "Volume", "Area", "Length", "Material"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range rows {
		rec := []string{
			strconv.Itoa(r.ID),
			r.Name,
			r.Type,
			formatFloat(r.Volume),
			formatFloat(r.Area),
			formatFloat(r.Length),
			r.Material,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
