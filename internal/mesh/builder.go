package mesh

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/geometry"
	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/alexiusacademia/ifcfem/internal/nscp"
	"gonum.org/v1/gonum/spatial/r3"
)

const stage = "mesh"

// Item is one resolved element ready to be meshed
type Item struct {
	Kind     model.ElementKind
	Source   model.SourceRef
	Geometry model.CanonicalGeometry
	Section  *model.SectionDescriptor
	Material *model.MaterialDescriptor
}

// Builder assembles the conversion model for one run. Node and element ids
// start at 1 and follow insertion order.
type Builder struct {
	cfg    config.Mesh
	logger *slog.Logger

	index       *Index
	cm          *model.ConversionModel
	nextNode    int
	nextElement int

	restraints map[int]model.DOFSet
	bcSources  map[int][]string
	summary    model.Summary
}

// NewBuilder creates an empty builder. A nil logger discards output.
func NewBuilder(cfg config.Mesh, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:         cfg,
		logger:      helper.OrDiscard(logger),
		index:       NewIndex(cfg.Tolerance),
		cm:          model.NewConversionModel(),
		nextNode:    1,
		nextElement: 1,
		restraints:  make(map[int]model.DOFSet),
		bcSources:   make(map[int][]string),
	}
}

// Add meshes one element and returns its id. Elements that collapse once
// their points are merged are rejected with a GeometryError and leave the
// builder unchanged.
func (b *Builder) Add(item Item) (int, error) {
	if item.Section == nil || item.Material == nil {
		return 0, &model.InternalConsistencyError{Op: "mesh", Detail: fmt.Sprintf("%s has no section or material", item.Source)}
	}

	ids, fresh := b.resolve(item.Geometry.Points)

	var nodes []int
	switch {
	case item.Kind.IsLinear():
		if len(ids) != 2 {
			return 0, b.reject(item, "linear element needs 2 points, got %d", len(ids))
		}
		if ids[0] == ids[1] {
			return 0, b.reject(item, "both ends merge into one node")
		}
		nodes = ids
	default:
		nodes = distinctRing(ids)
		if len(nodes) < 3 {
			return 0, b.reject(item, "only %d distinct nodes after merging", len(nodes))
		}
	}

	for _, f := range fresh {
		b.cm.Nodes[f.id] = &model.MeshNode{ID: f.id, Coord: f.p}
		b.index.Insert(f.id, f.p)
	}
	b.nextNode += len(fresh)

	id := b.nextElement
	b.nextElement++
	for _, n := range nodes {
		node := b.cm.Nodes[n]
		node.Elements = append(node.Elements, id)
	}

	b.cm.AddSection(item.Section)
	b.cm.AddMaterial(item.Material)
	b.cm.Elements[id] = &model.MeshElement{
		ID:          id,
		Kind:        item.Kind,
		Nodes:       nodes,
		Section:     item.Section.Name,
		Material:    item.Material.Name,
		Orientation: item.Geometry.Orientation(),
		Source:      item.Source,
	}
	b.summary.Converted++

	b.logger.Debug("Element meshed",
		slog.Int("id", id),
		slog.String("source", item.Source.String()),
		slog.Any("nodes", nodes),
	)
	return id, nil
}

// resolve maps points onto existing nodes or new ones. Committed nodes and
// nodes reserved earlier for the same element compete on distance, ties
// going to the lowest id. New nodes are only reserved, Add commits them
// once the element is accepted.
func (b *Builder) resolve(points []r3.Vec) ([]int, []entry) {
	ids := make([]int, len(points))
	var fresh []entry
	eps := b.cfg.Tolerance

	for i, p := range points {
		var n nearest
		if id, ok := b.index.Nearest(p); ok {
			n.visit([]entry{{id: id, p: b.cm.Nodes[id].Coord}}, p, eps)
		}
		n.visit(fresh, p, eps)
		if n.found {
			ids[i] = n.id
			continue
		}

		f := entry{id: b.nextNode + len(fresh), p: p}
		fresh = append(fresh, f)
		ids[i] = f.id
	}
	return ids, fresh
}

// distinctRing drops repeated nodes from a closed boundary, keeping the
// first occurrence
func distinctRing(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (b *Builder) reject(item Item, format string, args ...any) error {
	err := &model.GeometryError{Source: item.Source, Reason: fmt.Sprintf(format, args...)}
	b.summary.Skipped++
	b.summary.Warn(stage, item.Source.String(), "%s", err.Reason)
	b.logger.Warn("Element rejected", slog.String("source", item.Source.String()), slog.String("reason", err.Reason))
	return err
}

// Supports attaches support records to the nearest node within the support
// tolerance. Records that match no node are reported and dropped.
func (b *Builder) Supports(records []model.SupportRecord) {
	eps := b.cfg.SupportEpsilon()
	for _, rec := range records {
		p := geometry.SupportPosition(rec)
		id, ok := b.index.Within(p, eps)
		if !ok {
			b.summary.Warn(stage, rec.Source.String(), "no node within %g of support at (%g, %g, %g)", eps, p.X, p.Y, p.Z)
			b.logger.Warn("Support matches no node", slog.String("source", rec.Source.String()))
			continue
		}
		b.restrain(id, rec.Restraints, rec.Source.String())
		b.summary.Supports++
	}
}

// FixBase fixes every node lying within the tolerance of the lowest node
func (b *Builder) FixBase() int {
	if len(b.cm.Nodes) == 0 {
		return 0
	}
	minZ := math.Inf(1)
	for _, n := range b.cm.Nodes {
		minZ = math.Min(minZ, n.Coord.Z)
	}

	count := 0
	for _, id := range b.cm.NodeIDs() {
		if b.cm.Nodes[id].Coord.Z-minZ < b.cfg.Tolerance {
			b.restrain(id, model.Fixed, "base")
			count++
		}
	}
	b.logger.Info("Base nodes fixed", slog.Int("count", count), slog.Float64("z", minZ))
	return count
}

func (b *Builder) restrain(node int, dofs model.DOFSet, source string) {
	b.restraints[node] = b.restraints[node].Union(dofs)
	for _, s := range b.bcSources[node] {
		if s == source {
			return
		}
	}
	b.bcSources[node] = append(b.bcSources[node], source)
}

// SelfWeight adds a uniform gravity load −A·ρ·g on every frame element,
// factored by the dead load factor of the combination
func (b *Builder) SelfWeight(gravity float64, combo nscp.LoadCombination) int {
	factor := combo.Factored(nscp.LoadEffects{Dead: 1})
	count := 0
	for _, id := range b.cm.ElementIDs() {
		el := b.cm.Elements[id]
		if !el.Kind.IsLinear() {
			continue
		}
		sec, mat := b.cm.Sections[el.Section], b.cm.Materials[el.Material]
		w := -sec.A * mat.Rho * gravity * factor
		if w == 0 {
			continue
		}
		b.cm.Loads = append(b.cm.Loads, model.ElementLoad{
			Element: id,
			Kind:    "self_weight",
			Values:  [3]float64{0, 0, w},
		})
		count++
	}
	b.logger.Info("Self weight applied", slog.Int("elements", count), slog.String("combination", combo.Description))
	return count
}

// Model finalises the boundary conditions, checks referential integrity
// and returns the assembled model
func (b *Builder) Model() (*model.ConversionModel, error) {
	nodes := make([]int, 0, len(b.restraints))
	for id := range b.restraints {
		nodes = append(nodes, id)
	}
	sort.Ints(nodes)

	b.cm.BoundaryConditions = b.cm.BoundaryConditions[:0]
	for _, id := range nodes {
		b.cm.BoundaryConditions = append(b.cm.BoundaryConditions, model.BoundaryCondition{
			Node:       id,
			Restraints: b.restraints[id],
			Source:     strings.Join(b.bcSources[id], ";"),
		})
	}
	b.cm.Summary = b.summary

	if err := b.cm.Validate(); err != nil {
		return nil, err
	}

	b.logger.Info("Mesh built",
		slog.Int("nodes", len(b.cm.Nodes)),
		slog.Int("elements", len(b.cm.Elements)),
		slog.Int("boundary_conditions", len(b.cm.BoundaryConditions)),
	)
	return b.cm, nil
}
