package extract

import (
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/ifc"
	"github.com/alexiusacademia/ifcfem/internal/model"
)

const stage = "extract"

// Result is the output of one extraction pass
type Result struct {
	Schema   string
	Elements []model.StructuralElement
	Supports []model.SupportRecord
	Summary  model.Summary
}

// Extractor walks an IFC model and collects structural elements
type Extractor struct {
	logger *slog.Logger
}

// New creates an extractor. A nil logger discards output.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: helper.OrDiscard(logger)}
}

// Extract returns every beam, column, slab and wall in file order together
// with the structural point connections. Elements whose placement or
// representation cannot be resolved are skipped with a warning.
func (e *Extractor) Extract(m ifc.Model) (*Result, error) {
	if m == nil {
		return nil, &model.FileFormatError{Err: fmt.Errorf("no model")}
	}

	res := &Result{Schema: m.Schema()}
	unit, scale := ifc.LengthUnit(m)
	res.Summary.LengthUnit = unit
	if scale != 1 {
		e.logger.Warn("Model length unit is not metres, values are used as is", slog.String("unit", unit), slog.Float64("scale", scale))
	}

	counts := make(map[model.ElementKind]int)
	for _, inst := range m.Instances() {
		kind, ok := model.KindFromIFCType(inst.Type)
		if !ok {
			continue
		}

		el, err := e.element(m, inst, kind)
		if err != nil {
			res.Summary.Skipped++
			res.Summary.Warn(stage, sourceRef(inst).String(), "%v", err)
			e.logger.Warn("Skipping element", slog.String("element", sourceRef(inst).String()), slog.String("error", err.Error()))
			continue
		}

		el.Index = len(res.Elements)
		res.Elements = append(res.Elements, el)
		counts[kind]++
	}
	res.Summary.Extracted = len(res.Elements)

	for _, inst := range m.ByType("IFCSTRUCTURALPOINTCONNECTION") {
		rec, err := support(m, inst)
		if err != nil {
			res.Summary.Warn(stage, sourceRef(inst).String(), "support ignored: %v", err)
			e.logger.Warn("Ignoring support", slog.String("support", sourceRef(inst).String()), slog.String("error", err.Error()))
			continue
		}
		res.Supports = append(res.Supports, rec)
	}
	res.Summary.Supports = len(res.Supports)

	e.logger.Info("Extracted structural elements",
		slog.String("schema", res.Schema),
		slog.String("unit", unit),
		slog.Int("beams", counts[model.Beam]),
		slog.Int("columns", counts[model.Column]),
		slog.Int("slabs", counts[model.Slab]),
		slog.Int("walls", counts[model.Wall]),
		slog.Int("supports", len(res.Supports)),
		slog.Int("skipped", res.Summary.Skipped),
	)

	return res, nil
}

func (e *Extractor) element(m ifc.Model, inst *ifc.Instance, kind model.ElementKind) (model.StructuralElement, error) {
	el := model.StructuralElement{
		Kind:   kind,
		Source: sourceRef(inst),
	}

	placement, err := ifc.Placement(m, inst)
	if err != nil {
		return el, fmt.Errorf("placement: %w", err)
	}
	el.Placement = placement

	rep, err := representation(m, inst)
	if err != nil {
		return el, fmt.Errorf("representation: %w", err)
	}
	if len(rep.Axis) < 2 && rep.Body == nil {
		return el, fmt.Errorf("representation: no axis or extruded body")
	}
	el.Representation = rep

	props, err := ifc.PropertySets(m, inst.ID)
	if err != nil {
		e.logger.Debug("Property sets unreadable", slog.String("element", el.Source.String()), slog.String("error", err.Error()))
	}
	el.Properties = props

	mats, err := ifc.Materials(m, inst.ID)
	if err != nil {
		e.logger.Debug("Materials unreadable", slog.String("element", el.Source.String()), slog.String("error", err.Error()))
	}
	el.Materials = mats

	e.logger.Debug("Extracted element",
		slog.String("element", el.Source.String()),
		slog.String("kind", kind.String()),
		slog.Int("properties", len(props)),
		slog.Int("materials", len(mats)),
	)

	return el, nil
}

func sourceRef(inst *ifc.Instance) model.SourceRef {
	ref := model.SourceRef{EntityID: inst.ID, Type: inst.Type}
	ref.GlobalID, _ = inst.String(0)
	ref.Name, _ = inst.String(2)
	ref.Tag, _ = inst.String(7)
	return ref
}

// support builds a SupportRecord from an IfcStructuralPointConnection.
// A connection without an applied condition is fully fixed.
func support(m ifc.Model, inst *ifc.Instance) (model.SupportRecord, error) {
	rec := model.SupportRecord{Source: sourceRef(inst), Restraints: model.Fixed}

	placement, err := ifc.Placement(m, inst)
	if err != nil {
		return rec, err
	}
	rec.Placement = placement

	pos, _, err := ifc.VertexPosition(m, inst)
	if err != nil {
		return rec, err
	}
	rec.Position = pos

	if !inst.IsUnset(7) {
		dofs, err := ifc.NodeCondition(m, inst.Arg(7))
		if err != nil {
			return rec, err
		}
		rec.Restraints = dofs
	}
	return rec, nil
}
