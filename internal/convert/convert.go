package convert

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/emit"
	"github.com/alexiusacademia/ifcfem/internal/extract"
	"github.com/alexiusacademia/ifcfem/internal/geometry"
	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/ifc"
	"github.com/alexiusacademia/ifcfem/internal/mesh"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/alexiusacademia/ifcfem/internal/nscp"
	"github.com/alexiusacademia/ifcfem/internal/results"
	"github.com/alexiusacademia/ifcfem/internal/section"
	"github.com/alexiusacademia/ifcfem/internal/solver"
	"github.com/alexiusacademia/ifcfem/internal/solver/linear"
)

// Stage names used in StageError and warnings
const (
	StageParse    = "parse"
	StageExtract  = "extract"
	StageGeometry = "geometry"
	StageMesh     = "mesh"
	StageEmit     = "emit"
	StageAnalyze  = "analyze"
	StageResults  = "results"
)

// StageError is a fatal failure of one stage. Summary holds what the
// earlier stages recorded before the failure.
type StageError struct {
	Stage   string
	Summary model.Summary
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result is everything one conversion run produced
type Result struct {
	Source   string
	Schema   string
	Elements []model.StructuralElement
	Model    *model.ConversionModel
	Solver   *solver.Model
	Handle   *emit.Handle
	Output   *solver.Output
	Results  *model.ResultSet
}

// Converter runs the pipeline with one configuration. Every call owns its
// own index, caches and solver model.
type Converter struct {
	cfg    config.Config
	logger *slog.Logger
}

// New creates a converter. A nil logger discards output.
func New(cfg config.Config, logger *slog.Logger) *Converter {
	return &Converter{cfg: cfg, logger: helper.OrDiscard(logger)}
}

// File opens and converts an IFC file
func (c *Converter) File(path string) (*Result, error) {
	f, err := ifc.Open(path)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}

	res, err := c.Model(f)
	if res != nil {
		res.Source = path
	}
	return res, err
}

// Model converts an already parsed IFC model
func (c *Converter) Model(m ifc.Model) (*Result, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, &StageError{Stage: StageParse, Err: helper.NewError("config validation", err)}
	}

	ex, err := extract.New(c.logger).Extract(m)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}
	return c.Extracted(ex)
}

// Extracted converts the output of an extraction pass: geometry, section
// and material resolution, meshing, boundary conditions, loads and
// emission into a fresh solver model.
func (c *Converter) Extracted(ex *extract.Result) (*Result, error) {
	sum := ex.Summary
	res := &Result{Schema: ex.Schema, Elements: ex.Elements}

	resolved, gsum := geometry.NewResolver(c.cfg.Geometry).ResolveAll(ex.Elements)
	sum.Merge(gsum)
	for _, w := range gsum.Warnings {
		c.logger.Warn("Skipping element", slog.String("element", w.Source), slog.String("error", w.Message))
	}

	sections := section.NewResolver(c.cfg, c.logger)
	b := mesh.NewBuilder(c.cfg.Mesh, c.logger)
	for _, r := range resolved {
		defaults := sections.Summary().Defaults
		sec, mat, warnings := sections.Resolve(r.Element, r.Geometry)
		_, err := b.Add(mesh.Item{
			Kind:     r.Element.Kind,
			Source:   r.Element.Source,
			Geometry: r.Geometry,
			Section:  sec,
			Material: mat,
		})
		// A rejected element contributes neither defaults nor warnings
		var gerr *model.GeometryError
		if errors.As(err, &gerr) {
			continue
		}
		if err != nil {
			return nil, &StageError{Stage: StageMesh, Summary: sum, Err: err}
		}
		sum.Defaults += sections.Summary().Defaults - defaults
		sum.Warnings = append(sum.Warnings, warnings...)
	}

	b.Supports(ex.Supports)
	if c.cfg.Mesh.FixBase {
		b.FixBase()
	}
	if c.cfg.Loads.SelfWeight {
		combo, err := nscp.Combination(c.cfg.Loads.Combination)
		if err != nil {
			return nil, &StageError{Stage: StageMesh, Summary: sum, Err: helper.NewError("load combination", err)}
		}
		b.SelfWeight(c.cfg.Loads.Gravity, combo)
	}

	cm, err := b.Model()
	if err != nil {
		return nil, &StageError{Stage: StageMesh, Summary: sum, Err: err}
	}

	msum := cm.Summary
	sum.Converted = msum.Converted
	sum.Skipped += msum.Skipped
	sum.Supports = msum.Supports
	sum.Warnings = append(sum.Warnings, msum.Warnings...)
	cm.Summary = sum
	res.Model = cm

	res.Solver = solver.NewModel()
	res.Handle, err = emit.New(c.logger).Emit(cm, res.Solver)
	if err != nil {
		return nil, &StageError{Stage: StageEmit, Summary: sum, Err: err}
	}

	c.logger.Info("Converted model",
		slog.String("run", cm.RunID.String()),
		slog.Int("extracted", sum.Extracted),
		slog.Int("converted", sum.Converted),
		slog.Int("skipped", sum.Skipped),
		slog.Int("defaults", sum.Defaults),
		slog.Int("nodes", len(cm.Nodes)),
		slog.Int("elements", len(cm.Elements)),
		slog.Int("warnings", len(sum.Warnings)),
	)

	return res, nil
}

// Analyze runs the reference linear analysis on a converted result and
// maps the solver output back onto node and element ids
func (c *Converter) Analyze(res *Result) error {
	if res == nil || res.Solver == nil || res.Handle == nil {
		return &StageError{Stage: StageAnalyze, Err: helper.NewError("analyze", fmt.Errorf("nothing was emitted"))}
	}

	out, err := linear.Analyze(res.Solver)
	if err != nil {
		return &StageError{Stage: StageAnalyze, Summary: res.Model.Summary, Err: err}
	}
	if len(out.Unsupported) > 0 {
		c.logger.Warn("Elements without stiffness in the reference analysis", slog.Any("elements", out.Unsupported))
	}
	res.Output = out

	rs, err := results.Map(res.Model, res.Handle, out)
	if err != nil {
		return &StageError{Stage: StageResults, Summary: res.Model.Summary, Err: err}
	}
	res.Results = rs

	c.logger.Info("Analysis complete", slog.String("run", rs.RunID.String()), slog.Int("nodes", len(rs.Nodes)))

	return nil
}
