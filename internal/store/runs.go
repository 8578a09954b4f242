package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gonum.org/v1/gonum/spatial/r3"
)

// RunsDBHandlerFunctions defines the archive operations
type RunsDBHandlerFunctions interface {
	InsertRun(ctx context.Context, cm *model.ConversionModel, source, schema string) (*model.Run, error)
	InsertResults(ctx context.Context, rs *model.ResultSet) error
	SelectRun(ctx context.Context, rid uuid.UUID) (*Archive, error)
	SelectAllRuns(ctx context.Context, lastCreatedAt *time.Time, limit int) ([]*model.Run, error)
	DeleteRun(ctx context.Context, rid uuid.UUID) error
}

// RunsDBHandler persists conversion runs and their results
type RunsDBHandler struct {
	db *helper.Database
}

// NewRunsDBHandler loads the run SQL functions and creates the tables.
// If force is true the functions are reloaded even if they already exist.
func NewRunsDBHandler(db *helper.Database, force bool) (*RunsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	h := &RunsDBHandler{db: db}

	if err := LoadRunsSql(h.db.Instance, force); err != nil {
		return nil, helper.NewError("load runs sql", err)
	}
	if err := h.CreateTable(); err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RunsDBHandler")

	return h, nil
}

// CreateTable creates the run tables and indexes if they do not exist
func (h *RunsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := h.db.Instance.ExecContext(ctx, `SELECT init_runs();`); err != nil {
		return err
	}

	h.db.Logger.Info("Checked/created table runs")

	return nil
}

// InsertRun stores the mesh of a conversion model under its run id.
// Nodes and elements are written in one transaction.
func (h *RunsDBHandler) InsertRun(ctx context.Context, cm *model.ConversionModel, source, schema string) (*model.Run, error) {
	if cm == nil {
		return nil, helper.NewError("insert run", fmt.Errorf("conversion model is nil"))
	}

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return nil, helper.NewError("begin", err)
	}
	defer tx.Rollback()

	run := &model.Run{}
	row := tx.QueryRowContext(ctx,
		`SELECT * FROM insert_run($1, $2, $3, $4, $5, $6, $7)`,
		cm.RunID,
		source,
		schema,
		cm.Summary.LengthUnit,
		len(cm.Nodes),
		len(cm.Elements),
		cm.Summary,
	)
	if err := scanRun(row, run); err != nil {
		return nil, helper.NewError("scan", err)
	}

	bcs := make(map[int]model.DOFSet, len(cm.BoundaryConditions))
	for _, bc := range cm.BoundaryConditions {
		bcs[bc.Node] = bcs[bc.Node].Union(bc.Restraints)
	}

	for _, id := range cm.NodeIDs() {
		n := cm.Nodes[id]
		restraints := bcs[id]
		_, err := tx.ExecContext(ctx,
			`SELECT insert_run_node($1, $2, $3, $4)`,
			run.ID,
			id,
			pq.Array([]float64{n.Coord.X, n.Coord.Y, n.Coord.Z}),
			pq.Array(int64s(restraints.Flags())),
		)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert node %d", id), err)
		}
	}

	for _, id := range cm.ElementIDs() {
		el := cm.Elements[id]
		_, err := tx.ExecContext(ctx,
			`SELECT insert_run_element($1, $2, $3, $4, $5, $6, $7, $8)`,
			run.ID,
			id,
			el.Kind.String(),
			pq.Array(int64s(el.Nodes)),
			el.Section,
			el.Material,
			el.Source.EntityID,
			el.Source.GlobalID,
		)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert element %d", id), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, helper.NewError("commit", err)
	}

	h.db.Logger.Debug("Archived run", slog.String("rid", run.RID.String()), slog.Int("nodes", run.NodeCount), slog.Int("elements", run.ElementCount))

	return run, nil
}

// InsertResults stores node displacements and reactions of an archived run.
// Storing results again for the same run replaces them.
func (h *RunsDBHandler) InsertResults(ctx context.Context, rs *model.ResultSet) error {
	if rs == nil {
		return helper.NewError("insert results", fmt.Errorf("result set is nil"))
	}

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin", err)
	}
	defer tx.Rollback()

	for _, id := range sortedKeys(rs.Nodes) {
		n := rs.Nodes[id]
		_, err := tx.ExecContext(ctx,
			`SELECT insert_node_result($1, $2, $3, $4)`,
			rs.RunID,
			id,
			pq.Array(n.Displacement[:]),
			pq.Array(n.Reaction[:]),
		)
		if err != nil {
			return helper.NewError(fmt.Sprintf("insert result of node %d", id), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit", err)
	}
	return nil
}

// SelectRun retrieves a run with its nodes, elements and any results
func (h *RunsDBHandler) SelectRun(ctx context.Context, rid uuid.UUID) (*Archive, error) {
	a := &Archive{Run: &model.Run{}}

	row := h.db.Instance.QueryRowContext(ctx, `SELECT * FROM select_run($1)`, rid)
	if err := scanRun(row, a.Run); err != nil {
		return nil, helper.NewError("scan", err)
	}

	nodes, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_run_nodes($1)`, rid)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer nodes.Close()

	for nodes.Next() {
		var (
			id                    int
			coord, disp, reaction []float64
			restraints            []int64
		)
		if err := nodes.Scan(&id, pq.Array(&coord), pq.Array(&restraints), pq.Array(&disp), pq.Array(&reaction)); err != nil {
			return nil, helper.NewError("scan", err)
		}
		if len(coord) != 3 {
			return nil, helper.NewError("scan", fmt.Errorf("node %d has %d coordinates", id, len(coord)))
		}

		n := ArchivedNode{
			ID:    id,
			Coord: r3.Vec{X: coord[0], Y: coord[1], Z: coord[2]},
		}
		for i := 0; i < model.NumDOF && i < len(restraints); i++ {
			n.Restraints[i] = restraints[i] != 0
		}
		if disp != nil {
			n.HasResult = true
			copy(n.Displacement[:], disp)
			copy(n.Reaction[:], reaction)
		}
		a.Nodes = append(a.Nodes, n)
	}
	if err := nodes.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	elements, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_run_elements($1)`, rid)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer elements.Close()

	for elements.Next() {
		var (
			e     ArchivedElement
			nodes []int64
		)
		if err := elements.Scan(&e.ID, &e.Kind, pq.Array(&nodes), &e.Section, &e.Material, &e.Source.EntityID, &e.Source.GlobalID); err != nil {
			return nil, helper.NewError("scan", err)
		}
		e.Nodes = ints(nodes)
		a.Elements = append(a.Elements, e)
	}
	if err := elements.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return a, nil
}

// SelectAllRuns lists runs newest first. Pass the CreatedAt of the last
// run of the previous page to continue, or nil to start at the newest.
func (h *RunsDBHandler) SelectAllRuns(ctx context.Context, lastCreatedAt *time.Time, limit int) ([]*model.Run, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_runs($1, $2)`, lastCreatedAt, limit)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run := &model.Run{}
		if err := scanRun(rows, run); err != nil {
			return nil, helper.NewError("scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return runs, nil
}

// DeleteRun removes a run and everything stored under it
func (h *RunsDBHandler) DeleteRun(ctx context.Context, rid uuid.UUID) error {
	if _, err := h.db.Instance.ExecContext(ctx, `SELECT delete_run($1)`, rid); err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner, run *model.Run) error {
	return s.Scan(
		&run.ID,
		&run.RID,
		&run.Source,
		&run.Schema,
		&run.LengthUnit,
		&run.NodeCount,
		&run.ElementCount,
		&run.Summary,
		&run.CreatedAt,
	)
}
