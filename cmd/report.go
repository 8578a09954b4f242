package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/alexiusacademia/ifcfem/internal/store"
	"github.com/spf13/cobra"
)

const rule = "───────────────────────────────────────────────────────────────"

// conversionFlags are the conversion options of convert and analyze
type conversionFlags struct {
	fixBase     bool
	selfWeight  bool
	combination string
	tolerance   float64
	archive     bool
}

func (f *conversionFlags) register(c *cobra.Command, selfWeightDefault bool) {
	c.Flags().BoolVar(&f.fixBase, "fix-base", false, "Fix every node at the lowest elevation")
	c.Flags().BoolVar(&f.selfWeight, "self-weight", selfWeightDefault, "Apply self weight to frame members")
	c.Flags().StringVar(&f.combination, "combination", "", "NSCP load combination for self weight (0 = unfactored)")
	c.Flags().Float64Var(&f.tolerance, "tolerance", 0, "Node merge tolerance in model length units")
	c.Flags().BoolVar(&f.archive, "archive", false, "Store the run in the PostgreSQL archive")
}

// config loads the configuration and applies the flags that override it
func (f *conversionFlags) config(c *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}

	if c.Flags().Changed("fix-base") {
		cfg.Mesh.FixBase = f.fixBase
	}
	if c.Flags().Changed("self-weight") || f.selfWeight {
		cfg.Loads.SelfWeight = f.selfWeight
	}
	if f.combination != "" {
		cfg.Loads.Combination = f.combination
	}
	if f.tolerance > 0 {
		cfg.Mesh.Tolerance = f.tolerance
	}
	return cfg, cfg.Validate()
}

func printHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

func printSection(title string) {
	fmt.Println(title)
	fmt.Println(rule)
}

func printSummary(sum model.Summary, cm *model.ConversionModel) {
	printSection("SUMMARY:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Run:\t%s\n", cm.RunID)
	if sum.LengthUnit != "" {
		fmt.Fprintf(w, "  Length unit:\t%s\n", sum.LengthUnit)
	}
	fmt.Fprintf(w, "  Elements extracted:\t%d\n", sum.Extracted)
	fmt.Fprintf(w, "  Elements converted:\t%d\n", sum.Converted)
	fmt.Fprintf(w, "  Elements skipped:\t%d\n", sum.Skipped)
	fmt.Fprintf(w, "  Properties defaulted:\t%d\n", sum.Defaults)
	fmt.Fprintf(w, "  Supports matched:\t%d\n", sum.Supports)
	fmt.Fprintf(w, "  Nodes:\t%d\n", len(cm.Nodes))
	fmt.Fprintf(w, "  Boundary conditions:\t%d\n", len(cm.BoundaryConditions))
	fmt.Fprintf(w, "  Element loads:\t%d\n", len(cm.Loads))
	w.Flush()
	fmt.Println()
}

func printDescriptors(cm *model.ConversionModel) {
	printSection("SECTIONS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name\tKind\tA\tIy\tIz\tJ\tt\tDefault\n")
	fmt.Fprintf(w, "  ────\t────\t─\t──\t──\t─\t─\t───────\n")
	for _, name := range cm.SectionNames() {
		s := cm.Sections[name]
		fmt.Fprintf(w, "  %s\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%s\n",
			s.Name, s.Kind, s.A, s.Iy, s.Iz, s.J, s.Thickness, yesNo(s.Default))
	}
	w.Flush()
	fmt.Println()

	printSection("MATERIALS:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name\tE\tG\tν\tρ\tDefault\n")
	fmt.Fprintf(w, "  ────\t─\t─\t─\t─\t───────\n")
	for _, name := range cm.MaterialNames() {
		m := cm.Materials[name]
		fmt.Fprintf(w, "  %s\t%.4g\t%.4g\t%.3g\t%.4g\t%s\n", m.Name, m.E, m.G, m.Nu, m.Rho, yesNo(m.Default))
	}
	w.Flush()
	fmt.Println()
}

func printBoundaryConditions(cm *model.ConversionModel) {
	if len(cm.BoundaryConditions) == 0 {
		return
	}
	printSection("BOUNDARY CONDITIONS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Node\tX\tY\tZ\tRestraints\tSource\n")
	fmt.Fprintf(w, "  ────\t─\t─\t─\t──────────\t──────\n")
	for _, bc := range cm.BoundaryConditions {
		p := cm.Nodes[bc.Node].Coord
		fmt.Fprintf(w, "  %d\t%.3f\t%.3f\t%.3f\t%s\t%s\n", bc.Node, p.X, p.Y, p.Z, bc.Restraints, bc.Source)
	}
	w.Flush()
	fmt.Println()
}

func printWarnings(sum model.Summary) {
	if len(sum.Warnings) == 0 {
		return
	}
	printSection("WARNINGS:")
	for _, w := range sum.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}
	fmt.Println()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// openArchive connects to the database configured in the environment
func openArchive() (*store.RunsDBHandler, func(), error) {
	logger := newLogger()
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, nil, err
	}
	db, err := helper.NewDatabase("ifcfem", dbConfig, logger)
	if err != nil {
		return nil, nil, err
	}
	h, err := store.NewRunsDBHandler(db, false)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return h, func() { db.Close() }, nil
}

// archive stores a conversion model and, when present, its results
func archive(cm *model.ConversionModel, rs *model.ResultSet, source, schema string) error {
	h, closeDB, err := openArchive()
	if err != nil {
		return err
	}
	defer closeDB()

	ctx := context.Background()
	run, err := h.InsertRun(ctx, cm, source, schema)
	if err != nil {
		return err
	}
	if rs != nil {
		if err := h.InsertResults(ctx, rs); err != nil {
			return err
		}
	}
	fmt.Printf("  Archived run %s\n\n", run.RID)
	return nil
}
