package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/ifcfem/internal/convert"
	"github.com/alexiusacademia/ifcfem/internal/diagram"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/alexiusacademia/ifcfem/internal/results"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	analyzeFlags       conversionFlags
	analyzeShowDiagram bool
	analyzeShowChart   bool
	analyzeShowForces  bool
	analyzeExportFile  string
	analyzePlotFile    string
	analyzeScale       float64
	analyzeView        string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.ifc>",
	Short: "Convert an IFC model and run a linear static analysis",
	Long: `Convert an IFC model and run the reference linear static frame
analysis under factored self weight.

Beams and columns are Euler-Bernoulli frame elements. Slabs and walls
are carried through the conversion but add no stiffness to this
analysis. Nodes connected only to them are held fixed.

Examples:
  ifcfem analyze frame.ifc
  ifcfem analyze frame.ifc --fix-base --diagram --view front
  ifcfem analyze frame.ifc --combination 1 -o deformed.png --scale 50`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeFlags.register(analyzeCmd, true)

	// Diagram options
	analyzeCmd.Flags().BoolVar(&analyzeShowDiagram, "diagram", false, "Show ASCII deformed shape")
	analyzeCmd.Flags().BoolVar(&analyzeShowChart, "chart", false, "Show ASCII chart of displacement magnitudes")
	analyzeCmd.Flags().BoolVar(&analyzeShowForces, "forces", false, "List element end forces")
	analyzeCmd.Flags().StringVarP(&analyzeExportFile, "output", "o", "", "Export deformed shape to file (png, svg, pdf)")
	analyzeCmd.Flags().StringVar(&analyzePlotFile, "plot", "", "Export displacement magnitudes to file (png, svg, pdf)")
	analyzeCmd.Flags().Float64Var(&analyzeScale, "scale", 0, "Displacement scale factor (0 = automatic)")
	analyzeCmd.Flags().StringVar(&analyzeView, "view", "iso", "Projection: iso, plan, front or side")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	view, ok := diagram.ParseView(analyzeView)
	if !ok {
		return fmt.Errorf("unknown view %q", analyzeView)
	}
	cfg, err := analyzeFlags.config(cmd)
	if err != nil {
		return err
	}

	c := convert.New(cfg, newLogger())
	res, err := c.File(args[0])
	if err != nil {
		return err
	}
	if err := c.Analyze(res); err != nil {
		return err
	}
	cm, rs := res.Model, res.Results

	printHeader("LINEAR STATIC ANALYSIS")
	printSummary(cm.Summary, cm)
	printBoundaryConditions(cm)
	printDisplacements(cm, rs)
	printReactions(cm, rs)
	if analyzeShowForces {
		printElementForces(cm, rs)
	}
	printWarnings(cm.Summary)

	scene := results.Scene(cm, rs, analyzeScale)
	scene.Title = args[0]
	fmt.Print(diagram.DrawSummaryBox("RESULT", resultLines(cm, rs, scene)))
	fmt.Println()

	if analyzeShowDiagram {
		fmt.Print(diagram.DrawASCIIModel(scene, view, 72, 28))
		fmt.Println()
	}
	if analyzeShowChart {
		_, mags := results.Magnitudes(rs)
		fmt.Println(diagram.DrawDisplacementChart(mags, "displacement magnitude by node"))
		fmt.Println()
	}
	if analyzeExportFile != "" {
		if err := diagram.ExportModel(scene, analyzeExportFile, view); err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		fmt.Printf("  Diagram exported to: %s\n\n", analyzeExportFile)
	}
	if analyzePlotFile != "" {
		nodes, mags := results.Magnitudes(rs)
		if err := diagram.ExportDisplacementPlot(args[0], nodes, mags, analyzePlotFile); err != nil {
			return fmt.Errorf("exporting plot: %w", err)
		}
		fmt.Printf("  Plot exported to: %s\n\n", analyzePlotFile)
	}

	if analyzeFlags.archive {
		return archive(cm, rs, res.Source, res.Schema)
	}
	return nil
}

func printDisplacements(cm *model.ConversionModel, rs *model.ResultSet) {
	printSection("NODE DISPLACEMENTS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Node\tux\tuy\tuz\trx\try\trz\n")
	fmt.Fprintf(w, "  ────\t──\t──\t──\t──\t──\t──\n")
	for _, id := range cm.NodeIDs() {
		d := rs.Nodes[id].Displacement
		fmt.Fprintf(w, "  %d\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\n", id, d[0], d[1], d[2], d[3], d[4], d[5])
	}
	w.Flush()
	fmt.Println()
}

func printReactions(cm *model.ConversionModel, rs *model.ResultSet) {
	if len(cm.BoundaryConditions) == 0 {
		return
	}
	printSection("SUPPORT REACTIONS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Node\tFx\tFy\tFz\tMx\tMy\tMz\n")
	fmt.Fprintf(w, "  ────\t──\t──\t──\t──\t──\t──\n")
	for _, bc := range cm.BoundaryConditions {
		r := rs.Nodes[bc.Node].Reaction
		fmt.Fprintf(w, "  %d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", bc.Node, r[0], r[1], r[2], r[3], r[4], r[5])
	}
	w.Flush()
	fmt.Println()
}

func printElementForces(cm *model.ConversionModel, rs *model.ResultSet) {
	printSection("ELEMENT END FORCES (local axes):")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Element\tEnd\tN\tVy\tVz\tT\tMy\tMz\n")
	fmt.Fprintf(w, "  ───────\t───\t─\t──\t──\t─\t──\t──\n")
	for _, id := range cm.ElementIDs() {
		if !cm.Elements[id].Kind.IsLinear() {
			continue
		}
		f := rs.Elements[id].Forces
		if len(f) < 12 {
			continue
		}
		for end := 0; end < 2; end++ {
			o := end * 6
			fmt.Fprintf(w, "  %d\t%c\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
				id, "ij"[end], f[o], f[o+1], f[o+2], f[o+3], f[o+4], f[o+5])
		}
	}
	w.Flush()
	fmt.Println()
}

func resultLines(cm *model.ConversionModel, rs *model.ResultSet, scene diagram.Scene) []string {
	maxNode, maxDisp := 0, 0.0
	for _, id := range cm.NodeIDs() {
		if m := r3.Norm(rs.Nodes[id].Translation()); m > maxDisp {
			maxDisp, maxNode = m, id
		}
	}
	var fz float64
	for _, bc := range cm.BoundaryConditions {
		fz += rs.Nodes[bc.Node].Reaction[model.UZ]
	}
	return []string{
		fmt.Sprintf("Max displacement: %.4e at node %d", maxDisp, maxNode),
		fmt.Sprintf("Total vertical reaction: %.3f", fz),
		fmt.Sprintf("Diagram scale: ×%.4g", scene.Scale),
	}
}
