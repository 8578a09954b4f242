package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/ifcfem/internal/diagram"
	"github.com/alexiusacademia/ifcfem/internal/results"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	archiveLimit       int
	archiveShowDiagram bool
	archiveExportFile  string
	archiveScale       float64
	archiveView        string
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse conversion runs stored in PostgreSQL",
	Long: `Browse conversion runs stored with --archive.

The database connection is read from the environment, or from a .env
file in the working directory:
  IFCFEM_DB_HOST, IFCFEM_DB_PORT, IFCFEM_DB_DATABASE,
  IFCFEM_DB_USERNAME, IFCFEM_DB_PASSWORD,
  IFCFEM_DB_SCHEMA (default public), IFCFEM_DB_SSLMODE (default disable)

Subcommands:
  list    - List archived runs, newest first
  show    - Show one run and draw its stored displaced shape
  delete  - Remove a run and its results`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveDelete,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveDeleteCmd)

	archiveListCmd.Flags().IntVar(&archiveLimit, "limit", 20, "Maximum number of runs to list")

	archiveShowCmd.Flags().BoolVar(&archiveShowDiagram, "diagram", false, "Show ASCII model, deformed when results are stored")
	archiveShowCmd.Flags().StringVarP(&archiveExportFile, "output", "o", "", "Export diagram to file (png, svg, pdf)")
	archiveShowCmd.Flags().Float64Var(&archiveScale, "scale", 0, "Displacement scale factor (0 = automatic)")
	archiveShowCmd.Flags().StringVar(&archiveView, "view", "iso", "Projection: iso, plan, front or side")
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	h, closeDB, err := openArchive()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := h.SelectAllRuns(context.Background(), nil, archiveLimit)
	if err != nil {
		return err
	}

	printHeader("ARCHIVED RUNS")
	if len(runs) == 0 {
		fmt.Println("  No runs archived yet.")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Run\tCreated\tSource\tSchema\tNodes\tElements\tSkipped\n")
	fmt.Fprintf(w, "  ───\t───────\t──────\t──────\t─────\t────────\t───────\n")
	for _, r := range runs {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.RID, r.CreatedAt.Format("2006-01-02 15:04"), r.Source, r.Schema, r.NodeCount, r.ElementCount, r.Summary.Skipped)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	rid, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	view, ok := diagram.ParseView(archiveView)
	if !ok {
		return fmt.Errorf("unknown view %q", archiveView)
	}

	h, closeDB, err := openArchive()
	if err != nil {
		return err
	}
	defer closeDB()

	a, err := h.SelectRun(context.Background(), rid)
	if err != nil {
		return err
	}
	cm, rs := a.Model()

	printHeader("ARCHIVED RUN")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Source:\t%s\n", a.Run.Source)
	fmt.Fprintf(w, "  Schema:\t%s\n", a.Run.Schema)
	fmt.Fprintf(w, "  Created:\t%s\n", a.Run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Results stored:\t%s\n", yesNo(rs != nil))
	w.Flush()
	fmt.Println()

	printSummary(a.Run.Summary, cm)
	printBoundaryConditions(cm)
	if rs != nil {
		printDisplacements(cm, rs)
		printReactions(cm, rs)
	}
	printWarnings(a.Run.Summary)

	scene := results.Scene(cm, rs, archiveScale)
	scene.Title = a.Run.Source
	if archiveShowDiagram {
		fmt.Print(diagram.DrawASCIIModel(scene, view, 72, 28))
		fmt.Println()
	}
	if archiveExportFile != "" {
		if err := diagram.ExportModel(scene, archiveExportFile, view); err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		fmt.Printf("  Diagram exported to: %s\n\n", archiveExportFile)
	}
	return nil
}

func runArchiveDelete(cmd *cobra.Command, args []string) error {
	rid, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	h, closeDB, err := openArchive()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := h.DeleteRun(context.Background(), rid); err != nil {
		return err
	}
	fmt.Printf("  Deleted run %s\n", rid)
	return nil
}
