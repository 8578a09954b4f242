package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/ifcfem/internal/extract"
	"github.com/alexiusacademia/ifcfem/internal/ifc"
	"github.com/alexiusacademia/ifcfem/internal/inventory"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/spf13/cobra"
)

var (
	inspectType string
	inspectName string
	inspectCSV  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ifc>",
	Short: "List the structural elements of an IFC model",
	Long: `List the beams, columns, slabs and walls of an IFC model with
their counts per type, quantities per material and a validation report,
and show the properties and materials of elements matching a name.

Lengths, areas and volumes come from the model's quantity sets when
present, otherwise from the resolved geometry.

Examples:
  ifcfem inspect building.ifc
  ifcfem inspect building.ifc --type column
  ifcfem inspect building.ifc --name B1
  ifcfem inspect building.ifc --csv elements.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectType, "type", "t", "", "Only list one kind (beam, column, slab, wall) or IFC type")
	inspectCmd.Flags().StringVarP(&inspectName, "name", "n", "", "Show details of elements with this name or tag")
	inspectCmd.Flags().StringVar(&inspectCSV, "csv", "", "Export the element quantity summary to a CSV file (- for stdout)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := ifc.Open(args[0])
	if err != nil {
		return err
	}
	res, err := extract.New(newLogger()).Extract(f)
	if err != nil {
		return err
	}

	printHeader("IFC STRUCTURAL ELEMENTS")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  File:\t%s\n", args[0])
	fmt.Fprintf(w, "  Schema:\t%s\n", res.Schema)
	fmt.Fprintf(w, "  Length unit:\t%s\n", res.Summary.LengthUnit)
	fmt.Fprintf(w, "  Supports:\t%d\n", len(res.Supports))
	w.Flush()
	fmt.Println()

	printSection("ELEMENTS BY TYPE:")
	counts := make(map[string]int)
	for _, el := range res.Elements {
		counts[el.Source.Type]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, t := range types {
		fmt.Fprintf(w, "  %s\t%d\n", t, counts[t])
	}
	fmt.Fprintf(w, "  Total\t%d\n", len(res.Elements))
	w.Flush()
	fmt.Println()

	inv := inventory.Build(res.Elements, cfg.Geometry)
	printMaterialTotals(inv)

	var listed []model.StructuralElement
	var rows []inventory.Row
	for i, el := range res.Elements {
		if matchesType(el, inspectType) && matchesName(el, inspectName) {
			listed = append(listed, el)
			rows = append(rows, inv.Rows[i])
		}
	}

	printSection("ELEMENTS:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tKind\tIFC Type\tName\tTag\tGlobalId\tMaterial\n")
	fmt.Fprintf(w, "  ─\t────\t────────\t────\t───\t────────\t────────\n")
	for _, el := range listed {
		mat := "-"
		if len(el.Materials) > 0 {
			mat = el.Materials[0].Name
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			el.Source.EntityID, el.Kind, el.Source.Type, el.Source.Name, el.Source.Tag, el.Source.GlobalID, mat)
	}
	w.Flush()
	fmt.Println()

	if inspectName != "" {
		if len(listed) == 0 {
			fmt.Printf("  No element named %q\n\n", inspectName)
		}
		for _, el := range listed {
			printElementDetail(el)
		}
	}

	printIssues(inv.Issues)
	printWarnings(res.Summary)

	if inspectCSV != "" {
		return exportCSV(inspectCSV, rows)
	}
	return nil
}

func printMaterialTotals(inv *inventory.Inventory) {
	if len(inv.Materials) == 0 {
		return
	}
	printSection("QUANTITIES BY MATERIAL:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Material\tElements\tLength\tArea\tVolume\n")
	fmt.Fprintf(w, "  ────────\t────────\t──────\t────\t──────\n")
	for _, t := range inv.Materials {
		fmt.Fprintf(w, "  %s\t%d\t%.3f\t%.3f\t%.3f\n", t.Material, t.Count, t.Length, t.Area, t.Volume)
	}
	w.Flush()
	fmt.Println()
}

func printIssues(issues []inventory.Issue) {
	printSection("VALIDATION:")
	if len(issues) == 0 {
		fmt.Println("  ✓ No issues found")
		fmt.Println()
		return
	}
	for _, is := range issues {
		fmt.Printf("  ✗ %s\n", is)
	}
	fmt.Println()
}

func exportCSV(path string, rows []inventory.Row) error {
	if path == "-" {
		return inventory.WriteCSV(os.Stdout, rows)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := inventory.WriteCSV(out, rows); err != nil {
		out.Close()
		return fmt.Errorf("exporting CSV: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Printf("  Summary exported to: %s\n\n", path)
	return nil
}

func matchesType(el model.StructuralElement, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(el.Kind.String(), filter) || strings.EqualFold(el.Source.Type, filter)
}

func matchesName(el model.StructuralElement, name string) bool {
	if name == "" {
		return true
	}
	return el.Source.Name == name || el.Source.Tag == name
}

func printElementDetail(el model.StructuralElement) {
	printSection(fmt.Sprintf("ELEMENT %s (%s):", el.Source.Name, el.Source))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if body := el.Representation.Body; body != nil {
		fmt.Fprintf(w, "  Profile:\t%s %s\n", body.Profile.Kind, body.Profile.Name)
		fmt.Fprintf(w, "  Extrusion depth:\t%.4g\n", body.Depth)
	}
	if n := len(el.Representation.Axis); n > 0 {
		fmt.Fprintf(w, "  Axis points:\t%d\n", n)
	}
	for _, p := range el.Properties {
		fmt.Fprintf(w, "  %s.%s:\t%s\n", p.Set, p.Name, propertyValue(p))
	}
	for _, m := range el.Materials {
		fmt.Fprintf(w, "  Material:\t%s (%s)\n", m.Name, m.Category)
		for _, p := range m.Properties {
			fmt.Fprintf(w, "    %s:\t%s\n", p.Name, propertyValue(p))
		}
	}
	w.Flush()
	fmt.Println()
}

func propertyValue(p model.Property) string {
	if p.Numeric {
		return fmt.Sprintf("%g", p.Value)
	}
	return p.Text
}
