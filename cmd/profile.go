package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/ifcfem/internal/diagram"
	"github.com/alexiusacademia/ifcfem/internal/section"
	"github.com/spf13/cobra"
)

var (
	profileFile     string
	profileMaterial string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Compute frame section properties of an arbitrary outline",
	Long: `Compute the area, second moments and torsion constant of a
cross-section outline defined in a JSON file, as the converter does for
IFC arbitrary closed profiles.

Coordinates are in model length units. X runs along the member's local
y axis and Y along its local z axis.

Example JSON file structure:
{
  "name": "T-Beam Section",
  "vertices": [
    {"x": 0, "y": 0},
    {"x": 0.3, "y": 0},
    {"x": 0.3, "y": 0.4},
    {"x": 0.6, "y": 0.4},
    {"x": 0.6, "y": 0.5},
    {"x": -0.3, "y": 0.5},
    {"x": -0.3, "y": 0.4},
    {"x": 0, "y": 0.4}
  ]
}

Examples:
  ifcfem profile --file t-beam.json
  ifcfem profile -f t-beam.json --material "Concrete C30/37"`,
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVarP(&profileFile, "file", "f", "", "Path to section JSON file [required]")
	profileCmd.MarkFlagRequired("file")
	profileCmd.Flags().StringVarP(&profileMaterial, "material", "m", "", "Material name to look up in the elastic catalogue")
}

func runProfile(cmd *cobra.Command, args []string) error {
	sec, err := section.LoadFromFile(profileFile)
	if err != nil {
		return fmt.Errorf("loading section: %w", err)
	}
	props := sec.CalculateProperties()

	printHeader("CROSS-SECTION PROPERTIES")

	if sec.Name != "" {
		fmt.Printf("  Section: %s\n", sec.Name)
	}
	if sec.Description != "" {
		fmt.Printf("  Description: %s\n", sec.Description)
	}
	fmt.Println()

	printSection("SECTION GEOMETRY:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Width (max):\t%.4g\n", props.Width)
	fmt.Fprintf(w, "  Height:\t%.4g\n", props.Height)
	fmt.Fprintf(w, "  Area:\t%.6g\n", props.Area)
	fmt.Fprintf(w, "  Centroid:\t(%.4g, %.4g)\n", props.CentroidX, props.CentroidY)
	fmt.Fprintf(w, "  Vertices:\t%d points\n", len(sec.Vertices))
	w.Flush()
	fmt.Println()

	printSection("SECOND MOMENTS (centroidal):")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Ix = ∫y² dA:\t%.6g\n", props.Ix)
	fmt.Fprintf(w, "  Iy = ∫x² dA:\t%.6g\n", props.Iy)
	fmt.Fprintf(w, "  Ixy:\t%.6g\n", props.Ixy)
	fmt.Fprintf(w, "  J (approx.):\t%.6g\n", props.J)
	w.Flush()
	fmt.Println()

	lines := []string{
		fmt.Sprintf("A  = %.6g", props.Area),
		fmt.Sprintf("Iy = %.6g  (local y)", props.Ix),
		fmt.Sprintf("Iz = %.6g  (local z)", props.Iy),
		fmt.Sprintf("J  = %.6g", props.J),
	}

	if profileMaterial != "" {
		el, ok := section.Catalogue(profileMaterial, "")
		if !ok {
			fmt.Printf("  No catalogue entry for %q\n\n", profileMaterial)
		} else {
			printSection("MATERIAL (catalogue):")
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  Family:\t%s\n", el.Family)
			fmt.Fprintf(w, "  E:\t%.4g Pa\n", el.E)
			fmt.Fprintf(w, "  G:\t%.4g Pa\n", el.G())
			fmt.Fprintf(w, "  ν:\t%.3g\n", el.Nu)
			fmt.Fprintf(w, "  ρ:\t%.4g kg/m³\n", el.Rho)
			w.Flush()
			fmt.Println()
			lines = append(lines,
				fmt.Sprintf("EA  = %.4g", el.E*props.Area),
				fmt.Sprintf("EIy = %.4g", el.E*props.Ix),
				fmt.Sprintf("EIz = %.4g", el.E*props.Iy),
				fmt.Sprintf("GJ  = %.4g", el.G()*props.J),
			)
		}
	}

	fmt.Print(diagram.DrawSummaryBox("FRAME SECTION", lines))
	fmt.Println()
	return nil
}
