package cmd

import (
	"encoding/json"
	"os"

	"github.com/alexiusacademia/ifcfem/internal/convert"
	"github.com/spf13/cobra"
)

var (
	convertJSON  bool
	convertFlags conversionFlags
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.ifc>",
	Short: "Convert an IFC model into a finite-element model",
	Long: `Extract the structural members of an IFC file and convert them into
a finite-element model of nodes, elements, sections, materials and
boundary conditions.

Members whose geometry cannot be resolved are skipped and reported.
Missing section and material properties are replaced by defaults and
reported as warnings.

Examples:
  ifcfem convert building.ifc
  ifcfem convert building.ifc --fix-base --self-weight --combination 1
  ifcfem convert building.ifc --json > model.json`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "Print the converted model as JSON")
	convertFlags.register(convertCmd, false)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := convertFlags.config(cmd)
	if err != nil {
		return err
	}

	res, err := convert.New(cfg, newLogger()).File(args[0])
	if err != nil {
		return err
	}
	cm := res.Model

	if convertJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cm)
	}

	printHeader("IFC TO FINITE-ELEMENT CONVERSION")
	printSummary(cm.Summary, cm)
	printDescriptors(cm)
	printBoundaryConditions(cm)
	printWarnings(cm.Summary)

	if convertFlags.archive {
		return archive(cm, nil, res.Source, res.Schema)
	}
	return nil
}
