package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/ifcfem/internal/nscp"
	"github.com/spf13/cobra"
)

var (
	// Unfactored load effects
	effectDead       float64
	effectLive       float64
	effectRoof       float64
	effectWind       float64
	effectEarthquake float64
	effectRain       float64
)

var combinationsCmd = &cobra.Command{
	Use:   "combinations",
	Short: "List the NSCP load combinations used to factor loads",
	Long: `List the NSCP 2015 load combinations available for the
--combination flag of convert and analyze.

Self weight is a dead load, so it is multiplied by the dead load
factor of the chosen combination. Combination 0 leaves it unfactored.

Provide unfactored load effects to see the factored value of each
combination and the one that governs.

Load Types:
  D  - Dead load
  L  - Live load
  Lr - Roof live load
  W  - Wind load
  E  - Earthquake load
  R  - Rain load

Examples:
  ifcfem combinations
  ifcfem combinations --dead 12 --live 4.8`,
	Run: runCombinations,
}

func init() {
	rootCmd.AddCommand(combinationsCmd)

	combinationsCmd.Flags().Float64VarP(&effectDead, "dead", "d", 0, "Effect of dead load")
	combinationsCmd.Flags().Float64VarP(&effectLive, "live", "l", 0, "Effect of live load")
	combinationsCmd.Flags().Float64VarP(&effectRoof, "roof", "r", 0, "Effect of roof live load")
	combinationsCmd.Flags().Float64VarP(&effectWind, "wind", "w", 0, "Effect of wind load")
	combinationsCmd.Flags().Float64VarP(&effectEarthquake, "earthquake", "e", 0, "Effect of earthquake load")
	combinationsCmd.Flags().Float64VarP(&effectRain, "rain", "R", 0, "Effect of rain load")
}

func runCombinations(cmd *cobra.Command, args []string) {
	effects := nscp.LoadEffects{
		Dead:       effectDead,
		Live:       effectLive,
		Roof:       effectRoof,
		Wind:       effectWind,
		Earthquake: effectEarthquake,
		Rain:       effectRain,
	}
	withEffects := effects != nscp.LoadEffects{}

	printHeader("NSCP 2015 LOAD COMBINATIONS (Section 203.3)")

	all := append([]nscp.LoadCombination{nscp.Service}, nscp.LoadCombinations...)
	governing := nscp.Service
	maxValue := governing.Factored(effects)
	for _, combo := range all {
		if v := combo.Factored(effects); v > maxValue {
			maxValue, governing = v, combo
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if withEffects {
		fmt.Fprintf(w, "  #\tCombination\tSelf-weight factor\tFactored\n")
		fmt.Fprintf(w, "  ─\t───────────\t──────────────────\t────────\n")
	} else {
		fmt.Fprintf(w, "  #\tCombination\tSelf-weight factor\n")
		fmt.Fprintf(w, "  ─\t───────────\t──────────────────\n")
	}
	for _, combo := range all {
		if !withEffects {
			fmt.Fprintf(w, "  %s\t%s\t%.2f\n", combo.ID, combo.Description, combo.Dead)
			continue
		}
		marker := ""
		if combo.ID == governing.ID {
			marker = " ← GOVERNS"
		}
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%.3f%s\n", combo.ID, combo.Description, combo.Dead, combo.Factored(effects), marker)
	}
	w.Flush()
	fmt.Println()
}
