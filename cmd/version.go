package cmd

import (
	"fmt"

	"github.com/alexiusacademia/ifcfem/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ifcfem",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ifcfem v%s\n", version.Version)
		fmt.Printf("Commit %s, built %s\n", version.GitCommit, version.BuildTime)
		fmt.Println("IFC to Finite-Element Structural Model Converter")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
