package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/version"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "ifcfem",
	Short: "IFC to finite-element structural model converter",
	Long: `ifcfem - IFC to Finite-Element Converter

A CLI tool that turns the structural members of an IFC building model
into a finite-element model for frame analysis.

This tool helps structural engineers:
  - Extract beams, columns, slabs, walls and supports from IFC files
  - Resolve section and material properties, with reported defaults
  - Build a connected mesh with merged nodes and boundary conditions
  - Run a reference linear static analysis and plot the deformed shape
  - Archive conversion runs and results in PostgreSQL

Self-weight loads are factored with NSCP 2015 load combinations.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   ifcfem v%-48s║\n", version.Version)
		fmt.Println("  ║   IFC to Finite-Element Structural Model Converter        ║")
		fmt.Println("  ║   Alexius S. Academia ©  2025                             ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Converts the structural members of an IFC model into a")
		fmt.Println("  finite-element model of nodes, elements and supports.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Beam, column, slab and wall extraction with traceability")
		fmt.Println("    • Node merging within a configurable tolerance")
		fmt.Println("    • Section and material resolution with defaults reporting")
		fmt.Println("    • Reference linear static analysis and deformed-shape plots")
		fmt.Println("    • Run archive in PostgreSQL")
		fmt.Println()
		fmt.Println("  Use 'ifcfem --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML configuration file")
}

// newLogger writes coloured log lines to stderr so reports on stdout stay clean
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(helper.NewPrettyHandler(os.Stderr, helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	}))
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}
