package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fritz3d",
	Short: "Fritzing part importer - placement engine for .fzpz/.fzp/.svg",
	Long: `fritz3d reads Fritzing part archives and descriptors and computes a
placed, annotated 3D scene: per-module world transforms, deterministic
Z-stacking, and pin markers.

Examples:
  fritz3d import part.fzpz                  # Compute the placement plan
  fritz3d import part.fzpz --create-pins    # Include pin markers
  fritz3d inspect part.fzpz                 # List archive contents and modules`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// buildLogger returns the CLI logger: human-readable debug output when
// --verbose is set, quiet otherwise.
func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
