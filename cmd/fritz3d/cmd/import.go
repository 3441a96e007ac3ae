package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fritzlab/fritz3d/pkg/fritzing/placer"
	"github.com/fritzlab/fritz3d/pkg/fritzing/scene"
)

var (
	optionsFile string
	flagOpts    placer.Options
	showPlan    bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a Fritzing part and compute its placement",
	Long: `Runs the full import pipeline against an in-memory recording host and
prints the resulting placement plan. A real 3D environment binds through the
scene.Host interface instead of the recorder.

Supported inputs: .fzpz part archives, bare .fzp descriptors, and standalone
.svg drawings.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	defaults := placer.DefaultOptions()
	flagOpts = defaults

	importCmd.Flags().StringVar(&optionsFile, "options", "", "YAML option profile (flags override it)")
	importCmd.Flags().BoolVar(&showPlan, "plan", true, "print the host operation plan")

	importCmd.Flags().BoolVar(&flagOpts.UsePlacement, "use-placement", defaults.UsePlacement, "apply descriptor transforms")
	importCmd.Flags().Float64Var(&flagOpts.PlacementScale, "placement-scale", defaults.PlacementScale, "archive-units to target-units factor")
	importCmd.Flags().BoolVar(&flagOpts.ConvertToMesh, "convert-to-mesh", defaults.ConvertToMesh, "convert vector imports to meshes")
	importCmd.Flags().BoolVar(&flagOpts.JoinMeshes, "join-meshes", defaults.JoinMeshes, "merge per-module duplicates")
	importCmd.Flags().BoolVar(&flagOpts.CreatePins, "create-pins", defaults.CreatePins, "spawn pin markers")
	importCmd.Flags().Float64Var(&flagOpts.PinSize, "pin-size", defaults.PinSize, "pin marker size")
	importCmd.Flags().BoolVar(&flagOpts.PinAsMesh, "pin-as-mesh", defaults.PinAsMesh, "pin markers as sphere meshes")
	importCmd.Flags().Float64Var(&flagOpts.ExtrusionDepth, "extrusion-depth", defaults.ExtrusionDepth, "solidify depth for vector geometry")
	importCmd.Flags().Float64Var(&flagOpts.BevelDepth, "bevel-depth", defaults.BevelDepth, "bevel width for vector geometry")
	importCmd.Flags().BoolVar(&flagOpts.PerformBooleanCut, "boolean-cut", defaults.PerformBooleanCut, "run the overlap-avoidance pass")
	importCmd.Flags().Float64Var(&flagOpts.ZStep, "z-step", defaults.ZStep, "stacking cadence between instances")
	importCmd.Flags().BoolVar(&flagOpts.ZStepInTargetUnits, "z-step-in-target-units", defaults.ZStepInTargetUnits, "interpret z-step in target units")
	importCmd.Flags().Float64Var(&flagOpts.MinZStep, "min-z-step", defaults.MinZStep, "lower clamp for the effective z step")
}

func runImport(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	log, err := buildLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	host := scene.NewRecorder()
	importer := placer.NewImporter(host, opts, log)

	result, err := importer.Import(args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Import complete: %s\n", result.Title)
	fmt.Printf("  Descriptors: %d\n", result.Descriptors)
	fmt.Printf("  Objects imported: %d\n", result.ObjectsImported)
	fmt.Printf("  Instances placed: %d\n", result.InstancesPlaced)
	fmt.Printf("  Pins created: %d\n", result.PinsCreated)

	if showPlan {
		fmt.Printf("\nHost operations (%d):\n", len(host.Ops))
		for _, op := range host.Ops {
			fmt.Printf("  %s\n", op)
		}
	}

	return nil
}

// resolveOptions loads the YAML profile when given, then lets explicitly set
// flags override individual fields.
func resolveOptions(cmd *cobra.Command) (placer.Options, error) {
	if optionsFile == "" {
		return flagOpts, nil
	}

	opts, err := placer.LoadOptions(optionsFile)
	if err != nil {
		return opts, err
	}

	if cmd.Flags().Changed("use-placement") {
		opts.UsePlacement = flagOpts.UsePlacement
	}
	if cmd.Flags().Changed("placement-scale") {
		opts.PlacementScale = flagOpts.PlacementScale
	}
	if cmd.Flags().Changed("convert-to-mesh") {
		opts.ConvertToMesh = flagOpts.ConvertToMesh
	}
	if cmd.Flags().Changed("join-meshes") {
		opts.JoinMeshes = flagOpts.JoinMeshes
	}
	if cmd.Flags().Changed("create-pins") {
		opts.CreatePins = flagOpts.CreatePins
	}
	if cmd.Flags().Changed("pin-size") {
		opts.PinSize = flagOpts.PinSize
	}
	if cmd.Flags().Changed("pin-as-mesh") {
		opts.PinAsMesh = flagOpts.PinAsMesh
	}
	if cmd.Flags().Changed("extrusion-depth") {
		opts.ExtrusionDepth = flagOpts.ExtrusionDepth
	}
	if cmd.Flags().Changed("bevel-depth") {
		opts.BevelDepth = flagOpts.BevelDepth
	}
	if cmd.Flags().Changed("boolean-cut") {
		opts.PerformBooleanCut = flagOpts.PerformBooleanCut
	}
	if cmd.Flags().Changed("z-step") {
		opts.ZStep = flagOpts.ZStep
	}
	if cmd.Flags().Changed("z-step-in-target-units") {
		opts.ZStepInTargetUnits = flagOpts.ZStepInTargetUnits
	}
	if cmd.Flags().Changed("min-z-step") {
		opts.MinZStep = flagOpts.MinZStep
	}

	return opts, nil
}
