package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fritzlab/fritz3d/pkg/fritzing/archive"
	"github.com/fritzlab/fritz3d/pkg/fritzing/fzp"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show archive contents and descriptor metadata",
	Long: `Lists the entries of a .fzpz archive and the module/pin records of every
descriptor inside it, without importing any geometry. Also accepts a bare
.fzp descriptor.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	switch strings.ToLower(filepath.Ext(path)) {
	case ".fzpz":
		return inspectArchive(path)
	case ".fzp":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read descriptor: %w", err)
		}
		return inspectDescriptor(path, data)
	default:
		return fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

func inspectArchive(path string) error {
	resolver, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer resolver.Close()

	entries, err := resolver.ListEntries()
	if err != nil {
		return err
	}

	fmt.Printf("Archive: %s (%d entries)\n", filepath.Base(path), len(entries))
	for _, entry := range entries {
		fmt.Printf("  %s\n", entry)
	}

	for _, entry := range entries {
		if !strings.HasSuffix(strings.ToLower(entry), ".fzp") {
			continue
		}
		data, err := resolver.ReadEntry(entry)
		if err != nil {
			fmt.Printf("\n%s: unreadable (%v)\n", entry, err)
			continue
		}
		fmt.Println()
		if err := inspectDescriptor(entry, data); err != nil {
			fmt.Printf("%s: %v\n", entry, err)
		}
	}

	return nil
}

func inspectDescriptor(name string, data []byte) error {
	doc, err := fzp.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("malformed descriptor: %w", err)
	}

	fmt.Printf("Descriptor: %s\n", name)
	fmt.Printf("  Title: %s\n", doc.Title(name))

	modules := doc.Modules()
	fmt.Printf("  Modules: %d\n", len(modules))

	for idx, mod := range modules {
		fmt.Printf("\n  [%d] %s\n", idx, mod.ID)
		if mod.FileRef != "" {
			fmt.Printf("      file: %s\n", mod.FileRef)
		}
		if mod.Placement != nil {
			fmt.Printf("      position: (%.4g, %.4g) z %.4g\n",
				mod.Placement.Translate.X, mod.Placement.Translate.Y, mod.Placement.Z)
			if mod.Placement.RotateDegrees != nil {
				fmt.Printf("      rotation: %.4g°\n", *mod.Placement.RotateDegrees)
			}
		} else {
			fmt.Printf("      position: unresolved (skipped during placement)\n")
		}
		for _, pin := range mod.Pins {
			if pin.RotationDegrees != nil {
				fmt.Printf("      pin %-8s (%.4g, %.4g, %.4g) rot %.4g°\n",
					pin.ID, pin.Position.X, pin.Position.Y, pin.Position.Z, *pin.RotationDegrees)
			} else {
				fmt.Printf("      pin %-8s (%.4g, %.4g, %.4g)\n",
					pin.ID, pin.Position.X, pin.Position.Y, pin.Position.Z)
			}
		}
	}

	return nil
}
