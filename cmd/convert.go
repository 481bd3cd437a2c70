package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/convert"
)

var (
	convertOutput  string
	convertBlender string
	convertAddon   string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input-dir]",
	Short: "Convert extracted .dff models to .fbx with Blender",
	Long: `Convert every .dff model under a directory to .fbx.

Each model is imported into a background Blender instance with the DragonFF
addon and exported as FBX (Maya Y-up with the default --maya option). Paths
default to the [convert] and [paths] sections of the config file.

Examples:
  # Use the directories from config.ini
  rwtools convert

  # Convert a directory with an explicit Blender
  rwtools convert output/clump -o output/fbx --blender /opt/blender/blender`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"output directory for .fbx files (default from config)")
	convertCmd.Flags().StringVar(&convertBlender, "blender", "",
		"path to the Blender executable (default from config)")
	convertCmd.Flags().StringVar(&convertAddon, "addon", "",
		"Blender addon providing the .dff importer (default from config)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := cfg.Convert.InputDir
	if len(args) > 0 {
		input = args[0]
	}

	blender := &convert.Blender{
		Executable: cfg.BlenderExecutable,
		Addon:      cfg.Convert.Addon,
		Options:    cfg.Convert.Options,
		OutputDir:  cfg.Convert.OutputDir,
	}
	if convertBlender != "" {
		blender.Executable = convertBlender
	}
	if convertAddon != "" {
		blender.Addon = convertAddon
	}
	if convertOutput != "" {
		blender.OutputDir = convertOutput
	}

	fmt.Printf("Input: %s\n", input)
	fmt.Printf("Output: %s\n", blender.OutputDir)
	fmt.Printf("Blender: %s\n\n", blender.Executable)

	res, err := convert.ConvertDir(cmd.Context(), blender, input)
	if res != nil {
		fmt.Printf("Converted: %d files\n", len(res.Converted))
		for _, f := range res.Failed {
			fmt.Printf("  failed: %s: %v\n", filepath.Base(f.Input), f.Err)
		}
	}
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d models failed to convert", len(res.Failed))
	}
	return nil
}
