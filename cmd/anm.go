package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/archive"
)

var anmOutput string

var anmCmd = &cobra.Command{
	Use:   "anm <input>",
	Short: "Split animation containers into .anm files",
	Long: `Split extracted animation containers (.ame) into RenderWare animation blocks.

Every animation chunk starts a new block, which runs to the next one or to the
end of the file. Blocks are written as <name>_<n>.anm.

Examples:
  # Split every .ame under output/ame into output/anm
  rwtools anm output/ame -o output/anm`,
	Args: cobra.ExactArgs(1),
	RunE: runAnm,
}

func init() {
	rootCmd.AddCommand(anmCmd)

	anmCmd.Flags().StringVarP(&anmOutput, "output", "o", "",
		"output directory (default <output_dir>/anm)")
}

func runAnm(cmd *cobra.Command, args []string) error {
	outputDir := anmOutput
	if outputDir == "" {
		outputDir = filepath.Join(cfg.OutputDir, "anm")
	}

	files, err := archive.FindFiles(args[0], ".ame")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .ame files found in %s", args[0])
	}

	total := 0
	for _, path := range files {
		written, err := archive.SplitAnimations(path, outputDir)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping animation container")
			continue
		}
		fmt.Printf("%s: %d blocks\n", filepath.Base(path), len(written))
		total += len(written)
	}

	fmt.Printf("Extracted %d .anm files from %d containers\n", total, len(files))
	return nil
}
