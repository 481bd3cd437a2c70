package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/archive"
)

var (
	batchFlags  optionFlags
	batchFormat string
	batchInfo   string
	batchOutput string
	batchJobs   int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract many archive pairs",
	Long: `Extract several archive pairs in one run.

Pairs come either from the [pair.NAME] sections of the config file, or from a
glob over Info files. For a glob, each Data file is found next to its Info file
by replacing the first "Info_" in the name with "_" (TexInfo_000.bin ->
Tex_000.bin) and output goes to <output>/<info name>.

A pair that fails does not stop the others. The exit code is non-zero when any
pair failed.

Examples:
  # Run every [pair.*] section of config.ini
  rwtools batch --config config.ini

  # Extract all texture archives, four pairs at a time
  rwtools batch --format tex --info 'bin/TexInfo_*.bin' --output output/tex --jobs 4`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.register(batchCmd)

	batchCmd.Flags().StringVar(&batchFormat, "format", "",
		"archive format for --info")
	batchCmd.Flags().StringVar(&batchInfo, "info", "",
		"glob matching Info files")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "",
		"output directory for --info pairs (default from config)")
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0,
		"number of pairs processed concurrently (default from config, else 1)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	opts, err := batchFlags.options()
	if err != nil {
		return err
	}

	pairs, err := batchPairs()
	if err != nil {
		return err
	}

	jobs := cfg.Jobs
	if batchJobs > 0 {
		jobs = batchJobs
	}

	fmt.Printf("Pairs: %d (jobs: %d)\n\n", len(pairs), jobs)

	report := archive.RunBatch(cmd.Context(), pairs, opts, jobs)
	report.Print(os.Stdout)

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d pairs failed", len(failed), len(pairs))
	}
	return batchFlags.checkStrict(report.SkippedCount())
}

func batchPairs() ([]archive.Pair, error) {
	if batchInfo != "" {
		if batchFormat == "" {
			return nil, errors.New("--info requires --format")
		}
		output := batchOutput
		if output == "" {
			output = cfg.OutputDir
		}
		return archive.PairsFromGlob(archive.Format(batchFormat), batchInfo, output)
	}

	pairs, err := cfg.Pairs()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(pairs) == 0 {
		return nil, errors.New("no pairs to extract: pass --format and --info, or add [pair.NAME] sections to the config")
	}
	return pairs, nil
}
