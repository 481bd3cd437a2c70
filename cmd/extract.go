package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/archive"
)

var extractFlags optionFlags

var extractCmd = &cobra.Command{
	Use:   "extract <format> <info-file> <data-file> <output-dir>",
	Short: "Extract files from one archive pair",
	Long: `Extract every record of an Info/Data archive pair.

The Info file is parsed according to <format> (see "rwtools formats") and each
record's bytes are sliced out of the Data file and written to <output-dir>.
Records that fall outside the Data file are skipped and reported; the rest are
still written.

Examples:
  # Extract textures, decoding them to PNG
  rwtools extract tex bin/TexInfo_000.bin bin/Tex_000.bin output/tex

  # Keep the raw texture slices next to BMP copies
  rwtools extract tex bin/TexInfo_000.bin bin/Tex_000.bin output/tex --decode both --image bmp

  # Extract only models whose name contains 00012
  rwtools extract clump bin/ClumpInfo.bin bin/Clump.bin output/clump -f 00012`,
	Args: cobra.ExactArgs(4),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractFlags.register(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts, err := extractFlags.options()
	if err != nil {
		return err
	}

	pair := archive.Pair{
		Format:    archive.Format(args[0]),
		InfoPath:  args[1],
		DataPath:  args[2],
		OutputDir: args[3],
	}

	extractor, err := archive.NewExtractor(pair, opts)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}
	defer extractor.Close()

	if err := extractor.Open(); err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	fmt.Printf("Extracting: %s\n", pair.Label())
	fmt.Printf("Format: %s (%s)\n", extractor.Driver().Format, extractor.Driver().Description)
	fmt.Printf("Records: %d\n", len(extractor.Records()))
	if opts.Filter != "" {
		fmt.Printf("Filter: %s\n", opts.Filter)
	}
	fmt.Println()

	report, err := extractor.Extract()
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	report.Print(os.Stdout)

	return extractFlags.checkStrict(len(report.Skipped))
}
