package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/archive"
	"github.com/rwtools/pkg/binread"
	"github.com/rwtools/pkg/index"
)

var (
	indexLimit    int
	indexEncoding string
)

var indexCmd = &cobra.Command{
	Use:   "index <format> <info-file> [data-file]",
	Short: "Display the records of an Info file",
	Long: `Parse an Info file and list its records without extracting anything.

Formats that find their payloads by scanning the Data file (anim, clump, se)
only show offsets when the Data file is given.

Examples:
  # Show the first 20 texture records
  rwtools index tex bin/TexInfo_000.bin

  # Show every model with its located chunk
  rwtools index clump bin/ClumpInfo.bin bin/Clump.bin --limit 0`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().IntVarP(&indexLimit, "limit", "n", 20,
		"number of records to show (0 for all)")
	indexCmd.Flags().StringVar(&indexEncoding, "name-encoding", "",
		"encoding of embedded names: utf-8, shift-jis, utf-16le")
}

func runIndex(cmd *cobra.Command, args []string) error {
	driver, err := archive.Lookup(args[0])
	if err != nil {
		return err
	}

	enc := binread.NameEncoding(cfg.NameEncoding)
	if indexEncoding != "" {
		enc = binread.NameEncoding(indexEncoding)
	}
	if enc, err = binread.ParseNameEncoding(string(enc)); err != nil {
		return err
	}

	var records []index.Record
	if len(args) == 3 {
		extractor, err := archive.NewExtractor(archive.Pair{
			Format:   driver.Format,
			InfoPath: args[1],
			DataPath: args[2],
		}, archive.Options{NameEncoding: enc})
		if err != nil {
			return err
		}
		defer extractor.Close()

		if err := extractor.Open(); err != nil {
			return err
		}
		records = extractor.Records()
	} else {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		records, err = index.Parse(driver.Layout, data, enc)
		if err != nil {
			return fmt.Errorf("failed to parse index: %w", err)
		}
	}

	fmt.Printf("File: %s\n", filepath.Base(args[1]))
	fmt.Printf("Format: %s (%s, %s layout)\n", driver.Format, driver.Description, driver.Layout.Kind)
	fmt.Printf("Records: %d\n", len(records))
	fmt.Println()

	for i, rec := range records {
		if indexLimit > 0 && i >= indexLimit {
			fmt.Printf("  ... and %d more records\n", len(records)-indexLimit)
			break
		}
		if !rec.Located {
			fmt.Printf("  [%d] %s (not located)\n", rec.Index, rec.Identifier())
			continue
		}
		fmt.Printf("  [%d] %s (offset: 0x%X, size: %d bytes", rec.Index, rec.Identifier(), rec.Offset, rec.Length)
		if rec.Type != 0 {
			fmt.Printf(", type: %d", rec.Type)
		}
		fmt.Println(")")
	}

	return nil
}
