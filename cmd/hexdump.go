package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/hexdump"
)

var (
	hexdumpOutput   string
	hexdumpWidth    int
	hexdumpMaxBytes int64
)

var hexdumpCmd = &cobra.Command{
	Use:   "hexdump <file>",
	Short: "Write a hex dump of a binary file",
	Long: `Write an offset/hex/ASCII dump of a file, by default to <file>.txt.

Examples:
  # Dump an Info file
  rwtools hexdump bin/TexInfo_000.bin

  # 32 bytes per line, stop at about 10 MB of text
  rwtools hexdump bin/Tex_000.bin -w 32 --max-bytes 10000000`,
	Args: cobra.ExactArgs(1),
	RunE: runHexdump,
}

func init() {
	rootCmd.AddCommand(hexdumpCmd)

	hexdumpCmd.Flags().StringVarP(&hexdumpOutput, "output", "o", "",
		"output file (default <file>.txt, - for stdout)")
	hexdumpCmd.Flags().IntVarP(&hexdumpWidth, "width", "w", hexdump.DefaultWidth,
		"bytes per line")
	hexdumpCmd.Flags().Int64Var(&hexdumpMaxBytes, "max-bytes", 0,
		"maximum size of the dump in bytes (0 for no limit)")
}

func runHexdump(cmd *cobra.Command, args []string) error {
	input := args[0]
	if hexdumpWidth <= 0 {
		return fmt.Errorf("width must be positive, got %d", hexdumpWidth)
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	output := hexdumpOutput
	if output == "" {
		output = input + ".txt"
	}

	out := os.Stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	res, err := hexdump.Dump(out, in, hexdump.Options{Width: hexdumpWidth, MaxBytes: hexdumpMaxBytes})
	if err != nil {
		return err
	}

	if output != "-" {
		if err := out.Close(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if res.Truncated {
			fmt.Printf("Wrote %s (stopped at %d bytes of input, size limit reached)\n", output, res.Consumed)
		} else {
			fmt.Printf("Wrote %s\n", output)
		}
	}
	return nil
}
