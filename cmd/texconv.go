package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/archive"
	"github.com/rwtools/pkg/texture"
)

var (
	texconvOutput string
	texconvImage  string
)

var texconvCmd = &cobra.Command{
	Use:   "texconv <input>",
	Short: "Convert raw texture slices to PNG or BMP",
	Long: `Decode raw texture files (as written by "extract tex --decode raw") to images.

Supports RGB565 and ARGB4444 pixel data.

Examples:
  # Convert single file
  rwtools texconv sky.ras

  # Convert directory of textures to BMP
  rwtools texconv output/tex/ -o output/tex_bmp --image bmp`,
	Args: cobra.ExactArgs(1),
	RunE: runTexconv,
}

func init() {
	rootCmd.AddCommand(texconvCmd)

	texconvCmd.Flags().StringVarP(&texconvOutput, "output", "o", "",
		"output file or directory")
	texconvCmd.Flags().StringVar(&texconvImage, "image", "",
		"image format: png or bmp (default from config, else png)")
}

func runTexconv(cmd *cobra.Command, args []string) error {
	input := args[0]

	name := cfg.Image
	if texconvImage != "" {
		name = texconvImage
	}
	format, err := texture.ParseImageFormat(name)
	if err != nil {
		return err
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input not found: %s", input)
	}

	if !info.IsDir() {
		output := texconvOutput
		if output == "" {
			output = strings.TrimSuffix(input, filepath.Ext(input)) + format.Ext()
		}
		return convertTexture(input, output, format)
	}

	outputDir := texconvOutput
	if outputDir == "" {
		outputDir = strings.TrimSuffix(input, string(filepath.Separator)) + "_" + string(format)
	}

	files, err := archive.FindFiles(input, ".ras")
	if err != nil {
		return err
	}

	count, failed := 0, 0
	for _, path := range files {
		// Preserve directory structure
		rel, _ := filepath.Rel(input, path)
		out := filepath.Join(outputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+format.Ext())
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		if err := convertTexture(path, out, format); err != nil {
			log.Warn().Err(err).Msg("skipping texture")
			failed++
			continue
		}
		count++
	}

	fmt.Printf("Converted %d files", count)
	if failed > 0 {
		fmt.Printf(" (%d failed)", failed)
	}
	fmt.Println()
	return nil
}

func convertTexture(input, output string, format texture.ImageFormat) error {
	result, err := texture.UnpackFile(input)
	if err != nil {
		return fmt.Errorf("failed to unpack %s: %w", input, err)
	}

	if err := result.WriteFile(output, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	log.Debug().Str("input", input).Str("output", output).Str("pixels", result.Format.String()).
		Int("width", int(result.Header.Width)).Int("height", int(result.Header.Height)).Msg("converted")
	return nil
}
