package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/archive"
	"github.com/rwtools/pkg/binread"
	"github.com/rwtools/pkg/config"
	"github.com/rwtools/pkg/logging"
	"github.com/rwtools/pkg/texture"
)

var (
	configPath string
	logLevel   string
	verbose    bool

	// cfg is loaded once before any command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rwtools",
	Short: "Tools for RenderWare game asset archives",
	Long: `rwtools unpacks Info/Data archive pairs into individual asset files.

Supported operations:
  - Extract animation, model, id-table, particle, sound, texture and window archives
  - Decode raw textures to PNG/BMP and sound containers to WAV
  - Split animation containers into RenderWare .anm blocks
  - Convert extracted .dff models to .fbx through Blender`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config file (default \""+config.DefaultFile+"\" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print verbose progress information (same as --log-level debug)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath, true)
	} else {
		cfg, err = config.Load(config.DefaultFile, false)
	}
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}
	return logging.Setup(os.Stderr, level)
}

// optionFlags holds the extraction flags shared by extract and batch.
type optionFlags struct {
	decode   string
	image    string
	encoding string
	filter   string
	strict   bool
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.decode, "decode", "",
		"decode policy: raw, decoded or both (default from config, else decoded)")
	cmd.Flags().StringVar(&f.image, "image", "",
		"decoded texture format: png or bmp (default from config, else png)")
	cmd.Flags().StringVar(&f.encoding, "name-encoding", "",
		"encoding of embedded names: utf-8, shift-jis, utf-16le")
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "",
		"only extract records whose name contains this string (case-insensitive)")
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"exit with an error when any record is skipped")
}

// options merges the flags over the config file values.
func (f *optionFlags) options() (archive.Options, error) {
	opts, err := cfg.ArchiveOptions()
	if err != nil {
		return opts, fmt.Errorf("invalid config: %w", err)
	}

	if f.decode != "" {
		if opts.Decode, err = archive.ParseDecodeMode(f.decode); err != nil {
			return opts, err
		}
	}
	if f.image != "" {
		if opts.Image, err = texture.ParseImageFormat(f.image); err != nil {
			return opts, err
		}
	}
	if f.encoding != "" {
		if opts.NameEncoding, err = binread.ParseNameEncoding(f.encoding); err != nil {
			return opts, err
		}
	}
	opts.Filter = f.filter
	return opts, nil
}

var errSkipped = errors.New("records were skipped")

// checkStrict turns skipped records into an error when --strict is set.
func (f *optionFlags) checkStrict(skipped int) error {
	if f.strict && skipped > 0 {
		return fmt.Errorf("%w: %d", errSkipped, skipped)
	}
	return nil
}
