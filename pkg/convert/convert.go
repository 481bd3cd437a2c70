// Package convert turns extracted models into interchange formats by driving
// an external 3D tool.
package convert

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rwtools/pkg/archive"
)

//go:embed blender_convert.py
var blenderScript []byte

// Converter converts one model file and returns the path of the result.
type Converter interface {
	Convert(ctx context.Context, modelFile string) (string, error)
}

// ToolError is returned when the external tool exits unsuccessfully.
type ToolError struct {
	Input  string
	Output string // Combined stdout/stderr of the tool
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("failed to convert %s: %v", e.Input, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += " (output: " + lastLines(out, 5) + ")"
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Blender converts .dff models to .fbx with Blender and the DragonFF addon.
type Blender struct {
	Executable string
	Addon      string
	Options    []string // Passed to the helper script, e.g. --maya
	OutputDir  string

	// Script overrides the embedded helper script. Mostly for tests.
	Script string
}

// Convert runs Blender in the background on modelFile and writes
// OutputDir/<base>.fbx.
func (b *Blender) Convert(ctx context.Context, modelFile string) (string, error) {
	script := b.Script
	if script == "" {
		path, cleanup, err := writeScript()
		if err != nil {
			return "", err
		}
		defer cleanup()
		script = path
	}

	if err := os.MkdirAll(b.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(modelFile), filepath.Ext(modelFile))
	out := filepath.Join(b.OutputDir, base+".fbx")

	args := []string{"--background"}
	if b.Addon != "" {
		args = append(args, "--addons", b.Addon)
	}
	args = append(args, "--python", script, "--", modelFile, out)
	args = append(args, b.Options...)

	log.Debug().Str("exe", b.Executable).Strs("args", args).Msg("running blender")

	cmd := exec.CommandContext(ctx, b.Executable, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &ToolError{Input: modelFile, Output: buf.String(), Err: err}
	}

	if _, err := os.Stat(out); err != nil {
		return "", &ToolError{Input: modelFile, Output: buf.String(), Err: fmt.Errorf("no output written: %w", err)}
	}
	return out, nil
}

func writeScript() (string, func(), error) {
	f, err := os.CreateTemp("", "rwtools-blender-*.py")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create helper script: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.Write(blenderScript); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write helper script: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write helper script: %w", err)
	}
	return f.Name(), cleanup, nil
}

// Failure is a model that could not be converted.
type Failure struct {
	Input string
	Err   error
}

// Result lists what ConvertDir produced.
type Result struct {
	Converted []string
	Failed    []Failure
}

// ConvertDir converts every .dff under inputDir. A failed model is recorded
// and the rest still run; cancelling ctx stops the walk.
func ConvertDir(ctx context.Context, c Converter, inputDir string) (*Result, error) {
	models, err := archive.FindFiles(inputDir, ".dff")
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no .dff files found in %s", inputDir)
	}

	res := &Result{}
	for i, model := range models {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		log.Info().Str("file", filepath.Base(model)).Msgf("[%d/%d] converting", i+1, len(models))
		out, err := c.Convert(ctx, model)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return res, err
			}
			log.Error().Err(err).Str("file", model).Msg("conversion failed")
			res.Failed = append(res.Failed, Failure{Input: model, Err: err})
			continue
		}
		res.Converted = append(res.Converted, out)
	}
	return res, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
