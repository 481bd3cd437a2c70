// Package config loads the rwtools INI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-ini/ini"

	"github.com/rwtools/pkg/archive"
	"github.com/rwtools/pkg/binread"
	"github.com/rwtools/pkg/texture"
)

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "config.ini"

const pairPrefix = "pair."

// Convert holds the [convert] section.
type Convert struct {
	InputDir  string
	OutputDir string
	Addon     string
	Options   []string
}

// PairEntry is one [pair.NAME] section with its paths already resolved.
type PairEntry struct {
	Name   string
	Format string
	Info   string
	Data   string
	Output string
}

// Config is the loaded configuration. It is never modified after Load.
type Config struct {
	Path string // File it was loaded from, empty for defaults

	LogLevel     string
	Jobs         int
	NameEncoding string

	BinDir            string
	OutputDir         string
	BlenderExecutable string

	DecodeMode string
	Image      string

	Convert Convert
	Entries []PairEntry
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:          "info",
		Jobs:              1,
		NameEncoding:      string(binread.EncodingUTF8),
		BinDir:            "bin",
		OutputDir:         "output",
		BlenderExecutable: "blender",
		DecodeMode:        string(archive.DecodeDecoded),
		Image:             string(texture.ImagePNG),
		Convert: Convert{
			InputDir:  filepath.Join("output", "clump"),
			OutputDir: filepath.Join("output", "fbx"),
			Addon:     "DragonFF",
			Options:   []string{"--maya"},
		},
	}
}

// Load reads path. When path does not exist and required is false the
// defaults are returned.
func Load(path string, required bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	return fromFile(file, abs)
}

func fromFile(file *ini.File, path string) (*Config, error) {
	dir := filepath.Dir(path)
	def := Default()
	cfg := &Config{Path: path}

	top := file.Section("")
	cfg.LogLevel = top.Key("log_level").MustString(def.LogLevel)
	cfg.Jobs = top.Key("jobs").MustInt(def.Jobs)
	if cfg.Jobs < 1 {
		return nil, fmt.Errorf("%s: jobs must be at least 1, got %d", path, cfg.Jobs)
	}
	cfg.NameEncoding = top.Key("name_encoding").MustString(def.NameEncoding)

	paths := file.Section("paths")
	cfg.BinDir = resolve(dir, paths.Key("bin_dir").MustString(def.BinDir))
	cfg.OutputDir = resolve(dir, paths.Key("output_dir").MustString(def.OutputDir))
	cfg.BlenderExecutable = executable(dir, paths.Key("blender_executable").MustString(def.BlenderExecutable))

	decode := file.Section("decode")
	cfg.DecodeMode = decode.Key("mode").MustString(def.DecodeMode)
	cfg.Image = decode.Key("image").MustString(def.Image)

	conv := file.Section("convert")
	cfg.Convert = Convert{
		InputDir:  resolve(dir, conv.Key("input_dir").MustString(def.Convert.InputDir)),
		OutputDir: resolve(dir, conv.Key("output_dir").MustString(def.Convert.OutputDir)),
		Addon:     conv.Key("addon").MustString(def.Convert.Addon),
		Options:   def.Convert.Options,
	}
	if conv.HasKey("options") {
		cfg.Convert.Options = strings.Fields(conv.Key("options").String())
	}

	for _, sec := range file.Sections() {
		name, ok := strings.CutPrefix(sec.Name(), pairPrefix)
		if !ok {
			continue
		}
		entry := PairEntry{
			Name:   name,
			Format: sec.Key("format").String(),
			Info:   sec.Key("info").String(),
			Data:   sec.Key("data").String(),
			Output: sec.Key("output").MustString(name),
		}
		if entry.Format == "" || entry.Info == "" || entry.Data == "" {
			return nil, fmt.Errorf("%s: section [%s] needs format, info and data", path, sec.Name())
		}
		entry.Info = resolve(cfg.BinDir, entry.Info)
		entry.Data = resolve(cfg.BinDir, entry.Data)
		entry.Output = resolve(cfg.OutputDir, entry.Output)
		cfg.Entries = append(cfg.Entries, entry)
	}
	sort.Slice(cfg.Entries, func(i, j int) bool { return cfg.Entries[i].Name < cfg.Entries[j].Name })

	return cfg, nil
}

// Pairs converts the [pair.*] sections to archive pairs.
func (c *Config) Pairs() ([]archive.Pair, error) {
	pairs := make([]archive.Pair, 0, len(c.Entries))
	for _, e := range c.Entries {
		d, err := archive.Lookup(e.Format)
		if err != nil {
			return nil, fmt.Errorf("pair %s: %w", e.Name, err)
		}
		pairs = append(pairs, archive.Pair{
			Name:      e.Name,
			Format:    d.Format,
			InfoPath:  e.Info,
			DataPath:  e.Data,
			OutputDir: e.Output,
		})
	}
	return pairs, nil
}

// ArchiveOptions returns the extraction options described by the file.
func (c *Config) ArchiveOptions() (archive.Options, error) {
	mode, err := archive.ParseDecodeMode(c.DecodeMode)
	if err != nil {
		return archive.Options{}, err
	}
	img, err := texture.ParseImageFormat(c.Image)
	if err != nil {
		return archive.Options{}, err
	}
	enc, err := binread.ParseNameEncoding(c.NameEncoding)
	if err != nil {
		return archive.Options{}, err
	}
	return archive.Options{Decode: mode, Image: img, NameEncoding: enc}, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// executable resolves a relative path only when it names a file, so a bare
// command is still looked up in PATH.
func executable(base, p string) string {
	if !strings.ContainsRune(p, filepath.Separator) && !strings.Contains(p, "/") {
		return p
	}
	return resolve(base, p)
}
