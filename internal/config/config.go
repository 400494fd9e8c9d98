// Package config loads the compiler-option knobs every pass in
// internal/pipeline reads: on-demand compilation, dual-fields backend
// selection, and the splitter's threshold/ceiling pair. Options round-trip
// through YAML via goccy/go-yaml, the same config-file idiom the rest of
// the pack reaches for ahead of stdlib encoding/json.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Options is the compiler-option surface threaded into
// internal/pipeline.Run and internal/compilerenv.New.
type Options struct {
	OnDemandCompilation bool `yaml:"onDemandCompilation"`
	UseDualFields       bool `yaml:"useDualFields"`
	SplitThreshold      int  `yaml:"splitThreshold"`
	CompileUnitCeiling  int  `yaml:"compileUnitCeiling"`
}

// Default returns the options a fresh eager, whole-program compile runs
// with: splitting at the spec's default threshold, one compile unit per
// backend class bounded at the same size.
func Default() Options {
	return Options{
		OnDemandCompilation: false,
		UseDualFields:       false,
		SplitThreshold:      32 * 1024,
		CompileUnitCeiling:  32 * 1024,
	}
}

// Load reads a YAML options file at path, applying it on top of Default()
// so a file that only overrides one or two fields still gets sane values
// for the rest.
func Load(path string) (Options, error) {
	opts := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if opts.SplitThreshold <= 0 {
		return Options{}, fmt.Errorf("config: splitThreshold must be positive, got %d", opts.SplitThreshold)
	}
	if opts.CompileUnitCeiling <= 0 {
		return Options{}, fmt.Errorf("config: compileUnitCeiling must be positive, got %d", opts.CompileUnitCeiling)
	}
	return opts, nil
}

// Save writes opts to path as YAML, mirroring Load's shape so a generated
// default file can be edited by hand and reloaded.
func Save(path string, opts Options) error {
	raw, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("config: marshaling options: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
