package bootstrap

import (
	"os"

	"github.com/declarui/declarui/compile"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options configures a single page's App. Dev/MountSelector come from
// an on-disk config file in typical use (LoadOptions); Imports and
// Logger are Go values set programmatically by the page's entry point,
// since a function value and a *zap.Logger have no YAML representation.
//
// The dev/prod render policy itself (panics propagate vs. get caught
// by an error boundary, see lifecycle_dev.go/lifecycle_prod.go) is
// fixed at compile time by the dev/!dev build tag, mirroring the
// teacher's separate renderer_dev.go/renderer_prod.go binaries — a
// wasm page can't switch that policy after it's already shipped. Dev
// is consulted by New only to warn when a page's config disagrees
// with the binary it was actually built into.
type Options struct {
	Dev           bool
	MountSelector string
	Imports       compile.ImportResolver
	Logger        *zap.Logger
}

// fileOptions is the on-disk subset of Options, mirroring the
// teacher's app.yaml-style config surface.
type fileOptions struct {
	Dev           bool   `yaml:"dev"`
	MountSelector string `yaml:"mount_selector"`
}

// LoadOptions reads a YAML config file into Options. Imports and
// Logger are left nil; callers set them after loading.
func LoadOptions(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	var f fileOptions
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Options{}, err
	}
	return Options{Dev: f.Dev, MountSelector: f.MountSelector}, nil
}
