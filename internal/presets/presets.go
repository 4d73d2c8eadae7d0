// Package presets maps short preset names to import configurations. The
// presets replace the near-duplicate wrapper scripts that each hardcoded
// one dataset identifier.
package presets

import (
	"fmt"
	"sort"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Preset is a named import configuration.
type Preset struct {
	Name    string `json:"name"`
	Dataset string `json:"dataset"`
	// OutputName overrides the output prefix; empty means the dataset
	// identifier is used.
	OutputName string `json:"outputName,omitempty"`
	// Seed overrides the default seed when non-nil.
	Seed *int64 `json:"seed,omitempty"`
}

// Default returns the built-in presets, covering the datasets the
// original wrapper scripts hardcoded.
func Default() []Preset {
	return []Preset{
		{Name: "demo", Dataset: "demo"},
		{Name: "levine13", Dataset: "levine13"},
		{Name: "levine32", Dataset: "levine32"},
		{Name: "samusik01", Dataset: "samusik01"},
	}
}

// Load reads presets from the YAML file at path, falling back to the
// built-in presets when the file does not exist.
func Load(fs afero.Fs, path string) ([]Preset, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not stat presets file: %v", err)
	}
	if !exists {
		return Default(), nil
	}

	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not read presets file %s: %v", path, err)
	}

	var doc struct {
		Presets []Preset `json:"presets"`
	}
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("could not parse presets file %s: %v", path, err)
	}

	for _, p := range doc.Presets {
		if p.Name == "" || p.Dataset == "" {
			return nil, fmt.Errorf("presets file %s: every preset needs a name and a dataset", path)
		}
	}

	sort.Slice(doc.Presets, func(a, b int) bool { return doc.Presets[a].Name < doc.Presets[b].Name })

	return doc.Presets, nil
}

// Find resolves name among the given presets.
func Find(all []Preset, name string) (*Preset, error) {
	for idx := range all {
		if all[idx].Name == name {
			return &all[idx], nil
		}
	}
	return nil, fmt.Errorf("unknown preset: %s", name)
}
