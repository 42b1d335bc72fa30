// Package preset persists and restores the two YAML preset formats
// spec.md §6 defines: a stem preset (one fx.Host's full topology) and a
// deck preset (macro definitions plus the four stem-preset references
// that make up a deck's sound). Effect instantiation itself is routed
// through a caller-supplied Factory, since constructing an embedded,
// native, or plugin-standard effect is the external-collaborator
// "effect factory" spec.md §4.6 describes — this package only ever
// walks fx.Host/fx.Chain/fx.Band and the records that mirror them.
package preset

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gridtone/deckengine/pkg/fx"
)

// KnobAssignment is one of a stem preset's 8 macro-knob slots.
type KnobAssignment struct {
	ParamIndex *int     `yaml:"param_index,omitempty"`
	Value      float32  `yaml:"value"`
	Macro      *int     `yaml:"macro_mapping,omitempty"`
}

// EffectRecord is the persisted form of one fx.Effect instance.
type EffectRecord struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	Category        string            `yaml:"category"`
	Source          string            `yaml:"source"` // "pd", "clap", or "native"
	Bypassed        bool              `yaml:"bypassed"`
	KnobAssignments [8]KnobAssignment `yaml:"knob_assignments"`
	AllParamValues  []float32         `yaml:"all_param_values"`
	DryWet          float32           `yaml:"dry_wet"`
}

// BandRecord is the persisted form of one fx.Band.
type BandRecord struct {
	Gain         float32        `yaml:"gain"`
	Muted        bool           `yaml:"mute"`
	Soloed       bool           `yaml:"solo"`
	Effects      []EffectRecord `yaml:"effects"`
	ChainDryWet  float32        `yaml:"chain_dry_wet"`
}

// StemPresetFile is the full persisted form of one fx.Host
// (spec.md §6's stem-preset YAML).
type StemPresetFile struct {
	Name           string         `yaml:"preset_name"`
	PreFX          []EffectRecord `yaml:"pre_fx"`
	CrossoverFreqs []float64      `yaml:"crossover_freqs"`
	Bands          []BandRecord   `yaml:"bands"`
	PostFX         []EffectRecord `yaml:"post_fx"`
	PreDryWet      float32        `yaml:"pre_dry_wet"`
	PostDryWet     float32        `yaml:"post_dry_wet"`
	GlobalDryWet   float32        `yaml:"global_dry_wet"`
}

// MacroDef is one of a deck preset's 4 macro knob definitions.
type MacroDef struct {
	Name  string  `yaml:"name"`
	Value float32 `yaml:"value"`
}

// DeckPresetFile is the persisted form of one deck's configuration
// (spec.md §6's deck-preset YAML): 4 macros and 4 stem-preset
// references by filename.
type DeckPresetFile struct {
	Name   string      `yaml:"preset_name"`
	Macros [4]MacroDef `yaml:"macros"`
	Stems  StemRefs    `yaml:"stems"`
}

// StemRefs names the four stem-preset files a deck preset loads.
type StemRefs struct {
	Vocals string `yaml:"vocals"`
	Drums  string `yaml:"drums"`
	Bass   string `yaml:"bass"`
	Other  string `yaml:"other"`
}

// NewEffectID generates a fresh effect-instance ID for a freshly
// created record, matching spec.md §6's per-effect `id` field.
func NewEffectID() string {
	return uuid.NewString()
}

// SaveStemPreset writes file to path as YAML.
func SaveStemPreset(path string, file StemPresetFile) error {
	return saveYAML(path, file)
}

// LoadStemPreset reads and parses a stem preset file.
func LoadStemPreset(path string) (StemPresetFile, error) {
	var file StemPresetFile
	if err := loadYAML(path, &file); err != nil {
		return StemPresetFile{}, err
	}
	return file, nil
}

// SaveDeckPreset writes file to path as YAML.
func SaveDeckPreset(path string, file DeckPresetFile) error {
	return saveYAML(path, file)
}

// LoadDeckPreset reads and parses a deck preset file.
func LoadDeckPreset(path string) (DeckPresetFile, error) {
	var file DeckPresetFile
	if err := loadYAML(path, &file); err != nil {
		return DeckPresetFile{}, err
	}
	return file, nil
}

func saveYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("preset: marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("preset: writing %s: %w", path, err)
	}
	return nil
}

func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("preset: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("preset: parsing %s: %w", path, err)
	}
	return nil
}

// categoryName translates fx.Category to the preset file's string
// field. Source (pd/clap/native) can't be recovered from fx.Category
// alone since embedded and plugin-standard effects both satisfy
// fx.Effect identically; sourceForCategory below makes a best-effort
// guess for a record built from a live host.
func categoryName(c fx.Category) string {
	return c.String()
}

func sourceForCategory(c fx.Category) string {
	if c == fx.CategoryPlugin {
		return "clap"
	}
	return "native"
}
