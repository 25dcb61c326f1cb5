// Package preset models the writing and hatching parameter sets a print job
// references. Presets load from and export to TOML files compatible with the
// printer software.
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Hardware whitelists. A preset may only claim compatibility with entries
// from these sets; "*" claims all of them.
var (
	ValidObjectives = []string{"25x", "63x", "*"}
	ValidResins     = []string{
		"IP-PDMS", "IPX-S", "IP-L", "IP-n162", "IP-Dip2",
		"IP-Dip", "IP-S", "IP-Visio", "*",
	}
	ValidSubstrates = []string{"*", "FuSi", "Si"}
)

// Preset is one named set of exposure parameters. Fields map 1:1 onto the
// keys of the printer's preset TOML format.
type Preset struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`

	Objectives []string `toml:"valid_objectives"`
	Resins     []string `toml:"valid_resins"`
	Substrates []string `toml:"valid_substrates"`

	WritingSpeed float64 `toml:"writing_speed"`
	WritingPower float64 `toml:"writing_power"`

	SlicingSpacing          float64 `toml:"slicing_spacing"`
	HatchingSpacing         float64 `toml:"hatching_spacing"`
	HatchingAngle           float64 `toml:"hatching_angle"`
	HatchingAngleIncrement  float64 `toml:"hatching_angle_increment"`
	HatchingOffset          float64 `toml:"hatching_offset"`
	HatchingOffsetIncrement float64 `toml:"hatching_offset_increment"`
	HatchingBackNForth      bool    `toml:"hatching_back_n_forth"`

	MeshZOffset float64 `toml:"mesh_z_offset"`

	GrayscaleMultilayerEnabled    bool    `toml:"grayscale_multilayer_enabled"`
	GrayscaleLayerProfileNrLayers float64 `toml:"grayscale_layer_profile_nr_layers"`
	GrayscaleWritingPowerMinimum  float64 `toml:"grayscale_writing_power_minimum"`
	GrayscaleExponent             float64 `toml:"grayscale_exponent"`

	// Extra carries keys found in a loaded file that are not part of the
	// schema. They round-trip through Record and Export untouched.
	Extra map[string]any `toml:"-"`
}

// New builds a preset with the 25x / IP-n162 factory defaults and a fresh
// identity.
func New(name string) *Preset {
	return &Preset{
		ID:                            uuid.NewString(),
		Name:                          name,
		Objectives:                    []string{"25x"},
		Resins:                        []string{"IP-n162"},
		Substrates:                    []string{"*"},
		WritingSpeed:                  250000,
		WritingPower:                  50,
		SlicingSpacing:                0.8,
		HatchingSpacing:               0.3,
		HatchingBackNForth:            true,
		GrayscaleLayerProfileNrLayers: 6,
		GrayscaleExponent:             1,
	}
}

// Validate checks the whitelists and numeric ranges. It returns the first
// violation found.
func (p *Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name must not be empty")
	}
	if err := subset(p.Objectives, ValidObjectives, "objective"); err != nil {
		return err
	}
	if err := subset(p.Resins, ValidResins, "resin"); err != nil {
		return err
	}
	if err := subset(p.Substrates, ValidSubstrates, "substrate"); err != nil {
		return err
	}
	switch {
	case p.WritingSpeed <= 0:
		return fmt.Errorf("writing speed %v: must be positive", p.WritingSpeed)
	case p.WritingPower < 0:
		return fmt.Errorf("writing power %v: must not be negative", p.WritingPower)
	case p.SlicingSpacing <= 0:
		return fmt.Errorf("slicing spacing %v: must be positive", p.SlicingSpacing)
	case p.HatchingSpacing <= 0:
		return fmt.Errorf("hatching spacing %v: must be positive", p.HatchingSpacing)
	case p.GrayscaleLayerProfileNrLayers < 0:
		return fmt.Errorf("grayscale layer count %v: must not be negative", p.GrayscaleLayerProfileNrLayers)
	case p.GrayscaleWritingPowerMinimum < 0:
		return fmt.Errorf("grayscale power minimum %v: must not be negative", p.GrayscaleWritingPowerMinimum)
	case p.GrayscaleExponent <= 0:
		return fmt.Errorf("grayscale exponent %v: must be positive", p.GrayscaleExponent)
	}
	return nil
}

func subset(have, allowed []string, what string) error {
	for _, h := range have {
		found := false
		for _, a := range allowed {
			if h == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s %q: must be one of %v", what, h, allowed)
		}
	}
	return nil
}

// SetGrayscaleMultilayer enables grayscale multilayer writing with the
// given layer profile.
func (p *Preset) SetGrayscaleMultilayer(nrLayers, powerMinimum, exponent float64) error {
	if nrLayers < 0 {
		return fmt.Errorf("grayscale layer count %v: must not be negative", nrLayers)
	}
	if powerMinimum < 0 {
		return fmt.Errorf("grayscale power minimum %v: must not be negative", powerMinimum)
	}
	if exponent <= 0 {
		return fmt.Errorf("grayscale exponent %v: must be positive", exponent)
	}
	p.GrayscaleMultilayerEnabled = true
	p.GrayscaleLayerProfileNrLayers = nrLayers
	p.GrayscaleWritingPowerMinimum = powerMinimum
	p.GrayscaleExponent = exponent
	return nil
}

// Duplicate copies the preset under a fresh identity so both can be loaded
// into the same project.
func (p *Preset) Duplicate() *Preset {
	dup := *p
	dup.ID = uuid.NewString()
	dup.Objectives = append([]string(nil), p.Objectives...)
	dup.Resins = append([]string(nil), p.Resins...)
	dup.Substrates = append([]string(nil), p.Substrates...)
	dup.Extra = make(map[string]any, len(p.Extra))
	for k, v := range p.Extra {
		dup.Extra[k] = v
	}
	return &dup
}

// Record flattens the preset into the manifest representation: the schema
// keys plus any extra keys carried over from a loaded file.
func (p *Preset) Record() map[string]any {
	rec := map[string]any{
		"id":                                p.ID,
		"name":                              p.Name,
		"valid_objectives":                  p.Objectives,
		"valid_resins":                      p.Resins,
		"valid_substrates":                  p.Substrates,
		"writing_speed":                     p.WritingSpeed,
		"writing_power":                     p.WritingPower,
		"slicing_spacing":                   p.SlicingSpacing,
		"hatching_spacing":                  p.HatchingSpacing,
		"hatching_angle":                    p.HatchingAngle,
		"hatching_angle_increment":          p.HatchingAngleIncrement,
		"hatching_offset":                   p.HatchingOffset,
		"hatching_offset_increment":         p.HatchingOffsetIncrement,
		"hatching_back_n_forth":             p.HatchingBackNForth,
		"mesh_z_offset":                     p.MeshZOffset,
		"grayscale_multilayer_enabled":      p.GrayscaleMultilayerEnabled,
		"grayscale_layer_profile_nr_layers": p.GrayscaleLayerProfileNrLayers,
		"grayscale_writing_power_minimum":   p.GrayscaleWritingPowerMinimum,
		"grayscale_exponent":                p.GrayscaleExponent,
	}
	for k, v := range p.Extra {
		rec[k] = v
	}
	return rec
}

// LoadFile reads a preset from a TOML file. When the file has no name key
// the file stem becomes the name. freshID discards the file's id, if any,
// in favor of a new one; loading the same file twice with freshID yields
// two independent presets.
func LoadFile(path string, freshID bool) (*Preset, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load preset %s: %w", path, err)
	}

	p := New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	md, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, fmt.Errorf("load preset %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		k := key.String()
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = raw[k]
	}
	if _, named := raw["name"]; !named {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if freshID || p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("load preset %s: %w", path, err)
	}
	return p, nil
}

// LoadDir loads every .toml file in dir, in lexical filename order.
func LoadDir(dir string, freshID bool) ([]*Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	presets := make([]*Preset, 0, len(names))
	for _, n := range names {
		p, err := LoadFile(filepath.Join(dir, n), freshID)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// Export writes the preset as a TOML file loadable by the printer software
// and by LoadFile. An empty path defaults to "<name>.toml" in the working
// directory.
func (p *Preset) Export(path string) error {
	if path == "" {
		path = p.Name + ".toml"
	} else if !strings.HasSuffix(path, ".toml") {
		path += ".toml"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export preset: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(p.Record()); err != nil {
		f.Close()
		return fmt.Errorf("export preset %s: %w", path, err)
	}
	return f.Close()
}
