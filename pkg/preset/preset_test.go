package preset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultsAreValid(t *testing.T) {
	p := New("wp")
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() on factory defaults failed: %v", err)
	}
	if p.ID == "" {
		t.Error("New() left the id empty")
	}
	if p.WritingSpeed != 250000 || p.WritingPower != 50 {
		t.Errorf("defaults = %v/%v, want 250000/50", p.WritingSpeed, p.WritingPower)
	}
	if !p.HatchingBackNForth {
		t.Error("hatching_back_n_forth defaults to false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Preset)
	}{
		{"empty name", func(p *Preset) { p.Name = " " }},
		{"unknown objective", func(p *Preset) { p.Objectives = []string{"100x"} }},
		{"unknown resin", func(p *Preset) { p.Resins = []string{"honey"} }},
		{"unknown substrate", func(p *Preset) { p.Substrates = []string{"glass"} }},
		{"zero writing speed", func(p *Preset) { p.WritingSpeed = 0 }},
		{"negative writing power", func(p *Preset) { p.WritingPower = -1 }},
		{"zero slicing spacing", func(p *Preset) { p.SlicingSpacing = 0 }},
		{"zero hatching spacing", func(p *Preset) { p.HatchingSpacing = 0 }},
		{"zero grayscale exponent", func(p *Preset) { p.GrayscaleExponent = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("wp")
			tt.mutate(p)
			if err := p.Validate(); err == nil {
				t.Error("Validate() accepted an invalid preset")
			}
		})
	}
}

func TestSetGrayscaleMultilayer(t *testing.T) {
	p := New("wp")
	if err := p.SetGrayscaleMultilayer(6, 0, 0); err == nil {
		t.Error("SetGrayscaleMultilayer accepted a zero exponent")
	}
	if err := p.SetGrayscaleMultilayer(8, 0.1, 1.5); err != nil {
		t.Fatalf("SetGrayscaleMultilayer failed: %v", err)
	}
	if !p.GrayscaleMultilayerEnabled {
		t.Error("grayscale multilayer not enabled")
	}
	if p.GrayscaleLayerProfileNrLayers != 8 || p.GrayscaleExponent != 1.5 {
		t.Errorf("layer profile = %v/%v, want 8/1.5", p.GrayscaleLayerProfileNrLayers, p.GrayscaleExponent)
	}
}

func TestDuplicate(t *testing.T) {
	p := New("wp")
	p.Extra = map[string]any{"galvo_acceleration": 1.5}

	dup := p.Duplicate()
	if dup.ID == p.ID {
		t.Error("duplicate reuses the id")
	}
	if dup.Name != p.Name || dup.WritingSpeed != p.WritingSpeed {
		t.Error("duplicate lost scalar fields")
	}

	dup.Objectives[0] = "63x"
	if p.Objectives[0] != "25x" {
		t.Error("duplicate shares the objectives slice")
	}
	dup.Extra["galvo_acceleration"] = 99.0
	if p.Extra["galvo_acceleration"] != 1.5 {
		t.Error("duplicate shares the extra map")
	}
}

func TestExportLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := New("round trip")
	p.WritingSpeed = 120000
	p.HatchingAngle = 45
	p.Extra = map[string]any{"galvo_acceleration": 1.5}

	path := filepath.Join(dir, "wp")
	if err := p.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	loaded, err := LoadFile(path+".toml", false)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.ID != p.ID {
		t.Errorf("id = %q, want %q (freshID=false keeps the file id)", loaded.ID, p.ID)
	}
	if loaded.Name != "round trip" {
		t.Errorf("name = %q, want %q", loaded.Name, "round trip")
	}
	if loaded.WritingSpeed != 120000 || loaded.HatchingAngle != 45 {
		t.Errorf("loaded = %v/%v, want 120000/45", loaded.WritingSpeed, loaded.HatchingAngle)
	}
	if got := loaded.Extra["galvo_acceleration"]; got != 1.5 {
		t.Errorf("extra galvo_acceleration = %v, want 1.5", got)
	}
}

func TestLoadFileFreshID(t *testing.T) {
	dir := t.TempDir()
	p := New("wp")
	path := filepath.Join(dir, "wp.toml")
	if err := p.Export(path); err != nil {
		t.Fatal(err)
	}

	a, err := LoadFile(path, true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadFile(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == p.ID || a.ID == b.ID {
		t.Errorf("freshID produced ids %q and %q from file id %q, want three distinct", a.ID, b.ID, p.ID)
	}
}

func TestLoadFileNameFallsBackToStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fast_25x.toml")
	content := "writing_speed = 100000.0\nwriting_power = 40.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path, true)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if p.Name != "fast_25x" {
		t.Errorf("name = %q, want the file stem", p.Name)
	}
	if p.WritingSpeed != 100000 {
		t.Errorf("writing_speed = %v, want 100000", p.WritingSpeed)
	}
	// Unset keys keep the factory defaults.
	if p.SlicingSpacing != 0.8 {
		t.Errorf("slicing_spacing = %v, want the 0.8 default", p.SlicingSpacing)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	content := "valid_resins = [\"honey\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path, true); err == nil || !strings.Contains(err.Error(), "resin") {
		t.Errorf("LoadFile error = %v, want a resin whitelist violation", err)
	}
}

func TestLoadDirOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.toml", "a.toml", "ignored.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("writing_power = 30.0\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	presets, err := LoadDir(dir, true)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("LoadDir loaded %d presets, want 2", len(presets))
	}
	if presets[0].Name != "a" || presets[1].Name != "b" {
		t.Errorf("LoadDir order = %q, %q, want a then b", presets[0].Name, presets[1].Name)
	}
}
