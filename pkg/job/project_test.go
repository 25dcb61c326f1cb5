package job

import (
	"testing"

	"github.com/fbeier/nanoprint/pkg/preset"
)

func TestNewProjectValidatesHardware(t *testing.T) {
	tests := []struct {
		name      string
		objective string
		resin     string
		substrate string
		wantErr   bool
	}{
		{"known triple", "25x", "IP-n162", "FuSi", false},
		{"wildcards", "*", "*", "*", false},
		{"unknown objective", "100x", "IP-n162", "FuSi", true},
		{"unknown resin", "25x", "honey", "FuSi", true},
		{"unknown substrate", "25x", "IP-n162", "glass", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProject(tt.objective, tt.resin, tt.substrate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProject() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if p.Kind() != KindProject {
				t.Errorf("Kind() = %v, want %v", p.Kind(), KindProject)
			}
			info := p.Info()
			if info.Objective != tt.objective || info.Resist != tt.resin || info.Substrate != tt.substrate {
				t.Errorf("Info() = %+v, does not echo the hardware triple", info)
			}
			if info.Author == "" || info.CreationDate == "" {
				t.Errorf("Info() = %+v, missing author or creation date", info)
			}
		})
	}
}

func TestProjectSetAuthor(t *testing.T) {
	p := mustProject(t)
	p.SetAuthor("fbeier")
	if got := p.Info().Author; got != "fbeier" {
		t.Errorf("Author = %q, want %q", got, "fbeier")
	}
}

func TestLoadPresetsValidates(t *testing.T) {
	p := mustProject(t)

	bad := preset.New("bad")
	bad.WritingSpeed = 0
	if err := p.LoadPresets(bad); err == nil {
		t.Error("LoadPresets accepted an invalid preset")
	}
	if err := p.LoadPresets(nil); err == nil {
		t.Error("LoadPresets accepted a nil preset")
	}

	good := preset.New("good")
	if err := p.LoadPresets(good); err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(p.Presets()) != 1 {
		t.Errorf("Presets() = %d, want 1", len(p.Presets()))
	}
}

func TestAdoptReferences(t *testing.T) {
	p := mustProject(t)
	scene := mustScene(t, "scene")
	pr := preset.New("wp")
	mesh := testMesh(t)
	img := testImage(t)

	s, err := NewStructure("part", pr, mesh)
	if err != nil {
		t.Fatalf("NewStructure failed: %v", err)
	}
	m, err := NewMarkerAligner("markers", img, []float64{5, 5})
	if err != nil {
		t.Fatalf("NewMarkerAligner failed: %v", err)
	}
	if err := p.AddChild(scene); err != nil {
		t.Fatal(err)
	}
	if err := scene.AddChild(s, m); err != nil {
		t.Fatal(err)
	}

	if err := p.AdoptReferences(); err != nil {
		t.Fatalf("AdoptReferences failed: %v", err)
	}
	if len(p.Presets()) != 1 || p.Presets()[0].ID != pr.ID {
		t.Errorf("Presets() = %v, want the structure's preset", p.Presets())
	}
	if len(p.Resources()) != 2 {
		t.Fatalf("Resources() = %d, want 2", len(p.Resources()))
	}

	// A second pass finds nothing new.
	if err := p.AdoptReferences(); err != nil {
		t.Fatalf("AdoptReferences failed on repeat: %v", err)
	}
	if len(p.Presets()) != 1 || len(p.Resources()) != 2 {
		t.Errorf("repeat adoption grew the pools: %d presets, %d resources",
			len(p.Presets()), len(p.Resources()))
	}
}

func TestAdoptReferencesSkipsDetachedPools(t *testing.T) {
	p := mustProject(t)
	already := preset.New("loaded")
	if err := p.LoadPresets(already); err != nil {
		t.Fatal(err)
	}

	s, err := NewStructure("part", already, nil)
	if err != nil {
		t.Fatalf("NewStructure failed: %v", err)
	}
	scene := mustScene(t, "scene")
	if err := p.AddChild(scene); err != nil {
		t.Fatal(err)
	}
	if err := scene.AddChild(s); err != nil {
		t.Fatal(err)
	}

	if err := p.AdoptReferences(); err != nil {
		t.Fatalf("AdoptReferences failed: %v", err)
	}
	if len(p.Presets()) != 1 {
		t.Errorf("Presets() = %d, want 1 (no duplicate of a loaded preset)", len(p.Presets()))
	}
}

func TestProjectRecord(t *testing.T) {
	p := mustProject(t)
	rec := p.Record()
	if rec["objective"] != "25x" || rec["resin"] != "IP-n162" || rec["substrate"] != "FuSi" {
		t.Errorf("record = %v, missing the hardware triple", rec)
	}
	if rec["type"] != string(KindProject) {
		t.Errorf("record type = %v, want project", rec["type"])
	}
}
