package job

import (
	"fmt"
	"os"
	"os/user"
	"slices"
	"time"

	"github.com/fbeier/nanoprint/pkg/preset"
	"github.com/fbeier/nanoprint/pkg/resource"
)

// Info is the metadata written to project_info.json inside the archive.
type Info struct {
	Author       string `json:"author"`
	Objective    string `json:"objective"`
	Resist       string `json:"resist"`
	Substrate    string `json:"substrate"`
	CreationDate string `json:"creation_date"`
}

// Project is the root of a print job. It is the only node kind that cannot
// be a child, and it owns the preset and resource pools the archive writer
// serializes alongside the node tree.
type Project struct {
	NodeBase

	objective string
	resin     string
	substrate string

	presets   []*preset.Preset
	resources []resource.Resource

	info Info
}

// NewProject builds a project root for the given hardware triple. Each
// value must come from the corresponding whitelist; "*" is the wildcard.
func NewProject(objective, resin, substrate string) (*Project, error) {
	if !slices.Contains(preset.ValidObjectives, objective) {
		return nil, fmt.Errorf("objective %q: must be one of %v", objective, preset.ValidObjectives)
	}
	if !slices.Contains(preset.ValidResins, resin) {
		return nil, fmt.Errorf("resin %q: must be one of %v", resin, preset.ValidResins)
	}
	if !slices.Contains(preset.ValidSubstrates, substrate) {
		return nil, fmt.Errorf("substrate %q: must be one of %v", substrate, preset.ValidSubstrates)
	}
	p := &Project{
		objective: objective,
		resin:     resin,
		substrate: substrate,
		info: Info{
			Author:       currentUser(),
			Objective:    objective,
			Resist:       resin,
			Substrate:    substrate,
			CreationDate: time.Now().Format("2006-01-02T15:04:05"),
		},
	}
	if err := p.init(KindProject, "Project", p, nil, nil); err != nil {
		return nil, err
	}
	return p, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// Objective returns the project's objective.
func (p *Project) Objective() string { return p.objective }

// Resin returns the project's resin.
func (p *Project) Resin() string { return p.resin }

// Substrate returns the project's substrate.
func (p *Project) Substrate() string { return p.substrate }

// Info returns the metadata serialized as project_info.json.
func (p *Project) Info() Info { return p.info }

// SetAuthor overrides the author recorded in the project info. The default
// is the current OS user.
func (p *Project) SetAuthor(author string) { p.info.Author = author }

// LoadPresets adds presets to the project pool. Each is validated before it
// is accepted; on error none of the remaining presets are added.
func (p *Project) LoadPresets(presets ...*preset.Preset) error {
	for _, pr := range presets {
		if pr == nil {
			return fmt.Errorf("load presets: nil preset")
		}
		if err := pr.Validate(); err != nil {
			return fmt.Errorf("load preset %q: %w", pr.Name, err)
		}
		p.presets = append(p.presets, pr)
	}
	return nil
}

// LoadResources adds resources to the project pool.
func (p *Project) LoadResources(resources ...resource.Resource) error {
	for _, r := range resources {
		if r == nil {
			return fmt.Errorf("load resources: nil resource")
		}
		p.resources = append(p.resources, r)
	}
	return nil
}

// AdoptReferences walks the tree below the project and loads every preset
// and resource its nodes reference into the pools. References already
// present (by id) are skipped, so the call is idempotent and safe to make
// right before export.
func (p *Project) AdoptReferences() error {
	havePreset := make(map[string]bool, len(p.presets))
	for _, pr := range p.presets {
		havePreset[pr.ID] = true
	}
	haveResource := make(map[string]bool, len(p.resources))
	for _, r := range p.resources {
		haveResource[r.ID()] = true
	}
	for _, n := range p.AllDescendants() {
		var (
			pr   *preset.Preset
			refs []resource.Resource
		)
		switch t := n.(type) {
		case *Structure:
			pr = t.Preset()
			if t.Mesh() != nil {
				refs = append(refs, t.Mesh())
			}
		case *Text:
			pr = t.Preset()
		case *Lens:
			pr = t.Preset()
		case *MarkerAligner:
			if t.Image() != nil {
				refs = append(refs, t.Image())
			}
		}
		if pr != nil && !havePreset[pr.ID] {
			if err := p.LoadPresets(pr); err != nil {
				return err
			}
			havePreset[pr.ID] = true
		}
		for _, r := range refs {
			if haveResource[r.ID()] {
				continue
			}
			if err := p.LoadResources(r); err != nil {
				return err
			}
			haveResource[r.ID()] = true
		}
	}
	return nil
}

// Presets returns the loaded presets in load order.
func (p *Project) Presets() []*preset.Preset { return p.presets }

// Resources returns the loaded resources in load order.
func (p *Project) Resources() []resource.Resource { return p.resources }

func (p *Project) Record() Record {
	rec := p.NodeBase.Record()
	rec["objective"] = p.objective
	rec["resin"] = p.resin
	rec["substrate"] = p.substrate
	return rec
}

// clone duplicates the project root, sharing the preset and resource pools.
func (p *Project) clone() Node {
	dup := &Project{
		objective: p.objective,
		resin:     p.resin,
		substrate: p.substrate,
		presets:   slices.Clone(p.presets),
		resources: slices.Clone(p.resources),
		info:      p.info,
	}
	p.cloneInto(&dup.NodeBase, dup)
	return dup
}
