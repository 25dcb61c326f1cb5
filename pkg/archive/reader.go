package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/fbeier/nanoprint/pkg/job"
)

// Contents is the decoded view of a .nano archive: the manifest records,
// the project metadata and the payload entry names.
type Contents struct {
	Presets   []map[string]any
	Resources []map[string]any
	Nodes     []map[string]any

	Info job.Info

	// Payloads lists the resource entries present in the archive, in
	// archive order.
	Payloads []string
}

// Read opens a .nano archive and decodes its manifest and project info.
// Payload bytes are not extracted; Payloads only records which entries
// exist, which is enough to check a manifest's references.
func Read(path string) (*Contents, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	var c Contents
	var sawManifest, sawInfo bool
	for _, f := range zr.File {
		switch f.Name {
		case "__main__.toml":
			var m manifest
			if err := decodeEntry(f, func(data []byte) error {
				return toml.Unmarshal(data, &m)
			}); err != nil {
				return nil, fmt.Errorf("decode manifest: %w", err)
			}
			c.Presets, c.Resources, c.Nodes = m.Presets, m.Resources, m.Nodes
			sawManifest = true
		case "project_info.json":
			if err := decodeEntry(f, func(data []byte) error {
				return json.Unmarshal(data, &c.Info)
			}); err != nil {
				return nil, fmt.Errorf("decode project info: %w", err)
			}
			sawInfo = true
		default:
			c.Payloads = append(c.Payloads, f.Name)
		}
	}
	if !sawManifest {
		return nil, fmt.Errorf("archive %s: no __main__.toml", path)
	}
	if !sawInfo {
		return nil, fmt.Errorf("archive %s: no project_info.json", path)
	}
	return &c, nil
}

func decodeEntry(f *zip.File, decode func([]byte) error) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return decode(data)
}

// Node returns the manifest record with the given id, or nil.
func (c *Contents) Node(id string) map[string]any {
	for _, n := range c.Nodes {
		if n["id"] == id {
			return n
		}
	}
	return nil
}

// MissingPayloads lists manifest resources whose payload entry is absent
// from the archive.
func (c *Contents) MissingPayloads() []string {
	present := make(map[string]bool, len(c.Payloads))
	for _, p := range c.Payloads {
		present[p] = true
	}
	var missing []string
	for _, r := range c.Resources {
		if path, ok := r["path"].(string); ok && !present[path] {
			missing = append(missing, path)
		}
	}
	return missing
}
