// Package archive writes and reads .nano print job archives. A .nano file
// is a plain zip holding a TOML manifest (__main__.toml), the project
// metadata (project_info.json) and the content-addressed resource payloads.
// Entries are stored uncompressed so the printer can memory-map them.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/fbeier/nanoprint/pkg/job"
)

// logger emits the writer's non-fatal warnings (missing resource files).
var logger = log.Default()

// SetLogger redirects the package's warning output.
func SetLogger(l *log.Logger) { logger = l }

// manifest is the top-level layout of __main__.toml. Field order is the
// serialization order, so presets always precede resources and nodes.
type manifest struct {
	Presets   []map[string]any `toml:"presets"`
	Resources []map[string]any `toml:"resources"`
	Nodes     []map[string]any `toml:"nodes"`
}

// Write serializes the project rooted at p into a .nano archive at path.
// The node list is the project followed by its descendants in depth-first
// pre-order. Two writes of an unchanged project produce byte-identical
// manifests.
//
// The archive is assembled in a temporary file next to the target and
// renamed into place, so a failed write never leaves a truncated .nano
// behind. Resource files that have disappeared since loading are skipped
// with a warning; the manifest still references them.
func Write(p *job.Project, path string) error {
	if p == nil {
		return fmt.Errorf("write archive: nil project")
	}
	if !strings.HasSuffix(path, ".nano") {
		path += ".nano"
	}

	manifestData, err := encodeManifest(p)
	if err != nil {
		return err
	}
	infoData, err := json.MarshalIndent(p.Info(), "", "    ")
	if err != nil {
		return fmt.Errorf("encode project info: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".nano-*")
	if err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeZip(tmp, p, manifestData, infoData); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

func encodeManifest(p *job.Project) ([]byte, error) {
	m := manifest{
		Presets:   make([]map[string]any, 0, len(p.Presets())),
		Resources: make([]map[string]any, 0, len(p.Resources())),
		Nodes:     make([]map[string]any, 0, 1+len(p.AllDescendants())),
	}
	for _, pr := range p.Presets() {
		m.Presets = append(m.Presets, pr.Record())
	}
	for _, r := range p.Resources() {
		m.Resources = append(m.Resources, r.Record())
	}
	m.Nodes = append(m.Nodes, toPlainMap(p.Record()))
	for _, n := range p.AllDescendants() {
		m.Nodes = append(m.Nodes, toPlainMap(n.Record()))
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// toPlainMap rewrites nested job.Record values as plain maps so the TOML
// encoder treats every level uniformly.
func toPlainMap(r job.Record) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case job.Record:
		return toPlainMap(t)
	case []job.Record:
		out := make([]map[string]any, len(t))
		for i, r := range t {
			out[i] = toPlainMap(r)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

func writeZip(w io.Writer, p *job.Project, manifestData, infoData []byte) error {
	zw := zip.NewWriter(w)

	if err := storeEntry(zw, "__main__.toml", manifestData); err != nil {
		return err
	}
	if err := storeEntry(zw, "project_info.json", infoData); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, r := range p.Resources() {
		if seen[r.ArchivePath()] {
			continue
		}
		data, err := os.ReadFile(r.SourcePath())
		if err != nil {
			logger.Warn("resource file missing, skipping payload",
				"resource", r.Name(), "path", r.SourcePath())
			continue
		}
		if err := storeEntry(zw, r.ArchivePath(), data); err != nil {
			return err
		}
		seen[r.ArchivePath()] = true
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

// storeEntry adds one uncompressed entry to the zip.
func storeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Store,
	})
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	return nil
}
