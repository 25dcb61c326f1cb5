// Package pkg provides the core libraries for building nanoprint print jobs.
//
// # Overview
//
// Nanoprint assembles two-photon lithography print jobs as a tree of nodes
// and packages them into .nano archives the printer software consumes. The
// pkg directory is organized into five main areas:
//
//  1. [job] - The node tree (projects, scenes, structures, aligners)
//  2. [preset] - Writing and hatching parameter sets, TOML backed
//  3. [resource] - Content-addressed payload files (meshes, marker images)
//  4. [archive] - The .nano archive writer and reader
//  5. [render/treeviz] - Graphviz diagrams of node trees
//
// # Architecture
//
// The typical data flow through nanoprint:
//
//	presets (TOML) + resources (STL, images)
//	         ↓
//	    [job] package (build and validate the node tree)
//	         ↓
//	    [archive] package (manifest + payloads → .nano zip)
//	         ↓
//	    printer software
//
// # Quick Start
//
// Build a minimal job and export it:
//
//	import (
//	    "github.com/fbeier/nanoprint/pkg/archive"
//	    "github.com/fbeier/nanoprint/pkg/job"
//	    "github.com/fbeier/nanoprint/pkg/preset"
//	    "github.com/fbeier/nanoprint/pkg/resource"
//	)
//
//	// 1. Load the exposure parameters and the mesh
//	wp := preset.New("25x_IP-n162")
//	mesh, _ := resource.NewMesh("part", "part.stl", resource.DefaultMeshOptions())
//
//	// 2. Assemble the tree
//	p, _ := job.NewProject("25x", "IP-n162", "FuSi")
//	p.LoadPresets(wp)
//	p.LoadResources(mesh)
//	scene, _ := job.NewScene("scene", nil, nil)
//	structure, _ := job.NewStructure("part", wp, mesh)
//	p.AddChild(scene)
//	scene.AddChild(structure)
//
//	// 3. Write the archive
//	archive.Write(p, "job.nano")
//
// # Main Packages
//
// [job] - The scene graph. Nodes carry identity, a transform and free-form
// properties; AddChild enforces the structural rules (terminal structures,
// root-only projects, unnested scenes, no cycles) and keeps the traversal
// caches fresh. Clone duplicates subtrees under fresh identities.
//
// [preset] - Exposure parameter sets with hardware whitelists. Presets load
// from and export to the printer's TOML format; unknown keys round-trip.
//
// [resource] - Mesh and image payloads, content addressed by the MD5 of
// their bytes so identical files share one archive entry. STL triangle
// counts are read from both the binary and the ASCII encoding.
//
// [archive] - Writes the .nano zip: __main__.toml manifest (presets,
// resources, nodes), project_info.json and the payload files, all stored
// uncompressed. The reader decodes manifests for inspection.
//
// [render/treeviz] - DOT generation and in-process Graphviz SVG rendering
// for live trees and decoded manifests.
//
// ## Infrastructure
//
// [buildinfo] - ldflags-injected version information.
//
// [cache] - File-backed byte cache keyed by content hash, used by the CLI
// to reuse rendered diagrams.
//
// [job]: https://pkg.go.dev/github.com/fbeier/nanoprint/pkg/job
// [preset]: https://pkg.go.dev/github.com/fbeier/nanoprint/pkg/preset
// [resource]: https://pkg.go.dev/github.com/fbeier/nanoprint/pkg/resource
// [archive]: https://pkg.go.dev/github.com/fbeier/nanoprint/pkg/archive
// [render/treeviz]: https://pkg.go.dev/github.com/fbeier/nanoprint/pkg/render/treeviz
// [buildinfo]: https://pkg.go.dev/github.com/fbeier/nanoprint/pkg/buildinfo
// [cache]: https://pkg.go.dev/github.com/fbeier/nanoprint/pkg/cache
package pkg
