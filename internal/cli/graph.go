package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fbeier/nanoprint/pkg/archive"
	"github.com/fbeier/nanoprint/pkg/cache"
	"github.com/fbeier/nanoprint/pkg/render/treeviz"
)

// renderCacheTTL bounds how long cached SVG renders are reused.
const renderCacheTTL = 30 * 24 * time.Hour

// graphCommand creates the graph command for rendering an archive's node
// tree as an SVG diagram.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		showIDs bool
		dotOnly bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "graph <job.nano>",
		Short: "Render a .nano archive's node tree as an SVG diagram",
		Long: `Render a .nano archive's node tree as an SVG diagram.

The graph command decodes the archive manifest and renders the node tree
with Graphviz. Rendering happens in-process; no graphviz installation is
required. Use --dot to emit the intermediate DOT text instead.

Renders are cached under the user cache directory keyed by the DOT text,
so re-rendering an unchanged archive is instant. --no-cache bypasses it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], output, showIDs, dotOnly, noCache)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <job>.svg)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show node ids in labels")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "emit DOT instead of SVG")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always re-render, skip the render cache")
	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input, output string, showIDs, dotOnly, noCache bool) error {
	contents, err := archive.Read(input)
	if err != nil {
		return err
	}
	dot := treeviz.ToDOTManifest(contents.Nodes, treeviz.Options{ShowIDs: showIDs})

	if dotOnly {
		fmt.Print(dot)
		return nil
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".nano") + ".svg"
	}

	renders := c.renderCache(noCache)
	defer renders.Close()
	key := "render:" + cache.Hash([]byte(dot))

	if svg, ok, err := renders.Get(cmd.Context(), key); err == nil && ok {
		c.Logger.Debug("render cache hit", "key", key)
		if err := os.WriteFile(output, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printFile(output)
		return nil
	}

	p := newProgress(c.Logger)
	spinner := newSpinnerWithContext(cmd.Context(), "Rendering node tree...")
	spinner.Start()

	svg, err := treeviz.RenderSVG(cmd.Context(), dot)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("graph: %w", err)
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return cmd.Context().Err()
	}

	if err := renders.Set(cmd.Context(), key, svg, renderCacheTTL); err != nil {
		c.Logger.Debug("render cache write failed", "err", err)
	}

	if err := os.WriteFile(output, svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	p.done(fmt.Sprintf("Rendered %d nodes", len(contents.Nodes)))
	printFile(output)
	return nil
}

// renderCache picks the SVG render cache. Failures to set up the on-disk
// cache quietly degrade to no caching.
func (c *CLI) renderCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(filepath.Join(base, appName, "render"))
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}
