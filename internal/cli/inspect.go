package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbeier/nanoprint/pkg/archive"
)

// inspectCommand creates the inspect command for summarizing archives.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <job.nano>",
		Short: "Summarize a .nano archive's manifest and payloads",
		Long: `Summarize a .nano archive's manifest and payloads.

The inspect command opens the archive, decodes __main__.toml and
project_info.json, and reports the project metadata, the preset, resource
and node counts, and any resource whose payload entry is missing from the
archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0])
		},
	}
}

func (c *CLI) runInspect(path string) error {
	contents, err := archive.Read(path)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(path))
	printNewline()
	printKeyValue("author", contents.Info.Author)
	printKeyValue("objective", contents.Info.Objective)
	printKeyValue("resist", contents.Info.Resist)
	printKeyValue("substrate", contents.Info.Substrate)
	printKeyValue("created", contents.Info.CreationDate)
	printNewline()
	printKeyValue("presets", fmt.Sprintf("%d", len(contents.Presets)))
	printKeyValue("resources", fmt.Sprintf("%d", len(contents.Resources)))
	printKeyValue("nodes", fmt.Sprintf("%d", len(contents.Nodes)))
	printKeyValue("payloads", fmt.Sprintf("%d", len(contents.Payloads)))

	missing := contents.MissingPayloads()
	if len(missing) == 0 {
		printNewline()
		printSuccess("all resource payloads present")
		return nil
	}
	printNewline()
	for _, m := range missing {
		printWarning("missing payload: %s", m)
	}
	return fmt.Errorf("%d resource payload(s) missing", len(missing))
}
