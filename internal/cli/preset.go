package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbeier/nanoprint/pkg/preset"
)

// presetCommand creates the preset command group.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Validate, show, and scaffold preset files",
	}
	cmd.AddCommand(c.presetShowCommand())
	cmd.AddCommand(c.presetCheckCommand())
	cmd.AddCommand(c.presetNewCommand())
	return cmd
}

func (c *CLI) presetShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <preset.toml>",
		Short: "Print a preset file's parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := preset.LoadFile(args[0], false)
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(p.Name))
			printNewline()
			printKeyValue("objectives", strings.Join(p.Objectives, ", "))
			printKeyValue("resins", strings.Join(p.Resins, ", "))
			printKeyValue("substrates", strings.Join(p.Substrates, ", "))
			printKeyValue("speed", fmt.Sprintf("%g um/s", p.WritingSpeed))
			printKeyValue("power", fmt.Sprintf("%g mW", p.WritingPower))
			printKeyValue("slicing", fmt.Sprintf("%g um", p.SlicingSpacing))
			printKeyValue("hatching", fmt.Sprintf("%g um", p.HatchingSpacing))
			if p.GrayscaleMultilayerEnabled {
				printKeyValue("grayscale", fmt.Sprintf("%g layers, exponent %g",
					p.GrayscaleLayerProfileNrLayers, p.GrayscaleExponent))
			}
			if len(p.Extra) > 0 {
				printDetail("%d extra key(s) carried through", len(p.Extra))
			}
			return nil
		},
	}
}

func (c *CLI) presetCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <preset.toml|dir>...",
		Short: "Validate preset files against the hardware whitelists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checked, failed := 0, 0
			for _, path := range args {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					checked++
					presets, err := preset.LoadDir(path, true)
					if err != nil {
						printError("%s: %v", path, err)
						failed++
						continue
					}
					printSuccess("%s (%d preset(s))", path, len(presets))
					continue
				}
				checked++
				if _, err := preset.LoadFile(path, true); err != nil {
					printError("%s: %v", path, err)
					failed++
					continue
				}
				printSuccess("%s", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d preset(s) invalid", failed, checked)
			}
			return nil
		},
	}
}

func (c *CLI) presetNewCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Write a preset file with factory defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := preset.New(args[0])
			path := output
			if path == "" {
				path = p.Name + ".toml"
			}
			if err := p.Export(path); err != nil {
				return err
			}
			printSuccess("preset %q written", p.Name)
			printFile(path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.toml)")
	return cmd
}
