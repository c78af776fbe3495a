package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sdkorder/pkg/errors"
	"github.com/matzehuels/sdkorder/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file; stdout when empty
	format   string // "dot" or "svg"; inferred from output when empty
	detailed bool   // add ids and object counts to node labels
	params   bool   // draw parameter-file requirements
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <manifest>",
		Short: "Render the package requirement graph as DOT or SVG",
		Long: `Render the package requirement graph as a node-link diagram.

Edges point from the requiring package to the required one: blue for the
structs header, red for the classes header and dotted grey for the
parameters header (with --params). SVG is rendered in-process, no Graphviz
install is needed.`,
		Example: `  sdkorder render sdk.json > graph.dot
  sdkorder render sdk.json --params -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveRenderFormat(opts.format, opts.output)
			if err != nil {
				return err
			}

			// The graph is always rebuilt; only reports are cached.
			runner := c.newRunner(true)
			defer runner.Close()
			flags := runFlags{detailed: opts.detailed}
			reg, err := runner.Build(cmd.Context(), flags.options(c, args[0]))
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			dot := nodelink.ToDOT(reg, nodelink.Options{
				Detailed: opts.detailed || c.Config.Detailed,
				Params:   opts.params,
			})
			data := []byte(dot)
			if format == formatSVG {
				if data, err = nodelink.RenderSVG(cmd.Context(), dot); err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			}
			prog.done("Rendered requirement graph", "packages", reg.Len(), "format", format)

			if opts.output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Rendered %d packages", reg.Len())
			printFile(w, opts.output)
			return nil
		},
	}
	cmd.ValidArgsFunction = completeManifest

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg (default from --output, else dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add package ids and object counts to labels")
	cmd.Flags().BoolVar(&opts.params, "params", false, "include parameter-file requirements")
	return cmd
}

// resolveRenderFormat picks the output format from the flag, falling back to
// the output file extension and finally to DOT.
func resolveRenderFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch format {
	case "", "gv", formatDOT:
		return formatDOT, nil
	case formatSVG:
		return formatSVG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported render format %q (use dot or svg)", format)
}
