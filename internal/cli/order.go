package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	sdio "github.com/matzehuels/sdkorder/pkg/io"
	"github.com/matzehuels/sdkorder/pkg/pipeline"
)

// formatText is the human-readable output of the report commands.
const formatText = "text"

// runFlags holds the flags shared by every command that runs the pipeline.
type runFlags struct {
	noCache     bool
	refresh     bool
	stopAtFirst bool
	detailed    bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the report cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute the report even when cached")
	cmd.Flags().BoolVar(&f.stopAtFirst, "stop-at-first", false, "stop cycle detection at the first cycle")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include intra-package orders")
}

func (f runFlags) options(c *CLI, manifest string) pipeline.Options {
	return pipeline.Options{
		Manifest:         manifest,
		StopAtFirstCycle: f.stopAtFirst,
		Detailed:         f.detailed || c.Config.Detailed,
		Refresh:          f.refresh,
		Logger:           c.Logger,
	}
}

// execute runs the pipeline for one manifest.
func (c *CLI) execute(ctx context.Context, manifest string, f runFlags) (*pipeline.Result, error) {
	runner := c.newRunner(f.noCache)
	defer runner.Close()
	return runner.Execute(ctx, f.options(c, manifest))
}

// =============================================================================
// order
// =============================================================================

func (c *CLI) orderCommand() *cobra.Command {
	var (
		flags  runFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "order <manifest>",
		Short: "Print the emission order of package headers",
		Long: `Print the order in which structs and classes headers must be emitted.

Each package appears twice: once for its structs header and once for its
classes header. A row without a file means the package has nothing of that
kind but still holds its place in the order.

With --output the full report is written to a file whose extension picks the
format (.json, .toml, .yaml).`,
		Example: `  sdkorder order sdk.json
  sdkorder order sdk.yaml --format json
  sdkorder order sdk.json --detailed -o report.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.execute(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if output != "" {
				if err := sdio.Export(output, res.Report); err != nil {
					return err
				}
				printSuccess(w, "Wrote report")
				printFile(w, output)
				return nil
			}
			if format != formatText {
				f, err := sdio.ParseFormat(format)
				if err != nil {
					return err
				}
				return sdio.Write(w, f, res.Report)
			}

			printOrder(w, res.Report)
			printCycles(w, res.Report.Cycles)
			printStats(w, res.Report.Stats, res.CacheHit)
			return nil
		},
	}
	cmd.ValidArgsFunction = completeManifest

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, toml, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file")
	return cmd
}

func printOrder(w io.Writer, rep *pipeline.Report) {
	rows := make([][]string, len(rep.Steps))
	for i, s := range rep.Steps {
		file := s.File
		if file == "" {
			file = "—"
		}
		rows[i] = []string{strconv.Itoa(i + 1), s.Package, s.Kind, file}
	}

	t := newTable([]string{"#", "Package", "Kind", "File"}, rows, func(row, col int) lipgloss.Style {
		switch {
		case rep.Steps[row].File == "":
			return StyleDim
		case col == 3:
			return styleFile
		case col == 0:
			return StyleDim
		}
		return StyleValue
	})
	fmt.Fprintln(w, t.Render())
}

func printCycles(w io.Writer, cycles []pipeline.Cycle) {
	for _, cy := range cycles {
		printWarning(w, "cycle: %s", cy)
	}
}

// =============================================================================
// cycles
// =============================================================================

// errCyclesFound is returned by "cycles --strict" so scripts can fail on it.
type errCyclesFound int

func (e errCyclesFound) Error() string {
	return fmt.Sprintf("found %d requirement cycle(s)", int(e))
}

func (c *CLI) cyclesCommand() *cobra.Command {
	var (
		flags  runFlags
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "cycles <manifest>",
		Short: "Report requirement cycles between packages",
		Long: `Report every requirement edge that leads back to a package on the current
path, as a closed chain (A -> B -> C -> A). Cycles do not stop the order
from being computed, but the generated headers will not compile until they
are broken.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.execute(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			cycles := res.Report.Cycles
			if len(cycles) == 0 {
				printSuccess(w, "No requirement cycles")
				return nil
			}
			printCycles(w, cycles)
			if strict {
				return errCyclesFound(len(cycles))
			}
			return nil
		},
	}
	cmd.ValidArgsFunction = completeManifest

	flags.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when cycles are found")
	return cmd
}

// =============================================================================
// names
// =============================================================================

func (c *CLI) namesCommand() *cobra.Command {
	var (
		flags          runFlags
		collisionsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "names <manifest>",
		Short: "List package names and their collision-free file names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.execute(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			shared := make(map[string]bool, len(res.Report.Collisions))
			for _, col := range res.Report.Collisions {
				shared[col.Name] = true
			}

			var rows [][]string
			for _, p := range res.Report.Packages {
				if collisionsOnly && !shared[p.Name] {
					continue
				}
				rows = append(rows, []string{strconv.Itoa(int(p.ID)), p.Name, p.UniqueName})
			}
			if len(rows) == 0 {
				printInfo(w, "No name collisions")
				return nil
			}

			t := newTable([]string{"ID", "Name", "Unique name"}, rows, func(row, col int) lipgloss.Style {
				if col == 2 && rows[row][1] != rows[row][2] {
					return StyleWarning
				}
				return StyleValue
			})
			fmt.Fprintln(w, t.Render())
			for _, col := range res.Report.Collisions {
				printDetail(w, "%s is shared by %d packages", col.Name, col.Count)
			}
			return nil
		},
	}
	cmd.ValidArgsFunction = completeManifest

	flags.register(cmd)
	cmd.Flags().BoolVar(&collisionsOnly, "collisions", false, "only list packages whose name is shared")
	return cmd
}
