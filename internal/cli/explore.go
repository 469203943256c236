package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	sbio "github.com/matzehuels/sunburst/pkg/io"
)

// exploreCommand creates the explore command, a terminal browser over the
// chart's segments.
func (c *CLI) exploreCommand() *cobra.Command {
	var chart chartFlags

	cmd := &cobra.Command{
		Use:   "explore [file|url|-]",
		Short: "Browse a failure report's segments in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.config()
			if err != nil {
				return err
			}
			runner, fetcher, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := fetcher.Fetch(ctx, args[0], false)
			if err != nil {
				return err
			}
			opts := chart.options(cmd, cfg)
			opts.Source = args[0]
			opts.Report = data
			opts.Logger = logger

			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}
			if result.Chart.Empty() {
				printWarning("No failures in %s", displaySource(args[0]))
				return nil
			}

			progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
			if args[0] == sbio.Stdin {
				progOpts = append(progOpts, tea.WithInputTTY())
			}
			model := newExploreModel(result.Chart, displaySource(args[0]))
			_, err = tea.NewProgram(model, progOpts...).Run()
			return err
		},
	}

	chart.register(cmd)
	return cmd
}
