package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/failures"
	sbio "github.com/matzehuels/sunburst/pkg/io"
)

// reportCommand creates the report command. It checks a failure report and
// prints it back in canonical form: jobs in document order, missing counts
// as 0, empty suite lists omitted.
func (c *CLI) reportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report [file|url|-]",
		Short: "Validate a failure report and print it in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			tree, err := c.readReport(cmd, args[0])
			if err != nil {
				return err
			}
			root, err := failures.Normalize(tree)
			if err != nil {
				return err
			}
			logger.Info("report is valid",
				"source", displaySource(args[0]),
				"jobs", tree.Len(),
				"nodes", root.Count(),
				"failures", root.Aggregate())

			if output == "" {
				return sbio.WriteJSON(tree, cmd.OutOrStdout())
			}
			if err := sbio.ExportJSON(tree, output); err != nil {
				return err
			}
			logger.Info("wrote report", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

// readReport decodes a local file directly and fetches everything else
// without touching the cache.
func (c *CLI) readReport(cmd *cobra.Command, source string) (failures.Tree, error) {
	if source != sbio.Stdin && !sbio.IsURL(source) {
		return sbio.ImportJSON(source)
	}
	fetcher := &sbio.Fetcher{Client: sbio.NewHTTPClient(), Stdin: cmd.InOrStdin()}
	data, err := fetcher.Fetch(cmd.Context(), source, true)
	if err != nil {
		return failures.Tree{}, err
	}
	return sbio.ReadJSON(bytes.NewReader(data))
}
