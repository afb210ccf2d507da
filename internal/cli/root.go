package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Funnel lays out and renders funnel charts",
		Long:         `Funnel turns staged values (visits, carts, orders...) into funnel charts. It renders SVG, PNG and JSON layouts, answers hit-test queries, previews charts in the terminal and serves them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.hitCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
