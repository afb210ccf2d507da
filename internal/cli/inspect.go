package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/io"
)

type inspectOpts struct {
	print bool
	plain bool
	cols  int
	rows  int
}

// inspectCommand previews a chart in the terminal.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{cols: 80, rows: 20}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Preview a funnel chart in the terminal",
		Long: `Inspect draws the chart with terminal cells and lets you move a cursor over
it to see which segments and sections are hit. With --print the chart is
written once to stdout instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := io.Import(args[0])
			if err != nil {
				return err
			}
			chart, err := funnel.New(doc.Config, doc.Segments,
				float64(opts.cols), float64(opts.rows)*cellAspect, funnel.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			m := NewInspectModel(chart, filepath.Base(args[0]), opts.cols, opts.rows)

			if opts.print {
				canvas := m.Canvas()
				if opts.plain {
					fmt.Fprintln(cmd.OutOrStdout(), canvas.Plain())
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), canvas.String())
				}
				return nil
			}

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.print, "print", false, "print the chart once and exit")
	f.BoolVar(&opts.plain, "plain", false, "with --print, omit colours")
	f.IntVar(&opts.cols, "cols", opts.cols, "initial width in cells")
	f.IntVar(&opts.rows, "rows", opts.rows, "initial height in cells")
	return cmd
}
