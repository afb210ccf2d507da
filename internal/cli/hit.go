package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/funnel/hit"
	"github.com/matzehuels/funnel/pkg/io"
	"github.com/matzehuels/funnel/pkg/pipeline"
)

type hitOpts struct {
	width  float64
	height float64
	x, y   float64
}

// hitCommand lays a document out and reports the primitives under a point.
func (c *CLI) hitCommand() *cobra.Command {
	opts := hitOpts{width: pipeline.DefaultWidth, height: pipeline.DefaultHeight}

	cmd := &cobra.Command{
		Use:     "hit [file]",
		Short:   "List the funnel shapes under a point",
		Example: `  funnel hit sales.json --x 400 --y 120`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := io.Import(args[0])
			if err != nil {
				return err
			}
			chart, err := funnel.New(doc.Config, doc.Segments, opts.width, opts.height,
				funnel.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			items := chart.HandleEvent(hit.Event{Kind: hit.Click, X: opts.x, Y: opts.y})
			if len(items) == 0 {
				printInfo("Nothing at (%g, %g)", opts.x, opts.y)
				return nil
			}
			fmt.Println(renderHitTable(items))
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.width, "width", opts.width, "container width")
	f.Float64Var(&opts.height, "height", opts.height, "container height")
	f.Float64Var(&opts.x, "x", 0, "x coordinate")
	f.Float64Var(&opts.y, "y", 0, "y coordinate")
	return cmd
}

// renderHitTable formats hit items as a bordered table.
func renderHitTable(items []hit.Item) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		label := it.Label
		if label == "" {
			label = "-"
		}
		rows = append(rows, []string{
			label,
			strconv.FormatFloat(it.Value, 'g', -1, 64),
			fmt.Sprintf("%.1f, %.1f", it.Anchor.X, it.Anchor.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Label", "Value", "Anchor").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 1:
				return StyleNumber.Padding(0, 1)
			default:
				return StyleValue.Padding(0, 1)
			}
		})
	return t.Render()
}
