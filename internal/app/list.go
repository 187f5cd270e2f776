package app

import (
	"fmt"
	"strings"

	"github.com/denizgursoy/describe/pkg/collector"
	"github.com/denizgursoy/describe/pkg/gherkin"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// listOptions holds options for the list command.
type listOptions struct {
	tags string
}

func (a *App) newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <file.feature|dir>...",
		Short: "List the test cases a run would collect",
		Long: `List every test case collected from the given feature files, in execution
order, with its group path and effective tags.

Examples:
  # List all cases below ./features
  describe list features

  # Only cases selected by a tag expression
  describe list features --tags "@smoke and not @slow"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.tags, "tags", "t", "", "Tag expression selecting cases")

	return cmd
}

func (a *App) list(args []string, opts *listOptions) error {
	logger := a.logger()

	filter, err := collector.TagFilter(opts.tags)
	if err != nil {
		return err
	}

	files, err := featureFiles(args)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(a.stdout)
	t.AppendHeader(table.Row{"#", "Path", "Case", "Tags", "Status"})

	total := 0
	for _, file := range files {
		document, err := gherkin.ParseFile(file)
		if err != nil {
			return err
		}
		group, err := gherkin.BuildGroup(document, nil)
		if err != nil {
			return fmt.Errorf("file %s: %w", file, err)
		}
		logger.Debug("feature parsed", "path", file, "cases", group.TotalCount())

		for _, step := range collector.Collect(group, filter).Flatten() {
			if !step.IsCase() {
				continue
			}
			total++
			status := ""
			if step.Case.IsPending() {
				status = "pending"
			}
			t.AppendRow(table.Row{total, step.Path.String(), step.Name(), strings.Join(step.Tags, " "), status})
		}
	}

	t.AppendFooter(table.Row{"", "", fmt.Sprintf("Total: %d", total), "", ""})
	t.Render()
	return nil
}
