package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/denizgursoy/describe/internal/generator"
	"github.com/denizgursoy/describe/pkg/gherkin"
	"github.com/spf13/cobra"
)

// snippetsOptions holds options for the snippets command.
type snippetsOptions struct {
	out         string
	packageName string
}

func (a *App) newSnippetsCmd() *cobra.Command {
	opts := &snippetsOptions{}

	cmd := &cobra.Command{
		Use:   "snippets <file.feature|dir>...",
		Short: "Generate step definition stubs",
		Long: `Generate a Go file with one stub function per distinct step of the given
feature files and a RegisterSteps function registering all of them.

Without --out the file is printed. With --out the package name and import
path are detected from the target directory unless --package is set.

Examples:
  describe snippets features/basket.feature
  describe snippets features --out features/describe_steps.go`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.snippets(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "File to write instead of stdout")
	cmd.Flags().StringVarP(&opts.packageName, "package", "p", "", "Package name of the generated file")

	return cmd
}

func (a *App) snippets(args []string, opts *snippetsOptions) error {
	logger := a.logger()

	files, err := featureFiles(args)
	if err != nil {
		return err
	}

	var undefined []gherkin.StepText
	for _, file := range files {
		document, err := gherkin.ParseFile(file)
		if err != nil {
			return err
		}
		undefined = append(undefined, gherkin.UndefinedSteps(document, nil)...)
	}
	snippets := generator.FromSteps(undefined)
	logger.Debug("snippets collected", "files", len(files), "snippets", len(snippets))

	pkgName, pkgPath := opts.packageName, ""
	if opts.out != "" {
		detectedName, detectedPath, err := generator.DetectPackage(filepath.Dir(opts.out))
		if err != nil {
			logger.Warn("could not detect package", "error", err)
		}
		if pkgName == "" {
			pkgName = detectedName
		}
		pkgPath = detectedPath
	}

	var buf bytes.Buffer
	if err := generator.Render(&buf, pkgPath, pkgName, snippets); err != nil {
		return fmt.Errorf("could not render snippets: %w", err)
	}

	if opts.out == "" {
		_, err = a.stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", opts.out, err)
	}
	_, _ = fmt.Fprintf(a.stdout, "%d snippets written to %s\n", len(snippets), opts.out)
	return nil
}
