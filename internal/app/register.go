package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/denizgursoy/describe/internal/discovery"
	"github.com/denizgursoy/describe/internal/generator"
	"github.com/spf13/cobra"
)

// registerOptions holds options for the register command.
type registerOptions struct {
	out         string
	packageName string
}

func (a *App) newRegisterCmd() *cobra.Command {
	opts := &registerOptions{}

	cmd := &cobra.Command{
		Use:   "register <dir>",
		Short: "Generate a RegisterSteps function from annotated step functions",
		Long: `Scan the Go packages below a directory for exported functions annotated with

  // @step ` + "`^I add {int} {fruit}s$`" + `

and generate a RegisterSteps function that registers them, together with the
custom parameter types their patterns use.

Examples:
  describe register ./acceptance
  describe register ./acceptance --out acceptance/describe_steps.go`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.register(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "File to write instead of stdout")
	cmd.Flags().StringVarP(&opts.packageName, "package", "p", "", "Package name of the generated file")

	return cmd
}

func (a *App) register(dir string, opts *registerOptions) error {
	logger := a.logger()

	reg, err := discovery.Discover(dir)
	if err != nil {
		return err
	}
	logger.Debug("steps discovered", "dir", dir, "steps", len(reg.Steps), "custom_types", len(reg.CustomTypes))
	if len(reg.Steps) == 0 {
		logger.Warn("no annotated step functions found", "dir", dir)
	}

	target := dir
	if opts.out != "" {
		target = filepath.Dir(opts.out)
	}
	detectedName, pkgPath, err := generator.DetectPackage(target)
	if err != nil {
		logger.Warn("could not detect package", "error", err)
	}
	pkgName := opts.packageName
	if pkgName == "" {
		pkgName = detectedName
	}

	var buf bytes.Buffer
	if err := generator.RenderRegistration(&buf, pkgPath, pkgName, reg); err != nil {
		return fmt.Errorf("could not render registration: %w", err)
	}

	if opts.out == "" {
		_, err = a.stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", opts.out, err)
	}
	_, _ = fmt.Fprintf(a.stdout, "%d steps registered in %s\n", len(reg.Steps), opts.out)
	return nil
}
