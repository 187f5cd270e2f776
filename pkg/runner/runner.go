// Package runner wires the collector, executor, reporters and the Gherkin
// adapter into a single entry point.
//
//	result, err := runner.NewSuiteRunner().
//		WithGroups(arithmetic, strings).
//		WithFeaturesDirectories("features").
//		RegisterStep(`^I have (\d+) apples$`, haveApples).
//		Run(ctx)
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/denizgursoy/describe/pkg/collector"
	"github.com/denizgursoy/describe/pkg/describe"
	"github.com/denizgursoy/describe/pkg/executor"
	"github.com/denizgursoy/describe/pkg/gherkin"
	"github.com/denizgursoy/describe/pkg/reporter"
	"github.com/denizgursoy/describe/pkg/steps"
	"github.com/google/uuid"
)

// SuiteName is the name of the root group that wraps several registered
// groups or feature files.
const SuiteName = "Suite"

type (
	SuiteRunner struct {
		configs            []*describe.Config
		configFiles        []string
		groups             []describe.Group
		features           []io.Reader
		featureDirectories []string
		registry           *steps.Registry
		reporters          []describe.Reporter
		output             io.Writer
		now                func() time.Time
	}
)

func NewSuiteRunner() *SuiteRunner {
	return &SuiteRunner{
		registry: steps.NewRegistry(),
		output:   os.Stdout,
		now:      time.Now,
	}
}

// WithConfigFunc adds the config returned by configFunction. Configs are
// merged in registration order; command line flags override them.
func (s *SuiteRunner) WithConfigFunc(configFunction func() *describe.Config) *SuiteRunner {
	if configFunction != nil {
		s.configs = append(s.configs, configFunction())
	}

	return s
}

// WithConfigFile adds a YAML config file read when the run starts. Files are
// merged after the configs of WithConfigFunc; a file given with --config is
// merged after them and command line flags still override every file.
func (s *SuiteRunner) WithConfigFile(path string) *SuiteRunner {
	s.configFiles = append(s.configFiles, path)

	return s
}

// WithReporter adds a reporter next to the console reporter.
func (s *SuiteRunner) WithReporter(r describe.Reporter) *SuiteRunner {
	if r != nil {
		s.reporters = append(s.reporters, r)
	}

	return s
}

// WithOutput redirects the console reporter.
func (s *SuiteRunner) WithOutput(w io.Writer) *SuiteRunner {
	s.output = w

	return s
}

func (s *SuiteRunner) WithGroups(groups ...describe.Group) *SuiteRunner {
	s.groups = append(s.groups, groups...)

	return s
}

// WithFeature adds a Gherkin document read from reader.
func (s *SuiteRunner) WithFeature(reader io.Reader) *SuiteRunner {
	s.features = append(s.features, reader)

	return s
}

func (s *SuiteRunner) WithFeaturesDirectories(directories ...string) *SuiteRunner {
	s.featureDirectories = append(s.featureDirectories, directories...)

	return s
}

// RegisterStep registers a step definition for feature files. It panics when
// the definition is rejected, e.g. a duplicate or invalid pattern.
func (s *SuiteRunner) RegisterStep(definition string, function any) *SuiteRunner {
	if err := s.registry.RegisterStep(definition, function); err != nil {
		panic(err)
	}

	return s
}

// Registry returns the step registry used for feature files.
func (s *SuiteRunner) Registry() *steps.Registry {
	return s.registry
}

// Run executes every registered group and feature. Failing test cases are
// reported in the result; the error is reserved for setup problems such as an
// unreadable feature file or an invalid tag expression.
func (s *SuiteRunner) Run(ctx context.Context) (describe.RunResult, error) {
	config, err := s.config()
	if err != nil {
		return describe.RunResult{}, err
	}
	logger := config.RunLogger()

	runID := uuid.NewString()
	startedAt := s.now()

	root, err := s.root()
	if err != nil {
		return describe.RunResult{}, err
	}

	opts, err := executorOptions(config)
	if err != nil {
		return describe.RunResult{}, err
	}
	opts = append(opts, executor.WithLogger(logger), executor.WithClock(s.now))

	logger.Info("run started",
		"run_id", runID,
		"parallel", config.Parallel,
		"shuffle", config.Shuffle,
		"tags", config.Tags,
	)

	results := executor.New(s.reporter(config), opts...).Run(ctx, root)

	result := describe.RunResult{
		RunID:     runID,
		Results:   results,
		Summary:   describe.Summarize(results),
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
	}

	logger.Info("run finished",
		"run_id", runID,
		"total", result.Summary.Total,
		"passed", result.Summary.Passed,
		"failed", result.Summary.Failed,
		"pending", result.Summary.Pending,
		"duration", result.Duration,
	)

	if config.HTMLReport != "" {
		if err := reporter.GenerateHTMLReport(config.HTMLReport, result); err != nil {
			return result, fmt.Errorf("could not write html report: %w", err)
		}
		logger.Info("html report written", "path", config.HTMLReport)
	}

	return result, nil
}

// config merges the code configs, the config files and the --config file,
// then the command line flags.
func (s *SuiteRunner) config() (*describe.Config, error) {
	configs := slices.Clone(s.configs)
	files := slices.Clone(s.configFiles)
	if path, ok := argValue("config"); ok && path != "" {
		files = append(files, path)
	}
	for _, path := range files {
		cfg, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	return describe.MergeConfigs(append(configs, configFromArgs())...), nil
}

func loadConfigFile(path string) (*describe.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open config file: %w", err)
	}
	defer f.Close()

	cfg, err := describe.LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// root builds the tree to execute. A single group or feature is run as is,
// several are wrapped in a group named SuiteName.
func (s *SuiteRunner) root() (describe.Group, error) {
	groups := append([]describe.Group(nil), s.groups...)

	for _, reader := range s.features {
		document, err := gherkin.ParseFeature(reader)
		if err != nil {
			return describe.Group{}, err
		}
		group, err := gherkin.BuildGroup(document, s.registry)
		if err != nil {
			return describe.Group{}, err
		}
		groups = append(groups, group)
	}

	directories := s.featureDirectories
	if len(directories) == 0 && len(groups) == 0 {
		directories = []string{"."}
	}
	featureFiles, err := gherkin.SearchFeatureFiles(directories...)
	if err != nil {
		return describe.Group{}, err
	}
	for _, file := range featureFiles {
		document, err := gherkin.ParseFile(file)
		if err != nil {
			return describe.Group{}, err
		}
		group, err := gherkin.BuildGroup(document, s.registry)
		if err != nil {
			return describe.Group{}, fmt.Errorf("file %s: %w", file, err)
		}
		groups = append(groups, group)
	}

	if len(groups) == 1 {
		return groups[0], nil
	}
	root := describe.Describe(SuiteName)
	root.Children = groups
	return root, nil
}

func (s *SuiteRunner) reporter(config *describe.Config) describe.Reporter {
	if config.DisableReporter {
		return reporter.Multi(s.reporters...)
	}
	console := reporter.NewConsoleReporter(
		reporter.WithOutput(s.output),
		reporter.WithColors(!config.NoColor),
	)
	return reporter.Multi(append([]describe.Reporter{console}, s.reporters...)...)
}

func executorOptions(config *describe.Config) ([]executor.Option, error) {
	opts := make([]executor.Option, 0, 3)

	if config.Parallel {
		opts = append(opts, executor.WithSequencer(executor.Concurrent(config.Concurrency)))
	}
	if config.Shuffle {
		opts = append(opts, executor.WithOrdering(executor.Shuffled(config.Seed)))
	}

	filter, err := collector.TagFilter(config.Tags)
	if err != nil {
		return nil, err
	}
	opts = append(opts, executor.WithCollectorOptions(filter))

	return opts, nil
}

// configFromArgs builds a config from the --tags, --parallel and --seed
// command line flags.
func configFromArgs() *describe.Config {
	config := &describe.Config{
		Tags: parseTagsFromArgs(),
	}
	if workers := parseParallelFromArgs(); workers > 0 {
		config.Parallel = true
		config.Concurrency = workers
	}
	if seed, ok := parseSeedFromArgs(); ok {
		config.Shuffle = true
		config.Seed = seed
	}
	return config
}

// parseTagsFromArgs returns the tag expression given with --tags, or "".
func parseTagsFromArgs() string {
	value, _ := argValue("tags")
	return value
}

// parseParallelFromArgs returns the worker count given with --parallel. It
// returns 0 when the flag is missing, not a number or not positive.
func parseParallelFromArgs() int {
	value, ok := argValue("parallel")
	if !ok {
		return 0
	}
	workers, err := strconv.Atoi(value)
	if err != nil || workers <= 0 {
		return 0
	}
	return workers
}

// parseSeedFromArgs returns the shuffle seed given with --seed.
func parseSeedFromArgs() (int64, bool) {
	value, ok := argValue("seed")
	if !ok {
		return 0, false
	}
	seed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return seed, true
}

// argValue finds "--name value" or "--name=value" in os.Args.
func argValue(name string) (string, bool) {
	if len(os.Args) < 2 {
		return "", false
	}
	flag := "--" + name
	args := os.Args[1:]
	for i, arg := range args {
		if arg == flag {
			if i+1 < len(args) {
				return args[i+1], true
			}
			return "", false
		}
		if value, found := strings.CutPrefix(arg, flag+"="); found {
			return value, true
		}
	}
	return "", false
}
