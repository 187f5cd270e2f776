// Package gherkin turns .feature documents into describe groups. Every
// compiled pickle becomes a test case whose body runs the pickle's steps
// through a steps.Registry.
package gherkin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/denizgursoy/describe/pkg/describe"
	"github.com/denizgursoy/describe/pkg/steps"
	"github.com/google/uuid"
)

const (
	FeatureExtension = ".feature"
)

// SearchFeatureFiles returns every .feature file below the given directories,
// in lexical order per directory.
func SearchFeatureFiles(directories ...string) ([]string, error) {
	featureFiles := make([]string, 0)

	for _, directory := range directories {
		err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), FeatureExtension) {
				featureFiles = append(featureFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not search feature files in %s: %w", directory, err)
		}
	}
	return featureFiles, nil
}

// ParseFeature parses a Gherkin document.
func ParseFeature(reader io.Reader) (*messages.GherkinDocument, error) {
	id := (&messages.Incrementing{}).NewId
	document, err := gherkin.ParseGherkinDocument(reader, id)
	if err != nil {
		return nil, fmt.Errorf("gherkin parse error: %w", err)
	}
	return document, nil
}

// ParseFile reads and parses the feature file at path. The document URI is
// set to path.
func ParseFile(path string) (*messages.GherkinDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", path, err)
	}
	document, err := ParseFeature(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", path, err)
	}
	document.Uri = path
	return document, nil
}

// Pickles compiles document into pickles, one per scenario or example row,
// with background steps inlined.
func Pickles(document *messages.GherkinDocument) []*messages.Pickle {
	if document == nil || document.Feature == nil {
		return nil
	}
	return gherkin.Pickles(*document, document.Uri, uuid.NewString)
}

// ArgumentKind tells which argument, if any, follows a step.
type ArgumentKind int

const (
	NoArgument ArgumentKind = iota
	DocStringArgument
	DataTableArgument
)

// StepText is a pickle step with the keyword it was written with.
type StepText struct {
	Keyword  string
	Text     string
	Argument ArgumentKind
}

// String returns the step as written, e.g. "Given I have 5 apples".
func (s StepText) String() string {
	return s.Keyword + s.Text
}

// documentIndex resolves pickle AST node ids back to the document.
type documentIndex struct {
	ruleOf   map[string]*messages.Rule
	keywords map[string]string
}

func indexDocument(feature *messages.Feature) documentIndex {
	idx := documentIndex{
		ruleOf:   make(map[string]*messages.Rule),
		keywords: make(map[string]string),
	}
	addSteps := func(list []*messages.Step) {
		for _, s := range list {
			idx.keywords[s.Id] = s.Keyword
		}
	}
	for _, child := range feature.Children {
		switch {
		case child.Background != nil:
			addSteps(child.Background.Steps)
		case child.Scenario != nil:
			addSteps(child.Scenario.Steps)
		case child.Rule != nil:
			for _, rc := range child.Rule.Children {
				if rc.Background != nil {
					addSteps(rc.Background.Steps)
				}
				if rc.Scenario != nil {
					idx.ruleOf[rc.Scenario.Id] = child.Rule
					addSteps(rc.Scenario.Steps)
				}
			}
		}
	}
	return idx
}

// steps returns the steps of pickle with their keywords.
func (idx documentIndex) steps(pickle *messages.Pickle) []StepText {
	out := make([]StepText, 0, len(pickle.Steps))
	for _, step := range pickle.Steps {
		keyword := ""
		if len(step.AstNodeIds) > 0 {
			keyword = idx.keywords[step.AstNodeIds[0]]
		}
		out = append(out, StepText{Keyword: keyword, Text: step.Text, Argument: argumentKind(step)})
	}
	return out
}

// BuildGroup builds the suite tree of document: the feature is the root
// group, each rule a child group, and each pickle a test case tagged with the
// pickle's tags. A pickle without steps becomes a pending case. Feature and
// rule descriptions become debug log statements.
func BuildGroup(document *messages.GherkinDocument, registry *steps.Registry) (describe.Group, error) {
	if document == nil || document.Feature == nil {
		return describe.Group{}, fmt.Errorf("document has no feature")
	}
	if registry == nil {
		registry = steps.NewRegistry()
	}

	feature := document.Feature
	idx := indexDocument(feature)

	root := describe.Describe(feature.Name, describe.Tags(tagNames(feature.Tags)...))
	if description := strings.TrimSpace(feature.Description); description != "" {
		root.Steps = append(root.Steps, describe.LogDebug(description))
	}

	ruleGroups := make(map[*messages.Rule]int)
	for _, pickle := range Pickles(document) {
		tc := describe.It(pickle.Name, pickleBody(registry, pickle, idx), pickleTags(pickle)...)

		var rule *messages.Rule
		if len(pickle.AstNodeIds) > 0 {
			rule = idx.ruleOf[pickle.AstNodeIds[0]]
		}
		if rule == nil {
			root.Steps = append(root.Steps, tc)
			continue
		}

		i, ok := ruleGroups[rule]
		if !ok {
			group := describe.Describe(rule.Name, describe.Tags(tagNames(rule.Tags)...))
			if description := strings.TrimSpace(rule.Description); description != "" {
				group.Steps = append(group.Steps, describe.LogDebug(description))
			}
			i = len(root.Children)
			ruleGroups[rule] = i
			root.Children = append(root.Children, group)
		}
		root.Children[i].Steps = append(root.Children[i].Steps, tc)
	}

	return root, nil
}

// pickleBody runs the pickle steps in order, threading the context each step
// returns into the next one.
func pickleBody(registry *steps.Registry, pickle *messages.Pickle, idx documentIndex) describe.Action {
	if len(pickle.Steps) == 0 {
		return nil
	}
	texts := idx.steps(pickle)

	return func(ctx context.Context) error {
		for i, step := range pickle.Steps {
			describe.Debug(ctx, texts[i].String())

			next, err := registry.Invoke(ctx, step.Text, stepArgument(step))
			if err != nil {
				return fmt.Errorf("step %q failed: %w", texts[i].String(), err)
			}
			ctx = next
		}
		return nil
	}
}

// stepArgument returns the doc string content or the data table rows of step.
func stepArgument(step *messages.PickleStep) any {
	if step.Argument == nil {
		return nil
	}
	if step.Argument.DocString != nil {
		return step.Argument.DocString.Content
	}
	if step.Argument.DataTable != nil {
		rows := make([][]string, 0, len(step.Argument.DataTable.Rows))
		for _, row := range step.Argument.DataTable.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, cell.Value)
			}
			rows = append(rows, cells)
		}
		return rows
	}
	return nil
}

func argumentKind(step *messages.PickleStep) ArgumentKind {
	switch {
	case step.Argument == nil:
		return NoArgument
	case step.Argument.DocString != nil:
		return DocStringArgument
	case step.Argument.DataTable != nil:
		return DataTableArgument
	default:
		return NoArgument
	}
}

func pickleTags(pickle *messages.Pickle) []string {
	tags := make([]string, 0, len(pickle.Tags))
	for _, tag := range pickle.Tags {
		tags = append(tags, tag.Name)
	}
	return tags
}

func tagNames(tags []*messages.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

// UndefinedSteps returns the distinct step texts of document that registry
// cannot match, in document order.
func UndefinedSteps(document *messages.GherkinDocument, registry *steps.Registry) []StepText {
	if document == nil || document.Feature == nil {
		return nil
	}
	if registry == nil {
		registry = steps.NewRegistry()
	}

	idx := indexDocument(document.Feature)
	seen := make(map[string]bool)
	var undefined []StepText
	for _, pickle := range Pickles(document) {
		for _, step := range idx.steps(pickle) {
			if seen[step.Text] || registry.Defined(step.Text) {
				continue
			}
			seen[step.Text] = true
			undefined = append(undefined, step)
		}
	}
	return undefined
}
