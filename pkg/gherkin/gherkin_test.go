package gherkin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/denizgursoy/describe/pkg/describe"
	"github.com/denizgursoy/describe/pkg/executor"
	"github.com/denizgursoy/describe/pkg/steps"
	"github.com/stretchr/testify/require"
)

const basketFeature = `@shop
Feature: Basket
  Customers collect products.

  Background:
    Given an empty basket

  @smoke
  Scenario: adding apples
    When I add 3 apples
    Then the basket holds 3 items

  Scenario: not written yet

  Rule: Large orders
    Orders above ten items ship for free.

    @slow
    Scenario Outline: adding <count> pears
      When I add <count> pears
      Then the basket holds <count> items

      Examples:
        | count |
        | 11    |
        | 12    |
`

type basketKey struct{}

func basketSteps(t *testing.T) *steps.Registry {
	t.Helper()
	r := steps.NewRegistry()
	require.NoError(t, r.RegisterStep(`^an empty basket$`, func(ctx context.Context) context.Context {
		return context.WithValue(ctx, basketKey{}, new(int))
	}))
	require.NoError(t, r.RegisterStep(`^I add (\d+) (?:apples|pears)$`, func(ctx context.Context, n int) {
		*ctx.Value(basketKey{}).(*int) += n
	}))
	require.NoError(t, r.RegisterStep(`^the basket holds (\d+) items$`, func(ctx context.Context, n int) error {
		if got := *ctx.Value(basketKey{}).(*int); got != n {
			return errors.New("wrong item count")
		}
		return nil
	}))
	return r
}

func parse(t *testing.T, source string) describe.Group {
	t.Helper()
	doc, err := ParseFeature(strings.NewReader(source))
	require.NoError(t, err)
	group, err := BuildGroup(doc, basketSteps(t))
	require.NoError(t, err)
	return group
}

// =============================================================================
// Parse Tests
// =============================================================================

func TestParseFeature(t *testing.T) {
	t.Run("parses a feature", func(t *testing.T) {
		doc, err := ParseFeature(strings.NewReader(basketFeature))
		require.NoError(t, err)
		require.Equal(t, "Basket", doc.Feature.Name)
	})

	t.Run("reports syntax errors", func(t *testing.T) {
		_, err := ParseFeature(strings.NewReader("this is not gherkin\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "gherkin parse error")
	})
}

func TestParseFile(t *testing.T) {
	doc, err := ParseFile("testdata/basket.feature")
	require.NoError(t, err)
	require.Equal(t, "testdata/basket.feature", doc.Uri)

	_, err = ParseFile("testdata/missing.feature")
	require.ErrorContains(t, err, "could not read file")
}

func TestSearchFeatureFiles(t *testing.T) {
	files, err := SearchFeatureFiles("testdata")
	require.NoError(t, err)
	require.Equal(t, []string{
		"testdata/basket.feature",
		"testdata/nested/discounts.feature",
	}, files)

	_, err = SearchFeatureFiles("testdata/does-not-exist")
	require.Error(t, err)
}

// =============================================================================
// BuildGroup Tests
// =============================================================================

func TestBuildGroup(t *testing.T) {
	group := parse(t, basketFeature)

	t.Run("feature is the root group", func(t *testing.T) {
		require.Equal(t, "Basket", group.Name)
		require.Equal(t, []string{"@shop"}, group.Tags)
		require.Equal(t, &describe.LogStatement{Level: describe.LevelDebug, Message: "Customers collect products."}, group.Steps[0])
	})

	t.Run("scenarios become cases", func(t *testing.T) {
		cases := group.Cases()
		require.Len(t, cases, 2)
		require.Equal(t, "adding apples", cases[0].Name)
		require.Equal(t, []string{"@shop", "@smoke"}, cases[0].Tags)
		require.True(t, cases[1].IsPending())
	})

	t.Run("rules become child groups with one case per example", func(t *testing.T) {
		require.Len(t, group.Children, 1)
		rule := group.Children[0]
		require.Equal(t, "Large orders", rule.Name)

		cases := rule.Cases()
		require.Len(t, cases, 2)
		require.Equal(t, "adding 11 pears", cases[0].Name)
		require.Equal(t, "adding 12 pears", cases[1].Name)
		require.Contains(t, cases[0].Tags, "@slow")
	})

	t.Run("rejects documents without a feature", func(t *testing.T) {
		doc, err := ParseFeature(strings.NewReader("# only a comment\n"))
		require.NoError(t, err)
		_, err = BuildGroup(doc, nil)
		require.Error(t, err)
	})
}

func TestBuildGroup_Run(t *testing.T) {
	t.Run("runs steps with threaded context", func(t *testing.T) {
		results := executor.New(nil).Run(context.Background(), parse(t, basketFeature))

		require.Len(t, results, 4)
		require.Equal(t, describe.StatusPassed, results[0].Outcome.Status)
		require.Equal(t, describe.StatusPending, results[1].Outcome.Status)
		require.Equal(t, describe.StatusPassed, results[2].Outcome.Status)
		require.Equal(t, describe.StatusPassed, results[3].Outcome.Status)
		require.Equal(t, describe.NewPath("Basket", "Large orders"), results[2].Outcome.Path)
	})

	t.Run("captures each step as a debug log", func(t *testing.T) {
		results := executor.New(nil).Run(context.Background(), parse(t, basketFeature))

		require.Equal(t, []describe.LogStatement{
			{Level: describe.LevelDebug, Message: "Given an empty basket"},
			{Level: describe.LevelDebug, Message: "When I add 3 apples"},
			{Level: describe.LevelDebug, Message: "Then the basket holds 3 items"},
		}, results[0].Logs)
	})

	t.Run("undefined steps fail the case", func(t *testing.T) {
		group := parse(t, "Feature: F\n  Scenario: S\n    Given something nobody wrote\n")
		results := executor.New(nil).Run(context.Background(), group)

		require.Len(t, results, 1)
		var undefined *steps.UndefinedStepError
		require.ErrorAs(t, results[0].Outcome.Err, &undefined)
		require.Equal(t, `step "Given something nobody wrote" failed: undefined step: something nobody wrote`, results[0].Outcome.Message())
	})

	t.Run("failing step stops the scenario", func(t *testing.T) {
		group := parse(t, `Feature: F
  Scenario: S
    Given an empty basket
    Then the basket holds 2 items
    When I add 2 apples
`)
		results := executor.New(nil).Run(context.Background(), group)

		require.Equal(t, describe.StatusFailed, results[0].Outcome.Status)
		require.Contains(t, results[0].Outcome.Message(), "wrong item count")
		require.Len(t, results[0].Logs, 2)
	})

	t.Run("passes doc strings and data tables", func(t *testing.T) {
		r := steps.NewRegistry()
		var doc string
		var rows [][]string
		require.NoError(t, r.RegisterStep(`^the note$`, func(s string) { doc = s }))
		require.NoError(t, r.RegisterStep(`^the table$`, func(t steps.Table) {
			for _, row := range t.SkipHeader() {
				rows = append(rows, row.Values())
			}
		}))

		document, err := ParseFeature(strings.NewReader(`Feature: F
  Scenario: S
    Given the note
      """
      hello
      """
    And the table
      | a | b |
      | 1 | 2 |
`))
		require.NoError(t, err)
		group, err := BuildGroup(document, r)
		require.NoError(t, err)

		results := executor.New(nil).Run(context.Background(), group)
		require.Equal(t, describe.StatusPassed, results[0].Outcome.Status, results[0].Outcome.Message())
		require.Equal(t, "hello", doc)
		require.Equal(t, [][]string{{"1", "2"}}, rows)
	})
}

// =============================================================================
// UndefinedSteps Tests
// =============================================================================

func TestUndefinedSteps(t *testing.T) {
	doc, err := ParseFeature(strings.NewReader(`Feature: F
  Background:
    Given an empty basket

  Scenario: one
    When I juggle 3 oranges
    Then it is fun

  Scenario: two
    When I juggle 3 oranges
    And I write
      """
      a poem
      """
`))
	require.NoError(t, err)

	undefined := UndefinedSteps(doc, basketSteps(t))
	require.Equal(t, []StepText{
		{Keyword: "When ", Text: "I juggle 3 oranges"},
		{Keyword: "Then ", Text: "it is fun"},
		{Keyword: "And ", Text: "I write", Argument: DocStringArgument},
	}, undefined)
	require.Len(t, UndefinedSteps(doc, nil), 4)
}
