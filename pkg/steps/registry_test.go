package steps

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type ctxKey string

// =============================================================================
// Registration Tests
// =============================================================================

func TestRegistry_RegisterStep(t *testing.T) {
	t.Run("registers valid step", func(t *testing.T) {
		r := NewRegistry()
		err := r.RegisterStep(`^I have (\d+) apples$`, func(ctx context.Context, count int) (context.Context, error) {
			return ctx, nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, r.Len())
	})

	t.Run("returns error for invalid regex", func(t *testing.T) {
		err := NewRegistry().RegisterStep("[invalid", func() {})
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid step pattern")
	})

	t.Run("returns error for duplicate pattern", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterStep("^test$", func() {}))

		err := r.RegisterStep("^test$", func() {})
		require.Error(t, err)
		require.Contains(t, err.Error(), "duplicate step pattern")
	})

	t.Run("returns error for non-function handler", func(t *testing.T) {
		err := NewRegistry().RegisterStep("^test$", "not a function")
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be a function")

		err = NewRegistry().RegisterStep("^test$", nil)
		require.Error(t, err)
	})

	t.Run("returns error for unsupported return types", func(t *testing.T) {
		err := NewRegistry().RegisterStep("^test$", func() int { return 1 })
		require.Error(t, err)
		require.Contains(t, err.Error(), "may only return")
	})
}

// =============================================================================
// Match Tests
// =============================================================================

func TestRegistry_Match(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterStep(`^I have (\d+) (\w+)$`, func(int, string) {}))
	require.NoError(t, r.RegisterStep(`^I have .*$`, func() {}))

	t.Run("returns captured groups and offsets", func(t *testing.T) {
		m, err := r.Match("I have 5 apples")
		require.NoError(t, err)
		require.Equal(t, []string{"5", "apples"}, m.Args)
		require.Equal(t, []int{7, 8, 9, 15}, m.Locs)
	})

	t.Run("first registered definition wins", func(t *testing.T) {
		m, err := r.Match("I have 5 apples")
		require.NoError(t, err)
		require.Equal(t, `^I have (\d+) (\w+)$`, m.Definition.Pattern.String())
	})

	t.Run("undefined step", func(t *testing.T) {
		_, err := r.Match("nobody knows")
		var undefined *UndefinedStepError
		require.ErrorAs(t, err, &undefined)
		require.Equal(t, "nobody knows", undefined.Text)
		require.False(t, r.Defined("nobody knows"))
		require.True(t, r.Defined("I have nothing"))
	})
}

// =============================================================================
// Invoke Tests
// =============================================================================

func TestRegistry_Invoke(t *testing.T) {
	t.Run("converts captured arguments", func(t *testing.T) {
		r := NewRegistry()
		var (
			count  int
			name   string
			price  float64
			small  int8
			amount uint32
			ok     bool
		)
		require.NoError(t, r.RegisterStep(`^(\d+) (\w+) cost ([\d.]+) with (\d+) and (\d+) is (\w+)$`,
			func(c int, n string, p float64, s int8, a uint32, b bool) {
				count, name, price, small, amount, ok = c, n, p, s, a, b
			}))

		_, err := r.Invoke(context.Background(), "3 pears cost 1.5 with 7 and 9 is true", nil)
		require.NoError(t, err)
		require.Equal(t, 3, count)
		require.Equal(t, "pears", name)
		require.Equal(t, 1.5, price)
		require.Equal(t, int8(7), small)
		require.Equal(t, uint32(9), amount)
		require.True(t, ok)
	})

	t.Run("propagates context between steps", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterStep(`^I store (\w+)$`, func(ctx context.Context, v string) (context.Context, error) {
			return context.WithValue(ctx, ctxKey("value"), v), nil
		}))
		var seen any
		require.NoError(t, r.RegisterStep(`^I read it$`, func(ctx context.Context) error {
			seen = ctx.Value(ctxKey("value"))
			return nil
		}))

		ctx, err := r.Invoke(context.Background(), "I store apple", nil)
		require.NoError(t, err)
		_, err = r.Invoke(ctx, "I read it", nil)
		require.NoError(t, err)
		require.Equal(t, "apple", seen)
	})

	t.Run("keeps the caller context when none is returned", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterStep(`^noop$`, func() {}))

		ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
		got, err := r.Invoke(ctx, "noop", nil)
		require.NoError(t, err)
		require.Equal(t, "v", got.Value(ctxKey("k")))
	})

	t.Run("returns the step error", func(t *testing.T) {
		r := NewRegistry()
		boom := errors.New("boom")
		require.NoError(t, r.RegisterStep(`^fail$`, func() error { return boom }))

		_, err := r.Invoke(context.Background(), "fail", nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("returns undefined step error", func(t *testing.T) {
		_, err := NewRegistry().Invoke(context.Background(), "missing", nil)
		var undefined *UndefinedStepError
		require.ErrorAs(t, err, &undefined)
		require.EqualError(t, err, "undefined step: missing")
	})

	t.Run("reports conversion failures", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterStep(`^(\w+) is on$`, func(bool) {}))

		_, err := r.Invoke(context.Background(), "maybe is on", nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), `failed to convert argument "maybe" to bool`)
	})

	t.Run("reports missing arguments", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterStep(`^(\d+)$`, func(int, int) {}))

		_, err := r.Invoke(context.Background(), "1", nil)
		require.ErrorContains(t, err, "not enough captured arguments")
	})
}

func TestRegistry_StepArguments(t *testing.T) {
	t.Run("passes a doc string", func(t *testing.T) {
		r := NewRegistry()
		var body string
		require.NoError(t, r.RegisterStep(`^the payload$`, func(ctx context.Context, doc string) {
			body = doc
		}))

		_, err := r.Invoke(context.Background(), "the payload", "{\"a\":1}")
		require.NoError(t, err)
		require.Equal(t, "{\"a\":1}", body)
	})

	t.Run("passes a data table as rows", func(t *testing.T) {
		r := NewRegistry()
		var rows [][]string
		require.NoError(t, r.RegisterStep(`^users:$`, func(data [][]string) { rows = data }))

		_, err := r.Invoke(context.Background(), "users:", [][]string{{"name"}, {"ann"}})
		require.NoError(t, err)
		require.Equal(t, [][]string{{"name"}, {"ann"}}, rows)
	})

	t.Run("passes a data table as Table after captured arguments", func(t *testing.T) {
		r := NewRegistry()
		var names []string
		var group string
		require.NoError(t, r.RegisterStep(`^users of (\w+):$`, func(g string, table Table) {
			group = g
			for _, row := range table.SkipHeader() {
				names = append(names, row.Get("Name"))
			}
		}))

		_, err := r.Invoke(context.Background(), "users of admins:", [][]string{{"name"}, {"ann"}, {"bob"}})
		require.NoError(t, err)
		require.Equal(t, "admins", group)
		require.Equal(t, []string{"ann", "bob"}, names)
	})

	t.Run("rejects an argument the function does not take", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterStep(`^plain$`, func() {}))

		_, err := r.Invoke(context.Background(), "plain", "doc")
		require.ErrorContains(t, err, "doc string argument")
	})

	t.Run("rejects an incompatible parameter", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterStep(`^plain$`, func(int) {}))

		_, err := r.Invoke(context.Background(), "plain", [][]string{{"a"}})
		require.ErrorContains(t, err, "cannot pass data table argument")
	})
}

// =============================================================================
// Custom Type Tests
// =============================================================================

type Color string

type Priority int

func TestRegistry_CustomTypes(t *testing.T) {
	t.Run("converts named types by kind", func(t *testing.T) {
		r := NewRegistry()
		var c Color
		var p Priority
		require.NoError(t, r.RegisterStep(`^(\w+) at (\d+)$`, func(color Color, priority Priority) {
			c, p = color, priority
		}))

		_, err := r.Invoke(context.Background(), "red at 2", nil)
		require.NoError(t, err)
		require.Equal(t, Color("red"), c)
		require.Equal(t, Priority(2), p)
	})

	t.Run("maps registered values case-insensitively", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterCustomType("Priority", map[string]string{"low": "1", "HIGH": "3"})
		var p Priority
		require.NoError(t, r.RegisterStep(`^priority (\w+)$`, func(priority Priority) { p = priority }))

		_, err := r.Invoke(context.Background(), "priority High", nil)
		require.NoError(t, err)
		require.Equal(t, Priority(3), p)
	})

	t.Run("qualified registrations only match their package", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterCustomType("example.com/other.Priority", map[string]string{"high": "9"})
		r.RegisterCustomType(reflect.TypeFor[Priority]().PkgPath()+".Priority", map[string]string{"high": "3"})
		r.RegisterCustomType("Priority", map[string]string{"high": "7"})
		var p Priority
		require.NoError(t, r.RegisterStep(`^priority (\w+)$`, func(priority Priority) { p = priority }))

		_, err := r.Invoke(context.Background(), "priority high", nil)
		require.NoError(t, err)
		require.Equal(t, Priority(3), p)
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterCustomType("Color", map[string]string{"red": "red"})
		require.NoError(t, r.RegisterStep(`^I select (\w+)$`, func(Color) {}))

		_, err := r.Invoke(context.Background(), "I select purple", nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid Color")
		require.Contains(t, err.Error(), "purple")
	})
}

// =============================================================================
// Table Tests
// =============================================================================

func TestTable(t *testing.T) {
	data := [][]string{{"Name", "Age"}, {"ann", "30"}, {"bob"}}
	table := NewTable(data)
	data[1][0] = "changed"

	require.Equal(t, 3, table.Len())
	require.Equal(t, []string{"Name", "Age"}, table.Headers())

	var rows []Row
	for _, row := range table.SkipHeader() {
		rows = append(rows, row)
	}
	require.Len(t, rows, 2)
	require.Equal(t, "ann", rows[0].Get("name"))
	require.Equal(t, "30", rows[0].Get("AGE"))
	require.Equal(t, "", rows[1].Get("Age"))
	require.Equal(t, "", rows[0].Get("missing"))
	require.Equal(t, "bob", rows[1].Cell(0))
	require.Equal(t, "", rows[1].Cell(5))
	require.Equal(t, []string{"ann", "30"}, rows[0].Values())

	count := 0
	for range table.All() {
		count++
	}
	require.Equal(t, 3, count)
	require.Zero(t, NewTable(nil).Len())
}
