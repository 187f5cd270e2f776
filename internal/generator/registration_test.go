package generator

import (
	"bytes"
	"go/parser"
	"go/token"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// Custom Type Tests
// =============================================================================

func TestCustomType_NamesAndValues(t *testing.T) {
	ct := &CustomType{
		Name:       "Priority",
		Underlying: "int",
		Values:     map[string]string{"Low": "1", "High": "3"},
	}

	require.Equal(t, map[string]string{
		"low":  "1",
		"1":    "1",
		"high": "3",
		"3":    "3",
	}, ct.NamesAndValues())
}

func TestCustomType_QualifiedName(t *testing.T) {
	require.Equal(t, "example.com/shop.Fruit", (&CustomType{Name: "Fruit", PackagePath: "example.com/shop"}).QualifiedName())
	require.Equal(t, "Fruit", (&CustomType{Name: "Fruit"}).QualifiedName())
}

func TestCustomType_RegexPattern(t *testing.T) {
	t.Run("sorted, deduplicated and case insensitive", func(t *testing.T) {
		ct := &CustomType{
			Name:       "Color",
			Underlying: "string",
			Values:     map[string]string{"Red": "red", "Blue": "blue", "Green": "green"},
		}

		pattern := ct.RegexPattern()
		require.Equal(t, "(?i:blue|green|red)", pattern)
		require.Regexp(t, "^"+pattern+"$", "GREEN")
	})

	t.Run("escapes metacharacters", func(t *testing.T) {
		ct := &CustomType{
			Name:       "Version",
			Underlying: "string",
			Values:     map[string]string{"V1": "1.0"},
		}

		pattern := "^" + ct.RegexPattern() + "$"
		require.Regexp(t, pattern, "1.0")
		require.NotRegexp(t, regexp.MustCompile(pattern), "1x0")
	})
}

// =============================================================================
// Registration Rendering Tests
// =============================================================================

func TestRenderRegistration(t *testing.T) {
	reg := &Registration{
		Steps: []StepFunction{
			{Pattern: `^an empty basket$`, PackagePath: "example.com/shop/shopsteps", Function: "EmptyBasket"},
			{Pattern: `^I pay (-?\d*\.?\d+)$`, PackagePath: "example.com/shop/payment", Function: "Pay"},
		},
		CustomTypes: []*CustomType{
			{Name: "Fruit", PackagePath: "example.com/shop/shopsteps", Underlying: "string", Values: map[string]string{"Apple": "apple"}},
		},
	}

	t.Run("renders a RegisterSteps function", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderRegistration(&buf, "example.com/shop/shopsteps", "shopsteps", reg))

		code := buf.String()
		_, err := parser.ParseFile(token.NewFileSet(), GeneratedFile, code, 0)
		require.NoError(t, err, code)

		require.True(t, strings.HasPrefix(code, "// Code generated by describe register. DO NOT EDIT."), code)
		require.Contains(t, code, "package shopsteps")
		require.Contains(t, code, "func RegisterSteps(registry *steps.Registry) error")
		require.Contains(t, code, `registry.RegisterCustomType("example.com/shop/shopsteps.Fruit", map[string]string{`)
		require.Contains(t, code, `"apple": "apple"`)
		require.Contains(t, code, `registry.RegisterStep("^an empty basket$", EmptyBasket)`)
		require.Contains(t, code, `registry.RegisterStep("^I pay (-?\\d*\\.?\\d+)$", payment.Pay)`)
		require.Contains(t, code, `"example.com/shop/payment"`)
		require.NotContains(t, code, `"example.com/shop/shopsteps"`)
	})

	t.Run("defaults to package main", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderRegistration(&buf, "", "", &Registration{}))

		code := buf.String()
		require.Contains(t, code, "package main")
		require.Contains(t, code, "return errors.Join()")
	})
}
