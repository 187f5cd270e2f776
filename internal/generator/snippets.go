package generator

import (
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	messages "github.com/cucumber/messages/go/v21"
	"github.com/dave/jennifer/jen"
	"github.com/denizgursoy/describe/pkg/gherkin"
	"github.com/denizgursoy/describe/pkg/steps"
)

const stepsPackage = "github.com/denizgursoy/describe/pkg/steps"

// parameterPattern finds the parts of a step text that become parameters:
// quoted strings and numbers.
var parameterPattern = regexp.MustCompile(`"[^"]*"|-?\b\d+(?:\.\d+)?\b`)

type ParamType int

const (
	StringParam ParamType = iota
	IntParam
	FloatParam
	TableParam
)

func (p ParamType) code() jen.Code {
	switch p {
	case IntParam:
		return jen.Int()
	case FloatParam:
		return jen.Float64()
	case TableParam:
		return jen.Qual(stepsPackage, "Table")
	default:
		return jen.String()
	}
}

type (
	Param struct {
		Name string
		Type ParamType
	}

	// Snippet is a stub step definition for an undefined step.
	Snippet struct {
		Step     gherkin.StepText
		Pattern  string
		Function string
		Params   []Param
	}
)

// Snippets returns one snippet per undefined step of document. Steps that
// differ only in their parameters share a snippet.
func Snippets(document *messages.GherkinDocument, registry *steps.Registry) []Snippet {
	return FromSteps(gherkin.UndefinedSteps(document, registry))
}

// FromSteps returns one snippet per distinct pattern of stepTexts. Function
// names are made unique with a numeric suffix.
func FromSteps(stepTexts []gherkin.StepText) []Snippet {
	snippets := make([]Snippet, 0)
	patterns := make(map[string]bool)
	functions := make(map[string]int)

	for _, step := range stepTexts {
		snippet := NewSnippet(step)
		if patterns[snippet.Pattern] {
			continue
		}
		patterns[snippet.Pattern] = true

		functions[snippet.Function]++
		if n := functions[snippet.Function]; n > 1 {
			snippet.Function += strconv.Itoa(n)
		}
		snippets = append(snippets, snippet)
	}

	return snippets
}

// NewSnippet derives the pattern, function name and parameters of step.
//
//	I have 5 apples  ->  ^I have (-?\d+) apples$  IHaveApples(ctx, arg1 int)
func NewSnippet(step gherkin.StepText) Snippet {
	var (
		pattern strings.Builder
		words   strings.Builder
		params  []Param
	)

	text := step.Text
	last := 0
	for _, loc := range parameterPattern.FindAllStringIndex(text, -1) {
		literal := text[last:loc[0]]
		pattern.WriteString(regexp.QuoteMeta(literal))
		words.WriteString(literal + " ")

		value := text[loc[0]:loc[1]]
		name := "arg" + strconv.Itoa(len(params)+1)
		switch {
		case strings.HasPrefix(value, `"`):
			pattern.WriteString(`"([^"]*)"`)
			params = append(params, Param{Name: name, Type: StringParam})
		case strings.Contains(value, "."):
			pattern.WriteString(`(-?\d*\.?\d+)`)
			params = append(params, Param{Name: name, Type: FloatParam})
		default:
			pattern.WriteString(`(-?\d+)`)
			params = append(params, Param{Name: name, Type: IntParam})
		}
		last = loc[1]
	}
	pattern.WriteString(regexp.QuoteMeta(text[last:]))
	words.WriteString(text[last:])

	switch step.Argument {
	case gherkin.DocStringArgument:
		params = append(params, Param{Name: "doc", Type: StringParam})
	case gherkin.DataTableArgument:
		params = append(params, Param{Name: "table", Type: TableParam})
	}

	return Snippet{
		Step:     step,
		Pattern:  "^" + pattern.String() + "$",
		Function: functionName(words.String()),
		Params:   params,
	}
}

// functionName builds an exported Go identifier from the words of text.
func functionName(text string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "Step" + name
	}
	return name
}

// Render writes a Go file in package pkgName holding one stub function per
// snippet and a RegisterSteps function that registers all of them. pkgPath is
// the import path of the target package and may be empty.
func Render(w io.Writer, pkgPath, pkgName string, snippets []Snippet) error {
	if pkgName == "" {
		pkgName = "main"
	}

	var file *jen.File
	if pkgPath != "" {
		file = jen.NewFilePathName(pkgPath, pkgName)
	} else {
		file = jen.NewFile(pkgName)
	}

	for _, snippet := range snippets {
		file.Commentf("%s matches %q.", snippet.Function, snippet.Step.String())
		file.Func().Id(snippet.Function).ParamsFunc(func(g *jen.Group) {
			g.Id("ctx").Qual("context", "Context")
			for _, param := range snippet.Params {
				g.Id(param.Name).Add(param.Type.code())
			}
		}).Params(jen.Qual("context", "Context"), jen.Error()).Block(
			jen.Return(jen.Id("ctx"), jen.Qual("errors", "New").Call(jen.Lit("pending"))),
		)
		file.Line()
	}

	file.Comment("RegisterSteps registers the step definitions of this file.")
	file.Func().Id("RegisterSteps").Params(
		jen.Id("registry").Op("*").Qual(stepsPackage, "Registry"),
	).Error().Block(
		jen.Return(jen.Qual("errors", "Join").CallFunc(func(g *jen.Group) {
			for _, snippet := range snippets {
				g.Line().Id("registry").Dot("RegisterStep").Call(jen.Lit(snippet.Pattern), jen.Id(snippet.Function))
			}
		})),
	)

	return file.Render(w)
}
