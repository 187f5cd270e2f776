package generator

import (
	"io"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
)

type (
	// StepFunction is an annotated step function found in source code.
	StepFunction struct {
		Pattern     string
		PackagePath string
		Function    string
	}

	// CustomType represents a user-defined type like `type Color string`
	// with its associated constant values
	CustomType struct {
		Name        string            // Type name, e.g., "Color"
		PackagePath string            // Full package path
		Underlying  string            // Underlying primitive type: "string", "int", "float64", etc.
		Values      map[string]string // Constant name -> value, e.g., {"Red": "red", "Blue": "blue"}
	}

	// Registration is everything RenderRegistration needs to wire annotated
	// step functions into a steps.Registry.
	Registration struct {
		Steps       []StepFunction
		CustomTypes []*CustomType
	}
)

// NamesAndValues returns a map of lowercase name/value -> actual value
// This is used for case-insensitive matching at runtime
func (ct *CustomType) NamesAndValues() map[string]string {
	result := make(map[string]string, len(ct.Values)*2)
	for name, value := range ct.Values {
		result[strings.ToLower(name)] = value
		result[strings.ToLower(value)] = value
	}
	return result
}

// QualifiedName returns the type name prefixed with its import path, e.g.
// "example.com/shop.Color", or the bare name when the path is unknown.
func (ct *CustomType) QualifiedName() string {
	if ct.PackagePath == "" {
		return ct.Name
	}
	return ct.PackagePath + "." + ct.Name
}

// RegexPattern returns a case-insensitive pattern matching any constant name
// or value of the type, e.g. "(?i:blue|green|red)".
func (ct *CustomType) RegexPattern() string {
	seen := make(map[string]bool)
	var parts []string

	for name, value := range ct.Values {
		for _, s := range []string{strings.ToLower(name), strings.ToLower(value)} {
			if !seen[s] {
				parts = append(parts, regexp.QuoteMeta(s))
				seen[s] = true
			}
		}
	}

	slices.Sort(parts)
	return "(?i:" + strings.Join(parts, "|") + ")"
}

// ImportPath returns the import path of the package in dir, resolved from the
// nearest go.mod.
func ImportPath(dir string) (string, error) {
	return detectImportPath(dir)
}

// RenderRegistration writes a Go file in package pkgName with a RegisterSteps
// function that registers the custom types and step functions of reg.
// Functions of package pkgPath are referenced without a qualifier.
func RenderRegistration(w io.Writer, pkgPath, pkgName string, reg *Registration) error {
	if pkgName == "" {
		pkgName = "main"
	}

	var file *jen.File
	if pkgPath != "" {
		file = jen.NewFilePathName(pkgPath, pkgName)
	} else {
		file = jen.NewFile(pkgName)
	}
	file.HeaderComment("Code generated by describe register. DO NOT EDIT.")

	var body []jen.Code
	for _, ct := range reg.CustomTypes {
		values := ct.NamesAndValues()
		body = append(body, jen.Id("registry").Dot("RegisterCustomType").Call(
			jen.Lit(ct.QualifiedName()),
			jen.Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
				for _, k := range slices.Sorted(maps.Keys(values)) {
					d[jen.Lit(k)] = jen.Lit(values[k])
				}
			})),
		))
	}
	body = append(body, jen.Return(jen.Qual("errors", "Join").CallFunc(func(g *jen.Group) {
		for _, step := range reg.Steps {
			g.Line().Id("registry").Dot("RegisterStep").Call(jen.Lit(step.Pattern), jen.Qual(step.PackagePath, step.Function))
		}
	})))

	file.Comment("RegisterSteps registers every annotated step function.")
	file.Func().Id("RegisterSteps").Params(
		jen.Id("registry").Op("*").Qual(stepsPackage, "Registry"),
	).Error().Block(body...)

	return file.Render(w)
}
