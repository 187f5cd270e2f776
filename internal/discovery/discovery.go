// Package discovery finds annotated step functions in Go source code.
//
// A step function is an exported top-level function whose doc comment holds a
// line like
//
//	// @step `^I add {int} {fruit}s$`
//
// Placeholders in braces are replaced with regular expressions: the built-in
// {int}, {float}, {word}, {string}, {any} and {} or the name of a custom type
// declared as `type Fruit string` together with its constants.
package discovery

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/denizgursoy/describe/internal/generator"
)

const (
	StepAnnotation = "@step"
)

// supportedPrimitives lists the primitive types that can be used as underlying types for custom types
var supportedPrimitives = map[string]bool{
	"string":  true,
	"int":     true,
	"int8":    true,
	"int16":   true,
	"int32":   true,
	"int64":   true,
	"uint":    true,
	"uint8":   true,
	"uint16":  true,
	"uint32":  true,
	"uint64":  true,
	"float32": true,
	"float64": true,
	"bool":    true,
}

// builtInTypes maps built-in parameter type names to their regex patterns
var builtInTypes = map[string]string{
	"int":    `(-?\d+)`,
	"float":  `(-?\d*\.?\d+)`,
	"word":   `(\w+)`,
	"string": `"([^"]*)"`,
	"":       `(.*)`,
	"any":    `(.*)`,
}

// placeholder matches {name} and {}. Regex quantifiers such as {2,4} do not
// start with a letter and are left alone.
var placeholder = regexp.MustCompile(`\{([A-Za-z]\w*)?\}`)

type sourceFile struct {
	path       string
	importPath string
	node       *ast.File
}

// Discover parses the Go files below root and returns the annotated step
// functions and the custom types their patterns may use. Test files,
// generated registration files and directories the go tool ignores (testdata,
// vendor, names starting with "." or "_") are skipped.
//
// A placeholder resolves to the custom type of that name in the step's own
// package, or else to the only custom type of that name below root.
func Discover(root string) (*generator.Registration, error) {
	files, err := parseFiles(root)
	if err != nil {
		return nil, err
	}

	customTypes := make(map[string]*generator.CustomType)

	// First pass: collect all custom types
	for _, f := range files {
		parseCustomTypes(f.node, f.importPath, customTypes)
	}

	// Second pass: parse constants for the custom types we found
	for _, f := range files {
		parseConstants(f.node, f.importPath, customTypes)
	}

	reg := &generator.Registration{}

	// Third pass: parse functions and transform step patterns
	for _, f := range files {
		for _, decl := range f.node.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			pattern, ok := stepPattern(fn)
			if !ok {
				continue
			}
			if fn.Recv != nil || !fn.Name.IsExported() {
				return nil, fmt.Errorf("%s: step function %s must be an exported top-level function", f.path, fn.Name.Name)
			}

			transformed, err := transformStepPattern(pattern, f.importPath, customTypes)
			if err != nil {
				return nil, fmt.Errorf("error in function %s: %w", fn.Name.Name, err)
			}
			reg.Steps = append(reg.Steps, generator.StepFunction{
				Pattern:     transformed,
				PackagePath: f.importPath,
				Function:    fn.Name.Name,
			})
		}
	}

	for _, key := range slices.Sorted(maps.Keys(customTypes)) {
		reg.CustomTypes = append(reg.CustomTypes, customTypes[key])
	}

	return reg, nil
}

// parseFiles parses every non-test Go file below root in lexical order.
func parseFiles(root string) ([]sourceFile, error) {
	fset := token.NewFileSet()
	files := make([]sourceFile, 0)
	importPaths := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && ignoredDir(name) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == generator.GeneratedFile {
			return nil
		}

		dir := filepath.Dir(path)
		importPath, ok := importPaths[dir]
		if !ok {
			importPath, err = generator.ImportPath(dir)
			if err != nil {
				return err
			}
			importPaths[dir] = importPath
		}

		node, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("cannot parse %s: %w", path, err)
		}
		files = append(files, sourceFile{path: path, importPath: importPath, node: node})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ignoredDir reports whether the go tool ignores packages in a directory
// named name.
func ignoredDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// customTypeKey identifies a custom type by package and case-folded name.
func customTypeKey(importPath, name string) string {
	return importPath + "." + strings.ToLower(name)
}

// stepPattern returns the pattern of the @step line in the doc comment of fn.
func stepPattern(fn *ast.FuncDecl) (string, bool) {
	if fn.Doc == nil {
		return "", false
	}
	for _, comment := range fn.Doc.List {
		rest, found := strings.CutPrefix(comment.Text, "// "+StepAnnotation+" ")
		if !found {
			continue
		}
		rest = strings.TrimSpace(rest)
		if len(rest) > 2 && strings.HasPrefix(rest, "`") && strings.HasSuffix(rest, "`") {
			return rest[1 : len(rest)-1], true
		}
	}
	return "", false
}

// parseCustomTypes finds type declarations like `type Color string` in a file
func parseCustomTypes(file *ast.File, packagePath string, customTypes map[string]*generator.CustomType) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			ident, ok := typeSpec.Type.(*ast.Ident)
			if !ok || !supportedPrimitives[ident.Name] {
				continue
			}

			customTypes[customTypeKey(packagePath, typeSpec.Name.Name)] = &generator.CustomType{
				Name:        typeSpec.Name.Name,
				PackagePath: packagePath,
				Underlying:  ident.Name,
				Values:      make(map[string]string),
			}
		}
	}
}

// parseConstants finds constant declarations and associates them with custom types
func parseConstants(file *ast.File, packagePath string, customTypes map[string]*generator.CustomType) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.CONST {
			continue
		}

		var (
			currentType string   // type of an iota-style const block
			iotaValue   int64    // iota of the current ValueSpec
			lastExpr    ast.Expr // expression repeated by implicit values
		)

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			if valueSpec.Type != nil {
				if ident, ok := valueSpec.Type.(*ast.Ident); ok {
					currentType = ident.Name
				}
			}
			if len(valueSpec.Values) > 0 {
				lastExpr = nil
			}

			ct, ok := customTypes[customTypeKey(packagePath, currentType)]
			if !ok {
				iotaValue++
				continue
			}

			for i, name := range valueSpec.Names {
				expr := lastExpr
				if i < len(valueSpec.Values) {
					expr = valueSpec.Values[i]
					lastExpr = expr
				}

				var value string
				switch {
				case expr != nil:
					value = evaluateConstExpr(expr, iotaValue, ct.Underlying)
				case isIntType(ct.Underlying):
					value = strconv.FormatInt(iotaValue, 10)
				}
				if value != "" {
					ct.Values[name.Name] = value
				}
			}

			iotaValue++
		}
	}
}

// evaluateConstExpr evaluates a constant expression and returns its string value
func evaluateConstExpr(expr ast.Expr, iotaValue int64, underlying string) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			if s, err := strconv.Unquote(e.Value); err == nil {
				return s
			}
		}
		return e.Value

	case *ast.Ident:
		switch e.Name {
		case "iota":
			return strconv.FormatInt(iotaValue, 10)
		case "true", "false":
			return e.Name
		}
		return ""

	case *ast.BinaryExpr:
		left := evaluateConstExpr(e.X, iotaValue, underlying)
		right := evaluateConstExpr(e.Y, iotaValue, underlying)
		if left == "" || right == "" || !isIntType(underlying) {
			return ""
		}
		l, err1 := strconv.ParseInt(left, 10, 64)
		r, err2 := strconv.ParseInt(right, 10, 64)
		if err1 != nil || err2 != nil {
			return ""
		}
		switch e.Op {
		case token.ADD:
			return strconv.FormatInt(l+r, 10)
		case token.SUB:
			return strconv.FormatInt(l-r, 10)
		case token.MUL:
			return strconv.FormatInt(l*r, 10)
		case token.QUO:
			if r != 0 {
				return strconv.FormatInt(l/r, 10)
			}
		}
		return ""

	case *ast.UnaryExpr:
		if e.Op == token.SUB {
			if v := evaluateConstExpr(e.X, iotaValue, underlying); v != "" {
				return "-" + v
			}
		}
		return ""

	case *ast.ParenExpr:
		return evaluateConstExpr(e.X, iotaValue, underlying)

	default:
		return ""
	}
}

// isIntType returns true if the type is an integer type
func isIntType(typeName string) bool {
	switch typeName {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return true
	}
	return false
}

// transformStepPattern replaces {typename} placeholders with regex patterns.
// importPath is the package of the step function.
func transformStepPattern(pattern, importPath string, customTypes map[string]*generator.CustomType) (string, error) {
	var firstErr error

	result := placeholder.ReplaceAllStringFunc(pattern, func(match string) string {
		typeName := match[1 : len(match)-1]

		if builtIn, ok := builtInTypes[strings.ToLower(typeName)]; ok {
			return builtIn
		}

		ct, err := resolveCustomType(typeName, importPath, customTypes)
		if err == nil && len(ct.Values) == 0 {
			err = fmt.Errorf("custom type %s has no defined constants", ct.Name)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return "(" + ct.RegexPattern() + ")"
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// resolveCustomType finds the custom type a placeholder names.
func resolveCustomType(typeName, importPath string, customTypes map[string]*generator.CustomType) (*generator.CustomType, error) {
	if ct, ok := customTypes[customTypeKey(importPath, typeName)]; ok {
		return ct, nil
	}

	var candidates []*generator.CustomType
	for _, ct := range customTypes {
		if strings.EqualFold(ct.Name, typeName) {
			candidates = append(candidates, ct)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("unknown parameter type {%s} in step pattern (not a built-in type or custom type)", typeName)
	case 1:
		return candidates[0], nil
	}

	packages := make([]string, 0, len(candidates))
	for _, ct := range candidates {
		packages = append(packages, ct.PackagePath)
	}
	slices.Sort(packages)
	return nil, fmt.Errorf("ambiguous parameter type {%s}: declared in %s", typeName, strings.Join(packages, ", "))
}
