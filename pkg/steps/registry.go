// Package steps maps step text to Go functions through regular expressions.
// Captured groups are converted to the function's parameter types, and a
// step's doc string or data table is passed as the trailing parameter.
package steps

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	tableType   = reflect.TypeOf(Table{})
	rowsType    = reflect.TypeOf([][]string(nil))
)

// UndefinedStepError is returned when no definition matches a step text.
type UndefinedStepError struct {
	Text string
}

func (e *UndefinedStepError) Error() string {
	return fmt.Sprintf("undefined step: %s", e.Text)
}

// Definition holds a compiled pattern and its step function.
type Definition struct {
	Pattern  *regexp.Regexp
	Function any
}

// Match is a step text resolved against a definition.
type Match struct {
	Definition *Definition

	// Args are the captured groups, without the full match.
	Args []string

	// Locs holds [start, end) byte offsets of each captured group in the text.
	Locs []int
}

// customType maps accepted step values to the underlying value of a named type.
type customType struct {
	values map[string]string
}

// Registry holds step definitions. It is safe for concurrent use once all
// definitions are registered.
type Registry struct {
	mu          sync.RWMutex
	definitions []*Definition
	patterns    map[string]bool
	customTypes map[string]customType
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		patterns:    make(map[string]bool),
		customTypes: make(map[string]customType),
	}
}

// RegisterStep registers fn for pattern. fn may take a leading
// context.Context, one parameter per captured group and a trailing string,
// [][]string or Table for the step argument. It may return a context.Context
// and an error, in any combination.
func (r *Registry) RegisterStep(pattern string, fn any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.patterns[pattern] {
		return fmt.Errorf("duplicate step pattern: %s", pattern)
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("step handler must be a function, got %T", fn)
	}
	for i := 0; i < fnType.NumOut(); i++ {
		out := fnType.Out(i)
		if out != contextType && out != errorType {
			return fmt.Errorf("step handler for %q may only return context.Context and error, got %s", pattern, out)
		}
	}

	r.definitions = append(r.definitions, &Definition{
		Pattern:  compiled,
		Function: fn,
	})
	r.patterns[pattern] = true
	return nil
}

// RegisterCustomType lets captured values be converted to the named type
// typeName. typeName is either qualified by its import path
// ("example.com/shop.Color"), which only matches that package's type, or bare
// ("Color"), which matches any type of that name without a qualified
// registration. Keys of values are matched case-insensitively and mapped to the
// string form of the underlying value.
func (r *Registry) RegisterCustomType(typeName string, values map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	normalized := make(map[string]string, len(values))
	for k, v := range values {
		normalized[strings.ToLower(k)] = v
	}
	r.customTypes[typeName] = customType{values: normalized}
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// Match returns the first definition, in registration order, whose pattern
// matches text. It returns an *UndefinedStepError when none does.
func (r *Registry) Match(text string) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.definitions {
		locs := def.Pattern.FindStringSubmatchIndex(text)
		if locs == nil {
			continue
		}
		args := make([]string, 0, len(locs)/2-1)
		for i := 2; i+1 < len(locs); i += 2 {
			if locs[i] < 0 {
				args = append(args, "")
				continue
			}
			args = append(args, text[locs[i]:locs[i+1]])
		}
		return &Match{Definition: def, Args: args, Locs: locs[2:]}, nil
	}
	return nil, &UndefinedStepError{Text: text}
}

// Defined reports whether some definition matches text.
func (r *Registry) Defined(text string) bool {
	_, err := r.Match(text)
	return err == nil
}

// Invoke runs the definition matching text. arg is the step's doc string
// (string) or data table ([][]string), or nil. The returned context is the one
// returned by the step function, or ctx when it returns none.
func (r *Registry) Invoke(ctx context.Context, text string, arg any) (context.Context, error) {
	match, err := r.Match(text)
	if err != nil {
		return ctx, err
	}

	fnValue := reflect.ValueOf(match.Definition.Function)
	fnType := fnValue.Type()

	callArgs, err := r.buildCallArgs(ctx, fnType, match.Args, arg)
	if err != nil {
		return ctx, err
	}

	newCtx, err := processReturnValues(fnType, fnValue.Call(callArgs))
	if newCtx == nil {
		newCtx = ctx
	}
	return newCtx, err
}

// buildCallArgs constructs the argument slice for function invocation
func (r *Registry) buildCallArgs(ctx context.Context, fnType reflect.Type, captured []string, arg any) ([]reflect.Value, error) {
	numParams := fnType.NumIn()
	callArgs := make([]reflect.Value, 0, numParams)

	capturedIndex := 0
	argUsed := false

	for i := 0; i < numParams; i++ {
		paramType := fnType.In(i)

		if paramType == contextType {
			callArgs = append(callArgs, reflect.ValueOf(&ctx).Elem())
			continue
		}

		if capturedIndex < len(captured) {
			value := captured[capturedIndex]
			capturedIndex++

			converted, err := r.convertArg(value, paramType)
			if err != nil {
				return nil, fmt.Errorf("failed to convert argument %q to %s: %w", value, paramType, err)
			}
			callArgs = append(callArgs, converted)
			continue
		}

		if arg != nil && !argUsed {
			converted, err := convertStepArgument(arg, paramType)
			if err != nil {
				return nil, err
			}
			callArgs = append(callArgs, converted)
			argUsed = true
			continue
		}

		return nil, fmt.Errorf("not enough captured arguments: expected %d more, have %d", numParams-i, len(captured)-capturedIndex)
	}

	if arg != nil && !argUsed {
		return nil, fmt.Errorf("step has a %s argument but the step function does not accept it", argumentKind(arg))
	}

	return callArgs, nil
}

// convertStepArgument passes a doc string or data table to a parameter of a
// compatible type.
func convertStepArgument(arg any, paramType reflect.Type) (reflect.Value, error) {
	if rows, ok := arg.([][]string); ok && paramType == tableType {
		return reflect.ValueOf(NewTable(rows)), nil
	}
	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(paramType) {
		return value, nil
	}
	if value.Kind() == reflect.String && paramType.Kind() == reflect.String {
		return value.Convert(paramType), nil
	}
	if value.Type() == rowsType && paramType.ConvertibleTo(rowsType) && paramType.Kind() == reflect.Slice {
		return value.Convert(paramType), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot pass %s argument to parameter of type %s", argumentKind(arg), paramType)
}

func argumentKind(arg any) string {
	switch arg.(type) {
	case string:
		return "doc string"
	case [][]string:
		return "data table"
	default:
		return fmt.Sprintf("%T", arg)
	}
}

// processReturnValues extracts context and error from function return values
func processReturnValues(fnType reflect.Type, results []reflect.Value) (context.Context, error) {
	var newCtx context.Context
	var retErr error

	for i := 0; i < len(results); i++ {
		result := results[i]
		switch fnType.Out(i) {
		case contextType:
			if !result.IsNil() {
				newCtx = result.Interface().(context.Context)
			}
		case errorType:
			if !result.IsNil() {
				retErr = result.Interface().(error)
			}
		}
	}

	return newCtx, retErr
}

// convertArg converts a captured string to the target type. Named types are
// resolved through RegisterCustomType first, then by their underlying kind.
func (r *Registry) convertArg(arg string, targetType reflect.Type) (reflect.Value, error) {
	if custom, ok := r.customType(targetType); ok {
		mapped, found := custom.values[strings.ToLower(arg)]
		if !found {
			return reflect.Value{}, fmt.Errorf("invalid %s: %q", targetType.Name(), arg)
		}
		arg = mapped
	}

	value, err := convertKind(arg, targetType.Kind())
	if err != nil {
		return reflect.Value{}, err
	}
	return value.Convert(targetType), nil
}

// customType returns the registration for a named type, preferring the one
// qualified by its import path.
func (r *Registry) customType(t reflect.Type) (customType, bool) {
	if t.PkgPath() == "" || t.Name() == "" {
		return customType{}, false
	}
	if custom, ok := r.customTypes[t.PkgPath()+"."+t.Name()]; ok {
		return custom, true
	}
	custom, ok := r.customTypes[t.Name()]
	return custom, ok
}

// convertKind parses arg into a value of the given basic kind.
func convertKind(arg string, kind reflect.Kind) (reflect.Value, error) {
	switch kind {
	case reflect.String:
		return reflect.ValueOf(arg), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(arg, 10, bitSize(kind))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(arg, 10, bitSize(kind))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	case reflect.Float32, reflect.Float64:
		size := 64
		if kind == reflect.Float32 {
			size = 32
		}
		v, err := strconv.ParseFloat(arg, size)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	case reflect.Bool:
		v, err := strconv.ParseBool(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %s", kind)
	}
}

func bitSize(kind reflect.Kind) int {
	switch kind {
	case reflect.Int8, reflect.Uint8:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32:
		return 32
	case reflect.Int64, reflect.Uint64:
		return 64
	default:
		return 0
	}
}
