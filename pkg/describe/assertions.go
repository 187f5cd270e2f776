package describe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// AssertionError is raised (as a panic value) by failing assertions. The
// executor recovers it and records it as the case's failure.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Assertions provides fail-fast assertion helpers for test bodies and hooks.
// A failing assertion panics with an *AssertionError, which stops the body.
type Assertions struct{}

// Assert is the assertion helper used inside bodies:
//
//	describe.Assert.Equal(5, 2+2) // fails with "Expected 5 but got 4"
var Assert Assertions

// Equal asserts expected == actual (using reflect.DeepEqual).
func (Assertions) Equal(expected, actual any, msgAndArgs ...any) {
	if !reflect.DeepEqual(expected, actual) {
		failf(msgAndArgs, "Expected %v but got %v", expected, actual)
	}
}

// NotEqual asserts expected != actual.
func (Assertions) NotEqual(expected, actual any, msgAndArgs ...any) {
	if reflect.DeepEqual(expected, actual) {
		failf(msgAndArgs, "Expected values to differ, but both are: %v", expected)
	}
}

// Nil asserts value is nil.
func (Assertions) Nil(value any, msgAndArgs ...any) {
	if !isNil(value) {
		failf(msgAndArgs, "Expected nil, got: %v", value)
	}
}

// NotNil asserts value is not nil.
func (Assertions) NotNil(value any, msgAndArgs ...any) {
	if isNil(value) {
		failf(msgAndArgs, "Expected non-nil value, got nil")
	}
}

// True asserts condition is true.
func (Assertions) True(condition bool, msgAndArgs ...any) {
	if !condition {
		failf(msgAndArgs, "Expected true, got false")
	}
}

// False asserts condition is false.
func (Assertions) False(condition bool, msgAndArgs ...any) {
	if condition {
		failf(msgAndArgs, "Expected false, got true")
	}
}

// NoError asserts err is nil.
func (Assertions) NoError(err error, msgAndArgs ...any) {
	if err != nil {
		failf(msgAndArgs, "Expected no error, got: %v", err)
	}
}

// Error asserts err is not nil.
func (Assertions) Error(err error, msgAndArgs ...any) {
	if err == nil {
		failf(msgAndArgs, "Expected an error, got nil")
	}
}

// ErrorIs asserts that err matches target using errors.Is.
func (Assertions) ErrorIs(err, target error, msgAndArgs ...any) {
	if !errors.Is(err, target) {
		failf(msgAndArgs, "Expected error %v, got: %v", target, err)
	}
}

// ErrorContains asserts that err's message contains substr.
func (Assertions) ErrorContains(err error, substr string, msgAndArgs ...any) {
	if err == nil {
		failf(msgAndArgs, "Expected error containing %q, got nil", substr)
		return
	}
	if !strings.Contains(err.Error(), substr) {
		failf(msgAndArgs, "Expected error containing %q, got: %v", substr, err)
	}
}

// Contains asserts that s contains the element/substring.
// For strings: checks if s contains substr.
// For slices/arrays: checks if collection contains element.
// For maps: checks if map contains key.
func (Assertions) Contains(s, contains any, msgAndArgs ...any) {
	ok, found := containsElement(s, contains)
	if !ok {
		failf(msgAndArgs, "Cannot check containment on type %T", s)
		return
	}
	if !found {
		failf(msgAndArgs, "%v does not contain %v", s, contains)
	}
}

// Len asserts collection has expected length.
func (Assertions) Len(collection any, length int, msgAndArgs ...any) {
	l, ok := getLen(collection)
	if !ok {
		failf(msgAndArgs, "Cannot get length of type %T", collection)
		return
	}
	if l != length {
		failf(msgAndArgs, "Expected length %d, got %d", length, l)
	}
}

// Empty asserts collection is empty (len == 0).
func (Assertions) Empty(collection any, msgAndArgs ...any) {
	l, ok := getLen(collection)
	if !ok {
		failf(msgAndArgs, "Cannot get length of type %T", collection)
		return
	}
	if l != 0 {
		failf(msgAndArgs, "Expected empty collection, got length %d", l)
	}
}

// Fail fails the test immediately with the given message.
func (Assertions) Fail(msgAndArgs ...any) {
	msg := "Test failed"
	if len(msgAndArgs) > 0 {
		msg = formatMsgAndArgs(msgAndArgs...)
	}
	panic(&AssertionError{Message: msg})
}

// failf formats a failure message with format args and optional user message.
func failf(msgAndArgs []any, format string, formatArgs ...any) {
	msg := fmt.Sprintf(format, formatArgs...)

	if len(msgAndArgs) > 0 {
		msg += ": " + formatMsgAndArgs(msgAndArgs...)
	}

	panic(&AssertionError{Message: msg})
}

// formatMsgAndArgs formats optional message and arguments.
func formatMsgAndArgs(msgAndArgs ...any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if s, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(s, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}

// isNil checks if a value is nil (handles interface nil).
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// getLen returns the length of a collection.
func getLen(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len(), true
	}
	return 0, false
}

// containsElement checks if s contains the element.
func containsElement(s, elem any) (ok bool, found bool) {
	sv := reflect.ValueOf(s)

	switch sv.Kind() {
	case reflect.String:
		return true, strings.Contains(sv.String(), reflect.ValueOf(elem).String())
	case reflect.Slice, reflect.Array:
		for i := 0; i < sv.Len(); i++ {
			if reflect.DeepEqual(sv.Index(i).Interface(), elem) {
				return true, true
			}
		}
		return true, false
	case reflect.Map:
		for _, key := range sv.MapKeys() {
			if reflect.DeepEqual(key.Interface(), elem) {
				return true, true
			}
		}
		return true, false
	}
	return false, false
}

// Catch runs fn and converts a panic into an error. An *AssertionError or any
// other error panic value is returned as is.
func Catch(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("panic: %v", v)
			}
		}
	}()
	return fn()
}
