package describe

import "fmt"

// HookKind tells whether a hook runs before or after each test case.
type HookKind int

const (
	// HookBefore runs before every test case of the group and its descendants.
	HookBefore HookKind = iota
	// HookAfter runs after every test case of the group and its descendants.
	HookAfter
)

// String returns a human-readable label for the hook kind.
func (k HookKind) String() string {
	switch k {
	case HookBefore:
		return "before"
	case HookAfter:
		return "after"
	default:
		return "unknown"
	}
}

// HookEntry is a hook declared on a group.
type HookEntry struct {
	Kind HookKind
	Fn   Action
}

// HookError wraps a failure raised by a before or after hook.
type HookError struct {
	Kind HookKind
	// Index is the position of the failing hook in the resolved hook list.
	Index int
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook #%d failed: %v", e.Kind, e.Index+1, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
