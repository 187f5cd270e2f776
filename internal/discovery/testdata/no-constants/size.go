package size

type Size string

// @step `^the size is {size}$`
func WithSize(s Size) {}
