package old

// @step `^this is never discovered {nothing}$`
func Ignored() {}
