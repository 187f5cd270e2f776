package testdata

// @step `^this is never discovered {nothing}$`
func Ignored() {}
