package cache

// @step `^this is never discovered {nothing}$`
func Ignored() {}
