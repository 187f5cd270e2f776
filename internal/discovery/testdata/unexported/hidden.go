package unexported

// @step `^a hidden step$`
func hidden() {}
