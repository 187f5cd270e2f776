package alpha

type Level string

const Low Level = "low"

// @step `^alpha is {level}$`
func AlphaLevel(l Level) {}
