package beta

type Level int

const (
	Debug Level = iota
	Info
)

// @step `^beta is {level}$`
func BetaLevel(l Level) {}
