package colour

// @step `^I paint it {colour}$`
func Paint(c string) {}
