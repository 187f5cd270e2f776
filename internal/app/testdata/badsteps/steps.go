package badsteps

// @step `^I paint it {colour}$`
func Paint(c string) {}
