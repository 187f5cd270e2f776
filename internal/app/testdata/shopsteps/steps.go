package shopsteps

import "context"

type Fruit string

const (
	Apple Fruit = "apple"
	Pear  Fruit = "pear"
)

// @step `^an empty basket$`
func EmptyBasket(ctx context.Context) context.Context { return ctx }

// @step `^I add {int} {fruit}s$`
func AddFruit(ctx context.Context, n int, f Fruit) {}
