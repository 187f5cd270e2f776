package shop

import "context"

// Fruit is something the basket can hold.
type Fruit string

const (
	Apple Fruit = "apple"
	Pear  Fruit = "pear"
)

type Priority int

const (
	Low Priority = iota + 1
	Medium
	High
)

type basketKey struct{}

// EmptyBasket starts every scenario.
// @step `^an empty basket$`
func EmptyBasket(ctx context.Context) context.Context {
	return context.WithValue(ctx, basketKey{}, map[Fruit]int{})
}

// @step `^I add {int} {fruit}s$`
func AddFruit(ctx context.Context, n int, f Fruit) {
	ctx.Value(basketKey{}).(map[Fruit]int)[f] += n
}

// @step `^the order priority is {priority}$`
func SetPriority(p Priority) {}

// @step `^I say {string} to {word}$`
func Say(message, name string) {}

// helper has no annotation.
func helper() {}
