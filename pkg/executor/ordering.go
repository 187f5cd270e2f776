package executor

import (
	"math/rand/v2"
	"slices"

	"github.com/denizgursoy/describe/pkg/collector"
)

// OrderingPolicy decides the execution order of the collected steps. It is
// applied once to the whole flattened list before anything runs. Steps left out
// of the returned slice are not executed.
type OrderingPolicy interface {
	Order(steps []collector.CollectedStep) []collector.CollectedStep
}

// OrderingFunc adapts a plain function to OrderingPolicy.
type OrderingFunc func(steps []collector.CollectedStep) []collector.CollectedStep

// Order calls f.
func (f OrderingFunc) Order(steps []collector.CollectedStep) []collector.CollectedStep {
	return f(steps)
}

// DeclarationOrder keeps the collected order.
func DeclarationOrder() OrderingPolicy {
	return OrderingFunc(func(steps []collector.CollectedStep) []collector.CollectedStep {
		return steps
	})
}

// Reversed runs every group's steps last-declared first.
func Reversed() OrderingPolicy {
	return OrderingFunc(func(steps []collector.CollectedStep) []collector.CollectedStep {
		reversed := slices.Clone(steps)
		slices.Reverse(reversed)
		return reversed
	})
}

// Shuffled randomizes the order with a PCG source seeded by seed, so a failing
// order can be replayed.
func Shuffled(seed int64) OrderingPolicy {
	return OrderingFunc(func(steps []collector.CollectedStep) []collector.CollectedStep {
		shuffled := slices.Clone(steps)
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled
	})
}
