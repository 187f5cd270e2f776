package executor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one unit handed to a Sequencer: a step or a child group.
type Task func(ctx context.Context)

// Sequencer runs a batch of sibling tasks and returns once all of them are done.
type Sequencer interface {
	Run(ctx context.Context, tasks []Task)
}

// SequencerFunc adapts a plain function to Sequencer.
type SequencerFunc func(ctx context.Context, tasks []Task)

// Run calls f.
func (f SequencerFunc) Run(ctx context.Context, tasks []Task) {
	f(ctx, tasks)
}

// Sequential runs the tasks one after another in the given order.
func Sequential() Sequencer {
	return SequencerFunc(func(ctx context.Context, tasks []Task) {
		for _, task := range tasks {
			task(ctx)
		}
	})
}

// Concurrent launches the tasks together and waits for all of them. At most
// limit tasks of one batch run at the same time; limit <= 0 means no bound.
func Concurrent(limit int) Sequencer {
	return SequencerFunc(func(ctx context.Context, tasks []Task) {
		var g errgroup.Group
		if limit > 0 {
			g.SetLimit(limit)
		}
		for _, task := range tasks {
			g.Go(func() error {
				task(ctx)
				return nil
			})
		}
		_ = g.Wait()
	})
}
