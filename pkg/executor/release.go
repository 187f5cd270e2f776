package executor

import (
	"sync"

	"github.com/denizgursoy/describe/pkg/describe"
)

// slot is an ordered region of reporter output. Events emitted into a slot are
// forwarded to the reporter as soon as every region declared before it has
// been fully released, and buffered until then. A slot may contain nested
// slots; they are released in the order they were opened.
//
// All slots of one run share a mutex, so reporter calls never overlap.
type slot struct {
	mu       *sync.Mutex
	reporter describe.Reporter
	parent   *slot

	pending []pendingItem
	live    bool
	closed  bool
}

type pendingItem struct {
	event func(describe.Reporter)
	child *slot
}

// newRelease returns the root slot of a run. It is live from the start.
func newRelease(reporter describe.Reporter) *slot {
	return &slot{
		mu:       &sync.Mutex{},
		reporter: reporter,
		live:     true,
	}
}

// Open reserves the next region inside s.
func (s *slot) Open() *slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	child := &slot{mu: s.mu, reporter: s.reporter, parent: s}
	if s.live && len(s.pending) == 0 {
		child.live = true
	}
	s.pending = append(s.pending, pendingItem{child: child})
	return child
}

// Emit delivers event now when s is at the head of the output, or queues it.
func (s *slot) Emit(event func(describe.Reporter)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live && len(s.pending) == 0 {
		event(s.reporter)
		return
	}
	s.pending = append(s.pending, pendingItem{event: event})
}

// Close marks s complete. Nothing may be emitted into it afterwards.
func (s *slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.live {
		s.settle()
	}
}

func (s *slot) done() bool {
	return s.closed && len(s.pending) == 0
}

// settle drains s and hands the output position to the parent once s is done.
func (s *slot) settle() {
	for cur := s; cur != nil; cur = cur.parent {
		cur.drain()
		if !cur.done() {
			return
		}
	}
}

// drain releases queued items until it reaches a nested slot that is still open.
func (s *slot) drain() {
	for len(s.pending) > 0 {
		head := s.pending[0]
		if head.child == nil {
			head.event(s.reporter)
			s.pending = s.pending[1:]
			continue
		}
		if !head.child.live {
			head.child.live = true
			head.child.drain()
		}
		if !head.child.done() {
			return
		}
		s.pending = s.pending[1:]
	}
}
