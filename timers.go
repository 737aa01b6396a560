package actor

import "time"

// timerEntry is one pending delayed one-shot: a deadline, a cancellation
// signal, and a factory that builds the envelope to dispatch when the
// deadline is reached. done closes exactly once -- fired or cancelled.
type timerEntry[A any] struct {
	deadline time.Time
	seq      uint64
	index    int // heap.Interface bookkeeping

	cancel <-chan struct{}
	done   chan struct{}

	build func() *mailEnvelope[A]
}

// timerHeap is a min-heap over pending delayed one-shots, ordered by
// deadline with insertion sequence as the tiebreak so same-deadline
// entries fire in the order they were scheduled.
type timerHeap[A any] []*timerEntry[A]

func (h timerHeap[A]) Len() int { return len(h) }

func (h timerHeap[A]) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap[A]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap[A]) Push(x any) {
	e := x.(*timerEntry[A])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap[A]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
