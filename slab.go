package actor

// slab is a dense free-list container tracking how many concurrent tasks
// are in flight, keyed by stable indices that never shift on removal.
//
// The slab owns no task state: concurrent handlers run to completion on
// their own goroutines (see driver.go), so its only job is bookkeeping --
// allocate a stable index when a concurrent task is admitted, free it when
// that task's completion is observed on the wake queue, and report how
// many tasks are currently in flight (consulted before an exclusive task
// is allowed to run).
type slab struct {
	occupied []bool
	free     []int
	count    int
}

func newSlab(hint int) *slab {
	if hint < 0 {
		hint = 0
	}
	return &slab{occupied: make([]bool, 0, hint)}
}

// insert allocates a new stable index.
func (s *slab) insert() int {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.occupied[idx] = true
		s.count++
		return idx
	}
	idx := len(s.occupied)
	s.occupied = append(s.occupied, true)
	s.count++
	return idx
}

// remove frees idx. Calling it twice for the same idx, or for an idx that
// was never inserted, is a silent no-op, so a stale completion
// notification can never corrupt the free list.
func (s *slab) remove(idx int) {
	if idx < 0 || idx >= len(s.occupied) || !s.occupied[idx] {
		return
	}
	s.occupied[idx] = false
	s.free = append(s.free, idx)
	s.count--
}

// Len reports how many tasks are currently in flight.
func (s *slab) Len() int {
	return s.count
}
