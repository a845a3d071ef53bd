package blockconv

import (
	"runtime"
	"time"
)

// yieldBudget is how long the optimizer may run between yields.
const yieldBudget = 100 * time.Millisecond

// scheduler hands the processor over periodically during long merges so a
// single huge rule set does not starve the rest of the program.
type scheduler struct {
	last time.Time
}

func newScheduler() (s *scheduler) {
	return &scheduler{last: time.Now()}
}

// maybeYield yields if the time budget since the last yield is spent. It is
// called at the boundary of each mergeable group, so ordering between units
// of work is preserved.
func (s *scheduler) maybeYield() {
	if time.Since(s.last) >= yieldBudget {
		runtime.Gosched()
		s.last = time.Now()
	}
}
