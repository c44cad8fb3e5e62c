package analysis

import (
	"sync"

	"github.com/brandlift/partnerfit/internal/model"
)

// outcome is the terminal result of one profile pipeline: exactly one of the
// two fields is set.
type outcome struct {
	success *model.ProfileSuccess
	failure *model.ProfileFailure
}

// collector accumulates outcomes from concurrently running pipelines. It
// never rejects an individual failure; the invariant
// len(successes)+len(failures) == submitted count holds once every pipeline
// has reported.
type collector struct {
	mu        sync.Mutex
	successes []model.ProfileSuccess
	failures  []model.ProfileFailure
}

func newCollector(capacity int) *collector {
	return &collector{
		successes: make([]model.ProfileSuccess, 0, capacity),
		failures:  make([]model.ProfileFailure, 0, capacity),
	}
}

func (c *collector) add(o outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o.success != nil {
		c.successes = append(c.successes, *o.success)
		return
	}
	if o.failure != nil {
		c.failures = append(c.failures, *o.failure)
	}
}

// outcomes returns the accumulated successes and failures. Safe to call once
// all pipelines have drained.
func (c *collector) outcomes() ([]model.ProfileSuccess, []model.ProfileFailure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successes, c.failures
}
