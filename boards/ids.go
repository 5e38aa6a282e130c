package boards

import (
	"sync"
	"time"
)

// IDGenerator hands out sticker ids derived from wall-clock milliseconds.
// Ids are strictly increasing for the lifetime of the generator, even when
// the clock stalls or steps back.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns the next id for which taken reports false.
func (g *IDGenerator) Next(taken func(id int64) bool) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	for taken != nil && taken(id) {
		id++
	}

	g.last = id
	return id
}
