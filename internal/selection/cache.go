// Package selection holds the per-buyer plan selection cache.
package selection

import (
	"sync"

	"github.com/netkeyhq/netkey-bot/internal/model"
)

// Cache maps a buyer identity to the most recently chosen plan. The stored
// value is a copy of the plan at choice time, so an in-flight review keeps
// its snapshot even if the catalog is different on the next process start.
//
// Last-write-wins is the consistency policy: a race between a plan change
// and a receipt submission resolves to whichever write is visible at read
// time. At most one selection per buyer, no history, no expiry.
type Cache struct {
	mu    sync.RWMutex
	plans map[int64]model.Plan
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{plans: make(map[int64]model.Plan)}
}

// Put records the buyer's selection, overwriting any previous one.
func (c *Cache) Put(buyerID int64, plan model.Plan) {
	c.mu.Lock()
	c.plans[buyerID] = plan
	c.mu.Unlock()
}

// Get returns the buyer's current selection without removing it: a rejected
// buyer resubmits against the same selection unless they re-choose.
func (c *Cache) Get(buyerID int64) (model.Plan, bool) {
	c.mu.RLock()
	plan, ok := c.plans[buyerID]
	c.mu.RUnlock()
	return plan, ok
}
