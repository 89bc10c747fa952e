package selection

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/netkeyhq/netkey-bot/internal/model"
)

func plan(id string) model.Plan {
	return model.Plan{ID: id, Name: id, Price: decimal.NewFromInt(100), Description: id}
}

func TestCache_LastWriteWins(t *testing.T) {
	t.Parallel()
	c := New()

	if _, ok := c.Get(1); ok {
		t.Fatalf("empty cache must miss")
	}

	c.Put(1, plan("a"))
	c.Put(1, plan("b"))
	c.Put(1, plan("c"))

	got, ok := c.Get(1)
	if !ok || got.ID != "c" {
		t.Fatalf("want last selection c, got %v ok=%v", got.ID, ok)
	}

	// Reading must not consume the entry: a rejected buyer resubmits
	// against the same selection.
	got, ok = c.Get(1)
	if !ok || got.ID != "c" {
		t.Fatalf("second read: want c, got %v ok=%v", got.ID, ok)
	}
}

func TestCache_KeysAreIndependent(t *testing.T) {
	t.Parallel()
	c := New()
	c.Put(1, plan("a"))
	c.Put(2, plan("b"))

	if got, _ := c.Get(1); got.ID != "a" {
		t.Fatalf("buyer 1: want a, got %s", got.ID)
	}
	if got, _ := c.Get(2); got.ID != "b" {
		t.Fatalf("buyer 2: want b, got %s", got.ID)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		buyer := int64(i % 5)
		go func(n int) {
			defer wg.Done()
			c.Put(buyer, plan(fmt.Sprintf("p%d", n)))
		}(i)
		go func() {
			defer wg.Done()
			c.Get(buyer)
		}()
	}
	wg.Wait()

	for buyer := int64(0); buyer < 5; buyer++ {
		if _, ok := c.Get(buyer); !ok {
			t.Fatalf("buyer %d lost its selection", buyer)
		}
	}
}
