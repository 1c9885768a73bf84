package cache

import (
	"testing"
	"time"
)

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Minute)
	c.SetClock(func() time.Time { return now })

	c.Set("income", 3)
	if v, ok := c.Get("income"); !ok || v != 3 {
		t.Fatalf("Get = %d, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("income"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry not removed, size %d", c.Size())
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Hour)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestLRUCacheDeleteAndPurge(t *testing.T) {
	c := NewLRUCache[int](5, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 || c.Size() != 2 {
		t.Fatalf("overwrite failed: a=%d size=%d", v, c.Size())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}
	c.Purge()
	if c.Size() != 0 {
		t.Errorf("size after purge = %d", c.Size())
	}
}
