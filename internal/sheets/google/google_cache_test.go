package google

import (
	"testing"
	"time"

	"budget/internal/cache"
)

func TestRememberRowsIndexesSlotKeys(t *testing.T) {
	c := &Client{sheetName: "Budget", rows: cache.NewLRUCache[int](rowCacheSize, rowCacheTTL)}
	c.rememberRows([][]interface{}{
		{"budget.income", "[]"},
		{},
		{"  budget.expenses ", "[]"},
		{""},
	})

	if row, ok := c.cachedRow("budget.income"); !ok || row != 1 {
		t.Errorf("income row = %d, %v; want 1", row, ok)
	}
	if row, ok := c.cachedRow("budget.expenses"); !ok || row != 3 {
		t.Errorf("expenses row = %d, %v; want 3", row, ok)
	}
	if c.rows.Size() != 2 {
		t.Errorf("cached %d rows, want 2", c.rows.Size())
	}
}

func TestCachedRowExpires(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := cache.NewLRUCache[int](rowCacheSize, rowCacheTTL)
	rows.SetClock(func() time.Time { return now })
	c := &Client{sheetName: "Budget", rows: rows}

	c.rememberRow("budget.income", 4)
	if _, ok := c.cachedRow("budget.income"); !ok {
		t.Fatal("row should be cached")
	}

	now = now.Add(rowCacheTTL + time.Second)
	if _, ok := c.cachedRow("budget.income"); ok {
		t.Error("row should expire after the TTL")
	}
}

func TestForgetRow(t *testing.T) {
	c := &Client{rows: cache.NewLRUCache[int](rowCacheSize, rowCacheTTL)}
	c.rememberRow("budget.expenses", 2)
	c.forgetRow("budget.expenses")
	if _, ok := c.cachedRow("budget.expenses"); ok {
		t.Error("forgotten row still cached")
	}
}

func TestRowCacheNilSafe(t *testing.T) {
	c := &Client{}
	c.rememberRow("budget.income", 1)
	c.forgetRow("budget.income")
	if _, ok := c.cachedRow("budget.income"); ok {
		t.Error("client without a cache should never report a cached row")
	}
}
