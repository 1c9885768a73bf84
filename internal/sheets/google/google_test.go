package google

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFindSlot(t *testing.T) {
	rows := [][]interface{}{
		{"income", `[{"id":1}]`},
		{},
		{"expenses"},
		{" notes ", "x"},
	}

	cases := []struct {
		key   string
		row   int
		value string
		ok    bool
	}{
		{"income", 1, `[{"id":1}]`, true},
		{"expenses", 3, "", true},
		{"notes", 4, "x", true},
		{"missing", 0, "", false},
	}
	for _, tc := range cases {
		row, value, ok := findSlot(rows, tc.key)
		if row != tc.row || value != tc.value || ok != tc.ok {
			t.Errorf("findSlot(%q) = (%d, %q, %v), want (%d, %q, %v)", tc.key, row, value, ok, tc.row, tc.value, tc.ok)
		}
	}
}

func TestSlotRange(t *testing.T) {
	if got := slotRange("Budget", 3); got != "Budget!A3:B3" {
		t.Fatalf("slotRange = %q", got)
	}
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, Config{}); err == nil {
		t.Fatalf("expected error without spreadsheet id")
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(ctx, Config{SpreadsheetID: "abc"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestSetRejectsOversizedValue(t *testing.T) {
	c := &Client{sheetName: "Budget"}
	err := c.Set(context.Background(), "income", strings.Repeat("x", maxCellChars+1))
	if !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("expected ErrValueTooLarge, got %v", err)
	}
}

func TestUninitializedClient(t *testing.T) {
	c := &Client{sheetName: "Budget"}
	if _, err := c.Get(context.Background(), "income"); err == nil {
		t.Fatalf("expected error from client without service")
	}
	if err := c.Ping(context.Background()); !errors.Is(err, errSvcNotInitialized) {
		t.Fatalf("Ping: expected errSvcNotInitialized, got %v", err)
	}
	if _, err := c.Keys(context.Background()); !errors.Is(err, errSvcNotInitialized) {
		t.Fatalf("Keys: expected errSvcNotInitialized, got %v", err)
	}
}
