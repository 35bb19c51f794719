package worker

import (
	"fmt"
	"testing"
)

func TestMapOrdersResults(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2}
	results := Map(items, 3, func(_ int, item int) (int, error) {
		return item * 2, nil
	})
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d carries index %d", i, r.Index)
		}
		if r.Value != items[i]*2 {
			t.Fatalf("result %d = %d, want %d", i, r.Value, items[i]*2)
		}
	}
}

func TestMapKeepsPerItemErrors(t *testing.T) {
	items := []int{1, 2, 3}
	results := Map(items, 2, func(_ int, item int) (int, error) {
		if item == 2 {
			return 0, fmt.Errorf("item %d failed", item)
		}
		return item, nil
	})
	if results[1].Err == nil {
		t.Fatalf("expected error for item 2")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("sibling items should not fail")
	}
}

func TestMapEmpty(t *testing.T) {
	results := Map(nil, 4, func(_ int, item int) (int, error) { return item, nil })
	if results != nil {
		t.Fatalf("expected nil results for empty input")
	}
}
