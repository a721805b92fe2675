package search

import (
	"context"
	"fmt"
	"testing"
)

func testIndex() *Index {
	return NewIndex([]Entry{
		{ID: "orders", Type: EntryTypePage, Title: "Orders", TitleBg: "Поръчки", Keywords: []string{"shipping"}},
		{ID: "order-status", Type: EntryTypeSection, Title: "Order Status", TitleBg: "Статус на поръчка", Keywords: []string{"orders", "shipped"}},
		{ID: "save", Type: EntryTypeAction, Title: "Save Product", TitleBg: "Запази продукт", Keywords: []string{"orders"}, Description: "Saves pending order edits"},
	})
}

func TestSearch_ExactTitleOutranksKeyword(t *testing.T) {
	results := testIndex().Search("Orders")
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].ID != "orders" {
		t.Fatalf("first result = %s, want orders", results[0].ID)
	}
	if results[0].Score != 100 {
		t.Errorf("exact title score = %d, want 100", results[0].Score)
	}
	for _, r := range results[1:] {
		if r.Score >= results[0].Score {
			t.Errorf("entry %s score %d should be below exact match", r.ID, r.Score)
		}
	}
}

func TestSearch_BulgarianTitleMatches(t *testing.T) {
	results := testIndex().Search("Поръчки")
	if len(results) == 0 || results[0].ID != "orders" || results[0].Score != 100 {
		t.Fatalf("results = %+v", results)
	}
}

func TestSearch_ScoreTiers(t *testing.T) {
	idx := testIndex()

	// Substring of a title
	results := idx.Search("status")
	if len(results) == 0 || results[0].ID != "order-status" || results[0].Score != 80 {
		t.Fatalf("substring results = %+v", results)
	}

	// Keyword only
	results = idx.Search("shipping")
	if len(results) != 1 || results[0].Score != 60 {
		t.Fatalf("keyword results = %+v", results)
	}

	// Description only
	results = idx.Search("pending")
	if len(results) != 1 || results[0].ID != "save" || results[0].Score != 40 {
		t.Fatalf("description results = %+v", results)
	}
}

func TestSearch_TiesBrokenByTypePriority(t *testing.T) {
	idx := NewIndex([]Entry{
		{ID: "a", Type: EntryTypeAction, Title: "Export", Keywords: []string{"report"}},
		{ID: "p", Type: EntryTypePage, Title: "Reports", Keywords: []string{"report"}},
	})
	results := idx.Search("report")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "p" {
		t.Errorf("page should outrank action on equal score, got %s first", results[0].ID)
	}
}

func TestSearch_EmptyAndNoMatch(t *testing.T) {
	idx := testIndex()
	if results := idx.Search("   "); results != nil {
		t.Errorf("blank term should return nil, got %+v", results)
	}
	if results := idx.Search("zzzz"); len(results) != 0 {
		t.Errorf("expected no results, got %+v", results)
	}
}

func TestDefaultIndex_LookupAndSearch(t *testing.T) {
	idx := DefaultIndex()
	if _, ok := idx.Lookup("dashboard"); !ok {
		t.Fatal("expected dashboard entry in default index")
	}
	results := idx.Search("Dashboard")
	if len(results) == 0 || results[0].ID != "dashboard" {
		t.Fatalf("results = %+v", results)
	}
}

func TestRecentStore_DedupAndCap(t *testing.T) {
	store := NewMemoryRecentStore()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		entry := Entry{ID: fmt.Sprintf("e%d", i), Title: fmt.Sprintf("Entry %d", i)}
		if err := store.Add(ctx, "client-1", entry); err != nil {
			t.Fatal(err)
		}
	}
	// Re-select an entry already in the list
	if err := store.Add(ctx, "client-1", Entry{ID: "e12", Title: "Entry 12"}); err != nil {
		t.Fatal(err)
	}

	recents, err := store.Get(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recents) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(recents))
	}
	if recents[0].ID != "e12" {
		t.Errorf("most recent = %s, want e12", recents[0].ID)
	}
	seen := make(map[string]bool)
	for _, r := range recents {
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestRecentStore_IsolatedPerClient(t *testing.T) {
	store := NewMemoryRecentStore()
	ctx := context.Background()

	if err := store.Add(ctx, "a", Entry{ID: "x"}); err != nil {
		t.Fatal(err)
	}
	recents, err := store.Get(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(recents) != 0 {
		t.Errorf("client b should have no recents, got %+v", recents)
	}
}
