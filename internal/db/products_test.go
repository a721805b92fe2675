package db

import (
	"errors"
	"testing"

	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

func inputIDs(inputs []models.VariantInput) []string {
	ids := make([]string, len(inputs))
	for i, in := range inputs {
		ids[i] = in.ID
	}
	return ids
}

func sameStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestVariantReconcilePlan(t *testing.T) {
	cases := []struct {
		name    string
		stored  []string
		inputs  []models.VariantInput
		updates []string
		inserts []string
		deletes []string
	}{
		{
			name:    "matched id updates in place",
			stored:  []string{"v1", "v2"},
			inputs:  []models.VariantInput{{ID: "v1", SKU: "A"}, {ID: "v2", SKU: "B"}},
			updates: []string{"v1", "v2"},
		},
		{
			name:    "empty id inserts",
			stored:  []string{"v1"},
			inputs:  []models.VariantInput{{ID: "v1", SKU: "A"}, {ID: "", SKU: "B"}},
			updates: []string{"v1"},
			inserts: []string{""},
		},
		{
			name:    "stored id absent from submission is deleted",
			stored:  []string{"v1", "v2", "v3"},
			inputs:  []models.VariantInput{{ID: "v2", SKU: "B"}},
			updates: []string{"v2"},
			deletes: []string{"v1", "v3"},
		},
		{
			name:    "unknown non-empty id inserts rather than updates",
			stored:  []string{"v1"},
			inputs:  []models.VariantInput{{ID: "imported-7", SKU: "C"}},
			inserts: []string{"imported-7"},
			deletes: []string{"v1"},
		},
		{
			name:    "mixed submission replaces the set exactly",
			stored:  []string{"v1", "v2"},
			inputs:  []models.VariantInput{{ID: "v2", SKU: "B"}, {ID: "", SKU: "C"}, {ID: "", SKU: "D"}},
			updates: []string{"v2"},
			inserts: []string{"", ""},
			deletes: []string{"v1"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			updates, inserts, deletes := variantReconcilePlan(c.stored, c.inputs)
			if !sameStrings(inputIDs(updates), c.updates) {
				t.Errorf("updates = %v, want %v", inputIDs(updates), c.updates)
			}
			if !sameStrings(inputIDs(inserts), c.inserts) {
				t.Errorf("inserts = %v, want %v", inputIDs(inserts), c.inserts)
			}
			if !sameStrings(deletes, c.deletes) {
				t.Errorf("deletes = %v, want %v", deletes, c.deletes)
			}

			// Every submission lands in exactly one bucket, so the surviving
			// set is exactly the submitted one.
			if len(updates)+len(inserts) != len(c.inputs) {
				t.Errorf("plan covers %d of %d inputs", len(updates)+len(inserts), len(c.inputs))
			}
		})
	}
}

func TestVariantReconcilePlan_KeepsVariantPayload(t *testing.T) {
	inputs := []models.VariantInput{{ID: "v1", SKU: "NEW-SKU", Price: 42}}
	updates, _, _ := variantReconcilePlan([]string{"v1"}, inputs)
	if len(updates) != 1 || updates[0].SKU != "NEW-SKU" || updates[0].Price != 42 {
		t.Fatalf("updates = %+v", updates)
	}
}

func TestTouchesVariants(t *testing.T) {
	name := "Renamed"
	if touchesVariants(models.UpdateProductRequest{Name: &name}) {
		t.Error("nil variants slice must not touch the stored set")
	}
	if touchesVariants(models.UpdateProductRequest{Name: &name, Variants: []models.VariantInput{}}) {
		t.Error("empty variants slice must not touch the stored set")
	}
	if !touchesVariants(models.UpdateProductRequest{Variants: []models.VariantInput{{SKU: "A"}}}) {
		t.Error("non-empty variants slice must reconcile")
	}
}

func TestVisiblePrice(t *testing.T) {
	price := 19.90
	got, err := visiblePrice(&price)
	if err != nil || got != 19.90 {
		t.Fatalf("visiblePrice = %v, %v", got, err)
	}

	// NULL aggregate means the product has no visible variants
	_, err = visiblePrice(nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
