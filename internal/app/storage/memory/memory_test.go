package memory

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
)

func TestStore_ComponentLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateComponent(ctx, catalog.Component{Kind: catalog.KindOil, Name: "Jojoba", PriceModifier: 2.00})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("create did not stamp the component: %+v", created)
	}

	created.PriceModifier = 2.25
	updated, err := store.UpdateComponent(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PriceModifier != 2.25 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update changed created_at")
	}

	if err := store.DeleteComponent(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetComponent(ctx, created.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("get after delete: %v, want sql.ErrNoRows", err)
	}
}

func TestStore_ListFiltersByKind(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, c := range []catalog.Component{
		{Kind: catalog.KindOil, Name: "Jojoba"},
		{Kind: catalog.KindOil, Name: "Argan"},
		{Kind: catalog.KindExtract, Name: "Aloe Vera"},
	} {
		if _, err := store.CreateComponent(ctx, c); err != nil {
			t.Fatalf("create %s: %v", c.Name, err)
		}
	}

	oils, err := store.ListComponents(ctx, catalog.KindOil)
	if err != nil {
		t.Fatalf("list oils: %v", err)
	}
	if len(oils) != 2 {
		t.Fatalf("expected 2 oils, got %d", len(oils))
	}

	all, err := store.ListComponents(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 components, got %d", len(all))
	}
	// Insertion order is preserved.
	if all[0].Name != "Jojoba" || all[2].Name != "Aloe Vera" {
		t.Fatalf("unexpected order: %v", all)
	}
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.CreateComponent(ctx, catalog.Component{ID: "jojoba", Kind: catalog.KindOil, Name: "Jojoba"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.CreateComponent(ctx, catalog.Component{ID: "jojoba", Kind: catalog.KindOil, Name: "Jojoba"}); err == nil {
		t.Fatalf("duplicate id accepted")
	}
}
