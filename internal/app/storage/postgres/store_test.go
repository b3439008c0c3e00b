package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestStore_CreateComponent(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO catalog_components").
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := store.CreateComponent(context.Background(), catalog.Component{
		Kind:          catalog.KindOil,
		Name:          "Jojoba",
		PriceModifier: 2.00,
	})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("id not assigned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStore_ListComponentsByKind(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "kind", "name", "price_modifier", "icon", "ingredients", "created_at", "updated_at"}).
		AddRow("hydrating", "function", "Hydrating", 3.00, "💧", []byte(`["Hyaluronic Acid","Glycerin"]`), now, now)

	mock.ExpectQuery("SELECT (.+) FROM catalog_components WHERE kind").
		WithArgs(catalog.KindFunction).
		WillReturnRows(rows)

	items, err := store.ListComponents(context.Background(), catalog.KindFunction)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 component, got %d", len(items))
	}
	if items[0].Ingredients[0] != "Hyaluronic Acid" {
		t.Fatalf("ingredients not decoded: %v", items[0].Ingredients)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStore_AddCartItem(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO cart_items").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.AddCartItem(context.Background(), formulation.Formulation{
		SyntheticID: 1234,
		DisplayName: "Custom Face Cream - Jojoba (Hydrating)",
		Price:       30.00,
		SKU:         "FORM-JOJOBA-HYDRATING-1",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	store, err := Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer store.DB().Close()

	if err := Migrate(store.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	created, err := store.CreateComponent(ctx, catalog.Component{
		Kind:          catalog.KindExtract,
		Name:          "Calendula",
		PriceModifier: 1.25,
	})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	defer store.DeleteComponent(ctx, created.ID)

	got, err := store.GetComponent(ctx, created.ID)
	if err != nil {
		t.Fatalf("get component: %v", err)
	}
	if got.Name != "Calendula" || got.Kind != catalog.KindExtract {
		t.Fatalf("unexpected component: %+v", got)
	}
}
