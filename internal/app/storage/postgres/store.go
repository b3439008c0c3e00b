// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	"github.com/aurelia-skincare/storefront/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.CatalogStore = (*Store)(nil)
var _ storage.CartStore = (*Store)(nil)
var _ storage.SubscriptionStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return New(db), nil
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

type componentRow struct {
	ID            string    `db:"id"`
	Kind          string    `db:"kind"`
	Name          string    `db:"name"`
	PriceModifier float64   `db:"price_modifier"`
	Icon          string    `db:"icon"`
	Ingredients   []byte    `db:"ingredients"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r componentRow) toDomain() (catalog.Component, error) {
	var ingredients []string
	if len(r.Ingredients) > 0 {
		if err := json.Unmarshal(r.Ingredients, &ingredients); err != nil {
			return catalog.Component{}, fmt.Errorf("decode ingredients for %s: %w", r.ID, err)
		}
	}
	return catalog.Component{
		ID:            r.ID,
		Kind:          catalog.Kind(r.Kind),
		Name:          r.Name,
		PriceModifier: r.PriceModifier,
		Icon:          r.Icon,
		Ingredients:   ingredients,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

// --- CatalogStore -----------------------------------------------------------

func (s *Store) CreateComponent(ctx context.Context, c catalog.Component) (catalog.Component, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	ingredients, err := json.Marshal(c.Ingredients)
	if err != nil {
		return catalog.Component{}, err
	}
	if c.Ingredients == nil {
		ingredients = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_components (id, kind, name, price_modifier, icon, ingredients, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Kind, c.Name, c.PriceModifier, c.Icon, ingredients, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return catalog.Component{}, err
	}
	return c, nil
}

func (s *Store) UpdateComponent(ctx context.Context, c catalog.Component) (catalog.Component, error) {
	existing, err := s.GetComponent(ctx, c.ID)
	if err != nil {
		return catalog.Component{}, err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	ingredients, err := json.Marshal(c.Ingredients)
	if err != nil {
		return catalog.Component{}, err
	}
	if c.Ingredients == nil {
		ingredients = []byte("[]")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE catalog_components
		SET kind = $2, name = $3, price_modifier = $4, icon = $5, ingredients = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.Kind, c.Name, c.PriceModifier, c.Icon, ingredients, c.UpdatedAt)
	if err != nil {
		return catalog.Component{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return catalog.Component{}, sql.ErrNoRows
	}
	return c, nil
}

func (s *Store) GetComponent(ctx context.Context, id string) (catalog.Component, error) {
	var row componentRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, kind, name, price_modifier, icon, ingredients, created_at, updated_at
		FROM catalog_components WHERE id = $1
	`, id)
	if err != nil {
		return catalog.Component{}, err
	}
	return row.toDomain()
}

func (s *Store) ListComponents(ctx context.Context, kind catalog.Kind) ([]catalog.Component, error) {
	query := `
		SELECT id, kind, name, price_modifier, icon, ingredients, created_at, updated_at
		FROM catalog_components`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at, id`

	var rows []componentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]catalog.Component, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) DeleteComponent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog_components WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- CartStore --------------------------------------------------------------

type lineItemRow struct {
	ID          string    `db:"id"`
	SyntheticID int64     `db:"synthetic_id"`
	DisplayName string    `db:"display_name"`
	Price       float64   `db:"price"`
	Image       string    `db:"image"`
	SizeLabel   string    `db:"size_label"`
	SKU         string    `db:"sku"`
	Cadence     string    `db:"cadence"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r lineItemRow) toDomain() formulation.Formulation {
	return formulation.Formulation{
		SyntheticID: r.SyntheticID,
		DisplayName: r.DisplayName,
		Price:       r.Price,
		Image:       r.Image,
		SizeLabel:   r.SizeLabel,
		SKU:         r.SKU,
		CreatedAt:   r.CreatedAt,
	}
}

func (s *Store) AddCartItem(ctx context.Context, item formulation.Formulation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (id, synthetic_id, display_name, price, image, size_label, sku, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), item.SyntheticID, item.DisplayName, item.Price, item.Image, item.SizeLabel, item.SKU, item.CreatedAt)
	return err
}

func (s *Store) ListCartItems(ctx context.Context) ([]formulation.Formulation, error) {
	var rows []lineItemRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, synthetic_id, display_name, price, image, size_label, sku, '' AS cadence, created_at
		FROM cart_items ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	out := make([]formulation.Formulation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// --- SubscriptionStore ------------------------------------------------------

func (s *Store) AddSubscription(ctx context.Context, item formulation.Formulation, cadence string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, synthetic_id, display_name, price, image, size_label, sku, cadence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.NewString(), item.SyntheticID, item.DisplayName, item.Price, item.Image, item.SizeLabel, item.SKU, cadence, item.CreatedAt)
	return err
}

func (s *Store) ListSubscriptions(ctx context.Context) ([]storage.SubscriptionRecord, error) {
	var rows []lineItemRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, synthetic_id, display_name, price, image, size_label, sku, cadence, created_at
		FROM subscriptions ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	out := make([]storage.SubscriptionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, storage.SubscriptionRecord{Item: row.toDomain(), Cadence: row.Cadence})
	}
	return out, nil
}
