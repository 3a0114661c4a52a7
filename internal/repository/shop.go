package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/infra"
)

type productRepo struct{}

// NewProductRepository returns a pgx-backed ProductRepository.
func NewProductRepository() ProductRepository {
	return &productRepo{}
}

const productColumns = `id, name, description, image_url, price, stock, active, created_at, updated_at`

func (r *productRepo) Create(ctx context.Context, db DBTX, p *domain.Product) error {
	_, err := db.Exec(ctx, `
		INSERT INTO shop_products (id, name, description, image_url, price, stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.ImageURL, infra.Int64ToNumeric(p.Price), p.Stock, p.Active)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, db DBTX, p *domain.Product) error {
	tag, err := db.Exec(ctx, `
		UPDATE shop_products
		SET name = $2, description = $3, image_url = $4, price = $5, stock = $6, active = $7, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.ImageURL, infra.Int64ToNumeric(p.Price), p.Stock, p.Active)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("product", p.ID.String())
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Product, error) {
	row := db.QueryRow(ctx, `SELECT `+productColumns+` FROM shop_products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *productRepo) GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Product, error) {
	row := db.QueryRow(ctx, `SELECT `+productColumns+` FROM shop_products WHERE id = $1 FOR UPDATE`, id)
	return scanProduct(row)
}

func (r *productRepo) List(ctx context.Context, db DBTX, activeOnly bool, limit int) ([]domain.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
		SELECT `+productColumns+` FROM shop_products
		WHERE (NOT $1 OR active)
		ORDER BY created_at DESC LIMIT $2`, activeOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		ps = append(ps, *p)
	}
	return ps, rows.Err()
}

func (r *productRepo) DecrementStock(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE shop_products SET stock = stock - 1, updated_at = now()
		WHERE id = $1 AND stock > 0`, id)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *productRepo) InsertOrder(ctx context.Context, db DBTX, o *domain.Order) error {
	_, err := db.Exec(ctx, `
		INSERT INTO shop_orders (id, user_id, product_id, price, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.UserID, o.ProductID, infra.Int64ToNumeric(o.Price), string(o.Status), o.TransactionID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *productRepo) ListOrdersByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT id, user_id, product_id, price, status, transaction_id, created_at
		FROM shop_orders
		WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var priceNum pgtype.Numeric
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &priceNum, &o.Status, &o.TransactionID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Price, err = infra.NumericToInt64(priceNum)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var priceNum pgtype.Numeric
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &priceNum, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	p.Price, err = infra.NumericToInt64(priceNum)
	if err != nil {
		return nil, fmt.Errorf("convert price: %w", err)
	}
	return &p, nil
}
