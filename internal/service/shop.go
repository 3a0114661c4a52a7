package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/repository"
)

// ShopService manages the product catalog and ZC redemptions.
type ShopService struct {
	db       repository.DBTX
	tx       repository.Transactor
	products repository.ProductRepository
	outbox   repository.OutboxRepository
	engine   *ledger.Engine
	logger   *slog.Logger
}

// NewShopService creates a ShopService.
func NewShopService(
	db repository.DBTX,
	tx repository.Transactor,
	products repository.ProductRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *ShopService {
	return &ShopService{db: db, tx: tx, products: products, outbox: outbox, engine: engine, logger: logger}
}

// CreateProductInput holds the staff-supplied catalog fields. Price arrives
// as a decimal ZC string.
type CreateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	PriceZC     string  `json:"price_zc"`
	Stock       int     `json:"stock"`
	Active      bool    `json:"active"`
}

// CreateProduct adds a product to the catalog.
func (s *ShopService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	name := domain.SanitizeText(input.Name)
	if name == "" {
		return nil, domain.ErrValidation("product name is required")
	}
	price, err := domain.ParseAmount(input.PriceZC)
	if err != nil {
		return nil, domain.ErrValidation("price: " + err.Error())
	}
	if price == 0 {
		return nil, domain.ErrValidation("price must be positive")
	}
	if input.Stock < 0 {
		return nil, domain.ErrValidation("stock cannot be negative")
	}

	p := &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: domain.SanitizeText(input.Description),
		ImageURL:    input.ImageURL,
		Price:       price,
		Stock:       input.Stock,
		Active:      input.Active,
	}
	if err := s.products.Create(ctx, s.db, p); err != nil {
		return nil, domain.ErrInternal("create product", err)
	}
	return p, nil
}

// UpdateProductInput holds the editable catalog fields. Nil pointers leave
// the current value in place.
type UpdateProductInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	PriceZC     *string `json:"price_zc,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// UpdateProduct applies partial edits to a product.
func (s *ShopService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := domain.SanitizeText(*input.Name)
		if name == "" {
			return nil, domain.ErrValidation("product name is required")
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = domain.SanitizeText(*input.Description)
	}
	if input.ImageURL != nil {
		p.ImageURL = input.ImageURL
	}
	if input.PriceZC != nil {
		price, err := domain.ParseAmount(*input.PriceZC)
		if err != nil {
			return nil, domain.ErrValidation("price: " + err.Error())
		}
		if price == 0 {
			return nil, domain.ErrValidation("price must be positive")
		}
		p.Price = price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, domain.ErrValidation("stock cannot be negative")
		}
		p.Stock = *input.Stock
	}
	if input.Active != nil {
		p.Active = *input.Active
	}

	if err := s.products.Update(ctx, s.db, p); err != nil {
		return nil, domain.ErrInternal("update product", err)
	}
	return p, nil
}

// GetProduct returns one product by ID.
func (s *ShopService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find product", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound("product", id.String())
	}
	return p, nil
}

// ListProducts returns the catalog. Players see active products only; staff
// pass activeOnly=false for the full catalog.
func (s *ShopService) ListProducts(ctx context.Context, activeOnly bool, limit int) ([]domain.Product, error) {
	ps, err := s.products.List(ctx, s.db, activeOnly, normalizeListLimit(limit))
	if err != nil {
		return nil, domain.ErrInternal("list products", err)
	}
	return ps, nil
}

// Redeem exchanges ZC for a product. The stock decrement, the wallet debit
// and the order row commit in one transaction; a concurrent last-unit
// redemption loses on the conditional decrement and sees OUT_OF_STOCK.
func (s *ShopService) Redeem(ctx context.Context, userID, productID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		p, err := s.products.GetForUpdate(ctx, db, productID)
		if err != nil {
			return domain.ErrInternal("lock product", err)
		}
		if p == nil {
			return domain.ErrNotFound("product", productID.String())
		}
		if !p.Active {
			return domain.ErrValidation("product is not available")
		}

		rows, err := s.products.DecrementStock(ctx, db, p.ID)
		if err != nil {
			return domain.ErrInternal("decrement stock", err)
		}
		if rows == 0 {
			return domain.ErrOutOfStock()
		}

		orderID := uuid.New()
		entry, _, err := s.engine.RedeemProduct(ctx, db, ledger.RedeemProductParams{
			UserID:    userID,
			Price:     p.Price,
			ProductID: p.ID,
			OrderID:   orderID,
		})
		if err != nil {
			return err
		}

		order = &domain.Order{
			ID:            orderID,
			UserID:        userID,
			ProductID:     p.ID,
			Price:         p.Price,
			Status:        domain.OrderPlaced,
			TransactionID: entry.ID,
		}
		if err := s.products.InsertOrder(ctx, db, order); err != nil {
			return domain.ErrInternal("insert order", err)
		}
		return s.outbox.Insert(ctx, db, domain.NewProductRedeemedEvent(order))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product redeemed",
		"order_id", order.ID, "user_id", userID, "product_id", productID, "price", order.Price)
	return order, nil
}

// ListOrders returns a user's redemption history, newest first.
func (s *ShopService) ListOrders(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Order, error) {
	os, err := s.products.ListOrdersByUser(ctx, s.db, userID, normalizeListLimit(limit))
	if err != nil {
		return nil, domain.ErrInternal("list orders", err)
	}
	return os, nil
}
