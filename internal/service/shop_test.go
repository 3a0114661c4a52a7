package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/repository/repotest"
)

type shopFixture struct {
	svc      *ShopService
	products *repotest.FakeProductRepo
	wallets  *repotest.FakeWalletRepo
	entries  *repotest.FakeTransactionRepo
	outbox   *repotest.FakeOutboxRepo
	tx       *repotest.FakeTransactor
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()
	f := &shopFixture{
		products: repotest.NewFakeProductRepo(),
		wallets:  repotest.NewFakeWalletRepo(),
		entries:  &repotest.FakeTransactionRepo{},
		outbox:   &repotest.FakeOutboxRepo{},
		tx:       &repotest.FakeTransactor{},
	}
	engine := ledger.NewEngine(f.wallets, f.entries, f.outbox)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewShopService(nil, f.tx, f.products, f.outbox, engine, logger)
	return f
}

func (f *shopFixture) seedProduct(t *testing.T, price int64, stock int, active bool) *domain.Product {
	t.Helper()
	p, err := f.svc.CreateProduct(context.Background(), CreateProductInput{
		Name:    "Gaming Headset",
		PriceZC: domain.FormatAmount(price),
		Stock:   stock,
		Active:  active,
	})
	require.NoError(t, err)
	return p
}

func TestCreateProductValidation(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateProduct(ctx, CreateProductInput{Name: "  ", PriceZC: "10.00", Stock: 1})
	assert.Error(t, err, "empty name")

	_, err = f.svc.CreateProduct(ctx, CreateProductInput{Name: "Mouse", PriceZC: "0", Stock: 1})
	assert.Error(t, err, "zero price")

	_, err = f.svc.CreateProduct(ctx, CreateProductInput{Name: "Mouse", PriceZC: "10.00", Stock: -1})
	assert.Error(t, err, "negative stock")
}

func TestRedeemDebitsWalletAndPlacesOrder(t *testing.T) {
	f := newShopFixture(t)
	p := f.seedProduct(t, 5_000, 3, true)
	userID := uuid.New()
	f.wallets.Seed(userID, 12_000)

	order, err := f.svc.Redeem(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPlaced, order.Status)
	assert.Equal(t, int64(5_000), order.Price)

	wallet, _ := f.wallets.FindByUserID(context.Background(), nil, userID)
	assert.Equal(t, int64(7_000), wallet.Balance)

	stocked, _ := f.products.FindByID(context.Background(), nil, p.ID)
	assert.Equal(t, 2, stocked.Stock)

	require.Len(t, f.entries.Entries, 1)
	entry := f.entries.Entries[0]
	assert.Equal(t, domain.TxShopRedemption, entry.Type)
	assert.Equal(t, int64(-5_000), entry.Amount)
	assert.Equal(t, order.TransactionID, entry.ID)

	assert.Equal(t, string(domain.EventProductRedeemed), f.outbox.LastEventType())
}

func TestRedeemInsufficientBalanceRejected(t *testing.T) {
	f := newShopFixture(t)
	p := f.seedProduct(t, 5_000, 3, true)
	userID := uuid.New()
	f.wallets.Seed(userID, 4_999)

	_, err := f.svc.Redeem(context.Background(), userID, p.ID)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErr.Code)

	assert.Empty(t, f.products.Orders)
	assert.Equal(t, 1, f.tx.RolledBack)
}

func TestRedeemOutOfStockRejected(t *testing.T) {
	f := newShopFixture(t)
	p := f.seedProduct(t, 1_000, 1, true)
	ctx := context.Background()

	first := uuid.New()
	f.wallets.Seed(first, 5_000)
	_, err := f.svc.Redeem(ctx, first, p.ID)
	require.NoError(t, err)

	second := uuid.New()
	f.wallets.Seed(second, 5_000)
	_, err = f.svc.Redeem(ctx, second, p.ID)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "OUT_OF_STOCK", appErr.Code)

	wallet, _ := f.wallets.FindByUserID(ctx, nil, second)
	assert.Equal(t, int64(5_000), wallet.Balance, "loser of the stock race keeps their ZC")
}

func TestRedeemInactiveProductRejected(t *testing.T) {
	f := newShopFixture(t)
	p := f.seedProduct(t, 1_000, 5, false)
	userID := uuid.New()
	f.wallets.Seed(userID, 5_000)

	_, err := f.svc.Redeem(context.Background(), userID, p.ID)
	assert.Error(t, err)
	assert.Empty(t, f.products.Orders)
}

func TestRedeemPriceCapturedAtRedemptionTime(t *testing.T) {
	f := newShopFixture(t)
	p := f.seedProduct(t, 2_000, 5, true)
	userID := uuid.New()
	f.wallets.Seed(userID, 10_000)
	ctx := context.Background()

	newPrice := "30.00"
	_, err := f.svc.UpdateProduct(ctx, p.ID, UpdateProductInput{PriceZC: &newPrice})
	require.NoError(t, err)

	order, err := f.svc.Redeem(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3_000), order.Price)
}

func TestListProductsActiveFilter(t *testing.T) {
	f := newShopFixture(t)
	f.seedProduct(t, 1_000, 5, true)
	inactive, err := f.svc.CreateProduct(context.Background(), CreateProductInput{
		Name:    "Hidden Keyboard",
		PriceZC: "15.00",
		Stock:   2,
		Active:  false,
	})
	require.NoError(t, err)

	visible, err := f.svc.ListProducts(context.Background(), true, 0)
	require.NoError(t, err)
	for _, p := range visible {
		assert.NotEqual(t, inactive.ID, p.ID)
	}

	all, err := f.svc.ListProducts(context.Background(), false, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
