package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
)

type fakeSnapshot struct {
	products  []domain.ProductListing
	suppliers []domain.Supplier
	totals    []domain.LedgerTotals
	days      []domain.DailyLedgerTotals
	recent    int
	err       error

	since []time.Time
}

func (f *fakeSnapshot) Products(ctx context.Context) ([]domain.ProductListing, error) {
	return f.products, f.err
}

func (f *fakeSnapshot) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	return f.suppliers, f.err
}

func (f *fakeSnapshot) LedgerTotalsByProduct(ctx context.Context, since time.Time) ([]domain.LedgerTotals, error) {
	f.since = append(f.since, since)
	return f.totals, f.err
}

func (f *fakeSnapshot) LedgerTotalsByDay(ctx context.Context, since time.Time) ([]domain.DailyLedgerTotals, error) {
	f.since = append(f.since, since)
	return f.days, f.err
}

func (f *fakeSnapshot) CountLedgerEntriesSince(ctx context.Context, since time.Time) (int, error) {
	f.since = append(f.since, since)
	return f.recent, f.err
}

type fakeReader struct {
	snapshot *fakeSnapshot
	opened   int
}

func (r *fakeReader) WithSnapshot(ctx context.Context, fn func(Snapshot) error) error {
	r.opened++
	return fn(r.snapshot)
}

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestAggregator(s *fakeSnapshot) (*Aggregator, *fakeReader) {
	reader := &fakeReader{snapshot: s}
	a := NewAggregator(reader)
	a.now = func() time.Time { return now }
	return a, reader
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func listing(id int64, stock, min int, price string, supplierID *int64) domain.ProductListing {
	return domain.ProductListing{Product: domain.Product{
		ID:            id,
		SKU:           "SKU-" + string(rune('A'+id-1)),
		Name:          "Product " + string(rune('A'+id-1)),
		Price:         decimal.RequireFromString(price),
		CurrentStock:  stock,
		MinStockLevel: min,
		SupplierID:    supplierID,
	}}
}

func TestLowStock_ThresholdInclusive(t *testing.T) {
	a, _ := newTestAggregator(&fakeSnapshot{products: []domain.ProductListing{
		listing(1, 10, 10, "1.00", nil),
		listing(2, 11, 10, "1.00", nil),
	}})

	report, err := a.LowStock(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Count)
	assert.Equal(t, int64(1), report.Products[0].ID)
}

func TestLowStock_OrderedByStockThenID(t *testing.T) {
	a, _ := newTestAggregator(&fakeSnapshot{products: []domain.ProductListing{
		listing(1, 5, 10, "1.00", nil),
		listing(2, 0, 10, "1.00", nil),
		listing(3, 5, 10, "1.00", nil),
		listing(4, 50, 10, "1.00", nil),
	}})

	report, err := a.LowStock(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Count)

	ids := []int64{report.Products[0].ID, report.Products[1].ID, report.Products[2].ID}
	assert.Equal(t, []int64{2, 1, 3}, ids)
}

func TestLowStock_EmptyIsNotNil(t *testing.T) {
	a, _ := newTestAggregator(&fakeSnapshot{})

	report, err := a.LowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
	assert.NotNil(t, report.Products)
}

func TestInventoryValue(t *testing.T) {
	a, _ := newTestAggregator(&fakeSnapshot{products: []domain.ProductListing{
		listing(1, 10, 0, "2.50", nil),  // 25.00
		listing(2, 0, 0, "99.00", nil),  // excluded
		listing(3, 5, 0, "5.00", nil),   // 25.00
		listing(4, 3, 0, "100.00", nil), // 300.00
	}})

	report, err := a.InventoryValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "350.00", report.TotalValue.StringFixed(2))
	require.Len(t, report.Lines, 3)
	assert.Equal(t, int64(4), report.Lines[0].ProductID)
	assert.Equal(t, int64(1), report.Lines[1].ProductID)
	assert.Equal(t, int64(3), report.Lines[2].ProductID)
}

func TestProductsBySupplier(t *testing.T) {
	acme, globex, initech := int64(1), int64(2), int64(3)
	a, _ := newTestAggregator(&fakeSnapshot{
		suppliers: []domain.Supplier{
			{ID: acme, Name: "Acme", Email: strPtr("sales@acme.test")},
			{ID: globex, Name: "Globex"},
			{ID: initech, Name: "Initech"},
		},
		products: []domain.ProductListing{
			listing(1, 2, 0, "10.00", &globex),
			listing(2, 1, 0, "1.00", nil),
			listing(3, 4, 0, "1.00", &globex),
			listing(4, 3, 0, "5.00", &acme),
			listing(5, 1, 0, "1.00", int64Ptr(99)),
		},
	})

	groups, err := a.ProductsBySupplier(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 4)

	assert.Equal(t, "Globex", groups[0].SupplierName)
	assert.Equal(t, 2, groups[0].ProductCount)
	assert.Equal(t, "24.00", groups[0].TotalStockValue.StringFixed(2))

	assert.Equal(t, "Acme", groups[1].SupplierName)
	require.NotNil(t, groups[1].SupplierEmail)

	assert.Equal(t, "Initech", groups[2].SupplierName)
	assert.Equal(t, 0, groups[2].ProductCount)
	assert.NotNil(t, groups[2].Products)

	last := groups[3]
	assert.Nil(t, last.SupplierID)
	assert.Equal(t, UnassignedSupplierName, last.SupplierName)
	assert.Equal(t, 2, last.ProductCount)
}

func TestProductsBySupplier_NoUnassignedGroupWhenEmpty(t *testing.T) {
	acme := int64(1)
	a, _ := newTestAggregator(&fakeSnapshot{
		suppliers: []domain.Supplier{{ID: acme, Name: "Acme"}},
		products:  []domain.ProductListing{listing(1, 1, 0, "1.00", &acme)},
	})

	groups, err := a.ProductsBySupplier(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.NotNil(t, groups[0].SupplierID)
}

func TestSalesSummary(t *testing.T) {
	snap := &fakeSnapshot{totals: []domain.LedgerTotals{
		{ProductID: 1, SoldUnits: 3, PurchasedUnits: 10, SalesRevenue: decimal.RequireFromString("30.00"), PurchaseCost: decimal.RequireFromString("50.00")},
		{ProductID: 2, SoldUnits: 1, SalesRevenue: decimal.RequireFromString("99.99"), PurchaseCost: decimal.Zero},
	}}
	a, _ := newTestAggregator(snap)

	report, err := a.SalesSummary(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, 30, report.WindowDays)
	assert.Equal(t, now.AddDate(0, 0, -30), report.Since)
	assert.Equal(t, []time.Time{now.AddDate(0, 0, -30)}, snap.since)

	assert.Equal(t, int64(4), report.Totals.TotalSold)
	assert.Equal(t, int64(10), report.Totals.TotalPurchased)
	assert.Equal(t, "129.99", report.Totals.TotalRevenue.StringFixed(2))
	assert.Equal(t, "50.00", report.Totals.TotalCost.StringFixed(2))

	require.Len(t, report.Products, 2)
	assert.Equal(t, int64(2), report.Products[0].ProductID)
}

func TestTransactionTrends_AscendingDays(t *testing.T) {
	d1 := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)
	a, _ := newTestAggregator(&fakeSnapshot{days: []domain.DailyLedgerTotals{
		{Day: d2, SaleCount: 1},
		{Day: d1, PurchaseCount: 2},
	}})

	report, err := a.TransactionTrends(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, report.Days, 2)
	assert.Equal(t, d1, report.Days[0].Day)
	assert.Equal(t, 7, report.WindowDays)
}

func TestDashboard_SingleSnapshot(t *testing.T) {
	acme := int64(1)
	snap := &fakeSnapshot{
		suppliers: []domain.Supplier{{ID: acme, Name: "Acme"}},
		products: []domain.ProductListing{
			listing(1, 10, 10, "2.00", &acme),
			listing(2, 20, 10, "1.50", nil),
		},
		recent: 4,
	}
	a, reader := newTestAggregator(snap)

	d, err := a.Dashboard(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.opened)
	assert.Equal(t, 2, d.TotalProducts)
	assert.Equal(t, 1, d.TotalSuppliers)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, "50.00", d.TotalInventoryValue.StringFixed(2))
	assert.Equal(t, 4, d.RecentTransactionsCount)
	assert.Equal(t, 7, d.RecentWindowDays)
	assert.Equal(t, []time.Time{now.AddDate(0, 0, -7)}, snap.since)
}

func TestReports_Idempotent(t *testing.T) {
	acme := int64(1)
	a, _ := newTestAggregator(&fakeSnapshot{
		suppliers: []domain.Supplier{{ID: acme, Name: "Acme"}},
		products: []domain.ProductListing{
			listing(1, 3, 10, "2.00", &acme),
			listing(2, 3, 10, "2.00", nil),
		},
	})
	ctx := context.Background()

	first, err := a.ProductsBySupplier(ctx)
	require.NoError(t, err)
	second, err := a.ProductsBySupplier(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	low1, err := a.LowStock(ctx)
	require.NoError(t, err)
	low2, err := a.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, low1, low2)
}

func TestReports_PropagateStoreErrors(t *testing.T) {
	boom := errors.New("connection lost")
	a, _ := newTestAggregator(&fakeSnapshot{err: boom})
	ctx := context.Background()

	_, err := a.LowStock(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = a.InventoryValue(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = a.ProductsBySupplier(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = a.SalesSummary(ctx, 30)
	assert.ErrorIs(t, err, boom)
	_, err = a.TransactionTrends(ctx, 30)
	assert.ErrorIs(t, err, boom)
	_, err = a.Dashboard(ctx, 7)
	assert.ErrorIs(t, err, boom)
}
