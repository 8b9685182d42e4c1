package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
)

const UnassignedSupplierName = "Unassigned"

// Aggregator computes the read-side reports. Every report is built from a single Snapshot, so a
// concurrent record or reverse is either fully visible or not at all.
type Aggregator struct {
	reader SnapshotReader
	now    func() time.Time
}

func NewAggregator(reader SnapshotReader) *Aggregator {
	return &Aggregator{
		reader: reader,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (a *Aggregator) since(days int) time.Time {
	return a.now().AddDate(0, 0, -days)
}

func (a *Aggregator) LowStock(ctx context.Context) (*domain.LowStockReport, error) {
	var report *domain.LowStockReport
	err := a.reader.WithSnapshot(ctx, func(s Snapshot) error {
		products, err := s.Products(ctx)
		if err != nil {
			return err
		}
		report = lowStock(products)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (a *Aggregator) InventoryValue(ctx context.Context) (*domain.InventoryValueReport, error) {
	var report *domain.InventoryValueReport
	err := a.reader.WithSnapshot(ctx, func(s Snapshot) error {
		products, err := s.Products(ctx)
		if err != nil {
			return err
		}
		report = inventoryValue(products)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (a *Aggregator) ProductsBySupplier(ctx context.Context) ([]domain.SupplierGroup, error) {
	var groups []domain.SupplierGroup
	err := a.reader.WithSnapshot(ctx, func(s Snapshot) error {
		suppliers, err := s.Suppliers(ctx)
		if err != nil {
			return err
		}
		products, err := s.Products(ctx)
		if err != nil {
			return err
		}
		groups = groupBySupplier(suppliers, products)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// SalesSummary totals the entries dated within the last windowDays. Products without entries in
// the window do not appear.
func (a *Aggregator) SalesSummary(ctx context.Context, windowDays int) (*domain.SalesSummaryReport, error) {
	since := a.since(windowDays)

	var report *domain.SalesSummaryReport
	err := a.reader.WithSnapshot(ctx, func(s Snapshot) error {
		totals, err := s.LedgerTotalsByProduct(ctx, since)
		if err != nil {
			return err
		}
		report = salesSummary(totals)
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.WindowDays = windowDays
	report.Since = since
	return report, nil
}

func (a *Aggregator) TransactionTrends(ctx context.Context, windowDays int) (*domain.TransactionTrendsReport, error) {
	since := a.since(windowDays)

	var days []domain.DailyLedgerTotals
	err := a.reader.WithSnapshot(ctx, func(s Snapshot) error {
		var err error
		days, err = s.LedgerTotalsByDay(ctx, since)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })

	return &domain.TransactionTrendsReport{
		WindowDays: windowDays,
		Since:      since,
		Days:       days,
	}, nil
}

// Dashboard derives every figure from the same snapshot.
func (a *Aggregator) Dashboard(ctx context.Context, recentWindowDays int) (*domain.Dashboard, error) {
	since := a.since(recentWindowDays)

	var dashboard *domain.Dashboard
	err := a.reader.WithSnapshot(ctx, func(s Snapshot) error {
		products, err := s.Products(ctx)
		if err != nil {
			return err
		}
		suppliers, err := s.Suppliers(ctx)
		if err != nil {
			return err
		}
		recent, err := s.CountLedgerEntriesSince(ctx, since)
		if err != nil {
			return err
		}

		dashboard = &domain.Dashboard{
			TotalProducts:           len(products),
			TotalSuppliers:          len(suppliers),
			LowStockCount:           lowStock(products).Count,
			TotalInventoryValue:     inventoryValue(products).TotalValue,
			RecentTransactionsCount: recent,
			RecentWindowDays:        recentWindowDays,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}

func lowStock(products []domain.ProductListing) *domain.LowStockReport {
	low := make([]domain.ProductListing, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		if low[i].CurrentStock != low[j].CurrentStock {
			return low[i].CurrentStock < low[j].CurrentStock
		}
		return low[i].ID < low[j].ID
	})

	return &domain.LowStockReport{Count: len(low), Products: low}
}

func inventoryValue(products []domain.ProductListing) *domain.InventoryValueReport {
	report := &domain.InventoryValueReport{
		TotalValue: decimal.Zero,
		Lines:      make([]domain.InventoryValueLine, 0),
	}

	for _, p := range products {
		if p.CurrentStock <= 0 {
			continue
		}
		value := p.StockValue()
		report.TotalValue = report.TotalValue.Add(value)
		report.Lines = append(report.Lines, domain.InventoryValueLine{
			ProductID:    p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			CurrentStock: p.CurrentStock,
			UnitPrice:    p.Price,
			TotalValue:   value,
			SupplierName: p.SupplierName,
		})
	}

	lines := report.Lines
	sort.SliceStable(lines, func(i, j int) bool {
		if c := lines[i].TotalValue.Cmp(lines[j].TotalValue); c != 0 {
			return c > 0
		}
		return lines[i].ProductID < lines[j].ProductID
	})

	return report
}

func groupBySupplier(suppliers []domain.Supplier, products []domain.ProductListing) []domain.SupplierGroup {
	groups := make([]domain.SupplierGroup, 0, len(suppliers)+1)
	index := make(map[int64]int, len(suppliers))
	for _, s := range suppliers {
		id := s.ID
		index[id] = len(groups)
		groups = append(groups, domain.SupplierGroup{
			SupplierID:      &id,
			SupplierName:    s.Name,
			SupplierEmail:   s.Email,
			TotalStockValue: decimal.Zero,
			Products:        []domain.SupplierProduct{},
		})
	}

	unassigned := domain.SupplierGroup{
		SupplierName:    UnassignedSupplierName,
		TotalStockValue: decimal.Zero,
		Products:        []domain.SupplierProduct{},
	}

	for _, p := range products {
		group := &unassigned
		if p.SupplierID != nil {
			if i, ok := index[*p.SupplierID]; ok {
				group = &groups[i]
			}
		}

		value := p.StockValue()
		group.ProductCount++
		group.TotalStockValue = group.TotalStockValue.Add(value)
		group.Products = append(group.Products, domain.SupplierProduct{
			ID:           p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			Category:     p.Category,
			CurrentStock: p.CurrentStock,
			Price:        p.Price,
			StockValue:   value,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].ProductCount != groups[j].ProductCount {
			return groups[i].ProductCount > groups[j].ProductCount
		}
		return groups[i].SupplierName < groups[j].SupplierName
	})

	if unassigned.ProductCount > 0 {
		groups = append(groups, unassigned)
	}
	return groups
}

func salesSummary(totals []domain.LedgerTotals) *domain.SalesSummaryReport {
	report := &domain.SalesSummaryReport{
		Totals: domain.SalesSummaryTotals{
			TotalRevenue: decimal.Zero,
			TotalCost:    decimal.Zero,
		},
		Products: make([]domain.LedgerTotals, 0, len(totals)),
	}

	for _, t := range totals {
		report.Totals.TotalSold += t.SoldUnits
		report.Totals.TotalPurchased += t.PurchasedUnits
		report.Totals.TotalRevenue = report.Totals.TotalRevenue.Add(t.SalesRevenue)
		report.Totals.TotalCost = report.Totals.TotalCost.Add(t.PurchaseCost)
		report.Products = append(report.Products, t)
	}

	products := report.Products
	sort.SliceStable(products, func(i, j int) bool {
		if c := products[i].SalesRevenue.Cmp(products[j].SalesRevenue); c != 0 {
			return c > 0
		}
		return products[i].ProductID < products[j].ProductID
	})

	return report
}
