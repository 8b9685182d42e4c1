package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
	"stockledger/internal/report/service"
)

type productRow struct {
	ID            int64               `db:"id"`
	SKU           string              `db:"sku"`
	Name          string              `db:"name"`
	Description   *string             `db:"description"`
	Category      *string             `db:"category"`
	Price         decimal.Decimal     `db:"price"`
	CostPrice     decimal.NullDecimal `db:"cost_price"`
	CurrentStock  int                 `db:"current_stock"`
	MinStockLevel int                 `db:"min_stock_level"`
	SupplierID    *int64              `db:"supplier_id"`
	IsActive      bool                `db:"is_active"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
	SupplierName  *string             `db:"supplier_name"`
	SupplierEmail *string             `db:"supplier_email"`
	SupplierPhone *string             `db:"supplier_phone"`
}

type supplierRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Address   *string   `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ledgerTotalsRow struct {
	ProductID      int64           `db:"product_id"`
	ProductName    string          `db:"product_name"`
	SKU            string          `db:"sku"`
	SoldUnits      int64           `db:"sold_units"`
	PurchasedUnits int64           `db:"purchased_units"`
	SalesRevenue   decimal.Decimal `db:"sales_revenue"`
	PurchaseCost   decimal.Decimal `db:"purchase_cost"`
}

type dailyTotalsRow struct {
	Day            time.Time       `db:"day"`
	SaleCount      int64           `db:"sale_count"`
	PurchaseCount  int64           `db:"purchase_count"`
	SaleAmount     decimal.Decimal `db:"sale_amount"`
	PurchaseAmount decimal.Decimal `db:"purchase_amount"`
}

// SnapshotRepository serves the reports. Each WithSnapshot call is one read-only REPEATABLE READ
// transaction, so InnoDB answers every query in it from the same consistent snapshot.
type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: sqlx.NewDb(db, "mysql")}
}

func (r *SnapshotRepository) WithSnapshot(ctx context.Context, fn func(service.Snapshot) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("beginning snapshot: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&snapshot{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return nil
}

type snapshot struct {
	tx *sqlx.Tx
}

func (s *snapshot) Products(ctx context.Context) ([]domain.ProductListing, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.description, p.category, p.price, p.cost_price,
		       p.current_stock, p.min_stock_level, p.supplier_id, p.is_active, p.created_at, p.updated_at,
		       s.name AS supplier_name, s.email AS supplier_email, s.phone AS supplier_phone
		FROM products p
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		ORDER BY p.id`

	var rows []productRow
	if err := s.tx.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	listings := make([]domain.ProductListing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, domain.ProductListing{
			Product: domain.Product{
				ID:            row.ID,
				SKU:           row.SKU,
				Name:          row.Name,
				Description:   row.Description,
				Category:      row.Category,
				Price:         row.Price,
				CostPrice:     row.CostPrice,
				CurrentStock:  row.CurrentStock,
				MinStockLevel: row.MinStockLevel,
				SupplierID:    row.SupplierID,
				IsActive:      row.IsActive,
				CreatedAt:     row.CreatedAt,
				UpdatedAt:     row.UpdatedAt,
			},
			SupplierName:  row.SupplierName,
			SupplierEmail: row.SupplierEmail,
			SupplierPhone: row.SupplierPhone,
		})
	}
	return listings, nil
}

func (s *snapshot) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	var rows []supplierRow
	err := s.tx.SelectContext(ctx, &rows,
		`SELECT id, name, email, phone, address, created_at, updated_at FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying suppliers: %w", err)
	}

	suppliers := make([]domain.Supplier, 0, len(rows))
	for _, row := range rows {
		suppliers = append(suppliers, domain.Supplier(row))
	}
	return suppliers, nil
}

func (s *snapshot) LedgerTotalsByProduct(ctx context.Context, since time.Time) ([]domain.LedgerTotals, error) {
	query := `
		SELECT p.id AS product_id, p.name AS product_name, p.sku,
		       SUM(CASE WHEN t.type = 'sale' THEN t.quantity ELSE 0 END) AS sold_units,
		       SUM(CASE WHEN t.type = 'purchase' THEN t.quantity ELSE 0 END) AS purchased_units,
		       SUM(CASE WHEN t.type = 'sale' THEN t.total_amount ELSE 0 END) AS sales_revenue,
		       SUM(CASE WHEN t.type = 'purchase' THEN t.total_amount ELSE 0 END) AS purchase_cost
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.transaction_date >= ?
		GROUP BY p.id, p.name, p.sku`

	var rows []ledgerTotalsRow
	if err := s.tx.SelectContext(ctx, &rows, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("querying ledger totals by product: %w", err)
	}

	totals := make([]domain.LedgerTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.LedgerTotals(row))
	}
	return totals, nil
}

func (s *snapshot) LedgerTotalsByDay(ctx context.Context, since time.Time) ([]domain.DailyLedgerTotals, error) {
	query := `
		SELECT DATE(t.transaction_date) AS day,
		       COUNT(CASE WHEN t.type = 'sale' THEN 1 END) AS sale_count,
		       COUNT(CASE WHEN t.type = 'purchase' THEN 1 END) AS purchase_count,
		       COALESCE(SUM(CASE WHEN t.type = 'sale' THEN t.total_amount END), 0) AS sale_amount,
		       COALESCE(SUM(CASE WHEN t.type = 'purchase' THEN t.total_amount END), 0) AS purchase_amount
		FROM transactions t
		WHERE t.transaction_date >= ?
		GROUP BY DATE(t.transaction_date)
		ORDER BY day`

	var rows []dailyTotalsRow
	if err := s.tx.SelectContext(ctx, &rows, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("querying ledger totals by day: %w", err)
	}

	days := make([]domain.DailyLedgerTotals, 0, len(rows))
	for _, row := range rows {
		days = append(days, domain.DailyLedgerTotals(row))
	}
	return days, nil
}

func (s *snapshot) CountLedgerEntriesSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := s.tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM transactions WHERE transaction_date >= ?`, since.UTC()); err != nil {
		return 0, fmt.Errorf("counting ledger entries: %w", err)
	}
	return n, nil
}
