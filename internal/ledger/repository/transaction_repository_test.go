package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
	"stockledger/internal/testutil"
)

// Unit Tests

func TestNewMySQLTransactionRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLTransactionRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertEntry(t *testing.T, db *sql.DB, repo *MySQLTransactionRepository, entry domain.Transaction) int64 {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	id, err := repo.Insert(context.Background(), tx, entry)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return id
}

func TestTransactionRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := testutil.InsertProduct(t, db, testutil.ProductFixture{SKU: "SKU-1", Name: "Widget", Price: "5.00", CurrentStock: 10})

	note := "restock"
	date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := insertEntry(t, db, repo, domain.Transaction{
		ProductID:       productID,
		Kind:            domain.KindPurchase,
		Quantity:        4,
		UnitPrice:       decimal.RequireFromString("2.50"),
		TotalAmount:     decimal.RequireFromString("10.00"),
		Notes:           &note,
		TransactionDate: date,
	})
	assert.Greater(t, id, int64(0))

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	got, err := repo.FindByID(context.Background(), tx, id)
	require.NoError(t, err)
	assert.Equal(t, productID, got.ProductID)
	assert.Equal(t, domain.KindPurchase, got.Kind)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, "10.00", got.TotalAmount.StringFixed(2))
	require.NotNil(t, got.Notes)
	assert.Equal(t, "restock", *got.Notes)
	assert.True(t, date.Equal(got.TransactionDate))
}

func TestTransactionRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.FindByIDForUpdate(context.Background(), tx, 777)
	nfe, ok := errors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ResourceTransaction, nfe.Resource)
}

func TestTransactionRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := testutil.InsertProduct(t, db, testutil.ProductFixture{SKU: "SKU-1", Name: "Widget", Price: "5.00", CurrentStock: 10})

	id := insertEntry(t, db, repo, domain.Transaction{
		ProductID: productID, Kind: domain.KindSale, Quantity: 1,
		UnitPrice: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(5), TransactionDate: time.Now().UTC(),
	})

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), tx, id))
	require.NoError(t, tx.Commit())

	tx, err = db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.Delete(context.Background(), tx, id)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTransactionRepository_ListNewestFirstWithFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	supplierID := testutil.InsertSupplier(t, db, "Acme")
	productID := testutil.InsertProduct(t, db, testutil.ProductFixture{
		SKU: "SKU-1", Name: "Widget", Price: "5.00", CurrentStock: 10, SupplierID: &supplierID,
	})

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	kinds := []domain.TransactionKind{domain.KindPurchase, domain.KindSale, domain.KindSale}
	for i, kind := range kinds {
		insertEntry(t, db, repo, domain.Transaction{
			ProductID: productID, Kind: kind, Quantity: 1,
			UnitPrice: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(5),
			TransactionDate: base.Add(time.Duration(i) * time.Hour),
		})
	}

	all, err := repo.List(context.Background(), domain.TransactionFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].TransactionDate.After(all[1].TransactionDate))
	assert.Equal(t, "Widget", all[0].ProductName)
	require.NotNil(t, all[0].SupplierName)
	assert.Equal(t, "Acme", *all[0].SupplierName)

	sale := domain.KindSale
	sales, err := repo.List(context.Background(), domain.TransactionFilter{Limit: 50, Kind: &sale})
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	page, err := repo.List(context.Background(), domain.TransactionFilter{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.KindPurchase, page[0].Kind)
}

func TestTransactionRepository_FindViewByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := testutil.InsertProduct(t, db, testutil.ProductFixture{SKU: "SKU-9", Name: "Gadget", Price: "5.00", CurrentStock: 12})

	id := insertEntry(t, db, repo, domain.Transaction{
		ProductID: productID, Kind: domain.KindSale, Quantity: 2,
		UnitPrice: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(10), TransactionDate: time.Now().UTC(),
	})

	view, err := repo.FindViewByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "SKU-9", view.ProductSKU)
	assert.Equal(t, 12, view.ProductStock)
	assert.Nil(t, view.SupplierID)
	assert.Nil(t, view.SupplierName)

	_, err = repo.FindViewByID(context.Background(), id+100)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTransactionRepository_ProductDeleteRestricted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := testutil.InsertProduct(t, db, testutil.ProductFixture{SKU: "SKU-1", Name: "Widget", Price: "5.00", CurrentStock: 10})
	insertEntry(t, db, repo, domain.Transaction{
		ProductID: productID, Kind: domain.KindPurchase, Quantity: 1,
		UnitPrice: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(5), TransactionDate: time.Now().UTC(),
	})

	_, err := db.Exec(`DELETE FROM products WHERE id = ?`, productID)
	assert.Error(t, err)
}
