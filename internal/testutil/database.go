package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"stockledger/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/stockledger_test?parseTime=true&loc=UTC&multiStatements=true&clientFoundRows=true"

// TestDSN points at the integration database, overridable with TEST_DATABASE_DSN.
func TestDSN() string {
	if dsn := os.Getenv("TEST_DATABASE_DSN"); dsn != "" {
		return dsn
	}
	return defaultTestDSN
}

// SetupTestDB opens the integration database and skips the test when it is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("mysql", TestDSN())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables brings the schema up to the latest migration.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.Migrate(TestDSN(), mysql.Up, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	truncate(t, db)
}

// CleanupTestDB empties the tables and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}
	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	tables := []string{"transactions", "products", "suppliers"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

func InsertSupplier(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO suppliers (name, email, phone) VALUES (?, ?, ?)`,
		name, name+"@example.com", "555-0100")
	if err != nil {
		t.Fatalf("inserting supplier: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading supplier id: %v", err)
	}
	return id
}

type ProductFixture struct {
	SKU           string
	Name          string
	Price         string
	CurrentStock  int
	MinStockLevel int
	SupplierID    *int64
}

func InsertProduct(t *testing.T, db *sql.DB, p ProductFixture) int64 {
	t.Helper()

	res, err := db.Exec(`
		INSERT INTO products (sku, name, price, current_stock, min_stock_level, supplier_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.SKU, p.Name, p.Price, p.CurrentStock, p.MinStockLevel, p.SupplierID,
	)
	if err != nil {
		t.Fatalf("inserting product %s: %v", p.SKU, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading product id: %v", err)
	}
	return id
}

func CurrentStock(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()

	var stock int
	if err := db.QueryRow(`SELECT current_stock FROM products WHERE id = ?`, productID).Scan(&stock); err != nil {
		t.Fatalf("reading stock of product %d: %v", productID, err)
	}
	return stock
}
