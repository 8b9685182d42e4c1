package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
	"stockledger/internal/infrastructure/mysql"
)

const transactionColumns = `
	t.id, t.product_id, t.type, t.quantity, t.unit_price, t.total_amount,
	t.notes, t.transaction_date, t.created_at`

const viewJoins = `
	FROM transactions t
	JOIN products p ON p.id = t.product_id
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

type rowScanner interface {
	Scan(dest ...any) error
}

type MySQLTransactionRepository struct {
	db *sql.DB
}

func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{db: db}
}

func transactionFields(t *domain.Transaction) []any {
	return []any{
		&t.ID, &t.ProductID, &t.Kind, &t.Quantity, &t.UnitPrice, &t.TotalAmount,
		&t.Notes, &t.TransactionDate, &t.CreatedAt,
	}
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := row.Scan(transactionFields(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanView(row rowScanner) (*domain.TransactionView, error) {
	var v domain.TransactionView
	dest := append(transactionFields(&v.Transaction),
		&v.ProductName, &v.ProductSKU, &v.ProductStock, &v.SupplierID, &v.SupplierName)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &v, nil
}

func notFound(id int64) error {
	return errors.NewNotFoundError(errors.ResourceTransaction, fmt.Sprintf("transaction with id %d not found", id))
}

func (r *MySQLTransactionRepository) Insert(ctx context.Context, tx mysql.Tx, t domain.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (product_id, type, quantity, unit_price, total_amount, notes, transaction_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := tx.ExecContext(ctx, query,
		t.ProductID, string(t.Kind), t.Quantity, t.UnitPrice, t.TotalAmount, t.Notes, t.TransactionDate.UTC(), createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// FindByID is a plain consistent read inside tx. It takes no lock.
func (r *MySQLTransactionRepository) FindByID(ctx context.Context, tx mysql.Tx, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = ?`

	t, err := scanTransaction(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction by id: %w", err)
	}

	return t, nil
}

func (r *MySQLTransactionRepository) FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = ? FOR UPDATE`

	t, err := scanTransaction(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("locking transaction %d: %w", id, err)
	}

	return t, nil
}

func (r *MySQLTransactionRepository) Delete(ctx context.Context, tx mysql.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound(id)
	}

	return nil
}

// List returns entries newest first. Limit and offset are expected to be normalized by the caller.
func (r *MySQLTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionView, error) {
	query := `SELECT ` + transactionColumns + `, p.name, p.sku, p.current_stock, p.supplier_id, s.name` + viewJoins
	var args []any

	if filter.Kind != nil {
		query += ` WHERE t.type = ?`
		args = append(args, string(*filter.Kind))
	}

	query += ` ORDER BY t.transaction_date DESC, t.id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	views := []domain.TransactionView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		views = append(views, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return views, nil
}

func (r *MySQLTransactionRepository) FindViewByID(ctx context.Context, id int64) (*domain.TransactionView, error) {
	query := `SELECT ` + transactionColumns + `, p.name, p.sku, p.current_stock, p.supplier_id, s.name` + viewJoins + ` WHERE t.id = ?`

	v, err := scanView(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction view: %w", err)
	}

	return v, nil
}
