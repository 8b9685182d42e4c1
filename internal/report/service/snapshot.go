package service

import (
	"context"
	"time"

	"stockledger/internal/domain"
)

// Snapshot reads from one consistent view of the store. Every call made on the same Snapshot
// sees the same committed state.
type Snapshot interface {
	Products(ctx context.Context) ([]domain.ProductListing, error)
	Suppliers(ctx context.Context) ([]domain.Supplier, error)
	LedgerTotalsByProduct(ctx context.Context, since time.Time) ([]domain.LedgerTotals, error)
	LedgerTotalsByDay(ctx context.Context, since time.Time) ([]domain.DailyLedgerTotals, error)
	CountLedgerEntriesSince(ctx context.Context, since time.Time) (int, error)
}

type SnapshotReader interface {
	WithSnapshot(ctx context.Context, fn func(Snapshot) error) error
}
