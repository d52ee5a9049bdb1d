package storage

import (
	"context"

	"github.com/ledgerlab/expense-records/pkg/models"
)

// LedgerReader defines the interface for reading deposit ledger data.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent ledger entries.
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)
}
