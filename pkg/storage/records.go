package storage

import (
	"context"
	"fmt"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
)

// RecordReader defines the interface for reading expense records.
type RecordReader interface {
	// GetRecord retrieves the record at the address derived from the owner and id.
	GetRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error)

	// ListRecordsByOwner retrieves all records belonging to an owner.
	ListRecordsByOwner(ctx context.Context, owner address.Identity) ([]models.ExpenseRecord, error)
}

// RecordWriter defines the interface for mutating expense records. Every
// mutation is gated on the caller being the record owner and settles the
// storage deposit atomically with the record write.
type RecordWriter interface {
	// CreateRecord initializes the record slot for (owner, id) and debits the
	// owner's deposit account. It returns the stored record.
	CreateRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error)

	// ModifyRecord overwrites the merchant name and amount of an existing
	// record. It returns the updated record.
	ModifyRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error)

	// DeleteRecord clears the record slot and refunds its deposit. It returns
	// the record as it was before deletion.
	DeleteRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error)
}

// RecordStore combines the reader and writer interfaces.
type RecordStore interface {
	RecordReader
	RecordWriter
}

// ValidateMerchantName checks a merchant name against the configured byte
// capacity. Length is measured in encoded bytes, not characters, and
// oversized names are rejected rather than truncated.
func ValidateMerchantName(name string, capacity int) error {
	if len(name) > capacity {
		return fmt.Errorf("merchant name is %d bytes, capacity is %d: %w", len(name), capacity, ErrCapacityExceeded)
	}
	return nil
}
