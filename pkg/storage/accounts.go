package storage

import (
	"context"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
)

// AccountStore defines the interface for managing deposit accounts.
type AccountStore interface {
	// GetAccount retrieves an owner's deposit account.
	GetAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error)

	// CreateAccount opens a deposit account for an owner, seeded with the
	// configured grant.
	CreateAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error)

	// ListAccounts retrieves all deposit accounts from the storage.
	ListAccounts(ctx context.Context) ([]models.DepositAccount, error)
}
