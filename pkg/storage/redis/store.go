// Package redis provides a Storage implementation backed by Redis. Record
// mutations run inside optimistic WATCH transactions so the slot state
// machine and deposit accounting stay atomic without server-side locks.
package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// maxRetries bounds how often a WATCH transaction is replayed after losing a
// race before the operation fails.
const maxRetries = 5

const (
	recordKeyPrefix  = "record:"
	accountKeyPrefix = "account:"
	ownerIndexPrefix = "records:owner:"
	ledgerKey        = "ledger"
)

// Store implements the Storage interface using Redis.
type Store struct {
	Client *redis.Client

	// NameCapacity is the merchant name byte budget enforced on writes and
	// priced into the storage deposit.
	NameCapacity int
	// DepositRate is the deposit charged per byte of record size.
	DepositRate uint64
	// AccountGrant seeds the balance of newly opened deposit accounts.
	AccountGrant uint64
}

// New creates a new Store with the default capacity and pricing.
func New(client *redis.Client) *Store {
	return &Store{
		Client:       client,
		NameCapacity: models.DefaultMerchantNameCapacity,
		DepositRate:  models.DefaultDepositRatePerByte,
		AccountGrant: models.DefaultAccountGrant,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func recordKey(addr string) string {
	return recordKeyPrefix + addr
}

func accountKey(owner string) string {
	return accountKeyPrefix + owner
}

func ownerIndexKey(owner string) string {
	return ownerIndexPrefix + owner
}
