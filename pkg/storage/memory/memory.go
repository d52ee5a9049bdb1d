// Package memory provides an in-memory Storage implementation backed by
// mutex-guarded maps. It mirrors the conditional-write semantics of the
// DynamoDB store and is intended for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// Store implements the Storage interface in process memory.
type Store struct {
	mu       sync.Mutex
	records  map[string]models.ExpenseRecord  // keyed by hex address
	accounts map[string]models.DepositAccount // keyed by hex owner
	ledger   []models.LedgerEntry

	// NameCapacity is the merchant name byte budget enforced on writes and
	// priced into the storage deposit.
	NameCapacity int
	// DepositRate is the deposit charged per byte of record size.
	DepositRate uint64
	// AccountGrant seeds the balance of newly opened deposit accounts.
	AccountGrant uint64
}

// New creates a new Store with the default capacity and pricing.
func New() *Store {
	return &Store{
		records:      make(map[string]models.ExpenseRecord),
		accounts:     make(map[string]models.DepositAccount),
		NameCapacity: models.DefaultMerchantNameCapacity,
		DepositRate:  models.DefaultDepositRatePerByte,
		AccountGrant: models.DefaultAccountGrant,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// CreateRecord initializes the record slot for (owner, id), debits the
// owner's deposit account and appends the ledger entry for the debit.
func (s *Store) CreateRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error) {
	if err := storage.ValidateMerchantName(merchantName, s.NameCapacity); err != nil {
		return nil, err
	}

	addr, bump, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[addr.Hex()]; exists {
		return nil, storage.ErrAddressInUse
	}

	account, ok := s.accounts[owner.Hex()]
	if !ok {
		return nil, fmt.Errorf("deposit account for owner %s: %w", owner.Hex(), storage.ErrAccountNotFound)
	}

	deposit := models.DepositFor(s.NameCapacity, s.DepositRate)
	if account.Balance < deposit {
		return nil, storage.ErrInsufficientDeposit
	}

	now := time.Now()
	record := models.ExpenseRecord{
		Address:       addr.Hex(),
		Discriminator: models.RecordDiscriminator(),
		Id:            id,
		Owner:         owner.Hex(),
		Bump:          bump,
		MerchantName:  merchantName,
		Amount:        amount,
		Deposit:       deposit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	account.Balance -= deposit
	account.Held += deposit
	account.Version++
	s.accounts[owner.Hex()] = account
	s.records[addr.Hex()] = record
	s.ledger = append(s.ledger, models.LedgerEntry{
		EntryID:     uuid.New().String(),
		Address:     record.Address,
		AccountID:   record.Owner,
		Debit:       deposit,
		Description: fmt.Sprintf("Storage deposit for record %s", record.Address),
		Timestamp:   now,
		GSI1PK:      "LEDGER_ENTRIES",
	})

	return &record, nil
}

// GetRecord retrieves the record at the address derived from the owner and id.
func (s *Store) GetRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error) {
	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[addr.Hex()]
	if !ok || record.Owner != owner.Hex() {
		return nil, fmt.Errorf("record at address %s: %w", addr.Hex(), storage.ErrRecordNotFound)
	}

	return &record, nil
}

// ModifyRecord overwrites the merchant name and amount of an existing record.
func (s *Store) ModifyRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error) {
	if err := storage.ValidateMerchantName(merchantName, s.NameCapacity); err != nil {
		return nil, err
	}

	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[addr.Hex()]
	if !ok {
		return nil, fmt.Errorf("record at address %s: %w", addr.Hex(), storage.ErrRecordNotFound)
	}
	if record.Owner != owner.Hex() {
		return nil, fmt.Errorf("record at address %s belongs to %s: %w", addr.Hex(), record.Owner, storage.ErrInvalidCaller)
	}

	record.MerchantName = merchantName
	record.Amount = amount
	record.UpdatedAt = time.Now()
	s.records[addr.Hex()] = record

	return &record, nil
}

// DeleteRecord clears the record slot, refunds the deposit to the owner's
// account and appends the ledger entry for the refund.
func (s *Store) DeleteRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error) {
	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[addr.Hex()]
	if !ok {
		return nil, fmt.Errorf("record at address %s: %w", addr.Hex(), storage.ErrRecordNotFound)
	}
	if record.Owner != owner.Hex() {
		return nil, fmt.Errorf("record at address %s belongs to %s: %w", addr.Hex(), record.Owner, storage.ErrInvalidCaller)
	}

	account, ok := s.accounts[owner.Hex()]
	if !ok {
		return nil, fmt.Errorf("deposit account for owner %s: %w", owner.Hex(), storage.ErrAccountNotFound)
	}

	now := time.Now()
	account.Balance += record.Deposit
	account.Held -= record.Deposit
	account.Version++
	s.accounts[owner.Hex()] = account
	delete(s.records, addr.Hex())
	s.ledger = append(s.ledger, models.LedgerEntry{
		EntryID:     uuid.New().String(),
		Address:     record.Address,
		AccountID:   record.Owner,
		Credit:      record.Deposit,
		Description: fmt.Sprintf("Deposit refund for record %s", record.Address),
		Timestamp:   now,
		GSI1PK:      "LEDGER_ENTRIES",
	})

	return &record, nil
}

// ListRecordsByOwner retrieves all records belonging to an owner, ordered by id.
func (s *Store) ListRecordsByOwner(ctx context.Context, owner address.Identity) ([]models.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.ExpenseRecord
	for _, record := range s.records {
		if record.Owner == owner.Hex() {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Id < records[j].Id })

	return records, nil
}

// CreateAccount opens a deposit account for an owner, seeded with the
// configured grant.
func (s *Store) CreateAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[owner.Hex()]; exists {
		return nil, fmt.Errorf("deposit account for owner %s: %w", owner.Hex(), storage.ErrAccountExists)
	}

	account := models.DepositAccount{
		Owner:     owner.Hex(),
		Balance:   s.AccountGrant,
		CreatedAt: time.Now(),
	}
	s.accounts[owner.Hex()] = account

	return &account, nil
}

// GetAccount retrieves an owner's deposit account.
func (s *Store) GetAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[owner.Hex()]
	if !ok {
		return nil, fmt.Errorf("deposit account for owner %s: %w", owner.Hex(), storage.ErrAccountNotFound)
	}

	return &account, nil
}

// ListAccounts retrieves all deposit accounts, ordered by owner.
func (s *Store) ListAccounts(ctx context.Context) ([]models.DepositAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accounts []models.DepositAccount
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Owner < accounts[j].Owner })

	return accounts, nil
}

// ListLedgerEntries retrieves the most recent ledger entries.
func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.LedgerEntry, 0, limit)
	for i := len(s.ledger) - 1; i >= 0 && len(entries) < int(limit); i-- {
		entries = append(entries, s.ledger[i])
	}

	return entries, nil
}

// SumRecordDeposits returns the total storage deposit locked by live records,
// keyed by hex-encoded owner identity.
func (s *Store) SumRecordDeposits(ctx context.Context) (map[string]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]uint64)
	for _, record := range s.records {
		totals[record.Owner] += record.Deposit
	}

	return totals, nil
}
