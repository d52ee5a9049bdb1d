package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// CreateRecord initializes the record slot derived from (owner, id) and debits
// the owner's deposit account, all inside one WATCH transaction.
func (s *Store) CreateRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error) {
	// 1. Enforce the name capacity before touching Redis.
	if err := storage.ValidateMerchantName(merchantName, s.NameCapacity); err != nil {
		return nil, err
	}

	// 2. Derive the canonical slot address for this (owner, id) pair.
	addr, bump, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	deposit := models.DepositFor(s.NameCapacity, s.DepositRate)

	var record *models.ExpenseRecord
	txf := func(tx *redis.Tx) error {
		// 3. The slot must be vacant.
		exists, err := tx.Exists(ctx, recordKey(addr.Hex())).Result()
		if err != nil {
			return fmt.Errorf("failed to check record slot: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("record slot %s: %w", addr.Hex(), storage.ErrAddressInUse)
		}

		// 4. Load the deposit account and verify it can cover the deposit.
		account, err := s.loadAccount(ctx, tx, owner.Hex())
		if err != nil {
			return err
		}
		if account.Balance < deposit {
			return fmt.Errorf("account %s balance %d cannot cover deposit %d: %w",
				owner.Hex(), account.Balance, deposit, storage.ErrInsufficientDeposit)
		}

		now := time.Now()
		record = &models.ExpenseRecord{
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

		entry := models.LedgerEntry{
			EntryID:     uuid.New().String(),
			Address:     record.Address,
			AccountID:   record.Owner,
			Debit:       deposit,
			Description: fmt.Sprintf("Storage deposit for record %s", record.Address),
			Timestamp:   now,
			GSI1PK:      "LEDGER_ENTRIES",
		}

		recordJSON, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		accountJSON, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}
		entryJSON, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entry: %w", err)
		}

		// 5. Commit the slot, the debited account, and the ledger entry.
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, recordKey(record.Address), recordJSON, 0)
			pipe.Set(ctx, accountKey(record.Owner), accountJSON, 0)
			pipe.SAdd(ctx, ownerIndexKey(record.Owner), record.Address)
			pipe.LPush(ctx, ledgerKey, entryJSON)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := s.Client.Watch(ctx, txf, recordKey(addr.Hex()), accountKey(owner.Hex()))
		if err == nil {
			return record, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Lost the optimistic lock, replay against fresh state.
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("record creation for %s lost the optimistic lock %d times", addr.Hex(), maxRetries)
}

// GetRecord fetches the record stored at the address derived from (owner, id).
func (s *Store) GetRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error) {
	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	record, err := s.fetchRecord(ctx, s.Client, addr.Hex())
	if err != nil {
		return nil, err
	}
	if record.Owner != owner.Hex() {
		return nil, fmt.Errorf("item at address %s is not an expense record: %w", addr.Hex(), storage.ErrRecordNotFound)
	}
	return record, nil
}

// ModifyRecord overwrites the merchant name and amount of an existing record
// owned by the caller.
func (s *Store) ModifyRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error) {
	if err := storage.ValidateMerchantName(merchantName, s.NameCapacity); err != nil {
		return nil, err
	}

	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	var record *models.ExpenseRecord
	txf := func(tx *redis.Tx) error {
		record, err = s.fetchRecord(ctx, tx, addr.Hex())
		if err != nil {
			return err
		}
		if record.Owner != owner.Hex() {
			return fmt.Errorf("record at address %s belongs to %s: %w", addr.Hex(), record.Owner, storage.ErrInvalidCaller)
		}

		record.MerchantName = merchantName
		record.Amount = amount
		record.UpdatedAt = time.Now()

		recordJSON, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, recordKey(record.Address), recordJSON, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := s.Client.Watch(ctx, txf, recordKey(addr.Hex()))
		if err == nil {
			return record, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("record modification for %s lost the optimistic lock %d times", addr.Hex(), maxRetries)
}

// DeleteRecord removes the record at the address derived from (owner, id) and
// refunds its storage deposit to the owner's account. The removed record is
// returned so callers can still describe it.
func (s *Store) DeleteRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error) {
	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	var record *models.ExpenseRecord
	txf := func(tx *redis.Tx) error {
		record, err = s.fetchRecord(ctx, tx, addr.Hex())
		if err != nil {
			return err
		}
		if record.Owner != owner.Hex() {
			return fmt.Errorf("record at address %s belongs to %s: %w", addr.Hex(), record.Owner, storage.ErrInvalidCaller)
		}

		account, err := s.loadAccount(ctx, tx, owner.Hex())
		if err != nil {
			return err
		}
		account.Balance += record.Deposit
		if account.Held >= record.Deposit {
			account.Held -= record.Deposit
		} else {
			account.Held = 0
		}
		account.Version++

		now := time.Now()
		entry := models.LedgerEntry{
			EntryID:     uuid.New().String(),
			Address:     record.Address,
			AccountID:   record.Owner,
			Credit:      record.Deposit,
			Description: fmt.Sprintf("Deposit refund for record %s", record.Address),
			Timestamp:   now,
			GSI1PK:      "LEDGER_ENTRIES",
		}

		accountJSON, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}
		entryJSON, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entry: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, recordKey(record.Address))
			pipe.Set(ctx, accountKey(record.Owner), accountJSON, 0)
			pipe.SRem(ctx, ownerIndexKey(record.Owner), record.Address)
			pipe.LPush(ctx, ledgerKey, entryJSON)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := s.Client.Watch(ctx, txf, recordKey(addr.Hex()), accountKey(owner.Hex()))
		if err == nil {
			return record, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("record deletion for %s lost the optimistic lock %d times", addr.Hex(), maxRetries)
}

// ListRecordsByOwner returns every record held by the given owner, ordered by
// record id.
func (s *Store) ListRecordsByOwner(ctx context.Context, owner address.Identity) ([]models.ExpenseRecord, error) {
	addrs, err := s.Client.SMembers(ctx, ownerIndexKey(owner.Hex())).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list record addresses for owner %s: %w", owner.Hex(), err)
	}
	if len(addrs) == 0 {
		return []models.ExpenseRecord{}, nil
	}

	keys := make([]string, len(addrs))
	for i, addr := range addrs {
		keys[i] = recordKey(addr)
	}
	values, err := s.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records for owner %s: %w", owner.Hex(), err)
	}

	records := make([]models.ExpenseRecord, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// The index can briefly outlive a deleted record.
			continue
		}
		var record models.ExpenseRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Id < records[j].Id
	})
	return records, nil
}

// fetchRecord loads the record stored under addr and verifies its
// discriminator. Vacant slots and foreign data both report ErrRecordNotFound.
func (s *Store) fetchRecord(ctx context.Context, c redis.Cmdable, addr string) (*models.ExpenseRecord, error) {
	raw, err := c.Get(ctx, recordKey(addr)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("no record at address %s: %w", addr, storage.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record from Redis: %w", err)
	}

	var record models.ExpenseRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if !bytes.Equal(record.Discriminator, models.RecordDiscriminator()) {
		return nil, fmt.Errorf("item at address %s is not an expense record: %w", addr, storage.ErrRecordNotFound)
	}
	return &record, nil
}

// loadAccount fetches and unmarshals the deposit account for owner.
func (s *Store) loadAccount(ctx context.Context, c redis.Cmdable, owner string) (*models.DepositAccount, error) {
	raw, err := c.Get(ctx, accountKey(owner)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("deposit account for owner %s: %w", owner, storage.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit account from Redis: %w", err)
	}
	var account models.DepositAccount
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deposit account: %w", err)
	}
	return &account, nil
}
