package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// CreateAccount opens a deposit account for owner, seeded with the configured
// grant. SETNX keeps the create idempotent against races.
func (s *Store) CreateAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error) {
	account := models.DepositAccount{
		Owner:     owner.Hex(),
		Balance:   s.AccountGrant,
		CreatedAt: time.Now(),
	}
	accountJSON, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deposit account: %w", err)
	}

	ok, err := s.Client.SetNX(ctx, accountKey(account.Owner), accountJSON, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create deposit account in Redis: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("deposit account for owner %s: %w", account.Owner, storage.ErrAccountExists)
	}
	return &account, nil
}

// GetAccount fetches the deposit account owned by owner.
func (s *Store) GetAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error) {
	return s.loadAccount(ctx, s.Client, owner.Hex())
}

// ListAccounts returns every deposit account, ordered by owner.
func (s *Store) ListAccounts(ctx context.Context) ([]models.DepositAccount, error) {
	var keys []string
	iter := s.Client.Scan(ctx, 0, accountKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan deposit accounts: %w", err)
	}
	if len(keys) == 0 {
		return []models.DepositAccount{}, nil
	}

	values, err := s.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deposit accounts: %w", err)
	}

	accounts := make([]models.DepositAccount, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var account models.DepositAccount
		if err := json.Unmarshal([]byte(raw), &account); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deposit account: %w", err)
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Owner < accounts[j].Owner
	})
	return accounts, nil
}
