package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ledgerlab/expense-records/pkg/models"
)

// ListLedgerEntries returns the most recent deposit ledger entries, newest
// first. Entries are LPUSHed on write so the head of the list is already in
// reverse chronological order.
func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		// LRANGE treats a negative stop as an offset from the tail, so guard
		// here instead of asking Redis for the whole list.
		return []models.LedgerEntry{}, nil
	}

	rows, err := s.Client.LRange(ctx, ledgerKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger entries from Redis: %w", err)
	}

	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, raw := range rows {
		var entry models.LedgerEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
