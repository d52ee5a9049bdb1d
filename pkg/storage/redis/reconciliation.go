package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ledgerlab/expense-records/pkg/models"
)

// SumRecordDeposits walks every stored record and totals the storage deposit
// locked per owner, keyed by hex-encoded owner identity.
func (s *Store) SumRecordDeposits(ctx context.Context) (map[string]uint64, error) {
	var keys []string
	iter := s.Client.Scan(ctx, 0, recordKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}

	totals := make(map[string]uint64)
	if len(keys) == 0 {
		return totals, nil
	}

	values, err := s.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var record models.ExpenseRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		totals[record.Owner] += record.Deposit
	}
	return totals, nil
}
