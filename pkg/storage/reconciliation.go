package storage

import "context"

// ReconciliationStore defines the privileged interface for auditing deposit
// holds. It scans every record and sums the deposits locked per owner, which
// the reconciliation job compares against each account's held balance.
// It should only be exposed to the component responsible for reconciliation.
type ReconciliationStore interface {
	// SumRecordDeposits returns the total storage deposit locked by live
	// records, keyed by hex-encoded owner identity.
	SumRecordDeposits(ctx context.Context) (map[string]uint64, error)
}
