package mapping

import (
	"github.com/ledgerlab/expense-records/pkg/api"
	"github.com/ledgerlab/expense-records/pkg/models"
)

// ToApiExpense converts a domain ExpenseRecord model to an API Expense model.
func ToApiExpense(record *models.ExpenseRecord) *api.Expense {
	return &api.Expense{
		Address:      record.Address,
		Id:           record.Id,
		Owner:        record.Owner,
		Bump:         record.Bump,
		MerchantName: record.MerchantName,
		Amount:       record.Amount,
		Deposit:      record.Deposit,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

// ToApiDepositAccount converts a domain DepositAccount model to an API
// DepositAccount model.
func ToApiDepositAccount(account *models.DepositAccount) *api.DepositAccount {
	return &api.DepositAccount{
		Owner:     account.Owner,
		Balance:   account.Balance,
		Held:      account.Held,
		Version:   account.Version,
		CreatedAt: account.CreatedAt,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry
// model. Zero debit and credit amounts map to nil so each entry reports only
// the side it posted.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	out := &api.LedgerEntry{
		EntryId:     entry.EntryID,
		Address:     entry.Address,
		AccountId:   entry.AccountID,
		Description: entry.Description,
		Timestamp:   entry.Timestamp,
	}
	if entry.Debit != 0 {
		debit := entry.Debit
		out.Debit = &debit
	}
	if entry.Credit != 0 {
		credit := entry.Credit
		out.Credit = &credit
	}
	return out
}
