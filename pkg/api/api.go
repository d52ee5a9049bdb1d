// Package api defines the wire types of the HTTP surface.
package api

import (
	"encoding/json"
	"time"
)

// Instruction names accepted in a transaction envelope.
const (
	InstructionInitializeExpense = "initialize_expense"
	InstructionModifyExpense     = "modify_expense"
	InstructionDeleteExpense     = "delete_expense"
)

// TransactionEnvelope is a signed instruction submission. Payload carries the
// exact bytes the signature covers, so it is kept raw until the signature has
// been verified. Signer and Signature are hex encoded.
type TransactionEnvelope struct {
	Payload   json.RawMessage `json:"payload"`
	Signer    string          `json:"signer"`
	Signature string          `json:"signature"`
}

// Instruction is the decoded payload of a transaction envelope.
type Instruction struct {
	Name         string `json:"instruction"`
	Id           uint64 `json:"id"`
	MerchantName string `json:"merchant_name,omitempty"`
	Amount       uint64 `json:"amount,omitempty"`
}

// TransactionResult is the response to a successfully applied envelope.
type TransactionResult struct {
	Status string   `json:"status"`
	Record *Expense `json:"record,omitempty"`
}

// Expense is an expense record as returned by the API.
type Expense struct {
	Address      string    `json:"address"`
	Id           uint64    `json:"id"`
	Owner        string    `json:"owner"`
	Bump         uint8     `json:"bump"`
	MerchantName string    `json:"merchant_name"`
	Amount       uint64    `json:"amount"`
	Deposit      uint64    `json:"deposit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewDepositAccount is the request body for opening a deposit account.
type NewDepositAccount struct {
	Owner string `json:"owner"`
}

// DepositAccount is a deposit account as returned by the API.
type DepositAccount struct {
	Owner     string    `json:"owner"`
	Balance   uint64    `json:"balance"`
	Held      uint64    `json:"held"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// LedgerEntry is a deposit ledger entry as returned by the API.
type LedgerEntry struct {
	EntryId     string    `json:"entry_id"`
	Address     string    `json:"address"`
	AccountId   string    `json:"account_id"`
	Debit       *uint64   `json:"debit,omitempty"`
	Credit      *uint64   `json:"credit,omitempty"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// ListLedgerEntriesParams holds the query parameters for listing ledger
// entries.
type ListLedgerEntriesParams struct {
	Limit *int32 `json:"limit,omitempty"`
}
