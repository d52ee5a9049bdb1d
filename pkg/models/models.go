package models

import (
	"crypto/sha256"
	"time"
)

// Field widths of the serialized expense record layout, in bytes. The sum of
// these plus the merchant name capacity is the storage reservation a record
// is priced against.
const (
	DiscriminatorSize    = 8
	RecordIDSize         = 8
	OwnerSize            = 32
	NameLengthPrefixSize = 4
	AmountSize           = 8
)

// DefaultMerchantNameCapacity is the reference byte budget for the merchant
// name. Deployments may raise it; the configured capacity is always enforced,
// and oversized names are rejected rather than truncated.
const DefaultMerchantNameCapacity = 12

// DefaultDepositRatePerByte prices the storage deposit. A record locks
// rate * RecordSize(capacity) units of its owner's deposit account until the
// record is deleted.
const DefaultDepositRatePerByte = 10

// DefaultAccountGrant is the balance a new deposit account is seeded with.
const DefaultAccountGrant = 100_000

// recordTypeDomain tags the discriminator hash so record discriminators can
// never collide with other hashed artifacts of the system.
const recordTypeDomain = "expense-records/record/v1"

// RecordSize returns the serialized size of an expense record with the given
// merchant name capacity. At the reference capacity of 12 this is 72 bytes.
func RecordSize(nameCapacity int) int {
	return DiscriminatorSize + RecordIDSize + OwnerSize + NameLengthPrefixSize + nameCapacity + AmountSize
}

// DepositFor returns the storage deposit locked by a record with the given
// merchant name capacity at the given per-byte rate.
func DepositFor(nameCapacity int, ratePerByte uint64) uint64 {
	return ratePerByte * uint64(RecordSize(nameCapacity))
}

// RecordDiscriminator returns the 8-byte type tag stored with every expense
// record. Reads verify it so a foreign item sitting at a derived address is
// never interpreted as an expense record.
func RecordDiscriminator() []byte {
	h := sha256.New()
	h.Write([]byte(recordTypeDomain))
	h.Write([]byte{0x00})
	h.Write([]byte("ExpenseRecord"))
	return h.Sum(nil)[:DiscriminatorSize]
}

// ExpenseRecord represents the internal domain model for one expense record
// slot. It includes dynamodbav tags for marshalling. Address is the derived
// slot key, Owner the hex-encoded 32-byte identity that created the record.
type ExpenseRecord struct {
	Address       string    `dynamodbav:"address"`
	Discriminator []byte    `dynamodbav:"disc"`
	Id            uint64    `dynamodbav:"id"`
	Owner         string    `dynamodbav:"owner"`
	Bump          uint8     `dynamodbav:"bump"`
	MerchantName  string    `dynamodbav:"merchant_name"`
	Amount        uint64    `dynamodbav:"amount"`
	Deposit       uint64    `dynamodbav:"deposit"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
	UpdatedAt     time.Time `dynamodbav:"updated_at"`
}

// DepositAccount represents the internal domain model for an owner's deposit
// account. Balance is spendable, Held is the portion locked by live records,
// and Version is bumped on every mutation for optimistic locking.
type DepositAccount struct {
	Owner     string    `json:"owner" dynamodbav:"owner"`
	Balance   uint64    `json:"balance" dynamodbav:"balance"`
	Held      uint64    `json:"held" dynamodbav:"held"`
	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// LedgerEntry represents a single entry in the deposit ledger. Every deposit
// debit and refund writes one atomically with the record mutation it belongs
// to.
type LedgerEntry struct {
	EntryID     string    `dynamodbav:"entry_id"`
	Address     string    `dynamodbav:"address"`
	AccountID   string    `dynamodbav:"account_id"`
	Debit       uint64    `dynamodbav:"debit,omitempty"`
	Credit      uint64    `dynamodbav:"credit,omitempty"`
	Description string    `dynamodbav:"description"`
	Timestamp   time.Time `dynamodbav:"timestamp"`
	GSI1PK      string    `dynamodbav:"gsi1pk"`
}

// RecordEventType defines the lifecycle transitions a record slot can emit.
type RecordEventType string

const (
	RECORD_CREATED  RecordEventType = "RECORD_CREATED"
	RECORD_MODIFIED RecordEventType = "RECORD_MODIFIED"
	RECORD_DELETED  RecordEventType = "RECORD_DELETED"
)

// RecordEvent is published after a record mutation commits. Consumers re-read
// the slot it names and flag disagreements.
type RecordEvent struct {
	EventID    string          `json:"event_id"`
	Type       RecordEventType `json:"type"`
	Address    string          `json:"address"`
	Owner      string          `json:"owner"`
	RecordID   uint64          `json:"record_id"`
	Deposit    uint64          `json:"deposit"`
	OccurredAt time.Time       `json:"occurred_at"`
}
