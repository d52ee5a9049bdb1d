package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// DynamoDBAPI defines the interface for the DynamoDB client operations used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client            DynamoDBAPI
	RecordsTableName  string
	AccountsTableName string
	LedgerTableName   string

	// NameCapacity is the merchant name byte budget enforced on writes and
	// priced into the storage deposit.
	NameCapacity int
	// DepositRate is the deposit charged per byte of record size.
	DepositRate uint64
	// AccountGrant seeds the balance of newly opened deposit accounts.
	AccountGrant uint64
}

// New creates a new Store with the default capacity and pricing.
func New(client DynamoDBAPI, recordsTable, accountsTable, ledgerTable string) *Store {
	return &Store{
		Client:            client,
		RecordsTableName:  recordsTable,
		AccountsTableName: accountsTable,
		LedgerTableName:   ledgerTable,
		NameCapacity:      models.DefaultMerchantNameCapacity,
		DepositRate:       models.DefaultDepositRatePerByte,
		AccountGrant:      models.DefaultAccountGrant,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// conditionalCheckFailed reports whether a transaction cancellation reason is
// a failed condition, as opposed to a throttle or capacity problem.
func conditionalCheckFailed(reason types.CancellationReason) bool {
	return reason.Code != nil && *reason.Code == "ConditionalCheckFailed"
}
