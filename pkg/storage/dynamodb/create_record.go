package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// CreateRecord atomically initializes the record slot for (owner, id), debits
// the owner's deposit account and writes the ledger entry for the debit.
func (s *Store) CreateRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error) {
	if err := storage.ValidateMerchantName(merchantName, s.NameCapacity); err != nil {
		return nil, err
	}

	// 1. Derive the slot address for this owner and id.
	addr, bump, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	// 2. Get the current state of the owner's deposit account for optimistic locking.
	account, err := s.GetAccount(ctx, owner)
	if err != nil {
		return nil, err
	}

	deposit := models.DepositFor(s.NameCapacity, s.DepositRate)
	if account.Balance < deposit {
		return nil, storage.ErrInsufficientDeposit
	}

	// 3. Build the record with server-side details.
	now := time.Now()
	record := &models.ExpenseRecord{
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
	recordAV, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	// 4. Prepare the ledger entry for the deposit debit.
	entry := models.LedgerEntry{
		EntryID:     uuid.New().String(),
		Address:     record.Address,
		AccountID:   record.Owner,
		Debit:       deposit,
		Description: fmt.Sprintf("Storage deposit for record %s", record.Address),
		Timestamp:   now,
		GSI1PK:      "LEDGER_ENTRIES",
	}
	entryAV, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	depositAV, err := attributevalue.Marshal(deposit)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deposit: %w", err)
	}

	// 5. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Create the record slot. The address must be vacant.
				Put: &types.Put{
					TableName:           aws.String(s.RecordsTableName),
					Item:                recordAV,
					ConditionExpression: aws.String("attribute_not_exists(address)"),
				},
			},
			{
				// Operation 2: Debit the owner's deposit account.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"owner": &types.AttributeValueMemberS{Value: record.Owner},
					},
					UpdateExpression:    aws.String("SET balance = balance - :deposit, held = held + :deposit, version = version + :inc"),
					ConditionExpression: aws.String("attribute_exists(#owner) AND balance >= :deposit AND version = :version"),
					ExpressionAttributeNames: map[string]string{
						"#owner": "owner",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":deposit": depositAV,
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Version)},
						":inc":     &types.AttributeValueMemberN{Value: "1"},
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				// Operation 3: Record the debit in the deposit ledger.
				Put: &types.Put{
					TableName:           aws.String(s.LedgerTableName),
					Item:                entryAV,
					ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
				},
			},
		},
	}

	// 6. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) == 3 {
			if conditionalCheckFailed(tce.CancellationReasons[0]) {
				return nil, storage.ErrAddressInUse
			}
			if conditionalCheckFailed(tce.CancellationReasons[1]) {
				if len(tce.CancellationReasons[1].Item) == 0 {
					return nil, storage.ErrAccountNotFound
				}
				var current models.DepositAccount
				if uerr := attributevalue.UnmarshalMap(tce.CancellationReasons[1].Item, &current); uerr == nil && current.Balance < deposit {
					return nil, storage.ErrInsufficientDeposit
				}
				return nil, fmt.Errorf("deposit account for owner %s changed concurrently: %w", record.Owner, err)
			}
		}
		return nil, fmt.Errorf("failed to execute record creation: %w", err)
	}

	return record, nil
}
