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

// DeleteRecord atomically clears the record slot, refunds the deposit to the
// owner's account and writes the ledger entry for the refund. It returns the
// record as it was before deletion.
func (s *Store) DeleteRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error) {
	// 1. Derive the slot address and load the record. Deleting another
	//    owner's record is a permission failure, not a miss.
	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	record, err := s.getRecordAt(ctx, addr)
	if err != nil {
		return nil, err
	}
	if record.Owner != owner.Hex() {
		return nil, fmt.Errorf("record at address %s belongs to %s: %w", addr.Hex(), record.Owner, storage.ErrInvalidCaller)
	}

	// 2. Get the current state of the owner's deposit account for optimistic locking.
	account, err := s.GetAccount(ctx, owner)
	if err != nil {
		return nil, err
	}

	// 3. Prepare the ledger entry for the deposit refund.
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
	entryAV, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	depositAV, err := attributevalue.Marshal(record.Deposit)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deposit: %w", err)
	}

	// 4. Construct the TransactWriteItems input. The delete is conditioned on
	// the stored owner and deposit still matching what we read, so a
	// concurrent rewrite of the slot cancels the whole transaction.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Delete the record slot.
				Delete: &types.Delete{
					TableName: aws.String(s.RecordsTableName),
					Key: map[string]types.AttributeValue{
						"address": &types.AttributeValueMemberS{Value: record.Address},
					},
					ConditionExpression: aws.String("attribute_exists(address) AND #owner = :owner AND deposit = :deposit"),
					ExpressionAttributeNames: map[string]string{
						"#owner": "owner",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":owner":   &types.AttributeValueMemberS{Value: owner.Hex()},
						":deposit": depositAV,
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				// Operation 2: Refund the deposit to the owner's account.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"owner": &types.AttributeValueMemberS{Value: record.Owner},
					},
					UpdateExpression:    aws.String("SET balance = balance + :deposit, held = held - :deposit, version = version + :inc"),
					ConditionExpression: aws.String("attribute_exists(#owner) AND held >= :deposit AND version = :version"),
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
				// Operation 3: Record the refund in the deposit ledger.
				Put: &types.Put{
					TableName:           aws.String(s.LedgerTableName),
					Item:                entryAV,
					ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
				},
			},
		},
	}

	// 5. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) == 3 {
			if conditionalCheckFailed(tce.CancellationReasons[0]) {
				return nil, s.classifyRecordConditionFailure(tce.CancellationReasons[0].Item, owner, addr)
			}
			if conditionalCheckFailed(tce.CancellationReasons[1]) {
				if len(tce.CancellationReasons[1].Item) == 0 {
					return nil, storage.ErrAccountNotFound
				}
				return nil, fmt.Errorf("deposit account for owner %s changed concurrently: %w", record.Owner, err)
			}
		}
		return nil, fmt.Errorf("failed to execute record deletion: %w", err)
	}

	return record, nil
}
