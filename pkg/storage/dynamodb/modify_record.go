package dynamodb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// ModifyRecord overwrites the merchant name and amount of an existing record.
// The write is conditioned on the slot holding a record whose stored owner is
// the caller, so a mutation can never land on another owner's record.
func (s *Store) ModifyRecord(ctx context.Context, owner address.Identity, id uint64, merchantName string, amount uint64) (*models.ExpenseRecord, error) {
	if err := storage.ValidateMerchantName(merchantName, s.NameCapacity); err != nil {
		return nil, err
	}

	// 1. Derive the slot address for this owner and id.
	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	now := time.Now()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	discAV, err := attributevalue.Marshal(models.RecordDiscriminator())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal discriminator: %w", err)
	}

	// 2. Conditionally update the record in place.
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.RecordsTableName),
		Key: map[string]types.AttributeValue{
			"address": &types.AttributeValueMemberS{Value: addr.Hex()},
		},
		UpdateExpression:    aws.String("SET merchant_name = :name, amount = :amount, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(address) AND #owner = :owner AND disc = :disc"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":   &types.AttributeValueMemberS{Value: merchantName},
			":amount": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", amount)},
			":owner":  &types.AttributeValueMemberS{Value: owner.Hex()},
			":disc":   discAV,
			":now":    nowAV,
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, s.classifyRecordConditionFailure(condCheckFailed.Item, owner, addr)
		}
		return nil, fmt.Errorf("failed to update record in DynamoDB: %w", err)
	}

	var record models.ExpenseRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated record: %w", err)
	}

	return &record, nil
}

// classifyRecordConditionFailure maps a failed record condition to the right
// domain error by inspecting the item returned with the failure. An empty
// item means the slot was vacant; an item with a foreign discriminator is
// treated the same way; otherwise the stored owner disagreed with the caller.
func (s *Store) classifyRecordConditionFailure(item map[string]types.AttributeValue, owner address.Identity, addr address.Address) error {
	if len(item) == 0 {
		return fmt.Errorf("record at address %s: %w", addr.Hex(), storage.ErrRecordNotFound)
	}

	var current models.ExpenseRecord
	if err := attributevalue.UnmarshalMap(item, &current); err != nil {
		return fmt.Errorf("failed to unmarshal conflicting record at %s: %w", addr.Hex(), err)
	}

	if !bytes.Equal(current.Discriminator, models.RecordDiscriminator()) {
		return fmt.Errorf("item at address %s is not an expense record: %w", addr.Hex(), storage.ErrRecordNotFound)
	}
	if current.Owner != owner.Hex() {
		return fmt.Errorf("record at address %s belongs to %s: %w", addr.Hex(), current.Owner, storage.ErrInvalidCaller)
	}

	return fmt.Errorf("record condition failed at address %s: %w", addr.Hex(), storage.ErrRecordNotFound)
}
