package dynamodb

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// GetRecord retrieves the record at the address derived from the owner and id.
// An item whose discriminator or owner does not match is treated as absent, a
// foreign item at a derived address is never interpreted as an expense record.
func (s *Store) GetRecord(ctx context.Context, owner address.Identity, id uint64) (*models.ExpenseRecord, error) {
	addr, _, err := address.Find(owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record address: %w", err)
	}

	record, err := s.getRecordAt(ctx, addr)
	if err != nil {
		return nil, err
	}

	if record.Owner != owner.Hex() {
		return nil, fmt.Errorf("item at address %s is not an expense record: %w", addr.Hex(), storage.ErrRecordNotFound)
	}

	return record, nil
}

// getRecordAt loads the item stored at a derived address and verifies its
// discriminator. Owner checks belong to the callers, since reads and
// mutations surface a mismatch differently.
func (s *Store) getRecordAt(ctx context.Context, addr address.Address) (*models.ExpenseRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"address": addr.Hex()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record address: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.RecordsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get record from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("record at address %s: %w", addr.Hex(), storage.ErrRecordNotFound)
	}

	var record models.ExpenseRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	if !bytes.Equal(record.Discriminator, models.RecordDiscriminator()) {
		return nil, fmt.Errorf("item at address %s is not an expense record: %w", addr.Hex(), storage.ErrRecordNotFound)
	}

	return &record, nil
}
