package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
)

const ownerRecordsIndex = "owner-index"

// ListRecordsByOwner retrieves all records belonging to an owner.
func (s *Store) ListRecordsByOwner(ctx context.Context, owner address.Identity) ([]models.ExpenseRecord, error) {
	// Prepare the query input.
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.RecordsTableName),
		IndexName:              aws.String(ownerRecordsIndex),
		KeyConditionExpression: aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner.Hex()},
		},
	}

	// Execute the query.
	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for records by owner: %w", err)
	}

	// Unmarshal the results.
	var records []models.ExpenseRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}

	return records, nil
}
