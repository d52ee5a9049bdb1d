package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SumRecordDeposits scans the records table and returns the total storage
// deposit locked by live records, keyed by hex-encoded owner identity. The
// scan is paginated, the records table can exceed a single page.
func (s *Store) SumRecordDeposits(ctx context.Context) (map[string]uint64, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.RecordsTableName),
		ProjectionExpression: aws.String("#owner, deposit"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "owner",
		},
	}

	totals := make(map[string]uint64)
	var startKey map[string]types.AttributeValue
	for {
		input.ExclusiveStartKey = startKey

		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan records table: %w", err)
		}

		var rows []struct {
			Owner   string `dynamodbav:"owner"`
			Deposit uint64 `dynamodbav:"deposit"`
		}
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record deposits: %w", err)
		}

		for _, row := range rows {
			totals[row.Owner] += row.Deposit
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return totals, nil
}
