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

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// CreateAccount opens a deposit account for an owner, seeded with the
// configured grant.
func (s *Store) CreateAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error) {
	account := &models.DepositAccount{
		Owner:     owner.Hex(),
		Balance:   s.AccountGrant,
		Held:      0,
		Version:   0,
		CreatedAt: time.Now(),
	}

	// Marshal the account object for the Put operation.
	accountAV, err := attributevalue.MarshalMap(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	// Construct the PutItem input.
	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Item:                accountAV,
		ConditionExpression: aws.String("attribute_not_exists(#owner)"), // Prevent overwriting existing accounts.
		ExpressionAttributeNames: map[string]string{
			"#owner": "owner",
		},
	}

	// Execute the PutItem operation.
	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("deposit account for owner %s: %w", account.Owner, storage.ErrAccountExists)
		}
		return nil, fmt.Errorf("failed to create account in DynamoDB: %w", err)
	}

	// Return the account object as it was successfully created.
	return account, nil
}

// GetAccount retrieves an owner's deposit account from DynamoDB.
func (s *Store) GetAccount(ctx context.Context, owner address.Identity) (*models.DepositAccount, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"owner": owner.Hex()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account owner: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("deposit account for owner %s: %w", owner.Hex(), storage.ErrAccountNotFound)
	}

	var account models.DepositAccount
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// ListAccounts retrieves all deposit accounts from DynamoDB.
func (s *Store) ListAccounts(ctx context.Context) ([]models.DepositAccount, error) {
	// Prepare the Scan input.
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.AccountsTableName),
	}

	// Execute the Scan operation.
	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts table: %w", err)
	}

	// Unmarshal the results.
	var accounts []models.DepositAccount
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
	}

	return accounts, nil
}
