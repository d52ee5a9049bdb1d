package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
	"github.com/ledgerlab/expense-records/pkg/storage/dynamodb/mocks"
)

func TestCreateAccount(t *testing.T) {
	owner := testIdentity(0x0a)

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "records", "accounts", "ledger")
		account, err := store.CreateAccount(context.Background(), owner)

		assert.NoError(t, err)
		assert.Equal(t, owner.Hex(), account.Owner)
		assert.Equal(t, uint64(models.DefaultAccountGrant), account.Balance)
		assert.Equal(t, uint64(0), account.Held)
		assert.Equal(t, int64(0), account.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "records", "accounts", "ledger")
		_, err := store.CreateAccount(context.Background(), owner)

		assert.ErrorIs(t, err, storage.ErrAccountExists)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "records", "accounts", "ledger")
		_, err := store.CreateAccount(context.Background(), owner)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestGetAccount(t *testing.T) {
	owner := testIdentity(0x0b)
	account := &models.DepositAccount{Owner: owner.Hex(), Balance: 100_000, Version: 2}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

		store := New(mockClient, "records", "accounts", "ledger")
		retrieved, err := store.GetAccount(context.Background(), owner)

		assert.NoError(t, err)
		assert.Equal(t, account, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, "records", "accounts", "ledger")
		_, err := store.GetAccount(context.Background(), owner)

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "records", "accounts", "ledger")
		_, err := store.GetAccount(context.Background(), owner)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get account from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListAccounts(t *testing.T) {
	accounts := []models.DepositAccount{
		{Owner: testIdentity(0x0c).Hex(), Balance: 100_000},
		{Owner: testIdentity(0x0d).Hex(), Balance: 98_560},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		var accountsAV []map[string]types.AttributeValue
		for _, a := range accounts {
			av, err := attributevalue.MarshalMap(a)
			assert.NoError(t, err)
			accountsAV = append(accountsAV, av)
		}
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{Items: accountsAV}, nil)

		store := New(mockClient, "records", "accounts", "ledger")
		retrieved, err := store.ListAccounts(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, accounts, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "records", "accounts", "ledger")
		_, err := store.ListAccounts(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan accounts table")
		mockClient.AssertExpectations(t)
	})
}
