package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
	"github.com/ledgerlab/expense-records/pkg/storage/dynamodb/mocks"
)

func testIdentity(fill byte) address.Identity {
	var id address.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestCreateRecord(t *testing.T) {
	owner := testIdentity(0x01)
	account := &models.DepositAccount{Owner: owner.Hex(), Balance: 100_000, Version: 3}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		// Mock the initial GetAccount call
		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

		// Mock the TransactWriteItems call
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		record, err := store.CreateRecord(context.Background(), owner, 7, "coffee", 450)

		assert.NoError(t, err)
		wantAddr, wantBump, findErr := address.Find(owner, 7)
		assert.NoError(t, findErr)
		assert.Equal(t, wantAddr.Hex(), record.Address)
		assert.Equal(t, wantBump, record.Bump)
		assert.Equal(t, owner.Hex(), record.Owner)
		assert.Equal(t, uint64(7), record.Id)
		assert.Equal(t, "coffee", record.MerchantName)
		assert.Equal(t, uint64(450), record.Amount)
		assert.Equal(t, models.DepositFor(models.DefaultMerchantNameCapacity, models.DefaultDepositRatePerByte), record.Deposit)
		assert.Equal(t, models.RecordDiscriminator(), record.Discriminator)
		mockClient.AssertExpectations(t)
	})

	t.Run("Name Too Long", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		_, err := store.CreateRecord(context.Background(), owner, 7, "thirteen-byte", 450)

		assert.ErrorIs(t, err, storage.ErrCapacityExceeded)
		mockClient.AssertExpectations(t)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		_, err := store.CreateRecord(context.Background(), owner, 7, "coffee", 450)

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Deposit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		broke := &models.DepositAccount{Owner: owner.Hex(), Balance: 10, Version: 1}
		brokeAV, _ := attributevalue.MarshalMap(broke)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: brokeAV}, nil)

		_, err := store.CreateRecord(context.Background(), owner, 7, "coffee", 450)

		assert.ErrorIs(t, err, storage.ErrInsufficientDeposit)
		mockClient.AssertExpectations(t)
	})

	t.Run("Address In Use", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

		cancellationReasons := []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
			{Code: aws.String("None")},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{CancellationReasons: cancellationReasons})

		_, err := store.CreateRecord(context.Background(), owner, 7, "coffee", 450)

		assert.ErrorIs(t, err, storage.ErrAddressInUse)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Deposit Race", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

		// The account was drained between the read and the transaction.
		drained := &models.DepositAccount{Owner: owner.Hex(), Balance: 10, Version: 4}
		drainedAV, _ := attributevalue.MarshalMap(drained)
		cancellationReasons := []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed"), Item: drainedAV},
			{Code: aws.String("None")},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{CancellationReasons: cancellationReasons})

		_, err := store.CreateRecord(context.Background(), owner, 7, "coffee", 450)

		assert.ErrorIs(t, err, storage.ErrInsufficientDeposit)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed"))

		_, err := store.CreateRecord(context.Background(), owner, 7, "coffee", 450)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute record creation")
		mockClient.AssertExpectations(t)
	})
}
