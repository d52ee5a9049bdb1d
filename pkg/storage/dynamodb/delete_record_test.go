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

func TestDeleteRecord(t *testing.T) {
	owner := testIdentity(0x05)
	addr, bump, err := address.Find(owner, 3)
	assert.NoError(t, err)

	record := &models.ExpenseRecord{
		Address:       addr.Hex(),
		Discriminator: models.RecordDiscriminator(),
		Id:            3,
		Owner:         owner.Hex(),
		Bump:          bump,
		MerchantName:  "coffee",
		Amount:        450,
		Deposit:       720,
	}
	account := &models.DepositAccount{Owner: owner.Hex(), Balance: 99_280, Held: 720, Version: 5}

	recordsTableGet := mock.MatchedBy(func(input *dynamodb.GetItemInput) bool {
		return input.TableName != nil && *input.TableName == "records"
	})
	accountsTableGet := mock.MatchedBy(func(input *dynamodb.GetItemInput) bool {
		return input.TableName != nil && *input.TableName == "accounts"
	})

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		recordAV, _ := attributevalue.MarshalMap(record)
		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, recordsTableGet).Once().Return(&dynamodb.GetItemOutput{Item: recordAV}, nil)
		mockClient.On("GetItem", mock.Anything, accountsTableGet).Once().Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		deleted, err := store.DeleteRecord(context.Background(), owner, 3)

		assert.NoError(t, err)
		assert.Equal(t, record, deleted)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		mockClient.On("GetItem", mock.Anything, recordsTableGet).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		_, err := store.DeleteRecord(context.Background(), owner, 3)

		assert.ErrorIs(t, err, storage.ErrRecordNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Wrong Owner", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		theirs := &models.ExpenseRecord{
			Address:       addr.Hex(),
			Discriminator: models.RecordDiscriminator(),
			Owner:         testIdentity(0x07).Hex(),
			Deposit:       720,
		}
		theirsAV, _ := attributevalue.MarshalMap(theirs)
		mockClient.On("GetItem", mock.Anything, recordsTableGet).Return(&dynamodb.GetItemOutput{Item: theirsAV}, nil)

		_, err := store.DeleteRecord(context.Background(), owner, 3)

		assert.ErrorIs(t, err, storage.ErrInvalidCaller)
		mockClient.AssertExpectations(t)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		recordAV, _ := attributevalue.MarshalMap(record)
		mockClient.On("GetItem", mock.Anything, recordsTableGet).Return(&dynamodb.GetItemOutput{Item: recordAV}, nil)
		mockClient.On("GetItem", mock.Anything, accountsTableGet).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		_, err := store.DeleteRecord(context.Background(), owner, 3)

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Slot Rewritten Concurrently", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		recordAV, _ := attributevalue.MarshalMap(record)
		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, recordsTableGet).Return(&dynamodb.GetItemOutput{Item: recordAV}, nil)
		mockClient.On("GetItem", mock.Anything, accountsTableGet).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

		// By the time the transaction ran, the slot held someone else's record.
		theirs := &models.ExpenseRecord{
			Address:       addr.Hex(),
			Discriminator: models.RecordDiscriminator(),
			Owner:         testIdentity(0x06).Hex(),
			Deposit:       720,
		}
		theirsAV, _ := attributevalue.MarshalMap(theirs)
		cancellationReasons := []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed"), Item: theirsAV},
			{Code: aws.String("None")},
			{Code: aws.String("None")},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{CancellationReasons: cancellationReasons})

		_, err := store.DeleteRecord(context.Background(), owner, 3)

		assert.ErrorIs(t, err, storage.ErrInvalidCaller)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "records", "accounts", "ledger")

		recordAV, _ := attributevalue.MarshalMap(record)
		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, recordsTableGet).Return(&dynamodb.GetItemOutput{Item: recordAV}, nil)
		mockClient.On("GetItem", mock.Anything, accountsTableGet).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed"))

		_, err := store.DeleteRecord(context.Background(), owner, 3)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute record deletion")
		mockClient.AssertExpectations(t)
	})
}
