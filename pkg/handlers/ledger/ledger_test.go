package ledger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerlab/expense-records/pkg/api"
	"github.com/ledgerlab/expense-records/pkg/handlers/ledger"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage/mocks"
)

func TestListLedgerEntries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.Storage)
		expectedEntries := []models.LedgerEntry{
			{EntryID: uuid.New().String(), Credit: 720, Timestamp: time.Now()},
			{EntryID: uuid.New().String(), Debit: 720, Timestamp: time.Now().Add(-1 * time.Minute)},
		}
		mockStorage.On("ListLedgerEntries", mock.Anything, int32(20)).Return(expectedEntries, nil)

		h := ledger.NewLedgerHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/v1/ledger", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListLedgerEntries(rr, req, api.ListLedgerEntriesParams{})

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var returnedEntries []api.LedgerEntry
		json.Unmarshal(rr.Body.Bytes(), &returnedEntries)
		assert.Len(t, returnedEntries, 2)
		assert.Equal(t, expectedEntries[0].EntryID, returnedEntries[0].EntryId)
		// Each entry carries only the side it posted.
		assert.NotNil(t, returnedEntries[0].Credit)
		assert.Nil(t, returnedEntries[0].Debit)
		assert.NotNil(t, returnedEntries[1].Debit)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListLedgerEntries", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		h := ledger.NewLedgerHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/v1/ledger", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListLedgerEntries(rr, req, api.ListLedgerEntriesParams{})

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("With Limit", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.Storage)
		limit := int32(10)
		expectedEntries := []models.LedgerEntry{{EntryID: uuid.New().String()}}
		mockStorage.On("ListLedgerEntries", mock.Anything, limit).Return(expectedEntries, nil)

		h := ledger.NewLedgerHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/v1/ledger?limit=10", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListLedgerEntries(rr, req, api.ListLedgerEntriesParams{Limit: &limit})

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}
