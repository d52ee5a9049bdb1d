package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/api"
	"github.com/ledgerlab/expense-records/pkg/auth"
	"github.com/ledgerlab/expense-records/pkg/events"
	"github.com/ledgerlab/expense-records/pkg/mapping"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// RecordsHandler holds the dependencies for record-related handlers.
type RecordsHandler struct {
	Store     storage.RecordStore
	Publisher events.Publisher
}

// NewRecordsHandler creates a new RecordsHandler.
func NewRecordsHandler(store storage.RecordStore, publisher events.Publisher) *RecordsHandler {
	return &RecordsHandler{Store: store, Publisher: publisher}
}

// SubmitTransaction verifies a signed envelope and applies the instruction it
// carries to the signer's records.
func (h *RecordsHandler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var envelope api.TransactionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	// Only the holder of the signing key may mutate records under its
	// identity, so the signature is checked before the payload is decoded.
	owner, err := auth.VerifyEnvelope(&envelope)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCaller) {
			http.Error(w, "Signature does not match signer", http.StatusUnauthorized)
		} else {
			http.Error(w, fmt.Sprintf("Invalid envelope: %v", err), http.StatusBadRequest)
		}
		return
	}

	var instruction api.Instruction
	if err := json.Unmarshal(envelope.Payload, &instruction); err != nil {
		http.Error(w, fmt.Sprintf("Invalid instruction payload: %v", err), http.StatusBadRequest)
		return
	}

	var (
		record    *models.ExpenseRecord
		eventType models.RecordEventType
		status    = http.StatusOK
	)
	switch instruction.Name {
	case api.InstructionInitializeExpense:
		record, err = h.Store.CreateRecord(r.Context(), owner, instruction.Id, instruction.MerchantName, instruction.Amount)
		eventType = models.RECORD_CREATED
		status = http.StatusCreated
	case api.InstructionModifyExpense:
		record, err = h.Store.ModifyRecord(r.Context(), owner, instruction.Id, instruction.MerchantName, instruction.Amount)
		eventType = models.RECORD_MODIFIED
	case api.InstructionDeleteExpense:
		record, err = h.Store.DeleteRecord(r.Context(), owner, instruction.Id)
		eventType = models.RECORD_DELETED
	default:
		http.Error(w, fmt.Sprintf("Unknown instruction: %q", instruction.Name), http.StatusBadRequest)
		return
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}

	// The mutation is committed at this point, so a publish failure must not
	// fail the request.
	h.publishRecordEvent(r.Context(), eventType, record)

	result := api.TransactionResult{Status: "applied", Record: mapping.ToApiExpense(record)}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetExpenseById handles the logic for retrieving a single record by its
// owner and id.
func (h *RecordsHandler) GetExpenseById(w http.ResponseWriter, r *http.Request, ownerHex string, id uint64) {
	owner, err := address.ParseIdentity(ownerHex)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid owner identity: %v", err), http.StatusBadRequest)
		return
	}

	record, err := h.Store.GetRecord(r.Context(), owner, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			http.Error(w, "Record not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve record: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiRecord := mapping.ToApiExpense(record)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiRecord); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListExpensesByOwner handles the logic for retrieving all records held by an
// owner.
func (h *RecordsHandler) ListExpensesByOwner(w http.ResponseWriter, r *http.Request, ownerHex string) {
	owner, err := address.ParseIdentity(ownerHex)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid owner identity: %v", err), http.StatusBadRequest)
		return
	}

	domainRecords, err := h.Store.ListRecordsByOwner(r.Context(), owner)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve records: %v", err), http.StatusInternalServerError)
		return
	}

	apiRecords := make([]*api.Expense, len(domainRecords))
	for i, record := range domainRecords {
		apiRecords[i] = mapping.ToApiExpense(&record)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiRecords); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

func (h *RecordsHandler) publishRecordEvent(ctx context.Context, eventType models.RecordEventType, record *models.ExpenseRecord) {
	if h.Publisher == nil {
		return
	}

	event := &models.RecordEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		Address:    record.Address,
		Owner:      record.Owner,
		RecordID:   record.Id,
		Deposit:    record.Deposit,
		OccurredAt: time.Now(),
	}
	if err := h.Publisher.PublishRecordEvent(ctx, event); err != nil {
		log.Printf("CRITICAL: record %s committed %s but failed to publish event: %v", record.Address, eventType, err)
	}
}

// writeStorageError maps the storage error taxonomy onto HTTP statuses.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidCaller):
		http.Error(w, "Caller does not own this record", http.StatusUnauthorized)
	case errors.Is(err, storage.ErrAddressInUse):
		http.Error(w, "A record already exists for this id", http.StatusConflict)
	case errors.Is(err, storage.ErrRecordNotFound):
		http.Error(w, "Record not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrCapacityExceeded):
		http.Error(w, "Merchant name exceeds capacity", http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrInsufficientDeposit):
		http.Error(w, "Insufficient deposit balance", http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrAccountNotFound):
		http.Error(w, "No deposit account for signer", http.StatusUnprocessableEntity)
	default:
		log.Printf("ERROR: Failed to apply instruction: %v", err)
		http.Error(w, fmt.Sprintf("Failed to apply instruction: %v", err), http.StatusInternalServerError)
	}
}
