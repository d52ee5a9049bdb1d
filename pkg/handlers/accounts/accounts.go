package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/api"
	"github.com/ledgerlab/expense-records/pkg/mapping"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// AccountsHandler holds the dependencies for deposit account handlers.
type AccountsHandler struct {
	Store storage.AccountStore
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(store storage.AccountStore) *AccountsHandler {
	return &AccountsHandler{Store: store}
}

// CreateAccount handles the logic for opening a new deposit account.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var newAccount api.NewDepositAccount
	if err := json.NewDecoder(r.Body).Decode(&newAccount); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	owner, err := address.ParseIdentity(newAccount.Owner)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid owner identity: %v", err), http.StatusBadRequest)
		return
	}

	createdAccount, err := h.Store.CreateAccount(r.Context(), owner)
	if err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			http.Error(w, "Deposit account for this owner already exists", http.StatusConflict)
		} else {
			http.Error(w, fmt.Sprintf("Failed to create deposit account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiAccount := mapping.ToApiDepositAccount(createdAccount)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiAccount); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetAccountByOwner handles the logic for retrieving an owner's deposit
// account.
func (h *AccountsHandler) GetAccountByOwner(w http.ResponseWriter, r *http.Request, ownerHex string) {
	owner, err := address.ParseIdentity(ownerHex)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid owner identity: %v", err), http.StatusBadRequest)
		return
	}

	domainAccount, err := h.Store.GetAccount(r.Context(), owner)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			http.Error(w, "Deposit account not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve deposit account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiAccount := mapping.ToApiDepositAccount(domainAccount)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiAccount); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListAccounts handles the logic for retrieving all deposit accounts.
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	domainAccounts, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve deposit accounts: %v", err), http.StatusInternalServerError)
		return
	}

	apiAccounts := make([]*api.DepositAccount, len(domainAccounts))
	for i, account := range domainAccounts {
		apiAccounts[i] = mapping.ToApiDepositAccount(&account)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiAccounts); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
