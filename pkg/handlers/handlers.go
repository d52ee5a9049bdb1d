package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerlab/expense-records/pkg/api"
	"github.com/ledgerlab/expense-records/pkg/events"
	"github.com/ledgerlab/expense-records/pkg/handlers/accounts"
	"github.com/ledgerlab/expense-records/pkg/handlers/ledger"
	"github.com/ledgerlab/expense-records/pkg/handlers/records"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// NewRouter mounts the full API surface on a chi router. The publisher may be
// nil, in which case record mutations do not emit events.
func NewRouter(store storage.ApiStore, publisher events.Publisher) chi.Router {
	recordsHandler := records.NewRecordsHandler(store, publisher)
	accountsHandler := accounts.NewAccountsHandler(store)
	ledgerHandler := ledger.NewLedgerHandler(store)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		// Signed mutations all enter through the transactions endpoint.
		r.Post("/transactions", recordsHandler.SubmitTransaction)

		r.Route("/owners/{owner}", func(r chi.Router) {
			r.Get("/records", func(w http.ResponseWriter, req *http.Request) {
				recordsHandler.ListExpensesByOwner(w, req, chi.URLParam(req, "owner"))
			})
			r.Get("/records/{id}", func(w http.ResponseWriter, req *http.Request) {
				id, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
				if err != nil {
					http.Error(w, "Invalid record id", http.StatusBadRequest)
					return
				}
				recordsHandler.GetExpenseById(w, req, chi.URLParam(req, "owner"), id)
			})
		})

		r.Post("/accounts", accountsHandler.CreateAccount)
		r.Get("/accounts", accountsHandler.ListAccounts)
		r.Get("/accounts/{owner}", func(w http.ResponseWriter, req *http.Request) {
			accountsHandler.GetAccountByOwner(w, req, chi.URLParam(req, "owner"))
		})

		r.Get("/ledger", func(w http.ResponseWriter, req *http.Request) {
			var params api.ListLedgerEntriesParams
			if raw := req.URL.Query().Get("limit"); raw != "" {
				parsed, err := strconv.ParseInt(raw, 10, 32)
				if err != nil {
					http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
					return
				}
				limit := int32(parsed)
				params.Limit = &limit
			}
			ledgerHandler.ListLedgerEntries(w, req, params)
		})
	})
	return r
}
