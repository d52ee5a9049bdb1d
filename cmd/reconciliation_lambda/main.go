package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/ledgerlab/expense-records/pkg/storage"
	dydbstore "github.com/ledgerlab/expense-records/pkg/storage/dynamodb"
)

var store storage.Storage

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)

	recordsTable := os.Getenv("DYNAMODB_RECORDS_TABLE_NAME")
	accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")

	store = dydbstore.New(dbClient, recordsTable, accountsTable, ledgerTable)
}

// HandleRequest is triggered by an EventBridge Schedule. It checks that the
// deposit held on every account equals the deposits locked by that owner's
// live records.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting deposit reconciliation...")

	totals, err := store.SumRecordDeposits(ctx)
	if err != nil {
		log.Printf("ERROR: failed to sum record deposits: %v", err)
		return err
	}

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list deposit accounts: %v", err)
		return err
	}

	mismatches := 0
	for _, account := range accounts {
		locked := totals[account.Owner]
		if account.Held != locked {
			mismatches++
			log.Printf("CRITICAL: account %s holds %d but records lock %d", account.Owner, account.Held, locked)
		}
		delete(totals, account.Owner)
	}

	// Anything left over is a record whose owner has no account at all.
	for owner, locked := range totals {
		mismatches++
		log.Printf("CRITICAL: records lock %d for owner %s who has no deposit account", locked, owner)
	}

	if mismatches == 0 {
		log.Printf("Reconciliation finished, %d accounts verified", len(accounts))
	} else {
		log.Printf("Reconciliation finished with %d mismatches", mismatches)
	}
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
