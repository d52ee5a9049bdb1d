package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
	dydbstore "github.com/ledgerlab/expense-records/pkg/storage/dynamodb"
)

var store storage.Storage

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	recordsTable := os.Getenv("DYNAMODB_RECORDS_TABLE_NAME")
	accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")

	if recordsTable == "" || accountsTable == "" || ledgerTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store = dydbstore.New(dbClient, recordsTable, accountsTable, ledgerTable)
}

// HandleRequest audits record events against the stored state they describe.
func HandleRequest(ctx context.Context, sqsEvent awsevents.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var event models.RecordEvent
		if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
			log.Printf("ERROR: failed to unmarshal record event from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		if err := auditEvent(ctx, &event); err != nil {
			log.Printf("ERROR: failed to audit event %s: %v", event.EventID, err)
			return err
		}
	}

	return nil
}

// auditEvent re-reads the slot an event names and verifies the stored state
// matches what the event claims. Discrepancies are logged rather than
// returned, since retrying cannot repair them.
func auditEvent(ctx context.Context, event *models.RecordEvent) error {
	owner, err := address.ParseIdentity(event.Owner)
	if err != nil {
		log.Printf("CRITICAL: event %s names an unparseable owner %q: %v", event.EventID, event.Owner, err)
		return nil
	}

	record, err := store.GetRecord(ctx, owner, event.RecordID)

	switch event.Type {
	case models.RECORD_CREATED, models.RECORD_MODIFIED:
		if errors.Is(err, storage.ErrRecordNotFound) {
			log.Printf("CRITICAL: event %s reports %s but no record exists at %s", event.EventID, event.Type, event.Address)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record at %s: %w", event.Address, err)
		}
		if record.Address != event.Address || record.Deposit != event.Deposit {
			log.Printf("CRITICAL: event %s disagrees with stored record at %s (address %s, deposit %d vs %d)",
				event.EventID, event.Address, record.Address, record.Deposit, event.Deposit)
			return nil
		}
	case models.RECORD_DELETED:
		if err == nil {
			log.Printf("CRITICAL: event %s reports a deletion but the record at %s is still present", event.EventID, event.Address)
			return nil
		}
		if !errors.Is(err, storage.ErrRecordNotFound) {
			return fmt.Errorf("failed to read record at %s: %w", event.Address, err)
		}
	default:
		log.Printf("CRITICAL: event %s carries unknown type %q", event.EventID, event.Type)
		return nil
	}

	log.Printf("Event %s verified against slot %s", event.EventID, event.Address)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
