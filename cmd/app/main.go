package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ledgerlab/expense-records/pkg/events"
	"github.com/ledgerlab/expense-records/pkg/handlers"
	"github.com/ledgerlab/expense-records/pkg/middleware"
	"github.com/ledgerlab/expense-records/pkg/storage"
	dydbstore "github.com/ledgerlab/expense-records/pkg/storage/dynamodb"
	memorystore "github.com/ledgerlab/expense-records/pkg/storage/memory"
	redisstore "github.com/ledgerlab/expense-records/pkg/storage/redis"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	store, publisher := buildDependencies()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Mount("/", handlers.NewRouter(store, publisher))

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	err = http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildDependencies selects the storage backend from STORAGE_BACKEND and
// wires the optional SQS event publisher.
func buildDependencies() (storage.Storage, events.Publisher) {
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = "dynamodb"
	}

	var store storage.Storage
	switch backend {
	case "dynamodb":
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}

		recordsTable := os.Getenv("DYNAMODB_RECORDS_TABLE_NAME")
		accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
		ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")
		if recordsTable == "" || accountsTable == "" || ledgerTable == "" {
			log.Fatal("One or more DynamoDB table name environment variables are not set")
		}

		store = dydbstore.New(dynamodb.NewFromConfig(cfg), recordsTable, accountsTable, ledgerTable)
	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			log.Fatal("REDIS_ADDR environment variable not set")
		}
		store = redisstore.New(goredis.NewClient(&goredis.Options{Addr: addr}))
	case "memory":
		log.Println("Using in-memory storage, state will not survive a restart")
		store = memorystore.New()
	default:
		log.Fatalf("Unknown STORAGE_BACKEND %q", backend)
	}

	var publisher events.Publisher
	if queueURL := os.Getenv("EVENTS_QUEUE_URL"); queueURL != "" {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL)
	} else {
		log.Println("EVENTS_QUEUE_URL not set, record events are disabled")
	}

	return store, publisher
}
