package events

import (
	"context"

	"github.com/ledgerlab/expense-records/pkg/models"
)

// Publisher defines the interface for a component that publishes record
// lifecycle events for asynchronous consumers.
type Publisher interface {
	// PublishRecordEvent enqueues a record event for asynchronous processing.
	PublishRecordEvent(ctx context.Context, event *models.RecordEvent) error
}
