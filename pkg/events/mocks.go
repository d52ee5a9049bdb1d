package events

import (
	"context"

	"github.com/ledgerlab/expense-records/pkg/models"
)

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// PublishRecordEvent does nothing.
func (p *NoOpPublisher) PublishRecordEvent(ctx context.Context, event *models.RecordEvent) error {
	return nil
}
