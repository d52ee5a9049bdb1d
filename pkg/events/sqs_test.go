package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerlab/expense-records/pkg/events/mocks"
	"github.com/ledgerlab/expense-records/pkg/models"
)

func TestSQSPublisher_PublishRecordEvent(t *testing.T) {
	event := &models.RecordEvent{
		EventID:    "evt-1",
		Type:       models.RECORD_CREATED,
		Address:    "aabbccdd",
		Owner:      "eeff0011",
		RecordID:   7,
		Deposit:    720,
		OccurredAt: time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.SQSAPI)
		publisher := NewSQSPublisher(mockClient, "https://sqs.test/record-events")

		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(input *sqs.SendMessageInput) bool {
			if input.QueueUrl == nil || *input.QueueUrl != "https://sqs.test/record-events" {
				return false
			}
			var sent models.RecordEvent
			if err := json.Unmarshal([]byte(*input.MessageBody), &sent); err != nil {
				return false
			}
			return sent.EventID == event.EventID && sent.Type == event.Type && sent.RecordID == event.RecordID
		})).Return(&sqs.SendMessageOutput{}, nil)

		err := publisher.PublishRecordEvent(context.Background(), event)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("SQS Error", func(t *testing.T) {
		mockClient := new(mocks.SQSAPI)
		publisher := NewSQSPublisher(mockClient, "https://sqs.test/record-events")

		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue unavailable"))

		err := publisher.PublishRecordEvent(context.Background(), event)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
		mockClient.AssertExpectations(t)
	})
}
