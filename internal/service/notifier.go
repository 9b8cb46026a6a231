package service

import (
	"time"

	"feedmill-production/internal/model"

	"github.com/google/uuid"
)

type BatchEventType string

const (
	EventBatchCreated   BatchEventType = "batch_created"
	EventBatchStarted   BatchEventType = "batch_started"
	EventBatchPaused    BatchEventType = "batch_paused"
	EventBatchResumed   BatchEventType = "batch_resumed"
	EventBatchCompleted BatchEventType = "batch_completed"
	EventBatchCancelled BatchEventType = "batch_cancelled"
)

// BatchEvent is published after a lifecycle transition has committed.
type BatchEvent struct {
	Type        BatchEventType    `json:"type"`
	BatchID     uuid.UUID         `json:"batch_id"`
	BatchNumber string            `json:"batch_number"`
	Status      model.BatchStatus `json:"status"`
	Actor       string            `json:"actor"`
	Message     string            `json:"message"`
	UnitsMade   int               `json:"units_made,omitempty"`
	At          time.Time         `json:"at"`
}

// Notifier delivers batch events to whoever is listening. Implementations
// must not block the caller.
type Notifier interface {
	Publish(event BatchEvent)
}

type nopNotifier struct{}

func (nopNotifier) Publish(BatchEvent) {}
