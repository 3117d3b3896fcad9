package event

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/shared"
)

// OutboxPublisher writes domain events into the outbox table inside the
// caller's transaction, so the events commit or roll back with the aggregate
// that raised them.
type OutboxPublisher struct {
	serializer *EventSerializer
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)

func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// PublishWithTx serializes each event and stores it as a pending outbox entry
// on the given transaction.
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event.BusinessID(), event, payload))
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// SaveEvents adapts PublishWithTx to the shared.OutboxEventSaver interface,
// which hands the transaction over as an opaque value.
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}
	return p.PublishWithTx(ctx, tx, events...)
}
