package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentfold/backend/internal/domain/shared"
)

// OutboxEventModel is the row shape of the outbox_events table. Rows are
// written in the same transaction as the aggregate change that produced
// the event and drained by the outbox processor.
type OutboxEventModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID    uuid.UUID `gorm:"type:uuid;not null;index:idx_outbox_business_status,priority:1"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string    `gorm:"type:varchar(255);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null"`
	AggregateType string    `gorm:"type:varchar(255);not null"`
	Payload       []byte    `gorm:"type:jsonb;not null"`

	// Delivery bookkeeping owned by the processor.
	Status      shared.OutboxStatus `gorm:"type:varchar(20);default:PENDING;index:idx_outbox_business_status,priority:2;index:idx_outbox_status_created,priority:1"`
	RetryCount  int                 `gorm:"default:0"`
	MaxRetries  int                 `gorm:"default:5"`
	LastError   string              `gorm:"type:text"`
	NextRetryAt *time.Time          `gorm:"index:idx_outbox_next_retry"`
	ProcessedAt *time.Time

	CreatedAt time.Time `gorm:"not null;default:now();index:idx_outbox_status_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (OutboxEventModel) TableName() string {
	return "outbox_events"
}

// NewOutboxEventModel maps a domain outbox entry onto a row.
func NewOutboxEventModel(e *shared.OutboxEntry) *OutboxEventModel {
	return &OutboxEventModel{
		ID:            e.ID,
		BusinessID:    e.BusinessID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Payload:       e.Payload,
		Status:        e.Status,
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// ToDomain maps the row back to the domain entry.
func (m *OutboxEventModel) ToDomain() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:            m.ID,
		BusinessID:    m.BusinessID,
		EventID:       m.EventID,
		EventType:     m.EventType,
		AggregateID:   m.AggregateID,
		AggregateType: m.AggregateType,
		Payload:       m.Payload,
		Status:        m.Status,
		RetryCount:    m.RetryCount,
		MaxRetries:    m.MaxRetries,
		LastError:     m.LastError,
		NextRetryAt:   m.NextRetryAt,
		ProcessedAt:   m.ProcessedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// OutboxEventModelsToDomain maps a result set to domain entries.
func OutboxEventModelsToDomain(rows []*OutboxEventModel) []*shared.OutboxEntry {
	entries := make([]*shared.OutboxEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToDomain()
	}
	return entries
}
