package service

import "github.com/google/uuid"

const (
	EventProductCreated     = "product_created"
	EventProductUpdated     = "product_updated"
	EventProductDeleted     = "product_deleted"
	EventTransactionCreated = "transaction_created"
)

// EventPublisher fans committed changes out to an owner's live clients. Publish must not block.
type EventPublisher interface {
	Publish(ownerID uuid.UUID, action string, data any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(uuid.UUID, string, any) {}
