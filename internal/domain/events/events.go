// Package events defines the notifications emitted after document and stock changes commit.
package events

import (
	"context"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

// Type names an event.
type Type string

const (
	DocumentCreated   Type = "document.created"
	DocumentValidated Type = "document.validated"
	DocumentCancelled Type = "document.cancelled"
	StockUpdated      Type = "stock.updated"
)

// Event is a fire-and-forget notification.
type Event struct {
	ID            id.ID     `json:"id"`
	Type          Type      `json:"type"`
	AggregateType string    `json:"aggregateType"`
	AggregateID   id.ID     `json:"aggregateId"`
	OccurredAt    time.Time `json:"occurredAt"`
	Payload       any       `json:"payload"`
}

// DocumentPayload is carried by document.* events.
type DocumentPayload struct {
	DocumentType string                `json:"documentType"`
	Number       string                `json:"number"`
	Status       entity.DocumentStatus `json:"status"`
	UserID       id.ID                 `json:"userId"`
}

// StockPayload is carried by stock.updated: the new balance of one key.
type StockPayload struct {
	entity.StockKey
	Quantity       types.Quantity `json:"quantity"`
	DocumentID     id.ID          `json:"documentId"`
	DocumentNumber string         `json:"documentNumber"`
}

// Publisher delivers events. Implementations never fail the caller; delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

func newEvent(t Type, aggregateType string, aggregateID id.ID, payload any) Event {
	return Event{
		ID:            id.New(),
		Type:          t,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

// NewDocumentEvent builds a document.* event.
func NewDocumentEvent(t Type, documentType string, documentID id.ID, number string, status entity.DocumentStatus, userID id.ID) Event {
	return newEvent(t, documentType, documentID, DocumentPayload{
		DocumentType: documentType,
		Number:       number,
		Status:       status,
		UserID:       userID,
	})
}

// NewStockUpdated builds a stock.updated event for one balance.
func NewStockUpdated(balance entity.StockBalance, documentID id.ID, documentNumber string) Event {
	return newEvent(StockUpdated, "stock", balance.ProductID, StockPayload{
		StockKey:       balance.StockKey,
		Quantity:       balance.Quantity,
		DocumentID:     documentID,
		DocumentNumber: documentNumber,
	})
}
