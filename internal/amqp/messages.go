package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names what happened to a record.
type EventType string

const (
	SaleCreated     EventType = "sale.created"
	SaleUpdated     EventType = "sale.updated"
	SaleDeleted     EventType = "sale.deleted"
	CategoryAdded   EventType = "category.added"
	ReportGenerated EventType = "report.generated"
)

// SaleEventMessage is a lightweight notification. It carries only the
// record id; consumers read the record itself from the store.
type SaleEventMessage struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id,omitempty"`
	Ref       string    `json:"ref,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSaleEventMessage creates an event stamped with the current time.
func NewSaleEventMessage(t EventType, id int64) *SaleEventMessage {
	return &SaleEventMessage{
		Type:      t,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey is the topic the message is published under.
func (m *SaleEventMessage) RoutingKey() string {
	return string(m.Type)
}

// ToJSON converts the message to JSON bytes
func (m *SaleEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaleEventMessageFromJSON decodes a message and rejects unknown event types.
func SaleEventMessageFromJSON(data []byte) (*SaleEventMessage, error) {
	var msg SaleEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case SaleCreated, SaleUpdated, SaleDeleted, CategoryAdded, ReportGenerated:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return &msg, nil
}
