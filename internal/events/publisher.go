// Package events publishes domain events for downstream consumers
package events

import (
	"context"
	"encoding/json"
	"time"

	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
)

// Topics
const (
	TopicEnquiryCreated   = "enquiry.created"
	TopicListingPublished = "listing.published"
	TopicListingDeleted   = "listing.deleted"
	TopicPaymentFailed    = "payment.failed"
)

// Publisher sends one event. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
	Close() error
}

// Envelope wire format of every event
type Envelope struct {
	Topic      string          `json:"topic"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func encode(topic, key string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Topic:      topic,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	})
}

// LogPublisher writes events to the structured log when no broker is configured
type LogPublisher struct{}

// NewLogPublisher creates a log-backed publisher
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := encode(topic, key, payload)
	if err != nil {
		return err
	}
	pkglogger.FromContext(ctx).Info().
		Str("topic", topic).
		Str("key", key).
		RawJSON("event", data).
		Msg("event published")
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, string, string, interface{}) error { return nil }
func (Nop) Close() error { return nil }

// EnquiryCreated notifies the listing owner
type EnquiryCreated struct {
	EnquiryID uint64 `json:"enquiry_id"`
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
	BuyerID   string `json:"buyer_id"`
	Message   string `json:"message"`
}

// ListingPublished listing became public
type ListingPublished struct {
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
	Via       string `json:"via"`
}

// ListingDeleted listing and its dependents were removed
type ListingDeleted struct {
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
}

// PaymentFailed signature verification failed
type PaymentFailed struct {
	PaymentID uint64 `json:"payment_id"`
	OrderID   string `json:"order_id"`
	ListingID string `json:"listing_id"`
	SellerID  string `json:"seller_id"`
}
