// Package events provides an asynchronous event bus decoupling the write
// path of the order table store from observers such as cache invalidation
// and audit logging.
package events

import (
	"time"

	"github.com/evermart/ordertables/internal/order"
)

// RecordEvent is a change notification for a normalized row. It is emitted
// after every real write, never on a no-op.
type RecordEvent interface {
	// GetRecord returns the written record with its full field values
	GetRecord() order.Record

	// GetRecordType returns the legacy record type of the written record
	GetRecordType() string

	// GetRecordID returns the record's unique identifier
	GetRecordID() uint64

	// GetChanged returns the columns actually written, with their new values
	GetChanged() map[string]string

	// GetTimestamp returns when the write happened
	GetTimestamp() time.Time
}

// Consumer represents a subscriber processing record events
type Consumer interface {
	// Name returns the consumer name for identification
	Name() string

	// ProcessEvent processes a single record event
	ProcessEvent(event RecordEvent) error
}

// BusStats contains runtime statistics for monitoring
type BusStats struct {
	EventsReceived  uint64
	EventsProcessed uint64
	EventsDropped   uint64
	ConsumerErrors  uint64
}
