package events

import (
	"maps"
	"time"

	"github.com/evermart/ordertables/internal/order"
)

// recordUpdated is the concrete change notification published by the write
// path.
type recordUpdated struct {
	record    order.Record
	changed   map[string]string
	timestamp time.Time
}

// NewRecordUpdated creates a change notification for a written row. The
// changed map is copied so later mutations by the caller do not leak into
// consumers.
func NewRecordUpdated(rec order.Record, changed map[string]string) RecordEvent {
	payload := make(map[string]string, len(changed))
	maps.Copy(payload, changed)
	return &recordUpdated{
		record:    rec,
		changed:   payload,
		timestamp: time.Now(),
	}
}

func (e *recordUpdated) GetRecord() order.Record { return e.record }

func (e *recordUpdated) GetRecordType() string { return string(e.record.Type()) }

func (e *recordUpdated) GetRecordID() uint64 { return e.record.ID() }

func (e *recordUpdated) GetChanged() map[string]string {
	changedCopy := make(map[string]string, len(e.changed))
	maps.Copy(changedCopy, e.changed)
	return changedCopy
}

func (e *recordUpdated) GetTimestamp() time.Time { return e.timestamp }
