package events

import (
	"log/slog"
)

// AuditConsumer logs every real write with its changed columns. It serves as
// the in-tree reference consumer; cache invalidation and webhook consumers
// follow the same shape.
type AuditConsumer struct {
	logger *slog.Logger
}

// NewAuditConsumer creates an audit consumer writing to the given logger.
func NewAuditConsumer(logger *slog.Logger) *AuditConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditConsumer{logger: logger}
}

// Name returns the consumer name for identification
func (c *AuditConsumer) Name() string {
	return "audit-log"
}

// ProcessEvent logs a single record event
func (c *AuditConsumer) ProcessEvent(event RecordEvent) error {
	changed := event.GetChanged()
	columns := make([]string, 0, len(changed))
	for col := range changed {
		columns = append(columns, col)
	}

	c.logger.Info("record updated",
		"record_type", event.GetRecordType(),
		"record_id", event.GetRecordID(),
		"columns", columns,
	)
	return nil
}
