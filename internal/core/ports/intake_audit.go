package ports

import (
	"context"

	"github.com/hydrowise/hydration-service/internal/core/domain"
)

// IntakeAuditRepository appends log entries to an audit trail that outlives
// daily resets.
type IntakeAuditRepository interface {
	InsertEntry(ctx context.Context, entry domain.LogEntry) error
}
