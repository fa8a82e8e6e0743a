package ports

import (
	"context"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// AuditRecorder accepts audit events from the request path. Record must not
// block and must not fail the calling operation.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

// AuditRepository persists and reads back audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

// NopAudit discards every event. Used when no audit store is configured.
type NopAudit struct{}

func (NopAudit) Record(context.Context, domain.AuditEvent) {}

func (NopAudit) Insert(context.Context, domain.AuditEvent) error { return nil }

func (NopAudit) Recent(context.Context, int) ([]domain.AuditEvent, error) { return nil, nil }
