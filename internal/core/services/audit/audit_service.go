// Package audit records upstream connection lifecycle transitions so that
// terminal states (a feed that gave up reconnecting, a secondary source
// that keeps failing) survive process scrollback.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/ports"
)

type AuditService struct {
	repo ports.AuditRepository
}

// NewAuditService wires the service over a repository. A nil repository is
// allowed: events are then logged but not persisted, so ingest adapters
// never need to care whether storage is configured.
func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record stores one lifecycle event. Persistence failures are logged and
// swallowed; the audit trail must never take the ingest path down with it.
func (s *AuditService) Record(ctx context.Context, source, eventType, detail string) {
	slog.Info("connection event", "source", source, "type", eventType, "detail", detail)
	if s.repo == nil {
		return
	}
	e := domain.ConnectionEvent{
		ID:        uuid.NewString(),
		Source:    source,
		Type:      eventType,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	if err := s.repo.SaveEvent(ctx, e); err != nil {
		slog.Error("failed to persist connection event", "type", eventType, "error", err)
	}
}

// RecentEvents returns the newest events, most recent first.
func (s *AuditService) RecentEvents(ctx context.Context, limit int) ([]domain.ConnectionEvent, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.RecentEvents(ctx, limit)
}
