package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-dashboard/internal/events"
)

const defaultAuditCapacity = 50

// AuditEntry is one recorded auth event, newest first in Recent.
type AuditEntry struct {
	ID        string           `json:"id"`
	Type      events.EventType `json:"type"`
	Timestamp string           `json:"timestamp"`
	Payload   interface{}      `json:"payload"`
}

// AuditService records auth lifecycle events for the admin notification feed.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu       sync.Mutex
	entries  []AuditEntry
	capacity int
}

// NewAuditService creates the service. capacity <= 0 selects the default.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, capacity int) *AuditService {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		capacity:   capacity,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionChanged, a.handleSessionChanged)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
}

// Recent returns up to limit entries, newest first.
func (a *AuditService) Recent(limit int) []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	if limit <= 0 || limit > len(a.entries) {
		limit = len(a.entries)
	}
	out := make([]AuditEntry, 0, limit)
	for i := len(a.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.entries[i])
	}
	return out
}

func (a *AuditService) handleSessionChanged(_ context.Context, event events.Event) error {
	a.logger.Info("SessionChanged", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	a.record(event)
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.logger.Warn("LoginFailed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	a.record(event)
	return nil
}

func (a *AuditService) record(event events.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, AuditEntry{
		ID:        event.ID,
		Type:      event.Type,
		Timestamp: event.Timestamp.Format(time.RFC3339),
		Payload:   event.Payload,
	})
	if over := len(a.entries) - a.capacity; over > 0 {
		a.entries = append([]AuditEntry(nil), a.entries[over:]...)
	}
}
