package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/crm-dashboard/internal/domain"
	"github.com/spec-kit/crm-dashboard/internal/events"
)

func TestAuditService_RecordsNewestFirst(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	audit := NewAuditService(dispatcher, zaptest.NewLogger(t), 3)
	audit.RegisterHandlers()

	for i := 0; i < 5; i++ {
		eventType := events.EventSessionChanged
		if i%2 == 1 {
			eventType = events.EventLoginFailed
		}
		require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
			ID:        fmt.Sprintf("e%d", i),
			Type:      eventType,
			Timestamp: time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC),
		}))
	}

	recent := audit.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "e4", recent[0].ID)
	assert.Equal(t, "e3", recent[1].ID)
	assert.Equal(t, events.EventLoginFailed, recent[1].Type)
	assert.Equal(t, "e2", recent[2].ID)
	assert.Equal(t, "2024-01-01T00:00:04Z", recent[0].Timestamp)

	assert.Len(t, audit.Recent(2), 2)
}

func TestAuditService_ReceivesSessionManagerEvents(t *testing.T) {
	m, dispatcher, _ := newManager(t, nil, nil)
	audit := NewAuditService(dispatcher, nil, 0)
	audit.RegisterHandlers()

	_, err := m.Login(context.Background(), "admin@example.com", "x", domain.RoleAdmin)
	require.NoError(t, err)

	recent := audit.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, events.EventSessionChanged, recent[0].Type)
	assert.Equal(t, "login", recent[0].Payload.(events.SessionChangedPayload).Reason)
}

func TestAuditService_NilDispatcher(t *testing.T) {
	audit := NewAuditService(nil, nil, 0)
	audit.RegisterHandlers()
	assert.Empty(t, audit.Recent(5))
}
