package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

func TestDashboardService_OverviewPerRole(t *testing.T) {
	svc := NewDashboardService()
	for _, role := range domain.Roles() {
		assert.NotEmpty(t, svc.Overview(role), role)
	}
	assert.Empty(t, svc.Overview(domain.Role("owner")))
}

func TestDashboardService_OverviewReturnsCopy(t *testing.T) {
	svc := NewDashboardService()
	cards := svc.Overview(domain.RoleAdmin)
	cards[0].Value = -1

	assert.NotEqual(t, float64(-1), svc.Overview(domain.RoleAdmin)[0].Value)
}

func TestDashboardService_MessagesScopedToRole(t *testing.T) {
	svc := NewDashboardService()

	staff := svc.Messages(domain.RoleStaff)
	assert.Equal(t, []MessageStatus{MessageStatusNew, MessageStatusInProgress, MessageStatusResolved}, staff.Columns)
	total := 0
	for _, col := range staff.Columns {
		for _, msg := range staff.Items[col] {
			assert.Equal(t, domain.RoleStaff, msg.Audience)
			assert.Equal(t, col, msg.Status)
			total++
		}
	}
	assert.Equal(t, 3, total)

	admin := svc.Messages(domain.RoleAdmin)
	adminTotal := 0
	for _, col := range admin.Columns {
		adminTotal += len(admin.Items[col])
	}
	assert.Equal(t, 6, adminTotal)

	brand := svc.Messages(domain.RoleBrand)
	assert.NotNil(t, brand.Items[MessageStatusInProgress])
	assert.Empty(t, brand.Items[MessageStatusInProgress])
}

func TestDashboardService_Settings(t *testing.T) {
	s := NewDashboardService().Settings(domain.Session{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin})
	assert.Equal(t, "Admin User", s.Name)
	assert.Equal(t, domain.RoleAdmin, s.Role)
	assert.True(t, s.Notifications)
}
