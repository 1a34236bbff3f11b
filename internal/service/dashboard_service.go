package service

import (
	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// StatCard is a single headline figure on a dashboard.
type StatCard struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Trend float64 `json:"trend"`
}

// MessageStatus is the inbox column a customer message sits in.
type MessageStatus string

const (
	MessageStatusNew        MessageStatus = "new"
	MessageStatusInProgress MessageStatus = "in_progress"
	MessageStatusResolved   MessageStatus = "resolved"
)

// Message is a customer message shown in a role's inbox.
type Message struct {
	ID       string        `json:"id"`
	From     string        `json:"from"`
	Subject  string        `json:"subject"`
	Status   MessageStatus `json:"status"`
	Audience domain.Role   `json:"-"`
}

// MessageBoard groups messages by status column.
type MessageBoard struct {
	Columns []MessageStatus             `json:"columns"`
	Items   map[MessageStatus][]Message `json:"items"`
}

// Settings is the editable profile shown on the settings view.
type Settings struct {
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	Notifications bool        `json:"notifications"`
}

// DashboardService serves the mock figures behind each persona's views.
type DashboardService struct {
	stats    map[domain.Role][]StatCard
	messages []Message
}

// NewDashboardService returns a service seeded with demo data.
func NewDashboardService() *DashboardService {
	return &DashboardService{
		stats: map[domain.Role][]StatCard{
			domain.RoleAdmin: {
				{Label: "Total Users", Value: 1284, Trend: 4.2},
				{Label: "Active Brands", Value: 37, Trend: 1.1},
				{Label: "Open Tickets", Value: 52, Trend: -3.5},
				{Label: "Revenue", Value: 48250, Unit: "USD", Trend: 7.9},
			},
			domain.RoleStaff: {
				{Label: "Assigned Messages", Value: 18, Trend: 2.0},
				{Label: "Resolved Today", Value: 9, Trend: 12.5},
				{Label: "Avg Response", Value: 14, Unit: "min", Trend: -6.0},
			},
			domain.RoleBrand: {
				{Label: "Campaign Reach", Value: 120400, Trend: 9.3},
				{Label: "Engagement", Value: 5.8, Unit: "%", Trend: 0.4},
				{Label: "Customer Messages", Value: 26, Trend: -1.2},
			},
		},
		messages: []Message{
			{ID: "m-1001", From: "jane@customer.io", Subject: "Order not delivered", Status: MessageStatusNew, Audience: domain.RoleStaff},
			{ID: "m-1002", From: "li@customer.io", Subject: "Refund request", Status: MessageStatusInProgress, Audience: domain.RoleStaff},
			{ID: "m-1003", From: "omar@customer.io", Subject: "Wrong size", Status: MessageStatusResolved, Audience: domain.RoleStaff},
			{ID: "m-2001", From: "ana@customer.io", Subject: "Collaboration enquiry", Status: MessageStatusNew, Audience: domain.RoleBrand},
			{ID: "m-2002", From: "tom@customer.io", Subject: "Product feedback", Status: MessageStatusResolved, Audience: domain.RoleBrand},
			{ID: "m-3001", From: "ops@partner.io", Subject: "Brand verification", Status: MessageStatusInProgress, Audience: domain.RoleAdmin},
		},
	}
}

// Overview returns the stat cards for role.
func (s *DashboardService) Overview(role domain.Role) []StatCard {
	cards := s.stats[role]
	return append([]StatCard(nil), cards...)
}

// Messages returns the role's inbox grouped into board columns. Admins see every message.
func (s *DashboardService) Messages(role domain.Role) MessageBoard {
	board := MessageBoard{
		Columns: []MessageStatus{MessageStatusNew, MessageStatusInProgress, MessageStatusResolved},
		Items:   make(map[MessageStatus][]Message, 3),
	}
	for _, col := range board.Columns {
		board.Items[col] = []Message{}
	}
	for _, msg := range s.messages {
		if role != domain.RoleAdmin && msg.Audience != role {
			continue
		}
		board.Items[msg.Status] = append(board.Items[msg.Status], msg)
	}
	return board
}

// Settings returns the settings view model for the session.
func (s *DashboardService) Settings(session domain.Session) Settings {
	return Settings{
		Name:          session.Name,
		Email:         session.Email,
		Role:          session.Role,
		Notifications: true,
	}
}
