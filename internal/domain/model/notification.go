package model

import "time"

// NotificationType classifies a notification.
type NotificationType string

// Notification types.
const (
	NotificationCommunityInvite NotificationType = "COMMUNITY_INVITE"
	NotificationEventInvite     NotificationType = "EVENT_INVITE"
	NotificationGeneral         NotificationType = "GENERAL"
)

// NotificationStatus is the delivery state.
type NotificationStatus string

// Notification delivery states.
const (
	NotificationPending   NotificationStatus = "PENDING"
	NotificationDelivered NotificationStatus = "DELIVERED"
	NotificationRead      NotificationStatus = "READ"
)

// Notification is an inbox item.
type Notification struct {
	ID             string             `json:"_id"`
	Recipient      string             `json:"recipient,omitempty"`
	RecipientEmail string             `json:"recipientEmail"`
	Type           NotificationType   `json:"type"`
	Title          string             `json:"title"`
	Message        string             `json:"message"`
	Data           map[string]any     `json:"data,omitempty"`
	IsRead         bool               `json:"isRead"`
	Status         NotificationStatus `json:"status"`
	CreatedAt      time.Time          `json:"createdAt,omitzero"`
	UpdatedAt      time.Time          `json:"updatedAt,omitzero"`
}

// RefID implements Identifiable.
func (n Notification) RefID() string { return n.ID }
