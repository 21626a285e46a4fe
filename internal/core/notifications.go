package core

import "context"

type NotificationType string

const (
	NotificationApplicationSubmitted    NotificationType = "application_submitted"
	NotificationApplicationStatusChange NotificationType = "application_status_change"
	NotificationOfferAvailable          NotificationType = "offer_available"
	NotificationDocumentVerified        NotificationType = "document_verified"
	NotificationDocumentRejected        NotificationType = "document_rejected"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationApplicationSubmitted,
		NotificationApplicationStatusChange,
		NotificationOfferAvailable,
		NotificationDocumentVerified,
		NotificationDocumentRejected:
		return true
	default:
		return false
	}
}

// Notification is an outcome handed to the dispatcher. Delivery is the
// dispatcher's concern; producers never fail because of it.
type Notification struct {
	Type    NotificationType `json:"type"`
	UserID  string           `json:"user_id"`
	Email   string           `json:"email,omitempty"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Data    map[string]any   `json:"data,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }
