package models

import "time"

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// EmailNotification is an ephemeral send request built by a handler. It
// is never persisted; only its outcome is, as a NotificationLog row.
type EmailNotification struct {
	UserID    string
	Recipient string
	EventType string
	Subject   string
	Text      string
	HTML      string
}

// NotificationLog records one email send attempt.
type NotificationLog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id"`
	Recipient string    `json:"recipient"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type NotificationFilter struct {
	UserID   string
	Status   string
	Type     string
	Page     int
	PageSize int
}
