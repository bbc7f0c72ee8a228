package models

import "time"

// Message is a row of the messages table. ReadAt is nil until the recipient reads it.
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// MessageDetail is a message joined with both participants' public profiles.
type MessageDetail struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
	ToUser   UserSummary `json:"to_user"`
}

// IsParticipant reports whether username sent or received the message.
func (m MessageDetail) IsParticipant(username string) bool {
	return m.FromUser.Username == username || m.ToUser.Username == username
}

// SentMessage is an outbox entry with the recipient embedded.
type SentMessage struct {
	ID     int64       `json:"id"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
	ToUser UserSummary `json:"to_user"`
}

// ReceivedMessage is an inbox entry with the sender embedded.
type ReceivedMessage struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
}

// ReadReceipt is the result of marking a message read.
type ReadReceipt struct {
	ID     int64      `json:"id"`
	ReadAt *time.Time `json:"read_at"`
}
