package models

import "time"

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is a single entry in the chat log
type ChatMessage struct {
	ID     string    `json:"id"`
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	Error  bool      `json:"error,omitempty"`
	Time   time.Time `json:"time"`
}
