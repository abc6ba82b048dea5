package model

import "time"

// MessageID uniquely identifies a stored message
type MessageID string

// BroadcastRecipient is the distinguished "to" value meaning visible to
// everyone. It is not a real participant name.
const BroadcastRecipient = "Todos"

// Message types
const (
	// TypeStatus is a join announcement
	TypeStatus = "status"
	// TypeMessage is a broadcast or system-generated message
	TypeMessage = "message"
	// TypePrivate is visible only to its sender and named recipient
	TypePrivate = "private_message"
)

// Room announcement bodies, kept verbatim from the original system
const (
	JoinText  = "entra na sala..."
	LeaveText = "sai da sala..."
)

// TimeLayout is the wall-clock format messages carry on the wire
const TimeLayout = "15:04:05"

// Message is a single chat event. The store assigns ID on append; every
// other field is fixed at write time except To/Text/Type, which the
// original sender may overwrite via edit.
type Message struct {
	ID   MessageID `json:"id"`
	From string    `json:"from"`
	To   string    `json:"to"`
	Text string    `json:"text"`
	Type string    `json:"type"`
	Time string    `json:"time"`
}

// VisibleTo is the visibility rule: a message is readable by requester u
// iff u sent it, u is the named recipient, or it is a broadcast.
func (m *Message) VisibleTo(u string) bool {
	return m.From == u || m.To == u || m.To == BroadcastRecipient
}

// JoinAnnouncement builds the status message appended when name enters the room
func JoinAnnouncement(name string, now time.Time) *Message {
	return &Message{
		From: name,
		To:   BroadcastRecipient,
		Text: JoinText,
		Type: TypeStatus,
		Time: now.Format(TimeLayout),
	}
}

// LeaveAnnouncement builds the departure message appended when the reaper
// evicts name
func LeaveAnnouncement(name string, now time.Time) *Message {
	return &Message{
		From: name,
		To:   BroadcastRecipient,
		Text: LeaveText,
		Type: TypeMessage,
		Time: now.Format(TimeLayout),
	}
}
