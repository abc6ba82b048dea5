package response

import (
	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/services/presence"
)

// Participant represents a participant in API responses. lastStatus is
// Unix milliseconds, matching the original wire format.
type Participant struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

// ParticipantFromModel converts a model.Participant
func ParticipantFromModel(p *model.Participant) Participant {
	return Participant{
		Name:       p.Name,
		LastStatus: p.LastStatus.UnixMilli(),
	}
}

// ParticipantsFromModel converts a participant list
func ParticipantsFromModel(ps []*model.Participant) []Participant {
	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = ParticipantFromModel(p)
	}
	return out
}

// RegisterResponse is the response for a successful registration
type RegisterResponse struct {
	Participant  Participant `json:"participant"`
	SessionToken string      `json:"session_token"`
}

// RegisterResponseFromRegistration converts a presence.Registration
func RegisterResponseFromRegistration(r *presence.Registration) RegisterResponse {
	return RegisterResponse{
		Participant:  ParticipantFromModel(&r.Participant),
		SessionToken: r.Token,
	}
}

// Message represents a message in API responses
type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

// MessageFromModel converts a model.Message
func MessageFromModel(m *model.Message) Message {
	return Message{
		ID:   string(m.ID),
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Type: m.Type,
		Time: m.Time,
	}
}

// MessagesFromModel converts a message list
func MessagesFromModel(ms []*model.Message) []Message {
	out := make([]Message, len(ms))
	for i, m := range ms {
		out[i] = MessageFromModel(m)
	}
	return out
}
