package storage

import (
	"context"
	"time"

	"github.com/sala-livre/batepapo/internal/model"
)

// Storage defines the interface for data persistence. Each call is an
// independent atomic operation on its own document; no cross-document
// transactions are assumed.
type Storage interface {
	// Participant directory operations
	//
	// RegisterParticipant inserts the participant only if the name is not
	// already present, returning model.ErrNameTaken otherwise. The
	// check-then-insert must not race with a concurrent registration for
	// the same name.
	RegisterParticipant(ctx context.Context, p *model.Participant) error
	GetParticipant(ctx context.Context, name string) (*model.Participant, error)
	// TouchParticipant refreshes lastStatus for an existing participant,
	// returning model.ErrParticipantNotFound if the name is absent.
	TouchParticipant(ctx context.Context, name string, t time.Time) error
	// ListParticipants returns a consistent snapshot, most recently
	// registered first.
	ListParticipants(ctx context.Context) ([]*model.Participant, error)
	// RemoveParticipant removes the name if present and reports whether a
	// removal occurred. Removing an absent name is not an error.
	RemoveParticipant(ctx context.Context, name string) (bool, error)

	// Message operations
	//
	// AppendMessage assigns the message an ID and persists it. Insertion
	// order is preserved by ListMessages.
	AppendMessage(ctx context.Context, m *model.Message) error
	GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error)
	UpdateMessage(ctx context.Context, m *model.Message) error
	DeleteMessage(ctx context.Context, id model.MessageID) error
	ListMessages(ctx context.Context) ([]*model.Message, error)
}
