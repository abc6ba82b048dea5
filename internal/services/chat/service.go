package chat

import (
	"context"
	"log/slog"

	"github.com/sala-livre/batepapo/internal/dependencies/clock"
	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/services/gate"
	"github.com/sala-livre/batepapo/internal/storage"
)

// Service handles sending, listing, editing and deleting chat messages
type Service struct {
	storage storage.Storage
	gate    *gate.Gate
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new chat service
func New(storage storage.Storage, gate *gate.Gate, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		gate:    gate,
		clock:   clock,
		logger:  logger,
	}
}

// Send validates and persists a message from the given sender. The
// recipient of a private message is never required to currently exist;
// such messages are legal and simply undeliverable until someone by that
// name polls.
func (s *Service) Send(ctx context.Context, from string, p gate.MessagePayload) (*model.Message, error) {
	if err := s.gate.CheckMessage(ctx, from, p); err != nil {
		return nil, err
	}

	m := &model.Message{
		From: from,
		To:   p.To,
		Text: p.Text,
		Type: p.Type,
		Time: s.clock.Now().Format(model.TimeLayout),
	}

	if err := s.storage.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the messages visible to requester in storage order, oldest
// first. A positive limit keeps only the most recent entries.
func (s *Service) List(ctx context.Context, requester string, limit int) ([]*model.Message, error) {
	all, err := s.storage.ListMessages(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*model.Message, 0, len(all))
	for _, m := range all {
		if m.VisibleTo(requester) {
			visible = append(visible, m)
		}
	}

	// Tail truncation: drop the oldest, keep relative order
	if limit > 0 && len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}
	return visible, nil
}

// Edit overwrites a message's mutable fields. Only the original sender
// may edit; id, from and time are preserved.
func (s *Service) Edit(ctx context.Context, requester string, id model.MessageID, p gate.MessagePayload) error {
	if err := s.gate.CheckMessage(ctx, requester, p); err != nil {
		return err
	}

	m, err := s.storage.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if m.From != requester {
		return model.ErrNotMessageOwner
	}

	m.To = p.To
	m.Text = p.Text
	m.Type = p.Type
	return s.storage.UpdateMessage(ctx, m)
}

// Delete removes a message. Only the original sender may delete.
func (s *Service) Delete(ctx context.Context, requester string, id model.MessageID) error {
	m, err := s.storage.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if m.From != requester {
		return model.ErrNotMessageOwner
	}

	return s.storage.DeleteMessage(ctx, id)
}
