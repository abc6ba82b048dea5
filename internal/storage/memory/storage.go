package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	participants map[string]*model.Participant
	joinOrder    []string

	messages map[model.MessageID]*model.Message
	msgOrder []model.MessageID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		participants: make(map[string]*model.Participant),
		messages:     make(map[model.MessageID]*model.Message),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Participant operations

func (s *Storage) RegisterParticipant(ctx context.Context, p *model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[p.Name]; ok {
		return model.ErrNameTaken
	}
	cp := *p
	s.participants[p.Name] = &cp
	s.joinOrder = append(s.joinOrder, p.Name)
	return nil
}

func (s *Storage) GetParticipant(ctx context.Context, name string) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[name]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Storage) TouchParticipant(ctx context.Context, name string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[name]
	if !ok {
		return model.ErrParticipantNotFound
	}
	p.LastStatus = t
	return nil
}

func (s *Storage) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Participant, 0, len(s.participants))
	// Most recently registered first
	for i := len(s.joinOrder) - 1; i >= 0; i-- {
		if p, ok := s.participants[s.joinOrder[i]]; ok {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *Storage) RemoveParticipant(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[name]; !ok {
		return false, nil
	}
	delete(s.participants, name)
	for i, n := range s.joinOrder {
		if n == name {
			s.joinOrder = append(s.joinOrder[:i], s.joinOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = model.MessageID(uuid.NewString())
	cp := *m
	s.messages[m.ID] = &cp
	s.msgOrder = append(s.msgOrder, m.ID)
	return nil
}

func (s *Storage) GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, model.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Storage) UpdateMessage(ctx context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[m.ID]; !ok {
		return model.ErrMessageNotFound
	}
	cp := *m
	s.messages[m.ID] = &cp
	return nil
}

func (s *Storage) DeleteMessage(ctx context.Context, id model.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return model.ErrMessageNotFound
	}
	delete(s.messages, id)
	return nil
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Message, 0, len(s.messages))
	// Insertion order; deleted ids are skipped
	for _, id := range s.msgOrder {
		if m, ok := s.messages[id]; ok {
			cp := *m
			result = append(result, &cp)
		}
	}
	return result, nil
}
