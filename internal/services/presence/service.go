package presence

import (
	"context"
	"log/slog"

	"github.com/sala-livre/batepapo/internal/announce"
	"github.com/sala-livre/batepapo/internal/dependencies/clock"
	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/services/auth"
	"github.com/sala-livre/batepapo/internal/services/gate"
	"github.com/sala-livre/batepapo/internal/storage"
)

// Service owns the participant lifecycle: Unknown -> Active on register,
// Active -> Active on heartbeat, Active -> Unknown on eviction. A removed
// name must re-register; heartbeat never resurrects it.
type Service struct {
	storage   storage.Storage
	gate      *gate.Gate
	auth      *auth.Service
	announcer *announce.Announcer
	clock     clock.Clock
	logger    *slog.Logger
}

// Registration is the result of a successful register call
type Registration struct {
	Participant model.Participant
	Token       string
}

// New creates a new presence service
func New(
	storage storage.Storage,
	gate *gate.Gate,
	auth *auth.Service,
	announcer *announce.Announcer,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		gate:      gate,
		auth:      auth,
		announcer: announcer,
		clock:     clock,
		logger:    logger,
	}
}

// Register inserts a new participant, issues its session token, and
// queues the join announcement. Name conflicts return model.ErrNameTaken
// with nothing mutated.
func (s *Service) Register(ctx context.Context, name string) (*Registration, error) {
	if err := s.gate.CheckRegister(gate.RegisterPayload{Name: name}); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &model.Participant{Name: name, LastStatus: now}

	if err := s.storage.RegisterParticipant(ctx, p); err != nil {
		return nil, err
	}

	token := s.auth.IssueToken(name)

	// Join announcement is best-effort; the registration already stands
	s.announcer.Announce(model.JoinAnnouncement(name, now))

	s.logger.Info("participant registered", slog.String("name", name))

	return &Registration{Participant: *p, Token: token}, nil
}

// Heartbeat refreshes lastStatus for a current member. Unknown names fail
// with model.ErrParticipantNotFound rather than being re-created.
func (s *Service) Heartbeat(ctx context.Context, name string) error {
	if err := s.gate.CheckMember(ctx, name); err != nil {
		return err
	}

	return s.storage.TouchParticipant(ctx, name, s.clock.Now())
}

// List returns a consistent snapshot of current participants, most
// recently registered first.
func (s *Service) List(ctx context.Context) ([]*model.Participant, error) {
	return s.storage.ListParticipants(ctx)
}
