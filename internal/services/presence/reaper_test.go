package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sala-livre/batepapo/internal/announce"
	"github.com/sala-livre/batepapo/internal/dependencies/mocks"
	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/services/auth"
	"github.com/sala-livre/batepapo/internal/services/gate"
	"github.com/sala-livre/batepapo/internal/storage"
	"github.com/sala-livre/batepapo/internal/storage/memory"
	"github.com/sala-livre/batepapo/internal/testutil"
)

type ReaperSuite struct {
	suite.Suite
	storage   *memory.Storage
	auth      *auth.Service
	announcer *announce.Announcer
	clock     *mocks.MockClock
	service   *Service
	reaper    *Reaper
	ctx       context.Context
}

func TestReaperSuite(t *testing.T) {
	suite.Run(t, new(ReaperSuite))
}

func (s *ReaperSuite) SetupTest() {
	s.storage = memory.New()
	s.auth = auth.New()
	logger := testutil.NopLogger()
	s.announcer = announce.New(s.storage, logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, gate.New(s.storage), s.auth, s.announcer, s.clock, logger)
	s.reaper = NewReaper(s.storage, s.auth, s.announcer, s.clock, logger, DefaultTimeout, DefaultInterval)
	s.ctx = context.Background()
}

func (s *ReaperSuite) TestIdleParticipantEvicted() {
	reg, err := s.service.Register(s.ctx, "Ana")
	s.Require().NoError(err)
	s.announcer.Wait()

	s.clock.Advance(DefaultTimeout + time.Second)
	s.reaper.Sweep(s.ctx)
	s.announcer.Wait()

	_, err = s.storage.GetParticipant(s.ctx, "Ana")
	s.ErrorIs(err, model.ErrParticipantNotFound)

	// Session revoked along with the eviction
	_, err = s.auth.Resolve(reg.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)

	msgs, _ := s.storage.ListMessages(s.ctx)
	s.Require().Len(msgs, 2)
	departure := msgs[1]
	s.Equal("Ana", departure.From)
	s.Equal(model.BroadcastRecipient, departure.To)
	s.Equal(model.LeaveText, departure.Text)
	s.Equal(model.TypeMessage, departure.Type)
}

func (s *ReaperSuite) TestActiveParticipantSurvives() {
	_, _ = s.service.Register(s.ctx, "Ana")

	// Present for all reads before lastStatus + timeout
	s.clock.Advance(DefaultTimeout)
	s.reaper.Sweep(s.ctx)

	_, err := s.storage.GetParticipant(s.ctx, "Ana")
	s.NoError(err)
}

func (s *ReaperSuite) TestHeartbeatPostponesEviction() {
	_, _ = s.service.Register(s.ctx, "Ana")

	s.clock.Advance(8 * time.Second)
	s.Require().NoError(s.service.Heartbeat(s.ctx, "Ana"))

	s.clock.Advance(8 * time.Second)
	s.reaper.Sweep(s.ctx)

	_, err := s.storage.GetParticipant(s.ctx, "Ana")
	s.NoError(err)
}

func (s *ReaperSuite) TestEachIdleParticipantEvictedByOwnName() {
	_, _ = s.service.Register(s.ctx, "Ana")
	_, _ = s.service.Register(s.ctx, "Bia")
	s.clock.Advance(DefaultTimeout + time.Second)
	_, _ = s.service.Register(s.ctx, "Caio")
	s.announcer.Wait()

	s.reaper.Sweep(s.ctx)
	s.announcer.Wait()

	list, _ := s.storage.ListParticipants(s.ctx)
	s.Require().Len(list, 1)
	s.Equal("Caio", list[0].Name)

	// One departure per evicted participant
	departures := 0
	for _, m := range s.mustListMessages() {
		if m.Text == model.LeaveText {
			departures++
		}
	}
	s.Equal(2, departures)
}

func (s *ReaperSuite) TestAlreadyRemovedParticipantSkippedSilently() {
	_, _ = s.service.Register(s.ctx, "Ana")
	s.announcer.Wait()
	s.clock.Advance(DefaultTimeout + time.Second)

	// Concurrent path removed Ana between snapshot and eviction
	snapshot, _ := s.storage.ListParticipants(s.ctx)
	s.Require().Len(snapshot, 1)
	_, _ = s.storage.RemoveParticipant(s.ctx, "Ana")

	s.reaper.Sweep(s.ctx)
	s.announcer.Wait()

	// No departure announced for a removal that did not happen here
	for _, m := range s.mustListMessages() {
		s.NotEqual(model.LeaveText, m.Text)
	}
}

func (s *ReaperSuite) TestRunStopsOnContextCancel() {
	ctx, cancel := context.WithCancel(s.ctx)

	done := make(chan struct{})
	go func() {
		reaper := NewReaper(s.storage, s.auth, s.announcer, s.clock, testutil.NopLogger(), time.Second, 10*time.Millisecond)
		reaper.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("reaper did not stop on context cancellation")
	}
}

// removeFailsStore fails removal for one specific name
type removeFailsStore struct {
	storage.Storage
	failName string
}

func (f *removeFailsStore) RemoveParticipant(ctx context.Context, name string) (bool, error) {
	if name == f.failName {
		return false, errors.New("store unavailable")
	}
	return f.Storage.RemoveParticipant(ctx, name)
}

func (s *ReaperSuite) TestOneFailureDoesNotBlockOtherEvictions() {
	_, _ = s.service.Register(s.ctx, "Ana")
	_, _ = s.service.Register(s.ctx, "Bia")
	s.announcer.Wait()
	s.clock.Advance(DefaultTimeout + time.Second)

	logger := testutil.NopLogger()
	reaper := NewReaper(
		&removeFailsStore{Storage: s.storage, failName: "Ana"},
		s.auth, s.announcer, s.clock, logger,
		DefaultTimeout, DefaultInterval,
	)
	reaper.Sweep(s.ctx)
	s.announcer.Wait()

	// Bia still evicted despite Ana's failure
	_, err := s.storage.GetParticipant(s.ctx, "Bia")
	s.ErrorIs(err, model.ErrParticipantNotFound)
	_, err = s.storage.GetParticipant(s.ctx, "Ana")
	s.NoError(err)
}

func (s *ReaperSuite) mustListMessages() []*model.Message {
	msgs, err := s.storage.ListMessages(s.ctx)
	s.Require().NoError(err)
	return msgs
}
