package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Participant operations

func (s *Storage) RegisterParticipant(ctx context.Context, p *model.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	// SETNX makes the insert-if-absent atomic per name
	created, err := s.client.SetNX(ctx, participantKey(p.Name), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrNameTaken
	}

	// Index update is a separate operation; a reader may briefly see the
	// document without the index entry
	return s.client.LPush(ctx, participantIndexKey(), p.Name).Err()
}

func (s *Storage) GetParticipant(ctx context.Context, name string) (*model.Participant, error) {
	data, err := s.client.Get(ctx, participantKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}

	var p model.Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) TouchParticipant(ctx context.Context, name string, t time.Time) error {
	data, err := json.Marshal(&model.Participant{Name: name, LastStatus: t})
	if err != nil {
		return err
	}

	// SET XX refuses to resurrect a removed participant
	updated, err := s.client.SetXX(ctx, participantKey(name), data, 0).Result()
	if err != nil {
		return err
	}
	if !updated {
		return model.ErrParticipantNotFound
	}
	return nil
}

func (s *Storage) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	names, err := s.client.LRange(ctx, participantIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []*model.Participant{}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = participantKey(name)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	participants := make([]*model.Participant, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Removed between index read and fetch
		}
		var p model.Participant
		if err := json.Unmarshal([]byte(val.(string)), &p); err != nil {
			continue // Skip invalid data
		}
		participants = append(participants, &p)
	}

	return participants, nil
}

func (s *Storage) RemoveParticipant(ctx context.Context, name string) (bool, error) {
	removed, err := s.client.Del(ctx, participantKey(name)).Result()
	if err != nil {
		return false, err
	}
	if removed == 0 {
		return false, nil
	}

	if err := s.client.LRem(ctx, participantIndexKey(), 0, name).Err(); err != nil {
		return true, err
	}
	return true, nil
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, m *model.Message) error {
	m.ID = model.MessageID(uuid.NewString())

	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	// Pipeline keeps document and index writes together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, messageKey(m.ID), data, 0)
	pipe.RPush(ctx, messageIndexKey(), string(m.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error) {
	data, err := s.client.Get(ctx, messageKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMessageNotFound
		}
		return nil, err
	}

	var m model.Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Storage) UpdateMessage(ctx context.Context, m *model.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	updated, err := s.client.SetXX(ctx, messageKey(m.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !updated {
		return model.ErrMessageNotFound
	}
	return nil
}

func (s *Storage) DeleteMessage(ctx context.Context, id model.MessageID) error {
	deleted, err := s.client.Del(ctx, messageKey(id)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return model.ErrMessageNotFound
	}

	return s.client.LRem(ctx, messageIndexKey(), 0, string(id)).Err()
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	ids, err := s.client.LRange(ctx, messageIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Message{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = messageKey(model.MessageID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]*model.Message, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Deleted between index read and fetch
		}
		var m model.Message
		if err := json.Unmarshal([]byte(val.(string)), &m); err != nil {
			continue // Skip invalid data
		}
		messages = append(messages, &m)
	}

	return messages, nil
}
