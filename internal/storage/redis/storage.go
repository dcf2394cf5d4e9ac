package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Room saves are optimistic: the room key is WATCHed and the write only
// commits if the stored version still matches.
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
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
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

// Client exposes the underlying client so the broadcast relay can share it
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	stored := room.Clone()
	stored.Version = 1
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, roomKey(room.ID), data, s.cfg.RoomTTL)
		pipe.SAdd(ctx, roomIndexKey(), string(room.ID))
		return nil
	})
	if err != nil {
		return err
	}
	if !created.Val() {
		return model.ErrRoomExists
	}

	room.Version = 1
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	key := roomKey(room.ID)

	next := room.Clone()
	next.Version = room.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoomNotFound
			}
			return err
		}

		var stored struct{ Version int64 }
		if err := json.Unmarshal(current, &stored); err != nil {
			return err
		}
		if stored.Version != room.Version {
			return model.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.cfg.RoomTTL)
			return nil
		})
		return err
	}

	err = s.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	if err != nil {
		return err
	}

	room.Version = next.Version
	return nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.SRem(ctx, roomIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	ids, err := s.client.SMembers(ctx, roomIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Room{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKey(model.RoomID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(values))
	var expired []interface{}
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			expired = append(expired, ids[i]) // Room may have expired
			continue
		}
		var room model.Room
		if err := json.Unmarshal([]byte(str), &room); err != nil {
			continue // Skip invalid data
		}
		rooms = append(rooms, &room)
	}

	if len(expired) > 0 {
		_ = s.client.SRem(ctx, roomIndexKey(), expired...).Err()
	}

	storage.SortRooms(rooms)
	return rooms, nil
}

// Guest operations

func (s *Storage) SaveGuest(ctx context.Context, guest *model.Guest) error {
	data, err := json.Marshal(guest)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, guestKey(guest.ID), data, s.cfg.GuestTTL).Err()
}

func (s *Storage) GetGuest(ctx context.Context, id model.GuestID) (*model.Guest, error) {
	data, err := s.client.Get(ctx, guestKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGuestNotFound
		}
		return nil, err
	}

	var guest model.Guest
	if err := json.Unmarshal(data, &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (s *Storage) DeleteGuest(ctx context.Context, id model.GuestID) error {
	return s.client.Del(ctx, guestKey(id)).Err()
}
