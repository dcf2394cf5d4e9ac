package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage"
)

// Storage is a MongoDB-backed implementation of the storage interface.
// Room saves use a version-filtered ReplaceOne.
type Storage struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and verifies the connection
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectionTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ConnectionTimeout).
		SetConnectTimeout(cfg.ConnectionTimeout)
	if cfg.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Storage{
		client: client,
		db:     client.Database(cfg.Database),
	}
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects from MongoDB
func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes ListRooms relies on
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	_, err := s.rooms().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	})
	return err
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) rooms() *mongo.Collection {
	return s.db.Collection(RoomsCollection)
}

func (s *Storage) guests() *mongo.Collection {
	return s.db.Collection(GuestsCollection)
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	doc := toRoomDocument(room)
	doc.Version = 1

	if _, err := s.rooms().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrRoomExists
		}
		return err
	}

	room.Version = 1
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	var doc roomDocument
	err := s.rooms().FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	doc := toRoomDocument(room)
	doc.Version = room.Version + 1

	filter := bson.M{"_id": string(room.ID), "version": room.Version}
	res, err := s.rooms().ReplaceOne(ctx, filter, doc)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		n, err := s.rooms().CountDocuments(ctx, bson.M{"_id": string(room.ID)})
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrRoomNotFound
		}
		return model.ErrVersionConflict
	}

	room.Version = doc.Version
	return nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	_, err := s.rooms().DeleteOne(ctx, bson.M{"_id": string(id)})
	return err
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.rooms().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []roomDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(docs))
	for _, doc := range docs {
		rooms = append(rooms, doc.toModel())
	}
	return rooms, nil
}

// Guest operations

func (s *Storage) SaveGuest(ctx context.Context, guest *model.Guest) error {
	doc := guestDocument{
		ID:          string(guest.ID),
		DisplayName: guest.DisplayName,
		CreatedAt:   guest.CreatedAt,
	}
	_, err := s.guests().ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Storage) GetGuest(ctx context.Context, id model.GuestID) (*model.Guest, error) {
	var doc guestDocument
	err := s.guests().FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrGuestNotFound
		}
		return nil, err
	}
	return &model.Guest{
		ID:          model.GuestID(doc.ID),
		DisplayName: doc.DisplayName,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func (s *Storage) DeleteGuest(ctx context.Context, id model.GuestID) error {
	_, err := s.guests().DeleteOne(ctx, bson.M{"_id": string(id)})
	return err
}
