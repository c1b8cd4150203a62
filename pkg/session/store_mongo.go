package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore implements Store on a MongoDB collection
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a MongoDB-backed store. Call EnsureIndexes once at startup.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

type mongoRecord struct {
	ID           string    `bson:"_id"`
	SessionID    string    `bson:"session_id"`
	TelegramID   int64     `bson:"telegram_id"`
	FirstName    string    `bson:"first_name,omitempty"`
	LastName     string    `bson:"last_name,omitempty"`
	Username     string    `bson:"username,omitempty"`
	PhotoURL     string    `bson:"photo_url,omitempty"`
	AuthToken    string    `bson:"auth_token,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	LastActivity time.Time `bson:"last_activity"`
}

func toMongo(rec *Record) mongoRecord {
	return mongoRecord{
		ID:           rec.ID.String(),
		SessionID:    rec.SessionID,
		TelegramID:   rec.TelegramID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Username:     rec.Username,
		PhotoURL:     rec.PhotoURL,
		AuthToken:    rec.AuthToken,
		CreatedAt:    rec.CreatedAt,
		LastActivity: rec.LastActivity,
	}
}

func (d mongoRecord) record() *Record {
	id, _ := uuid.Parse(d.ID)
	return &Record{
		ID:        id,
		SessionID: d.SessionID,
		Profile: Profile{
			TelegramID: d.TelegramID,
			FirstName:  d.FirstName,
			LastName:   d.LastName,
			Username:   d.Username,
			PhotoURL:   d.PhotoURL,
		},
		AuthToken:    d.AuthToken,
		CreatedAt:    d.CreatedAt,
		LastActivity: d.LastActivity,
	}
}

// EnsureIndexes creates the lookup indexes. The auth token index only covers documents that carry one.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetName("session_id_idx").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "auth_token", Value: 1}},
			Options: options.Index().
				SetName("auth_token_idx").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "auth_token", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
		{
			Keys: bson.D{
				{Key: "telegram_id", Value: 1},
				{Key: "last_activity", Value: -1},
			},
			Options: options.Index().SetName("telegram_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "last_activity", Value: 1}},
			Options: options.Index().SetName("last_activity_idx"),
		},
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Create stores a new record
func (s *MongoStore) Create(ctx context.Context, rec *Record) error {
	if rec == nil || rec.SessionID == "" {
		return ErrInvalidSession
	}

	if _, err := s.coll.InsertOne(ctx, toMongo(rec)); err != nil {
		if mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "auth_token") {
			return ErrDuplicateAuthToken
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// GetBySessionID retrieves a record by session ID
func (s *MongoStore) GetBySessionID(ctx context.Context, sessionID string) (*Record, error) {
	return s.findOne(ctx, bson.D{{Key: "session_id", Value: sessionID}})
}

// GetByTelegramID retrieves the most recently active record for the Telegram user
func (s *MongoStore) GetByTelegramID(ctx context.Context, telegramID int64) (*Record, error) {
	return s.findOne(ctx,
		bson.D{{Key: "telegram_id", Value: telegramID}},
		options.FindOne().SetSort(bson.D{
			{Key: "last_activity", Value: -1},
			{Key: "created_at", Value: -1},
			{Key: "session_id", Value: -1},
		}),
	)
}

// GetByAuthToken retrieves a record by auth token
func (s *MongoStore) GetByAuthToken(ctx context.Context, authToken string) (*Record, error) {
	if authToken == "" {
		return nil, ErrSessionNotFound
	}
	return s.findOne(ctx, bson.D{{Key: "auth_token", Value: authToken}})
}

// Touch advances last_activity; $max keeps it monotonic
func (s *MongoStore) Touch(ctx context.Context, sessionID string, at time.Time) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "session_id", Value: sessionID}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "last_activity", Value: at}}}},
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a record by session ID
func (s *MongoStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "session_id", Value: sessionID}})
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteExpired removes records idle since before the given time
func (s *MongoStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "last_activity", Value: bson.D{{Key: "$lt", Value: before}}}})
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOneOptions]) (*Record, error) {
	var doc mongoRecord
	if err := s.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return doc.record(), nil
}
