package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/igsuryas/raksha-backend/internal/models"
)

const alertCollection = "alert_history"

// MongoAlertStore stores the SOS audit trail in the alert_history collection.
type MongoAlertStore struct {
	col *mongo.Collection
}

func NewMongoAlertStore(db *mongo.Database) *MongoAlertStore {
	return &MongoAlertStore{col: db.Collection(alertCollection)}
}

// EnsureIndexes configures the (user_id, sent_at desc) index backing history
// and rate-accounting queries. Called on startup from main.
func (s *MongoAlertStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "sent_at", Value: -1},
		},
		Options: options.Index().SetName("idx_user_sent_at"),
	})
	return err
}

func (s *MongoAlertStore) Insert(ctx context.Context, record *models.AlertRecord) error {
	if record.SentAt.IsZero() {
		record.SentAt = time.Now().UTC()
	}
	res, err := s.col.InsertOne(ctx, record)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

func (s *MongoAlertStore) History(ctx context.Context, userID string, limit int64) ([]models.AlertRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := make([]models.AlertRecord, 0)
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoAlertStore) CountSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"sent_at": bson.M{"$gte": since.UTC()},
	})
}
