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

const locationCollection = "locations"

// MongoLocationStore stores location samples in the locations collection.
type MongoLocationStore struct {
	col *mongo.Collection
}

func NewMongoLocationStore(db *mongo.Database) *MongoLocationStore {
	return &MongoLocationStore{col: db.Collection(locationCollection)}
}

// EnsureIndexes configures the (user_id, timestamp desc) index used by the
// last-location and history queries. Called on startup from main.
func (s *MongoLocationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("idx_user_timestamp"),
	})
	return err
}

func (s *MongoLocationStore) Insert(ctx context.Context, sample *models.LocationSample) error {
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}
	res, err := s.col.InsertOne(ctx, sample)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sample.ID = oid
	}
	return nil
}

func (s *MongoLocationStore) Last(ctx context.Context, userID string) (*models.LocationSample, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var sample models.LocationSample
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&sample)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

func (s *MongoLocationStore) History(ctx context.Context, userID string, limit int64) ([]models.LocationSample, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	samples := make([]models.LocationSample, 0)
	if err := cur.All(ctx, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// LatestPerUser groups samples by user and keeps the most recent one of
// each, mirroring a sort-then-group-first aggregation.
func (s *MongoLocationStore) LatestPerUser(ctx context.Context) ([]models.LocationSample, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_id"},
			{Key: "latitude", Value: bson.D{{Key: "$first", Value: "$latitude"}}},
			{Key: "longitude", Value: bson.D{{Key: "$first", Value: "$longitude"}}},
			{Key: "timestamp", Value: bson.D{{Key: "$first", Value: "$timestamp"}}},
			{Key: "accuracy", Value: bson.D{{Key: "$first", Value: "$accuracy"}}},
		}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	type latestRow struct {
		UserID    string    `bson:"_id"`
		Latitude  float64   `bson:"latitude"`
		Longitude float64   `bson:"longitude"`
		Timestamp time.Time `bson:"timestamp"`
		Accuracy  *float64  `bson:"accuracy"`
	}

	samples := make([]models.LocationSample, 0)
	for cur.Next(ctx) {
		var row latestRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		samples = append(samples, models.LocationSample{
			UserID:    row.UserID,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Timestamp: row.Timestamp,
			Accuracy:  row.Accuracy,
		})
	}
	return samples, cur.Err()
}

func (s *MongoLocationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
