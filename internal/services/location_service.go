package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/models"
	"github.com/igsuryas/raksha-backend/internal/store"
	"github.com/igsuryas/raksha-backend/pkg/geo"
)

// DuplicateRadiusMeters is the distance gate: a new sample closer than this
// to the previous stored sample is discarded. Fixed policy, not per-call
// configurable; it bounds write volume for a continuously tracked user.
const DuplicateRadiusMeters = 5.0

const defaultHistoryLimit = 50

// RecordResult reports what the distance-gated write did.
type RecordResult struct {
	Saved    bool                   `json:"saved"`
	Location *models.LocationSample `json:"location,omitempty"`

	// DistanceFromPrevious is meters from the previous stored sample,
	// rounded to 2 decimals. Nil for a user's first sample.
	DistanceFromPrevious *float64 `json:"distance_from_previous,omitempty"`
}

// LocationService owns the distance-gated write policy and nearby-user
// discovery. Coordinate range validation happens at the HTTP boundary;
// this service assumes valid input.
type LocationService struct {
	locations store.LocationStore
	users     store.UserStore
}

func NewLocationService(locations store.LocationStore, users store.UserStore) *LocationService {
	return &LocationService{locations: locations, users: users}
}

// Record stores a sample unless it is within DuplicateRadiusMeters of the
// user's previous sample. The first sample of a user is always stored.
func (s *LocationService) Record(ctx context.Context, userID string, sample models.LocationSample) (*RecordResult, error) {
	sample.UserID = userID
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}

	last, err := s.locations.Last(ctx, userID)
	if err != nil {
		return nil, err
	}

	if last == nil {
		if err := s.locations.Insert(ctx, &sample); err != nil {
			return nil, err
		}
		return &RecordResult{Saved: true, Location: &sample}, nil
	}

	distance := geo.DistanceMeters(last.Latitude, last.Longitude, sample.Latitude, sample.Longitude)
	rounded := geo.Round2(distance)

	if distance < DuplicateRadiusMeters {
		return &RecordResult{Saved: false, DistanceFromPrevious: &rounded}, nil
	}

	if err := s.locations.Insert(ctx, &sample); err != nil {
		return nil, err
	}
	return &RecordResult{Saved: true, Location: &sample, DistanceFromPrevious: &rounded}, nil
}

// Last returns the user's most recent sample, or nil if none exists.
func (s *LocationService) Last(ctx context.Context, userID string) (*models.LocationSample, error) {
	return s.locations.Last(ctx, userID)
}

// History returns up to limit samples, newest first. limit <= 0 means 50.
func (s *LocationService) History(ctx context.Context, userID string, limit int64) ([]models.LocationSample, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.locations.History(ctx, userID, limit)
}

// FindNearby returns every other user whose latest sample is within
// radiusMeters of the query point, joined with their identity and sorted by
// ascending distance.
func (s *LocationService) FindNearby(ctx context.Context, latitude, longitude, radiusMeters float64, excludeUserID string) ([]models.NearbyUser, error) {
	latest, err := s.locations.LatestPerUser(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(latest))
	for _, sample := range latest {
		if sample.UserID == excludeUserID {
			continue
		}
		id, err := uuid.Parse(sample.UserID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	identities, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.NearbyUser, 0)
	for _, sample := range latest {
		if sample.UserID == excludeUserID {
			continue
		}
		id, err := uuid.Parse(sample.UserID)
		if err != nil {
			continue
		}
		user, ok := identities[id]
		if !ok {
			continue
		}

		distance := geo.DistanceMeters(latitude, longitude, sample.Latitude, sample.Longitude)
		if distance > radiusMeters {
			continue
		}

		nearby = append(nearby, models.NearbyUser{
			UserID:    sample.UserID,
			Name:      user.Name,
			Email:     user.Email,
			Mobile:    user.Mobile,
			Latitude:  sample.Latitude,
			Longitude: sample.Longitude,
			Distance:  geo.Round2(distance),
			Timestamp: sample.Timestamp,
			Accuracy:  sample.Accuracy,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})
	return nearby, nil
}

// PruneOlderThan removes samples older than the given number of days.
// Housekeeping for storage and privacy; not exposed over HTTP.
func (s *LocationService) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return s.locations.DeleteOlderThan(ctx, cutoff)
}
