package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
)

// In-memory stores backing the service tests.

type fakeLocationStore struct {
	samples []models.LocationSample
}

func (f *fakeLocationStore) Insert(_ context.Context, sample *models.LocationSample) error {
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}
	f.samples = append(f.samples, *sample)
	return nil
}

func (f *fakeLocationStore) Last(_ context.Context, userID string) (*models.LocationSample, error) {
	var last *models.LocationSample
	for i := range f.samples {
		s := f.samples[i]
		if s.UserID != userID {
			continue
		}
		if last == nil || s.Timestamp.After(last.Timestamp) {
			last = &f.samples[i]
		}
	}
	return last, nil
}

func (f *fakeLocationStore) History(_ context.Context, userID string, limit int64) ([]models.LocationSample, error) {
	out := make([]models.LocationSample, 0)
	for _, s := range f.samples {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLocationStore) LatestPerUser(_ context.Context) ([]models.LocationSample, error) {
	latest := make(map[string]models.LocationSample)
	for _, s := range f.samples {
		if cur, ok := latest[s.UserID]; !ok || s.Timestamp.After(cur.Timestamp) {
			latest[s.UserID] = s
		}
	}
	out := make([]models.LocationSample, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeLocationStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	kept := f.samples[:0]
	var removed int64
	for _, s := range f.samples {
		if s.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	f.samples = kept
	return removed, nil
}

type fakeUserStore struct {
	users map[uuid.UUID]models.User
	flags map[uuid.UUID]bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: make(map[uuid.UUID]models.User),
		flags: make(map[uuid.UUID]bool),
	}
}

func (f *fakeUserStore) add(user models.User) models.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if (user.Email != "" && existing.Email == user.Email) ||
			(user.Mobile != "" && existing.Mobile == user.Mobile) {
			return errs.ErrAlreadyExists
		}
	}
	*user = f.add(*user)
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (f *fakeUserStore) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == identifier || user.Mobile == identifier {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User)
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func (f *fakeUserStore) SetTrustedContactsFlag(_ context.Context, id uuid.UUID, configured bool) error {
	f.flags[id] = configured
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := f.users[id]; ok {
		user.LastLoginAt = &at
		f.users[id] = user
	}
	return nil
}

type fakeContactStore struct {
	contacts []models.TrustedContact
}

func (f *fakeContactStore) Insert(_ context.Context, contact *models.TrustedContact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	f.contacts = append(f.contacts, *contact)
	return nil
}

func (f *fakeContactStore) Get(_ context.Context, ownerID, contactID uuid.UUID) (*models.TrustedContact, error) {
	for i := range f.contacts {
		c := f.contacts[i]
		if c.ID == contactID && c.UserID == ownerID {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeContactStore) List(_ context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.TrustedContact, error) {
	out := make([]models.TrustedContact, 0)
	for _, c := range f.contacts {
		if c.UserID != ownerID {
			continue
		}
		if !includeInactive && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContactStore) ListActive(ctx context.Context, ownerID uuid.UUID) ([]models.TrustedContact, error) {
	return f.List(ctx, ownerID, false)
}

func (f *fakeContactStore) CountActive(_ context.Context, ownerID uuid.UUID) (int, error) {
	count := 0
	for _, c := range f.contacts {
		if c.UserID == ownerID && c.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeContactStore) Update(_ context.Context, ownerID, contactID uuid.UUID, name, relationship *string) (*models.TrustedContact, error) {
	for i := range f.contacts {
		c := &f.contacts[i]
		if c.ID != contactID || c.UserID != ownerID || !c.IsActive {
			continue
		}
		if name != nil {
			c.Name = *name
		}
		if relationship != nil {
			c.Relationship = *relationship
		}
		c.UpdatedAt = time.Now().UTC()
		out := *c
		return &out, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeContactStore) DeactivateGuarded(ctx context.Context, ownerID, contactID uuid.UUID) (int, error) {
	return f.removeGuarded(ctx, ownerID, contactID, false)
}

func (f *fakeContactStore) DeleteGuarded(ctx context.Context, ownerID, contactID uuid.UUID) (int, error) {
	return f.removeGuarded(ctx, ownerID, contactID, true)
}

func (f *fakeContactStore) removeGuarded(_ context.Context, ownerID, contactID uuid.UUID, hard bool) (int, error) {
	activeCount := 0
	targetIdx := -1
	for i, c := range f.contacts {
		if c.UserID != ownerID || !c.IsActive {
			continue
		}
		activeCount++
		if c.ID == contactID {
			targetIdx = i
		}
	}
	if activeCount <= 1 {
		return activeCount, errs.ErrLastContact
	}
	if targetIdx < 0 {
		return activeCount, errs.ErrNotFound
	}
	if hard {
		f.contacts = append(f.contacts[:targetIdx], f.contacts[targetIdx+1:]...)
	} else {
		f.contacts[targetIdx].IsActive = false
	}
	return activeCount - 1, nil
}

type fakeGuardianStore struct {
	guardians []models.Guardian
}

func (f *fakeGuardianStore) Insert(_ context.Context, guardian *models.Guardian) error {
	if guardian.ID == uuid.Nil {
		guardian.ID = uuid.New()
	}
	f.guardians = append(f.guardians, *guardian)
	return nil
}

func (f *fakeGuardianStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Guardian, error) {
	out := make([]models.Guardian, 0)
	for _, g := range f.guardians {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (f *fakeGuardianStore) Update(_ context.Context, userID, guardianID uuid.UUID, name, relationship, mobile, email *string, priority *int) (*models.Guardian, error) {
	for i := range f.guardians {
		g := &f.guardians[i]
		if g.ID != guardianID || g.UserID != userID {
			continue
		}
		if name != nil {
			g.Name = *name
		}
		if relationship != nil {
			g.Relationship = *relationship
		}
		if mobile != nil {
			g.Mobile = *mobile
		}
		if email != nil {
			g.Email = *email
		}
		if priority != nil {
			g.Priority = *priority
		}
		out := *g
		return &out, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeGuardianStore) Delete(_ context.Context, userID, guardianID uuid.UUID) error {
	for i, g := range f.guardians {
		if g.ID == guardianID && g.UserID == userID {
			f.guardians = append(f.guardians[:i], f.guardians[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

type fakeAlertStore struct {
	records   []models.AlertRecord
	insertErr error
}

func (f *fakeAlertStore) Insert(_ context.Context, record *models.AlertRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAlertStore) History(_ context.Context, userID string, limit int64) ([]models.AlertRecord, error) {
	out := make([]models.AlertRecord, 0)
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAlertStore) CountSince(_ context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	for _, r := range f.records {
		if r.UserID == userID && !r.SentAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeSMSSender struct {
	result     *SMSResult
	err        error
	message    string
	recipients []string
	calls      int
}

func (f *fakeSMSSender) Send(_ context.Context, message string, recipients []string) (*SMSResult, error) {
	f.calls++
	f.message = message
	f.recipients = recipients
	return f.result, f.err
}

type fakeEmailSender struct {
	err     error
	to      string
	subject string
	body    string
	calls   int
}

func (f *fakeEmailSender) Send(_ context.Context, to, subject, htmlBody string) error {
	f.calls++
	f.to = to
	f.subject = subject
	f.body = htmlBody
	return f.err
}
