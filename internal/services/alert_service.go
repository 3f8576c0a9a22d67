package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
	"github.com/igsuryas/raksha-backend/internal/store"
)

const (
	// channelTimeout bounds each outbound channel call. A call that runs
	// past it is recorded as a failure, never left pending.
	channelTimeout = 10 * time.Second

	// auditTimeout bounds the audit write. It runs on a detached context:
	// losing the fact that an SOS was attempted is worse than anything
	// else that can go wrong in this pipeline.
	auditTimeout = 5 * time.Second

	defaultAlertHistoryLimit = 50
)

// DispatchRequest is an SOS trigger from an authenticated user.
type DispatchRequest struct {
	Latitude  float64
	Longitude float64

	// MapsLink overrides the link built from the coordinates when set.
	MapsLink string

	// Recipients is an explicit recipient list; when empty the owner's
	// active trusted contacts are used.
	Recipients []string
}

// DispatchResult summarizes a dispatch for the caller.
type DispatchResult struct {
	Sent           bool   `json:"sent"`
	RecipientCount int    `json:"sms_count"`
	RequestID      string `json:"request_id,omitempty"`
	EmailSent      bool   `json:"email_sent"`
}

// AlertService runs the SOS pipeline: resolve sender and recipients, fan out
// over the text channel and the guardian email concurrently, and write
// exactly one audit record whatever happens after recipients are resolved.
type AlertService struct {
	users     store.UserStore
	contacts  store.ContactStore
	guardians store.GuardianStore
	history   store.AlertStore
	sms       SMSSender
	email     EmailSender
}

func NewAlertService(users store.UserStore, contacts store.ContactStore, guardians store.GuardianStore, history store.AlertStore, sms SMSSender, email EmailSender) *AlertService {
	return &AlertService{
		users:     users,
		contacts:  contacts,
		guardians: guardians,
		history:   history,
		sms:       sms,
		email:     email,
	}
}

// Dispatch sends an SOS. It returns errs.ErrUserNotFound or
// errs.ErrNoTrustedContacts before anything is sent (no audit record in
// either case), and errs.ErrDispatchFailed when the text channel did not
// confirm — by which point the audit record has been written. The guardian
// email is best-effort and never fails the operation.
func (s *AlertService) Dispatch(ctx context.Context, userID uuid.UUID, req DispatchRequest) (*DispatchResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.ErrUserNotFound
	}

	recipients := req.Recipients
	if len(recipients) == 0 {
		active, err := s.contacts.ListActive(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, contact := range active {
			recipients = append(recipients, contact.Mobile)
		}
	}
	if len(recipients) == 0 {
		return nil, errs.ErrNoTrustedContacts
	}

	mapsLink := req.MapsLink
	if mapsLink == "" {
		mapsLink = buildMapsLink(req.Latitude, req.Longitude)
	}
	message := composeMessage(user, mapsLink)

	// Guardian email target. A lookup failure only downgrades the email
	// channel; the text channel must still go out.
	guardianEmail := ""
	if guardians, err := s.guardians.ListByUser(ctx, userID); err != nil {
		log.Printf("SOS: guardian lookup failed for user %s: %v", userID, err)
	} else {
		for _, g := range guardians {
			if g.Email != "" {
				guardianEmail = g.Email
				break
			}
		}
	}

	// Both channels run concurrently; neither blocks or aborts the other.
	// Results are joined before the single audit write.
	var (
		wg        sync.WaitGroup
		smsResult *SMSResult
		smsErr    error
		emailSent bool
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		smsCtx, cancel := context.WithTimeout(ctx, channelTimeout)
		defer cancel()
		smsResult, smsErr = s.sms.Send(smsCtx, message, recipients)
	}()

	if guardianEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emailCtx, cancel := context.WithTimeout(ctx, channelTimeout)
			defer cancel()
			if err := s.email.Send(emailCtx, guardianEmail, "🚨 Emergency Alert", composeEmailBody(user, mapsLink)); err != nil {
				log.Printf("SOS: guardian email to %s failed: %v", guardianEmail, err)
			} else {
				emailSent = true
			}
		}()
	}

	wg.Wait()

	record := &models.AlertRecord{
		UserID:     userID.String(),
		Recipients: recipients,
		Message:    message,
		Location: models.AlertLocation{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			MapsLink:  mapsLink,
		},
		Sender: models.SenderDetails{
			Name:   user.Name,
			Mobile: user.Mobile,
			Email:  user.Email,
		},
		GuardianEmail: guardianEmail,
		EmailSent:     emailSent,
		SentAt:        time.Now().UTC(),
	}

	sent := smsErr == nil && smsResult != nil && smsResult.Sent
	if sent {
		record.Status = models.AlertStatusSent
		record.RequestID = smsResult.RequestID
	} else {
		record.Status = models.AlertStatusFailed
		if smsErr != nil {
			record.Error = smsErr.Error()
		} else {
			record.Error = "text channel reported failure"
		}
	}

	// Detached context: the audit write must be attempted even when the
	// request context is already dead.
	auditCtx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()
	if err := s.history.Insert(auditCtx, record); err != nil {
		log.Printf("SOS: failed to write alert record for user %s: %v", userID, err)
	}

	result := &DispatchResult{
		Sent:           sent,
		RecipientCount: len(recipients),
		RequestID:      record.RequestID,
		EmailSent:      emailSent,
	}
	if !sent {
		return result, errs.ErrDispatchFailed
	}
	return result, nil
}

// History returns the user's dispatch records, newest first.
func (s *AlertService) History(ctx context.Context, userID uuid.UUID, limit int64) ([]models.AlertRecord, error) {
	if limit <= 0 {
		limit = defaultAlertHistoryLimit
	}
	return s.history.History(ctx, userID.String(), limit)
}

// RecentCount counts dispatch attempts in the trailing window.
func (s *AlertService) RecentCount(ctx context.Context, userID uuid.UUID, window time.Duration) (int64, error) {
	return s.history.CountSince(ctx, userID.String(), time.Now().UTC().Add(-window))
}

// CanSend reports whether the user is under maxPerHour dispatches in the
// last hour. Fails open: an accounting error never blocks an SOS.
func (s *AlertService) CanSend(ctx context.Context, userID uuid.UUID, maxPerHour int64) bool {
	count, err := s.RecentCount(ctx, userID, time.Hour)
	if err != nil {
		log.Printf("SOS: rate accounting failed for user %s: %v", userID, err)
		return true
	}
	return count < maxPerHour
}

func buildMapsLink(latitude, longitude float64) string {
	return "https://www.google.com/maps/search/?api=1&query=" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
}

func composeMessage(user *models.User, mapsLink string) string {
	msg := fmt.Sprintf("%s is in trouble, here is my location: %s", user.Name, mapsLink)
	msg += fmt.Sprintf(" Reach them on %s", user.Mobile)
	if user.Email != "" {
		msg += fmt.Sprintf(" or %s", user.Email)
	}
	return msg
}

func composeEmailBody(user *models.User, mapsLink string) string {
	body := "<h2>🚨 Emergency Alert</h2>" +
		"<p><b>" + user.Name + "</b> has triggered an SOS and may be in danger.</p>" +
		"<p>Last known location: <a href=\"" + mapsLink + "\">" + mapsLink + "</a></p>" +
		"<p>Mobile: " + user.Mobile + "</p>"
	if user.Email != "" {
		body += "<p>Email: " + user.Email + "</p>"
	}
	return body
}
