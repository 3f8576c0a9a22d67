package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
)

// PostgresContactStore persists trusted contacts. Removal goes through a
// transaction that locks the owner's active rows, so the minimum-one-active-
// contact check and the write commit as a single unit.
type PostgresContactStore struct {
	db *sql.DB
}

func NewPostgresContactStore(db *sql.DB) *PostgresContactStore {
	return &PostgresContactStore{db: db}
}

const contactColumns = `id, user_id, created_at, updated_at, name, mobile, relationship, is_guardian, is_active`

func scanContact(row interface{ Scan(...interface{}) error }) (*models.TrustedContact, error) {
	var c models.TrustedContact
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt,
		&c.Name, &c.Mobile, &c.Relationship, &c.IsGuardian, &c.IsActive)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresContactStore) Insert(ctx context.Context, contact *models.TrustedContact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trusted_contacts (id, user_id, created_at, updated_at, name, mobile, relationship, is_guardian, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, contact.ID, contact.UserID, contact.CreatedAt, contact.UpdatedAt,
		contact.Name, contact.Mobile, contact.Relationship, contact.IsGuardian, contact.IsActive)
	return err
}

func (s *PostgresContactStore) Get(ctx context.Context, ownerID, contactID uuid.UUID) (*models.TrustedContact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM trusted_contacts WHERE id = $1 AND user_id = $2`,
		contactID, ownerID)
	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return contact, err
}

func (s *PostgresContactStore) List(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.TrustedContact, error) {
	query := `SELECT ` + contactColumns + ` FROM trusted_contacts WHERE user_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]models.TrustedContact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

func (s *PostgresContactStore) ListActive(ctx context.Context, ownerID uuid.UUID) ([]models.TrustedContact, error) {
	return s.List(ctx, ownerID, false)
}

func (s *PostgresContactStore) CountActive(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trusted_contacts WHERE user_id = $1 AND is_active = TRUE`,
		ownerID).Scan(&count)
	return count, err
}

func (s *PostgresContactStore) Update(ctx context.Context, ownerID, contactID uuid.UUID, name, relationship *string) (*models.TrustedContact, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE trusted_contacts
		SET name = COALESCE($3, name),
		    relationship = COALESCE($4, relationship),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE
		RETURNING `+contactColumns,
		contactID, ownerID, name, relationship)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	return contact, err
}

func (s *PostgresContactStore) DeactivateGuarded(ctx context.Context, ownerID, contactID uuid.UUID) (int, error) {
	return s.removeGuarded(ctx, ownerID, contactID, `
		UPDATE trusted_contacts SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE`)
}

func (s *PostgresContactStore) DeleteGuarded(ctx context.Context, ownerID, contactID uuid.UUID) (int, error) {
	return s.removeGuarded(ctx, ownerID, contactID, `
		DELETE FROM trusted_contacts
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE`)
}

// removeGuarded runs the shared guard for deactivate and delete: lock the
// owner's active contacts, refuse when the target is the last one, apply the
// mutation, and report how many active contacts remain.
func (s *PostgresContactStore) removeGuarded(ctx context.Context, ownerID, contactID uuid.UUID, mutation string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Locks every active row of this owner until commit, serializing
	// concurrent removals against the same contact list.
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM trusted_contacts
		WHERE user_id = $1 AND is_active = TRUE
		FOR UPDATE
	`, ownerID)
	if err != nil {
		return 0, err
	}

	activeCount := 0
	targetActive := false
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		activeCount++
		if id == contactID {
			targetActive = true
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if activeCount <= 1 {
		return activeCount, errs.ErrLastContact
	}
	if !targetActive {
		return activeCount, errs.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, mutation, contactID, ownerID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return activeCount - 1, nil
}
