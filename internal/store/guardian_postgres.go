package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
)

// PostgresGuardianStore persists registered guardians.
type PostgresGuardianStore struct {
	db *sql.DB
}

func NewPostgresGuardianStore(db *sql.DB) *PostgresGuardianStore {
	return &PostgresGuardianStore{db: db}
}

const guardianColumns = `id, user_id, created_at, name, relationship, mobile, email, priority`

func scanGuardian(row interface{ Scan(...interface{}) error }) (*models.Guardian, error) {
	var (
		g     models.Guardian
		email sql.NullString
	)
	err := row.Scan(&g.ID, &g.UserID, &g.CreatedAt, &g.Name, &g.Relationship,
		&g.Mobile, &email, &g.Priority)
	if err != nil {
		return nil, err
	}
	g.Email = email.String
	return &g, nil
}

func (s *PostgresGuardianStore) Insert(ctx context.Context, guardian *models.Guardian) error {
	if guardian.ID == uuid.Nil {
		guardian.ID = uuid.New()
	}
	if guardian.CreatedAt.IsZero() {
		guardian.CreatedAt = time.Now().UTC()
	}
	if guardian.Priority == 0 {
		guardian.Priority = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guardians (id, user_id, created_at, name, relationship, mobile, email, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, guardian.ID, guardian.UserID, guardian.CreatedAt, guardian.Name,
		guardian.Relationship, guardian.Mobile, nullable(guardian.Email), guardian.Priority)
	return err
}

func (s *PostgresGuardianStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Guardian, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+guardianColumns+` FROM guardians WHERE user_id = $1 ORDER BY priority ASC, created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guardians := make([]models.Guardian, 0)
	for rows.Next() {
		guardian, err := scanGuardian(rows)
		if err != nil {
			return nil, err
		}
		guardians = append(guardians, *guardian)
	}
	return guardians, rows.Err()
}

func (s *PostgresGuardianStore) Update(ctx context.Context, userID, guardianID uuid.UUID, name, relationship, mobile, email *string, priority *int) (*models.Guardian, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE guardians
		SET name = COALESCE($3, name),
		    relationship = COALESCE($4, relationship),
		    mobile = COALESCE($5, mobile),
		    email = COALESCE($6, email),
		    priority = COALESCE($7, priority)
		WHERE id = $1 AND user_id = $2
		RETURNING `+guardianColumns,
		guardianID, userID, name, relationship, mobile, email, priority)

	guardian, err := scanGuardian(row)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	return guardian, err
}

func (s *PostgresGuardianStore) Delete(ctx context.Context, userID, guardianID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM guardians WHERE id = $1 AND user_id = $2`, guardianID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
