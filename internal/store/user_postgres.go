package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
)

// PostgresUserStore reads and mutates the users table.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, created_at, name, email, mobile, password_hash, set_trusted_contacts, status, last_login_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var (
		u           models.User
		email       sql.NullString
		mobile      sql.NullString
		lastLoginAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &email, &mobile,
		&u.PasswordHash, &u.SetTrustedContacts, &u.Status, &lastLoginAt)
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	u.Mobile = mobile.String
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, name, email, mobile, password_hash, set_trusted_contacts, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.CreatedAt, user.Name, nullable(user.Email), nullable(user.Mobile),
		user.PasswordHash, user.SetTrustedContacts, user.Status)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errs.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (s *PostgresUserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR mobile = $1`, identifier)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (s *PostgresUserStore) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	users := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, pq.Array(idStrings))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[user.ID] = *user
	}
	return users, rows.Err()
}

func (s *PostgresUserStore) SetTrustedContactsFlag(ctx context.Context, id uuid.UUID, configured bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET set_trusted_contacts = $2 WHERE id = $1`, id, configured)
	return err
}

func (s *PostgresUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}
