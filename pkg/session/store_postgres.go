package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/tgauth/pkg/pg"
)

// DBTX is the subset of pgx used by PostgresStore; *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresTable is the table created by the pg migrations and used by PostgresStore
const PostgresTable = "telegram_sessions"

// PostgresStore implements Store on the telegram_sessions table
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a Postgres-backed store
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectColumns = `id, session_id, telegram_id, first_name, last_name, username, photo_url, auth_token, created_at, last_activity`

const insertQuery = `
INSERT INTO telegram_sessions (id, session_id, telegram_id, first_name, last_name, username, photo_url, auth_token, created_at, last_activity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create stores a new record
func (s *PostgresStore) Create(ctx context.Context, rec *Record) error {
	if rec == nil || rec.SessionID == "" {
		return ErrInvalidSession
	}

	_, err := s.db.Exec(ctx, insertQuery,
		rec.ID,
		rec.SessionID,
		strconv.FormatInt(rec.TelegramID, 10),
		nullable(rec.FirstName),
		nullable(rec.LastName),
		nullable(rec.Username),
		nullable(rec.PhotoURL),
		nullable(rec.AuthToken),
		rec.CreatedAt,
		rec.LastActivity,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) && isAuthTokenConstraint(err) {
			return ErrDuplicateAuthToken
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// GetBySessionID retrieves a record by session ID
func (s *PostgresStore) GetBySessionID(ctx context.Context, sessionID string) (*Record, error) {
	return s.queryOne(ctx, `SELECT `+selectColumns+` FROM telegram_sessions WHERE session_id = $1`, sessionID)
}

// GetByTelegramID retrieves the most recently active record for the Telegram user
func (s *PostgresStore) GetByTelegramID(ctx context.Context, telegramID int64) (*Record, error) {
	return s.queryOne(ctx, `SELECT `+selectColumns+` FROM telegram_sessions
		WHERE telegram_id = $1
		ORDER BY COALESCE(last_activity, created_at) DESC, created_at DESC, session_id DESC
		LIMIT 1`, strconv.FormatInt(telegramID, 10))
}

// GetByAuthToken retrieves a record by auth token
func (s *PostgresStore) GetByAuthToken(ctx context.Context, authToken string) (*Record, error) {
	if authToken == "" {
		return nil, ErrSessionNotFound
	}
	return s.queryOne(ctx, `SELECT `+selectColumns+` FROM telegram_sessions WHERE auth_token = $1`, authToken)
}

// Touch advances last_activity; GREATEST keeps it monotonic under concurrent requests
func (s *PostgresStore) Touch(ctx context.Context, sessionID string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `UPDATE telegram_sessions
		SET last_activity = GREATEST(COALESCE(last_activity, created_at), $2)
		WHERE session_id = $1`, sessionID, at)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a record by session ID
func (s *PostgresStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM telegram_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteExpired removes records idle since before the given time
func (s *PostgresStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM telegram_sessions WHERE COALESCE(last_activity, created_at) < $1`, before)
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, arg any) (*Record, error) {
	var (
		rec          Record
		id           uuid.UUID
		telegramID   string
		firstName    *string
		lastName     *string
		username     *string
		photoURL     *string
		authToken    *string
		lastActivity *time.Time
	)

	err := s.db.QueryRow(ctx, query, arg).Scan(
		&id, &rec.SessionID, &telegramID,
		&firstName, &lastName, &username, &photoURL, &authToken,
		&rec.CreatedAt, &lastActivity,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	tgID, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	rec.ID = id
	rec.TelegramID = tgID
	rec.FirstName = deref(firstName)
	rec.LastName = deref(lastName)
	rec.Username = deref(username)
	rec.PhotoURL = deref(photoURL)
	rec.AuthToken = deref(authToken)
	rec.LastActivity = rec.CreatedAt
	if lastActivity != nil {
		rec.LastActivity = *lastActivity
	}

	return &rec, nil
}

func isAuthTokenConstraint(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "auth_token")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
