package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/pbid"
)

const SessionsTable = "sessions"

// Session is a login of an account. Sessions past ExpiresAt are never returned.
type Session struct {
	ID        pbid.ID
	AccountID pbid.ID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) cols() []string {
	return []string{
		"id",
		"account_id",
		"created_at",
		"expires_at",
	}
}

func (s *Session) fields() []any {
	return []any{
		&s.ID,
		&s.AccountID,
		&s.CreatedAt,
		&s.ExpiresAt,
	}
}

func (s *Session) values() []any {
	return []any{
		s.ID,
		s.AccountID,
		s.CreatedAt,
		s.ExpiresAt,
	}
}

// IsExpired reports whether the session has lapsed at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) validate() error {
	if err := s.ID.ValidatePrefix(pbid.PrefixSession); err != nil || s.ID.IsNil() {
		return errors.New("session id with a session prefix is required")
	}
	if err := s.AccountID.ValidatePrefix(pbid.PrefixAccount); err != nil || s.AccountID.IsNil() {
		return errors.New("session account id with an account prefix is required")
	}
	if s.ExpiresAt.IsZero() {
		return errors.New("session expiration is required")
	}
	return nil
}

func (s *service) CreateSession(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("session is required")
	}

	if err := sess.validate(); err != nil {
		return err
	}

	sess.CreatedAt = s.now(ctx).Time
	sess.ExpiresAt = sess.ExpiresAt.UTC()

	result, err := s.sq.
		Insert(SessionsTable).
		Columns(sess.cols()...).
		Values(sess.values()...).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(ErrDuplicate, "session '%s' already exists", sess.ID)
		}
		if isForeignKeyViolation(err) {
			return errors.Wrapf(ErrViolation, "account '%s' does not exist", sess.AccountID)
		}
		return errors.Wrap(err, "failed to create session")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to create session")
	}

	if affected != 1 {
		return errors.Wrap(ErrViolation, "session insert did not create exactly one row")
	}

	return nil
}

func (s *service) GetSession(ctx context.Context, id pbid.ID) (*Session, error) {
	var result Session
	err := s.sq.
		Select(result.cols()...).
		From(SessionsTable).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Gt{"expires_at": s.now(ctx)},
		}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(result.fields()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &result, nil
}

func (s *service) DeleteSessionsForAccount(ctx context.Context, accountId pbid.ID) (int64, error) {
	result, err := s.sq.
		Delete(SessionsTable).
		Where(sq.Eq{"account_id": accountId}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete sessions")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete sessions")
	}

	return affected, nil
}
