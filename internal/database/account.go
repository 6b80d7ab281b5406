package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/pbid"
)

const AccountsTable = "accounts"

// Account is a locally stored user. Email keeps the casing it was registered with; uniqueness and lookup by email
// ignore case and surrounding space.
type Account struct {
	ID           pbid.ID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) cols() []string {
	return []string{
		"id",
		"email",
		"name",
		"password_hash",
		"created_at",
		"updated_at",
	}
}

func (a *Account) fields() []any {
	return []any{
		&a.ID,
		&a.Email,
		&a.Name,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}

func (a *Account) values() []any {
	return []any{
		a.ID,
		a.Email,
		a.Name,
		a.PasswordHash,
		a.CreatedAt,
		a.UpdatedAt,
	}
}

func (a *Account) validate() error {
	if a.ID.IsNil() {
		return errors.New("account id is required")
	}
	if err := a.ID.ValidatePrefix(pbid.PrefixAccount); err != nil {
		return errors.Wrap(err, "invalid account id")
	}
	if a.Email == "" {
		return errors.New("account email is required")
	}
	return nil
}

// emailKey is the form an email is compared in.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) CreateAccount(ctx context.Context, a *Account) error {
	if a == nil {
		return errors.New("account is required")
	}

	a.Email = strings.TrimSpace(a.Email)
	if err := a.validate(); err != nil {
		return err
	}

	now := s.now(ctx).Time
	a.CreatedAt = now
	a.UpdatedAt = now

	return s.transaction(ctx, func(tx *sql.Tx) error {
		var count int64
		err := s.sq.
			Select("COUNT(*)").
			From(AccountsTable).
			Where(sq.Or{
				sq.Eq{"id": a.ID},
				sq.Eq{"email_key": emailKey(a.Email)},
			}).
			RunWith(tx).
			QueryRowContext(ctx).
			Scan(&count)
		if err != nil {
			return errors.Wrap(err, "failed to check for existing account")
		}

		if count > 0 {
			return errors.Wrapf(ErrDuplicate, "account with email '%s' already exists", a.Email)
		}

		result, err := s.sq.
			Insert(AccountsTable).
			Columns(append(a.cols(), "email_key")...).
			Values(append(a.values(), emailKey(a.Email))...).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return errors.Wrapf(ErrDuplicate, "account with email '%s' already exists", a.Email)
			}
			return errors.Wrap(err, "failed to create account")
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to create account")
		}

		if affected != 1 {
			return errors.Wrap(ErrViolation, "account insert did not create exactly one row")
		}

		return nil
	})
}

func (s *service) getAccountWhere(ctx context.Context, where sq.Eq) (*Account, error) {
	var result Account
	err := s.sq.
		Select(result.cols()...).
		From(AccountsTable).
		Where(where).
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

func (s *service) GetAccount(ctx context.Context, id pbid.ID) (*Account, error) {
	return s.getAccountWhere(ctx, sq.Eq{"id": id})
}

func (s *service) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return s.getAccountWhere(ctx, sq.Eq{"email_key": emailKey(email)})
}
