// Package local implements the backend interfaces in process, over a database.DB. It is what the dev server runs and
// what the CLI uses when no hosted backend is configured.
package local

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/database"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/pblog"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

const (
	DefaultSessionTTL = 30 * 24 * time.Hour
	DefaultIssuer     = "postbase"
	MinPasswordLength = 8
)

type IdentityOptions struct {
	// Key signs session secrets. Required.
	Key        []byte
	Issuer     string
	SessionTTL time.Duration
	BcryptCost int
}

// IdentityOptionsFromConfig resolves the session key of the system auth config.
func IdentityOptionsFromConfig(ctx context.Context, sa *sconfig.SystemAuth) (IdentityOptions, error) {
	if sa == nil || sa.SessionKey == nil {
		return IdentityOptions{}, errors.New("system_auth.session_key is required for local accounts")
	}

	key, err := sa.SessionKey.GetValue(ctx)
	if err != nil {
		return IdentityOptions{}, errors.Wrap(err, "failed to load session key")
	}

	return IdentityOptions{
		Key:        []byte(key),
		Issuer:     sa.Issuer(),
		SessionTTL: sa.GetSessionTTL(),
		BcryptCost: sa.BcryptCost,
	}, nil
}

// Identity is the server side of accounts: it owns password hashes and issues and verifies session secrets.
// Secrets are HS256 JWTs whose jti is the id of a stored session, so revoking the session invalidates the secret.
type Identity struct {
	db     database.DB
	opts   IdentityOptions
	logger *slog.Logger
}

func NewIdentity(db database.DB, opts IdentityOptions, logger *slog.Logger) (*Identity, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if len(opts.Key) == 0 {
		return nil, errors.New("session key is required")
	}
	if opts.Issuer == "" {
		opts.Issuer = DefaultIssuer
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	return &Identity{
		db:     db,
		opts:   opts,
		logger: pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("identity").Build(),
	}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func toIdentity(a *database.Account) *backend.Identity {
	return &backend.Identity{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// Register creates an account. The password is stored as a bcrypt hash.
func (i *Identity) Register(ctx context.Context, id pbid.ID, email, password, name string) (*backend.Identity, error) {
	if id.IsNil() {
		id = pbctx.GetIdGenerator(ctx).New(pbid.PrefixAccount)
	}
	if err := id.ValidatePrefix(pbid.PrefixAccount); err != nil {
		return nil, errors.Wrap(backend.ErrInvalid, err.Error())
	}
	if email == "" {
		return nil, errors.Wrap(backend.ErrInvalid, "email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, errors.Wrapf(backend.ErrInvalid, "password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.opts.BcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	a := &database.Account{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := i.db.CreateAccount(ctx, a); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, errors.Wrapf(backend.ErrConflict, "account with email '%s' already exists", a.Email)
		}
		return nil, errors.Wrap(err, "failed to create account")
	}

	pblog.NewBuilder(i.logger).WithCtx(ctx).WithAccountId(a.ID).Build().Info("account created")

	return toIdentity(a), nil
}

// Login verifies the credentials and starts a new session.
func (i *Identity) Login(ctx context.Context, email, password string) (*backend.Session, error) {
	a, err := i.db.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, errors.Wrap(backend.ErrUnauthorized, "invalid credentials")
		}
		return nil, errors.Wrap(err, "failed to load account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Wrap(backend.ErrUnauthorized, "invalid credentials")
	}

	now := pbctx.GetClock(ctx).Now().UTC()
	s := &database.Session{
		ID:        pbctx.GetIdGenerator(ctx).New(pbid.PrefixSession),
		AccountID: a.ID,
		ExpiresAt: now.Add(i.opts.SessionTTL),
	}
	if err := i.db.CreateSession(ctx, s); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID.String(),
			Subject:   a.ID.String(),
			Issuer:    i.opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	secret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.opts.Key)
	if err != nil {
		return nil, errors.Wrap(err, "can't sign session")
	}

	pblog.NewBuilder(i.logger).WithCtx(ctx).WithAccountId(a.ID).Build().Debug("session created", "session_id", s.ID)

	return &backend.Session{
		ID:        s.ID,
		AccountID: a.ID,
		Secret:    secret,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}, nil
}

// Authenticate resolves a session secret to its live session and account.
func (i *Identity) Authenticate(ctx context.Context, secret string) (*database.Account, *database.Session, error) {
	if secret == "" {
		return nil, nil, errors.Wrap(backend.ErrUnauthorized, "no session")
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(
		secret,
		&claims,
		func(*jwt.Token) (any, error) { return i.opts.Key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.opts.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(pbctx.GetClock(ctx).Now),
	)
	if err != nil {
		return nil, nil, errors.Wrapf(backend.ErrUnauthorized, "invalid session: %v", err)
	}

	s, err := i.db.GetSession(ctx, pbid.ID(claims.ID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, errors.Wrap(backend.ErrUnauthorized, "session is no longer active")
		}
		return nil, nil, errors.Wrap(err, "failed to load session")
	}

	if s.AccountID.String() != claims.Subject {
		return nil, nil, errors.Wrap(backend.ErrUnauthorized, "session does not belong to subject")
	}

	a, err := i.db.GetAccount(ctx, s.AccountID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, errors.Wrap(backend.ErrUnauthorized, "account no longer exists")
		}
		return nil, nil, errors.Wrap(err, "failed to load account")
	}

	return a, s, nil
}

// Whoami returns the identity owning the session secret.
func (i *Identity) Whoami(ctx context.Context, secret string) (*backend.Identity, error) {
	a, _, err := i.Authenticate(ctx, secret)
	if err != nil {
		return nil, err
	}
	return toIdentity(a), nil
}

// Revoke deletes every session of the account owning the secret.
func (i *Identity) Revoke(ctx context.Context, secret string) error {
	a, _, err := i.Authenticate(ctx, secret)
	if err != nil {
		return err
	}

	count, err := i.db.DeleteSessionsForAccount(ctx, a.ID)
	if err != nil {
		return errors.Wrap(err, "failed to delete sessions")
	}

	pblog.NewBuilder(i.logger).WithCtx(ctx).WithAccountId(a.ID).Build().Debug("sessions revoked", "count", count)

	return nil
}
