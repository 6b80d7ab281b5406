package rest

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/routes"
)

type accounts struct {
	c *Client
}

func NewAccounts(c *Client) backend.Accounts {
	return &accounts{c: c}
}

func (a *accounts) Create(ctx context.Context, id pbid.ID, email, password, name string) (*backend.Identity, error) {
	req, err := a.c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result routes.IdentityJson
	resp, err := req.
		SetBody(routes.CreateAccountRequestJson{ID: id, Email: email, Password: password, Name: name}).
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Post("/account")
	if err := a.c.check(resp, err); err != nil {
		return nil, err
	}

	return &result, nil
}

func (a *accounts) CreateEmailSession(ctx context.Context, email, password string) (*backend.Session, error) {
	req, err := a.c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result routes.SessionJson
	resp, err := req.
		SetBody(routes.CreateEmailSessionRequestJson{Email: email, Password: password}).
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Post("/account/sessions/email")
	if err := a.c.check(resp, err); err != nil {
		return nil, err
	}

	if result.Secret == "" {
		return nil, errors.New("backend did not return a session secret")
	}

	if err := a.c.store.Set(ctx, result.Secret); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	return &result, nil
}

func (a *accounts) Get(ctx context.Context) (*backend.Identity, error) {
	req, err := a.c.request(ctx)
	if err != nil {
		return nil, err
	}

	if req.Header.Get(api_common.SessionHeader) == "" {
		return nil, errors.Wrap(backend.ErrUnauthorized, "no active session")
	}

	var result routes.IdentityJson
	resp, err := req.
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Get("/account")
	if err := a.c.check(resp, err); err != nil {
		return nil, err
	}

	return &result, nil
}

func (a *accounts) DeleteSessions(ctx context.Context) error {
	req, err := a.c.request(ctx)
	if err != nil {
		return err
	}

	if req.Header.Get(api_common.SessionHeader) == "" {
		return errors.Wrap(backend.ErrUnauthorized, "no active session")
	}

	resp, err := req.
		SetError(&api_common.ErrorResponse{}).
		Delete("/account/sessions")
	checkErr := a.c.check(resp, err)
	if checkErr != nil && !errors.Is(checkErr, backend.ErrUnauthorized) {
		return checkErr
	}

	if err := a.c.store.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	return checkErr
}

var _ backend.Accounts = (*accounts)(nil)
