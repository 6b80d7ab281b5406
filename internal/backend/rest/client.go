// Package rest implements the backend interfaces against a hosted backend over HTTP.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

// Client is the HTTP connection shared by the Accounts, Documents and Files implementations.
type Client struct {
	conn   backend.Connection
	http   *resty.Client
	store  backend.SessionStore
	logger *slog.Logger
}

type Option func(*Client)

// WithHttpClient sends requests through hc. Tests use this to intercept traffic.
func WithHttpClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(conn backend.Connection, store backend.SessionStore, opts ...Option) *Client {
	c := &Client{
		conn:  conn,
		store: store,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		c.store = backend.NewMemorySessionStore()
	}
	if c.http == nil {
		c.http = resty.New()
	}
	c.logger = pblog.NewBuilder(pblog.OrNoop(c.logger)).WithComponent("rest").Build()

	c.http.
		SetBaseURL(conn.Endpoint()).
		SetHeader(api_common.ProjectHeader, conn.ProjectID()).
		SetHeader("Accept", "application/json")

	return c
}

// request starts a request carrying the correlation id and the current session secret.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	req := c.http.R().SetContext(ctx)

	if cid := pbctx.CorrelationID(ctx); cid != "" {
		req.SetHeader(api_common.CorrelationHeader, cid)
	}

	secret, err := c.store.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session")
	}
	if secret != "" {
		req.SetHeader(api_common.SessionHeader, secret)
	}

	return req, nil
}

// check turns a transport failure or an error status into an error. Error statuses map onto the backend sentinels.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return errors.Wrap(err, "request failed")
	}

	if !resp.IsError() {
		return nil
	}

	msg := http.StatusText(resp.StatusCode())
	if body, ok := resp.Error().(*api_common.ErrorResponse); ok && body.Error != "" {
		msg = body.Error
	}

	c.logger.Debug("request returned error status",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
	)

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrap(backend.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return errors.Wrap(backend.ErrNotFound, msg)
	case http.StatusConflict:
		return errors.Wrap(backend.ErrConflict, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.Wrap(backend.ErrInvalid, msg)
	default:
		return errors.Errorf("unexpected status %d: %s", resp.StatusCode(), msg)
	}
}
