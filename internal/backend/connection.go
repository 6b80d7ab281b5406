package backend

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Connection identifies the backend a facade talks to. It is immutable once constructed.
type Connection struct {
	endpoint  *url.URL
	projectId string
}

// NewConnection validates the endpoint and project identifier. The endpoint must be an absolute http(s) URL.
func NewConnection(endpoint, projectId string) (Connection, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return Connection{}, errors.Wrapf(err, "invalid endpoint %q", endpoint)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return Connection{}, errors.Errorf("endpoint %q must use http or https", endpoint)
	}

	if u.Host == "" {
		return Connection{}, errors.Errorf("endpoint %q must include a host", endpoint)
	}

	if strings.TrimSpace(projectId) == "" {
		return Connection{}, errors.New("project id must be specified")
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	return Connection{endpoint: u, projectId: projectId}, nil
}

// MustNewConnection is like NewConnection but panics on error.
func MustNewConnection(endpoint, projectId string) Connection {
	c, err := NewConnection(endpoint, projectId)
	if err != nil {
		panic(err)
	}
	return c
}

// Endpoint returns the endpoint without a trailing slash.
func (c Connection) Endpoint() string {
	if c.endpoint == nil {
		return ""
	}
	return c.endpoint.String()
}

func (c Connection) ProjectID() string {
	return c.projectId
}

func (c Connection) IsZero() bool {
	return c.endpoint == nil
}

// URL joins path segments onto the endpoint, escaping each segment.
func (c Connection) URL(segments ...string) string {
	if c.endpoint == nil {
		return ""
	}

	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return c.Endpoint() + "/" + strings.Join(escaped, "/")
}
