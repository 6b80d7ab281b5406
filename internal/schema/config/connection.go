package config

import (
	"net/url"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

// Connection locates the backend platform. Endpoint is the API base URL.
type Connection struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	ProjectID string `json:"project_id" yaml:"project_id"`
}

func (c *Connection) Validate(vc *common.ValidationContext) error {
	if c.Endpoint == "" {
		return vc.NewErrorForField("endpoint", "endpoint must be specified")
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return vc.NewErrorfForField("endpoint", "endpoint must be an absolute http(s) url, got '%s'", c.Endpoint)
	}

	if c.ProjectID == "" {
		return vc.NewErrorForField("project_id", "project_id must be specified")
	}

	return nil
}
