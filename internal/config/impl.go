package config

import (
	"log/slog"
	"os"

	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

type config struct {
	root *sconfig.Root
}

func (c *config) Validate() error {
	return c.root.Validate()
}

func (c *config) GetRoot() *sconfig.Root {
	if c == nil {
		return nil
	}

	return c.root
}

func (c *config) IsDebugMode() bool {
	return os.Getenv("POSTBASE_DEBUG_MODE") == "true"
}

func (c *config) GetRootLogger() *slog.Logger {
	return c.root.GetRootLogger()
}

var _ C = (*config)(nil)
