package config

import (
	"context"
	"fmt"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

// Server configures the development HTTP server.
type Server struct {
	PortVal     *IntegerValue `json:"port,omitempty" yaml:"port,omitempty"`
	CorsOrigins []string      `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

func (s *Server) Port() uint64 {
	if s == nil || s.PortVal == nil {
		return 8080
	}

	p, err := s.PortVal.GetValue(context.Background())
	if err != nil || p <= 0 {
		return 8080
	}

	return uint64(p)
}

func (s *Server) GetBindAddress() string {
	return fmt.Sprintf(":%d", s.Port())
}

func (s *Server) GetCorsOrigins() []string {
	if s == nil || len(s.CorsOrigins) == 0 {
		return []string{"*"}
	}
	return s.CorsOrigins
}

func (s *Server) Validate(vc *common.ValidationContext) error {
	if s.PortVal == nil {
		return nil
	}

	p, err := s.PortVal.GetValue(context.Background())
	if err != nil {
		return vc.NewErrorfForField("port", "invalid port value: %v", err)
	}
	if p <= 0 || p > 65535 {
		return vc.NewErrorfForField("port", "port must be between 1 and 65535, got %d", p)
	}

	return nil
}
