package config

import (
	"time"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

// SystemAuth configures session issuance for the local accounts backend.
type SystemAuth struct {
	SessionKey *StringValue   `json:"session_key" yaml:"session_key"`
	SessionTTL *HumanDuration `json:"session_ttl,omitempty" yaml:"session_ttl,omitempty"`
	IssuerVal  string         `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	BcryptCost int            `json:"bcrypt_cost,omitempty" yaml:"bcrypt_cost,omitempty"`
}

func (sa *SystemAuth) Issuer() string {
	if sa == nil || sa.IssuerVal == "" {
		return "postbase"
	}
	return sa.IssuerVal
}

func (sa *SystemAuth) GetSessionTTL() time.Duration {
	if sa == nil {
		return 30 * 24 * time.Hour
	}
	return sa.SessionTTL.OrDefault(30 * 24 * time.Hour)
}

func (sa *SystemAuth) Validate(vc *common.ValidationContext) error {
	if sa.SessionKey == nil {
		return vc.NewErrorForField("session_key", "session_key must be specified")
	}
	if sa.BcryptCost != 0 && (sa.BcryptCost < 4 || sa.BcryptCost > 31) {
		return vc.NewErrorfForField("bcrypt_cost", "bcrypt_cost must be between 4 and 31, got %d", sa.BcryptCost)
	}
	return nil
}
