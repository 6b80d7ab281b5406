package config

import (
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

const SchemaIdConfig = "https://github.com/Salehmangrio/postbase/schema/config.json"

type Root struct {
	Connection  Connection     `json:"connection" yaml:"connection"`
	Accounts    *Accounts      `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	Documents   Documents      `json:"documents" yaml:"documents"`
	Files       Files          `json:"files" yaml:"files"`
	Database    *Database      `json:"database,omitempty" yaml:"database,omitempty"`
	BlobStorage *BlobStorage   `json:"blob_storage,omitempty" yaml:"blob_storage,omitempty"`
	Firestore   *Firestore     `json:"firestore,omitempty" yaml:"firestore,omitempty"`
	SystemAuth  *SystemAuth    `json:"system_auth,omitempty" yaml:"system_auth,omitempty"`
	Server      *Server        `json:"server,omitempty" yaml:"server,omitempty"`
	Logging     *LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

func (r *Root) GetRootLogger() *slog.Logger {
	if r == nil || r.Logging == nil {
		return (&LoggingConfigNone{Type: LoggingConfigTypeNone}).GetRootLogger()
	}

	return r.Logging.GetRootLogger()
}

// NeedsDatabase reports whether any configured backend keeps its state in the sql/memory database.
func (r *Root) NeedsDatabase() bool {
	return r.Accounts.GetProvider() == AccountsProviderLocal || r.Documents.GetProvider() == DocumentsProviderLocal
}

func (r *Root) Validate() error {
	vc := &common.ValidationContext{Path: "$"}
	result := &multierror.Error{}

	if err := r.Connection.Validate(vc.PushField("connection")); err != nil {
		result = multierror.Append(result, err)
	}

	if err := r.Documents.Validate(vc.PushField("documents")); err != nil {
		result = multierror.Append(result, err)
	}

	if err := r.Files.Validate(vc.PushField("files")); err != nil {
		result = multierror.Append(result, err)
	}

	if r.NeedsDatabase() {
		if r.Database == nil {
			result = multierror.Append(result, vc.NewError("database block is required for local providers"))
		} else if err := r.Database.Validate(vc.PushField("database")); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if r.Accounts.GetProvider() == AccountsProviderLocal {
		if r.SystemAuth == nil {
			result = multierror.Append(result, vc.NewError("system_auth block is required for local accounts"))
		} else if err := r.SystemAuth.Validate(vc.PushField("system_auth")); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if r.Documents.GetProvider() == DocumentsProviderFirestore {
		if r.Firestore == nil {
			result = multierror.Append(result, vc.NewError("firestore block is required for firestore documents"))
		} else if err := r.Firestore.Validate(vc.PushField("firestore")); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := r.BlobStorage.Validate(vc.PushField("blob_storage")); err != nil {
		result = multierror.Append(result, err)
	}

	if r.Server != nil {
		if err := r.Server.Validate(vc.PushField("server")); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func UnmarshallYamlRootString(data string) (*Root, error) {
	return UnmarshallYamlRoot([]byte(data))
}

func UnmarshallYamlRoot(data []byte) (*Root, error) {
	var root Root
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}
