package config

import (
	"github.com/hashicorp/go-multierror"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

type AccountsProvider string

const (
	AccountsProviderRest  AccountsProvider = "rest"
	AccountsProviderLocal AccountsProvider = "local"
)

type Accounts struct {
	Provider AccountsProvider `json:"provider" yaml:"provider"`
}

func (a *Accounts) GetProvider() AccountsProvider {
	if a == nil || a.Provider == "" {
		return AccountsProviderRest
	}
	return a.Provider
}

type DocumentsProvider string

const (
	DocumentsProviderRest      DocumentsProvider = "rest"
	DocumentsProviderLocal     DocumentsProvider = "local"
	DocumentsProviderFirestore DocumentsProvider = "firestore"
)

// Documents selects the document backend and the one collection the facade operates on.
type Documents struct {
	Provider       DocumentsProvider `json:"provider" yaml:"provider"`
	DatabaseID     string            `json:"database_id" yaml:"database_id"`
	CollectionID   string            `json:"collection_id" yaml:"collection_id"`
	RequiredFields []string          `json:"required_fields,omitempty" yaml:"required_fields,omitempty"`
	DefaultFilter  string            `json:"default_filter,omitempty" yaml:"default_filter,omitempty"`
	StatusField    string            `json:"status_field,omitempty" yaml:"status_field,omitempty"`
}

func (d *Documents) GetProvider() DocumentsProvider {
	if d.Provider == "" {
		return DocumentsProviderRest
	}
	return d.Provider
}

func (d *Documents) Validate(vc *common.ValidationContext) error {
	result := &multierror.Error{}

	if d.DatabaseID == "" {
		result = multierror.Append(result, vc.NewErrorForField("database_id", "database_id must be specified"))
	}

	if d.CollectionID == "" {
		result = multierror.Append(result, vc.NewErrorForField("collection_id", "collection_id must be specified"))
	}

	for i, f := range d.RequiredFields {
		if f == "" {
			result = multierror.Append(result, vc.PushField("required_fields").PushIndex(i).NewError("field name must not be empty"))
		}
	}

	return result.ErrorOrNil()
}

type FilesProvider string

const (
	FilesProviderRest FilesProvider = "rest"
	FilesProviderBlob FilesProvider = "blob"
)

type Files struct {
	Provider      FilesProvider  `json:"provider" yaml:"provider"`
	BucketID      string         `json:"bucket_id" yaml:"bucket_id"`
	MaxUploadSize *HumanByteSize `json:"max_upload_size,omitempty" yaml:"max_upload_size,omitempty"`
}

func (f *Files) GetProvider() FilesProvider {
	if f.Provider == "" {
		return FilesProviderRest
	}
	return f.Provider
}

// GetMaxUploadSize is the largest accepted payload in bytes. Zero means no limit.
func (f *Files) GetMaxUploadSize() uint64 {
	return f.MaxUploadSize.Value()
}

func (f *Files) Validate(vc *common.ValidationContext) error {
	if f.BucketID == "" {
		return vc.NewErrorForField("bucket_id", "bucket_id must be specified")
	}
	return nil
}

// Firestore configures the Google Cloud Firestore document backend.
type Firestore struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Database        string `json:"database,omitempty" yaml:"database,omitempty"`
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
}

func (f *Firestore) GetDatabase() string {
	if f.Database == "" {
		return "(default)"
	}
	return f.Database
}

func (f *Firestore) Validate(vc *common.ValidationContext) error {
	if f.ProjectID == "" {
		return vc.NewErrorForField("project_id", "project_id must be specified")
	}
	return nil
}
