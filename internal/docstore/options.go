package docstore

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/filter"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

const (
	DefaultStatusField = "status"
	ActiveStatus       = "active"
)

// Options select the collection and bucket a service operates on.
type Options struct {
	DatabaseID   string
	CollectionID string
	BucketID     string

	// RequiredFields must be present and non-empty in every created document.
	RequiredFields []string

	// DefaultFilter is used by ListDocuments when no expression is given. When empty it is
	// `<StatusField> == "active"`.
	DefaultFilter string
	StatusField   string
}

// OptionsFromConfig reads the options from the documents and files configuration blocks.
func OptionsFromConfig(docs *sconfig.Documents, files *sconfig.Files) Options {
	return Options{
		DatabaseID:     docs.DatabaseID,
		CollectionID:   docs.CollectionID,
		BucketID:       files.BucketID,
		RequiredFields: docs.RequiredFields,
		DefaultFilter:  docs.DefaultFilter,
		StatusField:    docs.StatusField,
	}
}

func (o Options) statusField() string {
	if o.StatusField == "" {
		return DefaultStatusField
	}
	return o.StatusField
}

func (o Options) defaultFilter() (*filter.Filter, error) {
	if o.DefaultFilter == "" {
		if o.statusField() == DefaultStatusField {
			return filter.Default, nil
		}
		return filter.Parse(fmt.Sprintf("%s == %s", o.statusField(), strconv.Quote(ActiveStatus)))
	}
	return filter.Parse(o.DefaultFilter)
}

func (o Options) validate() error {
	if o.DatabaseID == "" {
		return errors.New("database id must be specified")
	}
	if o.CollectionID == "" {
		return errors.New("collection id must be specified")
	}
	if o.BucketID == "" {
		return errors.New("bucket id must be specified")
	}
	for _, f := range o.RequiredFields {
		if f == "" {
			return errors.New("required field names must not be empty")
		}
	}
	return nil
}
