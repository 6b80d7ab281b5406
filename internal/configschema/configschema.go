// Package configschema reflects the configuration structs into JSON schemas so editors and the CLI can show what
// each block accepts. Polymorphic blocks are reflected per provider since their holders carry no fields of their own.
package configschema

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

var blocks = map[string]any{
	"connection":              &sconfig.Connection{},
	"accounts":                &sconfig.Accounts{},
	"documents":               &sconfig.Documents{},
	"files":                   &sconfig.Files{},
	"firestore":               &sconfig.Firestore{},
	"system_auth":             &sconfig.SystemAuth{},
	"server":                  &sconfig.Server{},
	"database.memory":         &sconfig.DatabaseMemory{},
	"database.sqlite":         &sconfig.DatabaseSqlite{},
	"database.postgres":       &sconfig.DatabasePostgres{},
	"blob_storage.memory":     &sconfig.BlobStorageMemory{},
	"blob_storage.filesystem": &sconfig.BlobStorageFilesystem{},
	"blob_storage.s3":         &sconfig.BlobStorageS3{},
	"logging.text":            &sconfig.LoggingConfigText{},
	"logging.json":            &sconfig.LoggingConfigJson{},
	"logging.tint":            &sconfig.LoggingConfigTint{},
	"logging.none":            &sconfig.LoggingConfigNone{},
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		ExpandedStruct: true,
		// Only fields tagged `jsonschema:"required"` are required; defaults are applied in code.
		RequiredFromJSONSchemaTags: true,
	}
}

// Names lists the reflectable blocks in sorted order.
func Names() []string {
	names := make([]string, 0, len(blocks))
	for k := range blocks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reflect returns the schema for one block, e.g. "database.sqlite".
func Reflect(name string) (*jsonschema.Schema, error) {
	v, ok := blocks[name]
	if !ok {
		return nil, errors.Errorf("unknown config block '%s'", name)
	}

	s := reflector().Reflect(v)
	s.Title = name
	return s, nil
}

// Generate writes the schemas of the named blocks, or of every block when names is empty, as one indented JSON
// object keyed by block name.
func Generate(w io.Writer, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}

	out := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := Reflect(name)
		if err != nil {
			return err
		}
		out[name] = s
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config schema")
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "failed to write config schema")
	}
	return nil
}
