package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

func newDatabaseImpl(provider string) (DatabaseImpl, error) {
	switch DatabaseProvider(provider) {
	case DatabaseProviderSqlite:
		return &DatabaseSqlite{Provider: DatabaseProviderSqlite}, nil
	case DatabaseProviderPostgres:
		return &DatabasePostgres{Provider: DatabaseProviderPostgres}, nil
	case DatabaseProviderMemory:
		return &DatabaseMemory{Provider: DatabaseProviderMemory}, nil
	case "":
		return nil, fmt.Errorf("invalid structure for database; missing provider field")
	default:
		return nil, fmt.Errorf("unknown database provider %v", provider)
	}
}

func (d *Database) MarshalYAML() (interface{}, error) {
	if d.InnerVal == nil {
		return nil, nil
	}
	return d.InnerVal, nil
}

// UnmarshalYAML handles unmarshalling from YAML while allowing us to make decisions
// about how the data is unmarshalled based on the concrete type being represented
func (d *Database) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("database expected a mapping node, got %s", KindToString(value.Kind))
	}

	provider := ""
	for i := 0; i < len(value.Content); i += 2 {
		if value.Content[i].Value == "provider" {
			provider = value.Content[i+1].Value
			break
		}
	}

	db, err := newDatabaseImpl(provider)
	if err != nil {
		return err
	}

	if err := value.Decode(db); err != nil {
		return err
	}

	d.InnerVal = db
	return nil
}

func (d *Database) MarshalJSON() ([]byte, error) {
	if d == nil || d.InnerVal == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(d.InnerVal)
}

func (d *Database) UnmarshalJSON(data []byte) error {
	var probe struct {
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to unmarshal database: %v", err)
	}

	db, err := newDatabaseImpl(probe.Provider)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, db); err != nil {
		return err
	}

	d.InnerVal = db
	return nil
}
