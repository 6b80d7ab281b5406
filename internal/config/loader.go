package config

import (
	"encoding/json"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Salehmangrio/postbase/internal/schema"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

// yamlBytesToJSON translates loaded YAML data to JSON so it can be checked against the config schema.
func yamlBytesToJSON(yamlData []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(yamlData, &v); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal YAML")
	}

	j, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal to JSON")
	}

	return j, nil
}

// LoadConfig reads the YAML config at path, checks it against the embedded JSON schema, decodes it and runs the
// semantic validation.
func LoadConfig(path string) (C, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand config path '%s'", path)
	}

	content, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config '%s'", path)
	}

	return LoadConfigBytes(content)
}

func LoadConfigBytes(content []byte) (C, error) {
	s, err := schema.CompileSchema(schema.SchemaIdConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config schema")
	}

	configJsonBytes, err := yamlBytesToJSON(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert YAML to JSON for config schema validation")
	}

	var configAsParsedJson interface{}
	if err := json.Unmarshal(configJsonBytes, &configAsParsedJson); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config JSON for config schema validation")
	}

	if err := s.Validate(configAsParsedJson); err != nil {
		return nil, errors.Wrap(err, "config schema validation failed")
	}

	root, err := sconfig.UnmarshallYamlRoot(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	c := &config{root: root}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return c, nil
}

func FromRoot(root *sconfig.Root) C {
	return &config{root: root}
}
