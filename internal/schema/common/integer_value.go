package common

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// IntegerValue holds an integer setting given either inline or through an environment variable
// (`port: 8080` or `port: {env_var: PORT, default: 8080}`).
type IntegerValue struct {
	Value    *int64  `json:"value,omitempty" yaml:"value,omitempty"`
	EnvVar   string  `json:"env_var,omitempty" yaml:"env_var,omitempty"`
	Default  *int64  `json:"default,omitempty" yaml:"default,omitempty"`
	isDirect bool
}

func NewIntegerValue(v int64) *IntegerValue {
	return &IntegerValue{Value: &v, isDirect: true}
}

func (iv *IntegerValue) HasValue(_ context.Context) bool {
	if iv == nil {
		return false
	}
	if iv.Value != nil || iv.Default != nil {
		return true
	}
	val, present := os.LookupEnv(iv.EnvVar)
	return iv.EnvVar != "" && present && val != ""
}

func (iv *IntegerValue) GetValue(_ context.Context) (int64, error) {
	if iv == nil {
		return 0, errors.New("integer value incorrectly configured")
	}

	if iv.Value != nil {
		return *iv.Value, nil
	}

	if iv.EnvVar != "" {
		strVal, present := os.LookupEnv(iv.EnvVar)
		if present && strVal != "" {
			val, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "failed to parse environment variable '%s' with value '%s' as int64", iv.EnvVar, strVal)
			}
			return val, nil
		}
	}

	if iv.Default != nil {
		return *iv.Default, nil
	}

	return 0, errors.Errorf("environment variable '%s' does not have value", iv.EnvVar)
}

func (iv IntegerValue) MarshalYAML() (interface{}, error) {
	if iv.isDirect && iv.Value != nil {
		return *iv.Value, nil
	}
	type Alias IntegerValue
	return Alias(iv), nil
}

func (iv *IntegerValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		val, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return err
		}
		*iv = IntegerValue{Value: &val, isDirect: true}
		return nil
	}

	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("integer value expected a scalar or mapping node, got %s", KindToString(value.Kind))
	}

	type Alias IntegerValue
	var a Alias
	if err := value.Decode(&a); err != nil {
		return err
	}
	if a.Value == nil && a.EnvVar == "" {
		return fmt.Errorf("invalid structure for integer value; does not match value or env_var")
	}

	*iv = IntegerValue(a)
	return nil
}

func (iv IntegerValue) MarshalJSON() ([]byte, error) {
	if iv.isDirect && iv.Value != nil {
		return []byte(strconv.FormatInt(*iv.Value, 10)), nil
	}
	type Alias IntegerValue
	return json.Marshal(Alias(iv))
}

func (iv *IntegerValue) UnmarshalJSON(data []byte) error {
	if val, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*iv = IntegerValue{Value: &val, isDirect: true}
		return nil
	}

	type Alias IntegerValue
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("failed to unmarshal integer value: %v", err)
	}
	if a.Value == nil && a.EnvVar == "" {
		return fmt.Errorf("invalid structure for integer value; does not match direct value, value or env_var")
	}

	*iv = IntegerValue(a)
	return nil
}

func (IntegerValue) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("value", &jsonschema.Schema{Type: "integer"})
	props.Set("env_var", &jsonschema.Schema{Type: "string"})
	props.Set("default", &jsonschema.Schema{Type: "integer"})

	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "object", Properties: props},
		},
	}
}
