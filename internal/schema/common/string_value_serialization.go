package common

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

func (sv *StringValue) MarshalYAML() (interface{}, error) {
	if sv.InnerVal == nil {
		return nil, nil
	}
	return sv.InnerVal, nil
}

// UnmarshalYAML handles unmarshalling from YAML while allowing us to make decisions
// about how the data is unmarshalled based on the concrete type being represented
func (sv *StringValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		sv.InnerVal = &StringValueDirect{Value: value.Value, IsDirect: true}
		return nil
	}

	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("string value expected a scalar or mapping node, got %s", KindToString(value.Kind))
	}

	var inner StringValueType

fieldLoop:
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]

		switch keyNode.Value {
		case "value":
			inner = &StringValueDirect{}
			break fieldLoop
		case "env_var":
			inner = &StringValueEnvVar{}
			break fieldLoop
		case "file":
			inner = &StringValueFile{}
			break fieldLoop
		}
	}

	if inner == nil {
		return fmt.Errorf("invalid structure for string value; does not match value, env_var or file")
	}

	if err := value.Decode(inner); err != nil {
		return err
	}

	sv.InnerVal = inner
	return nil
}

func (sv *StringValue) MarshalJSON() ([]byte, error) {
	if sv == nil || sv.InnerVal == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(sv.InnerVal)
}

// UnmarshalJSON handles unmarshalling from JSON while allowing us to make decisions
// about how the data is unmarshalled based on the concrete type being represented
func (sv *StringValue) UnmarshalJSON(data []byte) error {
	var direct string
	if err := json.Unmarshal(data, &direct); err == nil {
		sv.InnerVal = &StringValueDirect{Value: direct, IsDirect: true}
		return nil
	}

	var valueMap map[string]interface{}
	if err := json.Unmarshal(data, &valueMap); err != nil {
		return fmt.Errorf("failed to unmarshal string value: %v", err)
	}

	var inner StringValueType
	if _, ok := valueMap["value"]; ok {
		inner = &StringValueDirect{}
	} else if _, ok := valueMap["env_var"]; ok {
		inner = &StringValueEnvVar{}
	} else if _, ok := valueMap["file"]; ok {
		inner = &StringValueFile{}
	} else {
		return fmt.Errorf("invalid structure for string value; does not match direct value, value, env_var or file")
	}

	if err := json.Unmarshal(data, inner); err != nil {
		return err
	}

	sv.InnerVal = inner
	return nil
}

func (StringValue) JSONSchema() *jsonschema.Schema {
	obj := func(key string) *jsonschema.Schema {
		props := jsonschema.NewProperties()
		props.Set(key, &jsonschema.Schema{Type: "string"})
		props.Set("default", &jsonschema.Schema{Type: "string"})
		return &jsonschema.Schema{Type: "object", Properties: props, Required: []string{key}}
	}

	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			obj("value"),
			obj("env_var"),
			obj("file"),
		},
	}
}
