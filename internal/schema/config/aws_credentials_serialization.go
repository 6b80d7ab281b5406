package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

func newAwsCredentialsImpl(t string) (AwsCredentialsImpl, error) {
	switch AwsCredentialsType(t) {
	case AwsCredentialsTypeAccessKey:
		return &AwsCredentialsAccessKey{Type: AwsCredentialsTypeAccessKey}, nil
	case AwsCredentialsTypeImplicit, "":
		return &AwsCredentialsImplicit{Type: AwsCredentialsTypeImplicit}, nil
	default:
		return nil, fmt.Errorf("unknown aws credentials type %v", t)
	}
}

func (c *AwsCredentials) MarshalYAML() (interface{}, error) {
	if c.InnerVal == nil {
		return nil, nil
	}
	return c.InnerVal, nil
}

// UnmarshalYAML picks the concrete credentials type from the `type` key, defaulting to implicit.
func (c *AwsCredentials) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("aws credentials expected a mapping node, got %s", KindToString(value.Kind))
	}

	credType := ""
	for i := 0; i < len(value.Content); i += 2 {
		if value.Content[i].Value == "type" {
			credType = value.Content[i+1].Value
			break
		}
	}

	creds, err := newAwsCredentialsImpl(credType)
	if err != nil {
		return err
	}

	if err := value.Decode(creds); err != nil {
		return err
	}

	c.InnerVal = creds
	return nil
}

func (c *AwsCredentials) MarshalJSON() ([]byte, error) {
	if c == nil || c.InnerVal == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(c.InnerVal)
}

func (c *AwsCredentials) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to unmarshal aws credentials: %v", err)
	}

	creds, err := newAwsCredentialsImpl(probe.Type)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, creds); err != nil {
		return err
	}

	c.InnerVal = creds
	return nil
}
