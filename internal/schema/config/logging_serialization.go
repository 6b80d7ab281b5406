package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

func newLoggingImpl(t string) (LoggingImpl, error) {
	switch LoggingConfigType(t) {
	case LoggingConfigTypeText:
		return &LoggingConfigText{Type: LoggingConfigTypeText}, nil
	case LoggingConfigTypeJson:
		return &LoggingConfigJson{Type: LoggingConfigTypeJson}, nil
	case LoggingConfigTypeTint:
		return &LoggingConfigTint{Type: LoggingConfigTypeTint}, nil
	case LoggingConfigTypeNone:
		return &LoggingConfigNone{Type: LoggingConfigTypeNone}, nil
	case "":
		return nil, fmt.Errorf("invalid structure for logging; missing type field")
	default:
		return nil, fmt.Errorf("unknown logging type %v", t)
	}
}

func (l *LoggingConfig) MarshalYAML() (interface{}, error) {
	if l.InnerVal == nil {
		return nil, nil
	}
	return l.InnerVal, nil
}

func (l *LoggingConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("logger expected a mapping node, got %s", KindToString(value.Kind))
	}

	typ := ""
	for i := 0; i < len(value.Content); i += 2 {
		if value.Content[i].Value == "type" {
			typ = value.Content[i+1].Value
			break
		}
	}

	impl, err := newLoggingImpl(typ)
	if err != nil {
		return err
	}

	if err := value.Decode(impl); err != nil {
		return err
	}

	l.InnerVal = impl
	return nil
}

func (l *LoggingConfig) MarshalJSON() ([]byte, error) {
	if l == nil || l.InnerVal == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(l.InnerVal)
}

func (l *LoggingConfig) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to unmarshal logging: %v", err)
	}

	impl, err := newLoggingImpl(probe.Type)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, impl); err != nil {
		return err
	}

	l.InnerVal = impl
	return nil
}
