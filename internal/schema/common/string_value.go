package common

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// StringValueType is implemented by every way a string setting (typically a secret) can be supplied in config.
type StringValueType interface {
	// HasValue checks if this value has data.
	HasValue(ctx context.Context) bool

	// GetValue retrieves the value
	GetValue(ctx context.Context) (string, error)
}

// StringValue is the holder for a StringValueType. In YAML it may be a bare string, or an object with one of the
// keys value, env_var or file.
type StringValue struct {
	InnerVal StringValueType `json:"-" yaml:"-"`
}

func (sv *StringValue) HasValue(ctx context.Context) bool {
	if sv == nil || sv.InnerVal == nil {
		return false
	}
	return sv.InnerVal.HasValue(ctx)
}

func (sv *StringValue) GetValue(ctx context.Context) (string, error) {
	if sv == nil || sv.InnerVal == nil {
		return "", errors.New("string value incorrectly configured")
	}
	return sv.InnerVal.GetValue(ctx)
}

// StringValueDirect holds the data inline in the config.
type StringValueDirect struct {
	Value string `json:"value" yaml:"value"`

	// IsDirect records that the value was loaded as a bare string rather than an object with the `value` key, so
	// that it renders the same way on the round trip.
	IsDirect bool `json:"-" yaml:"-"`
}

func (d *StringValueDirect) HasValue(_ context.Context) bool {
	return d.Value != ""
}

func (d *StringValueDirect) GetValue(_ context.Context) (string, error) {
	return d.Value, nil
}

func (d StringValueDirect) MarshalJSON() ([]byte, error) {
	if d.IsDirect {
		return json.Marshal(d.Value)
	}

	type Alias StringValueDirect
	return json.Marshal(Alias(d))
}

func (d StringValueDirect) MarshalYAML() (interface{}, error) {
	if d.IsDirect {
		return d.Value, nil
	}

	return map[string]string{
		"value": d.Value,
	}, nil
}

// StringValueEnvVar reads the value from the environment, with an optional default.
type StringValueEnvVar struct {
	EnvVar  string  `json:"env_var" yaml:"env_var"`
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`
}

func (ev *StringValueEnvVar) HasValue(_ context.Context) bool {
	val, present := os.LookupEnv(ev.EnvVar)
	return (present && len(val) > 0) || ev.Default != nil
}

func (ev *StringValueEnvVar) GetValue(_ context.Context) (string, error) {
	val, present := os.LookupEnv(ev.EnvVar)
	if !present || len(val) == 0 {
		if ev.Default != nil {
			return *ev.Default, nil
		}
		return "", errors.Errorf("environment variable '%s' does not have value", ev.EnvVar)
	}
	return val, nil
}

// StringValueFile reads the value from a file, trimming surrounding whitespace.
type StringValueFile struct {
	Path string `json:"file" yaml:"file"`
}

func (f *StringValueFile) HasValue(_ context.Context) bool {
	p, err := homedir.Expand(f.Path)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

func (f *StringValueFile) GetValue(_ context.Context) (string, error) {
	p, err := homedir.Expand(f.Path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to expand path '%s'", f.Path)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read value from file '%s'", f.Path)
	}

	return strings.TrimSpace(string(data)), nil
}

func NewStringValueDirect(value string) *StringValue {
	return &StringValue{&StringValueDirect{Value: value}}
}

func NewStringValueDirectInline(value string) *StringValue {
	return &StringValue{&StringValueDirect{Value: value, IsDirect: true}}
}

var _ StringValueType = (*StringValue)(nil)
var _ StringValueType = (*StringValueDirect)(nil)
var _ StringValueType = (*StringValueEnvVar)(nil)
var _ StringValueType = (*StringValueFile)(nil)
