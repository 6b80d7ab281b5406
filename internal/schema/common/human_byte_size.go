package common

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/invopop/jsonschema"
)

type HumanByteSize struct {
	uint64
}

func NewHumanByteSize(b uint64) *HumanByteSize {
	return &HumanByteSize{b}
}

func (HumanByteSize) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string"}
}

// MarshalJSON provides custom serialization of the size to a human-readable string (e.g., "2.0 MB").
func (b HumanByteSize) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", humanize.Bytes(b.uint64))), nil
}

// UnmarshalJSON parses a human-readable size string back into bytes of `uint64`.
func (b *HumanByteSize) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid byte size format: %s", s)
	}
	parsed, err := humanize.ParseBytes(s[1 : len(s)-1])
	if err != nil {
		return fmt.Errorf("failed to parse size in bytes: %w", err)
	}
	b.uint64 = parsed
	return nil
}

func (b HumanByteSize) MarshalYAML() (interface{}, error) {
	return humanize.Bytes(b.uint64), nil
}

func (b *HumanByteSize) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := humanize.ParseBytes(s)
	if err != nil {
		return fmt.Errorf("failed to parse size in bytes: %w", err)
	}
	b.uint64 = parsed
	return nil
}

func (b *HumanByteSize) Value() uint64 {
	if b == nil {
		return 0
	}

	return b.uint64
}
