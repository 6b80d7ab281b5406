package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestKindToString(t *testing.T) {
	assert.Equal(t, "MappingNode", KindToString(yaml.MappingNode))
	assert.Equal(t, "ScalarNode", KindToString(yaml.ScalarNode))
	assert.Equal(t, "unknown (0)", KindToString(yaml.Kind(0)))
}
