package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestHumanDuration(t *testing.T) {
	var holder struct {
		TTL *HumanDuration `yaml:"ttl" json:"ttl"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("ttl: 720h"), &holder))
	assert.Equal(t, 720*time.Hour, holder.TTL.Duration)

	data, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ttl":"720h0m0s"}`, string(data))

	require.Error(t, yaml.Unmarshal([]byte("ttl: forever"), &holder))

	var nilDur *HumanDuration
	assert.Equal(t, time.Minute, nilDur.OrDefault(time.Minute))
	assert.Equal(t, 2*time.Second, HumanDurationFor("2s").OrDefault(time.Minute))
}

func TestHumanByteSize(t *testing.T) {
	var holder struct {
		Max *HumanByteSize `yaml:"max" json:"max"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("max: 10MB"), &holder))
	assert.Equal(t, uint64(10_000_000), holder.Max.Value())

	require.NoError(t, json.Unmarshal([]byte(`{"max":"1 MiB"}`), &holder))
	assert.Equal(t, uint64(1<<20), holder.Max.Value())

	require.Error(t, json.Unmarshal([]byte(`{"max":12}`), &holder))

	var empty *HumanByteSize
	assert.Equal(t, uint64(0), empty.Value())
}

func TestValidationContext(t *testing.T) {
	vc := &ValidationContext{}
	assert.Equal(t, "documents.required_fields[1]: empty", vc.PushField("documents").PushField("required_fields").PushIndex(1).NewError("empty").Error())
	assert.Equal(t, "server.port: must be positive", vc.PushField("server").NewErrorForField("port", "must be positive").Error())
	assert.Equal(t, "bad", vc.NewError("bad").Error())
}
