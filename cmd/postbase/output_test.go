package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name string `json:"name"`
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestOutputMultiple(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		cmd, buf := testCommand()
		o := OutputMultiple[row](cmd)
		o.EmitAll([]row{{Name: "a"}, {Name: "b"}})
		o.Done()

		var got []row
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, []row{{Name: "a"}, {Name: "b"}}, got)
	})

	t.Run("empty", func(t *testing.T) {
		cmd, buf := testCommand()
		o := OutputMultiple[row](cmd)
		o.Done()
		assert.Equal(t, "[]\n", buf.String())
	})
}

func TestOutputSingle(t *testing.T) {
	cmd, buf := testCommand()
	o := OutputSingle[row](cmd)
	o.Emit(row{Name: "a"})
	o.Done()

	var got row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a", got.Name)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0 B", humanSize(-1))
	assert.Equal(t, "1.5 kB", humanSize(1500))
}
