package pbid

import (
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New(PrefixAccount)
	require.True(t, id.HasPrefix(PrefixAccount))
	require.Equal(t, PrefixAccount, id.Prefix())
	require.False(t, id.IsNil())
	require.Len(t, string(id), len(PrefixAccount)+suffixLen)

	id2 := New(PrefixAccount)
	require.NotEqual(t, id, id2)
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, err := Parse("fil_7Ks9mPqR2xvN3bXY")
		require.NoError(t, err)
		require.Equal(t, ID("fil_7Ks9mPqR2xvN3bXY"), id)
	})

	t.Run("empty", func(t *testing.T) {
		id, err := Parse("")
		require.NoError(t, err)
		require.Equal(t, Nil, id)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, err := Parse("zzz_abc123")
		require.Error(t, err)
	})

	t.Run("prefix only", func(t *testing.T) {
		_, err := Parse("fil_")
		require.Error(t, err)
	})
}

func TestMustParse(t *testing.T) {
	require.NotPanics(t, func() {
		MustParse("ses_testvalue00001")
	})
	require.Panics(t, func() {
		MustParse("bad_testvalue00001")
	})
}

func TestValidatePrefix(t *testing.T) {
	require.NoError(t, Nil.ValidatePrefix(PrefixFile))
	require.NoError(t, ID("fil_abc").ValidatePrefix(PrefixFile))
	require.Error(t, ID("acc_abc").ValidatePrefix(PrefixFile))
}

func TestJSON(t *testing.T) {
	id := ID("acc_abcdef")
	data, err := json.Marshal(id)
	require.NoError(t, err)
	require.Equal(t, `"acc_abcdef"`, string(data))

	var parsed ID
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, id, parsed)
}

func TestSqlValue(t *testing.T) {
	v, err := Nil.Value()
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = ID("ses_abc").Value()
	require.NoError(t, err)
	require.Equal(t, driver.Value("ses_abc"), v)

	var scanned ID
	require.NoError(t, scanned.Scan([]byte("ses_abc")))
	require.Equal(t, ID("ses_abc"), scanned)
	require.NoError(t, scanned.Scan(nil))
	require.Equal(t, Nil, scanned)
	require.Error(t, scanned.Scan(42))
}
