package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOneUnion(t *testing.T, args string) (*Union, error) {
	t.Helper()
	p := parseSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union `+args+`
type Event struct {
	Ping struct{}
}
`)
	unions, err := p.ParseUnions()
	if err != nil {
		return nil, err
	}
	v, ok := unions.Get("Event")
	require.True(t, ok)
	return v.(*Union), nil
}

func TestParseConfigVariants(t *testing.T) {
	t.Run("identifier only", func(t *testing.T) {
		u, err := parseOneUnion(t, `variants="test"`)
		require.NoError(t, err)
		assert.Equal(t, "test", u.Config.Variants)
		assert.False(t, u.Config.VariantsVisSet)
	})

	t.Run("visibility prefix", func(t *testing.T) {
		u, err := parseOneUnion(t, `variants="pub(crate) test"`)
		require.NoError(t, err)
		assert.Equal(t, "test", u.Config.Variants)
		assert.True(t, u.Config.VariantsVisSet)
		assert.Equal(t, "pub(crate)", u.Config.VariantsVis.String())
	})

	t.Run("restricted path prefix", func(t *testing.T) {
		u, err := parseOneUnion(t, `variants="pub(in internal::api) test"`)
		require.NoError(t, err)
		assert.Equal(t, "test", u.Config.Variants)
		assert.Equal(t, "pub(in internal::api)", u.Config.VariantsVis.String())
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := parseOneUnion(t, `variants`)
		assert.ErrorContains(t, err, "variants needs a value")
	})

	t.Run("unquoted value", func(t *testing.T) {
		_, err := parseOneUnion(t, `variants=test`)
		assert.ErrorContains(t, err, "variants needs a quoted string")
	})

	t.Run("not an identifier", func(t *testing.T) {
		_, err := parseOneUnion(t, `variants="pub 2test"`)
		assert.ErrorContains(t, err, `expected identifier, got "2test"`)
	})

	t.Run("malformed visibility", func(t *testing.T) {
		_, err := parseOneUnion(t, `variants="public test"`)
		assert.ErrorContains(t, err, `expected visibility, got "public"`)
	})
}

func TestParseConfigSelfTest(t *testing.T) {
	u, err := parseOneUnion(t, `unstable_self_test`)
	require.NoError(t, err)
	assert.True(t, u.Config.SelfTest)

	_, err = parseOneUnion(t, `unstable_self_test=1`)
	assert.ErrorContains(t, err, "unstable_self_test takes no value")
}

func TestParseConfigUnknownArgument(t *testing.T) {
	_, err := parseOneUnion(t, `frobnicate`)
	assert.ErrorContains(t, err, "unknown argument")
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		args string
		want []string
	}{
		{"", nil},
		{"unstable_self_test", []string{"unstable_self_test"}},
		{`variants="pub(crate) test"`, []string{`variants="pub(crate) test"`}},
		{`variants="test" unstable_self_test`, []string{`variants="test"`, "unstable_self_test"}},
		{"  a \t b ", []string{"a", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitArgs(tt.args), "args: %q", tt.args)
	}
}
