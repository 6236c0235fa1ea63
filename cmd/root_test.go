package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumSliceValue(t *testing.T) {
	var codes []uint16
	v := &numSliceValue[uint16]{target: &codes, bits: 16}

	require.NoError(t, v.Set("200, 301,,404"))
	require.NoError(t, v.Set("500"))
	assert.Equal(t, []uint16{200, 301, 404, 500}, codes)
	assert.Equal(t, "200,301,404,500", v.String())
	assert.Equal(t, "uints", v.Type())
}

func TestNumSliceValueRejectsOutOfRange(t *testing.T) {
	var codes []uint16
	v := &numSliceValue[uint16]{target: &codes, bits: 16}

	assert.Error(t, v.Set("70000"))
	assert.Error(t, v.Set("-1"))
	assert.Error(t, v.Set("abc"))

	var sizes []uint64
	s := &numSliceValue[uint64]{target: &sizes, bits: 64}
	require.NoError(t, s.Set("0,70000"))
	assert.Equal(t, []uint64{0, 70000}, sizes)
}

func TestNumSliceValueEmptyString(t *testing.T) {
	v := &numSliceValue[uint64]{}
	assert.Equal(t, "", v.String())
}

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders([]string{"Authorization: Bearer a:b", "X-Test:1", "X-Test: 2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Authorization": "Bearer a:b", "X-Test": "2"}, got)

	got, err = parseHeaders(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseHeaders([]string{"no-colon"})
	assert.Error(t, err)
	_, err = parseHeaders([]string{": value"})
	assert.Error(t, err)
}

func TestFormatFlag(t *testing.T) {
	f := rootCmd.Flags().Lookup("threads")
	require.NotNil(t, f)
	line := formatFlag(f)
	assert.True(t, strings.HasPrefix(line, "   -t, --threads int"), line)
	assert.Contains(t, line, "(default 40)")

	q := formatFlag(rootCmd.Flags().Lookup("quiet"))
	assert.NotContains(t, q, "default")
}

func TestHelpGroupsCoverAllFlags(t *testing.T) {
	grouped := map[string]bool{}
	for _, g := range helpGroups {
		for _, name := range g.flags {
			grouped[name] = true
			assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
		}
	}
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" || f.Name == "version" {
			return
		}
		assert.True(t, grouped[f.Name], "flag %s missing from help", f.Name)
	})
}

func TestWordFlagsKeepCommas(t *testing.T) {
	f := rootCmd.Flags()
	t.Cleanup(func() {
		opts.MatchWords, opts.FilterWords = nil, nil
		f.Lookup("filter-word").Changed = false
		f.Lookup("match-word").Changed = false
	})

	require.NoError(t, f.Set("filter-word", "Not found, sorry"))
	require.NoError(t, f.Set("filter-word", "Forbidden"))
	require.NoError(t, f.Set("match-word", "a,b"))

	assert.Equal(t, []string{"Not found, sorry", "Forbidden"}, opts.FilterWords)
	assert.Equal(t, []string{"a,b"}, opts.MatchWords)
}

func TestHelpBanner(t *testing.T) {
	assert.Contains(t, helpBanner("1.2.0"), "v1.2.0")
	assert.Contains(t, helpBanner("dev"), "dev")
}
