package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 3}, v)
	assert.Equal(t, "1.2.3", v.String())
}

func TestParseWhitespace(t *testing.T) {
	v, err := Parse(" 0.1.0\n")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", v.String())
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "1.2", "1.2.3.4", "v1.2.3", "1.2.x", "1.-2.3", "a.b.c"} {
		_, err := Parse(s)
		assert.Error(t, err, "expected error for %q", s)
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"0.9.9", "1.0.0", -1},
	}
	for _, tc := range cases {
		got := MustParse(tc.a).Compare(MustParse(tc.b))
		assert.Equal(t, tc.want, got, "%s vs %s", tc.a, tc.b)
	}
}

func TestBumpPatch(t *testing.T) {
	v := MustParse("1.4.9").BumpPatch()
	assert.Equal(t, "1.4.10", v.String())
}
