package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/domain"
)

func TestCanonicalPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"foo.c", "foo.c"},
		{"./foo.c", "foo.c"},
		{"foo//bar", "foo/bar"},
		{"foo/./bar", "foo/bar"},
		{"foo/bar/../baz", "foo/baz"},
		{"../foo", "../foo"},
		{"/foo/bar", "/foo/bar"},
		{"", "."},
	}
	for _, c := range cases {
		got, _ := domain.CanonicalPath(c.in)
		assert.Equal(t, c.want, got, "CanonicalPath(%q)", c.in)
	}
}

func TestCanonicalPath_SlashBits(t *testing.T) {
	canon, bits := domain.CanonicalPath(`foo\bar/baz`)
	require.Equal(t, "foo/bar/baz", canon)
	assert.NotZero(t, bits&1, "expected bit 0 set for backslash-separated component, got %b", bits)
	assert.Zero(t, bits&2, "expected bit 1 clear for forward-slash component, got %b", bits)
}
