package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":            "/",
		"/":           "/",
		"docs":        "/docs/",
		"/docs":       "/docs/",
		"docs/":       "/docs/",
		"/docs/2024/": "/docs/2024/",
	}
	for in, want := range cases {
		got := Normalize(in)
		assert.Equal(t, want, got, "Normalize(%q)", in)
		assert.Equal(t, got, Normalize(got), "Normalize must be idempotent for %q", in)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/docs/a.txt", Join("/docs/", "a.txt"))
	assert.Equal(t, "/docs/a.txt", Join("docs", "a.txt"))
	assert.Equal(t, "/a.txt", Join("", "a.txt"))
}

func TestBreadcrumbs(t *testing.T) {
	t.Run("directory path", func(t *testing.T) {
		crumbs := Breadcrumbs("/a/b/", "")
		assert.Equal(t, []Crumb{
			{URL: "/", Name: ""},
			{URL: "/a/", Name: "a"},
			{URL: "/a/b/", Name: "b"},
		}, crumbs)
	})

	t.Run("root", func(t *testing.T) {
		assert.Equal(t, []Crumb{{URL: "/", Name: ""}}, Breadcrumbs("", ""))
	})

	t.Run("highlighted file wins over path", func(t *testing.T) {
		crumbs := Breadcrumbs("/", "/docs/2024/report.txt")
		assert.Equal(t, []Crumb{
			{URL: "/", Name: ""},
			{URL: "/docs/", Name: "docs"},
			{URL: "/docs/2024/", Name: "2024"},
		}, crumbs)
	})
}

func TestAscend(t *testing.T) {
	t.Run("one level", func(t *testing.T) {
		dir, exited, err := Ascend("/a/b/c/", -1)
		require.NoError(t, err)
		assert.Equal(t, "/a/b/", dir)
		assert.Equal(t, []string{"/a/b/c"}, exited)
	})

	t.Run("two levels nearest first", func(t *testing.T) {
		dir, exited, err := Ascend("/a/b/c/", -2)
		require.NoError(t, err)
		assert.Equal(t, "/a/", dir)
		assert.Equal(t, []string{"/a/b", "/a/b/c"}, exited)
	})

	t.Run("to root", func(t *testing.T) {
		dir, exited, err := Ascend("/a/b/c/", -3)
		require.NoError(t, err)
		assert.Equal(t, "/", dir)
		assert.Equal(t, []string{"/a", "/a/b", "/a/b/c"}, exited)
	})

	t.Run("past root", func(t *testing.T) {
		dir, exited, err := Ascend("/a/", -2)
		assert.ErrorIs(t, err, ErrAtRoot)
		assert.Equal(t, "/a/", dir)
		assert.Nil(t, exited)

		_, _, err = Ascend("/", -1)
		assert.ErrorIs(t, err, ErrAtRoot)
	})

	t.Run("non-negative levels", func(t *testing.T) {
		dir, exited, err := Ascend("/a/b/", 0)
		require.NoError(t, err)
		assert.Equal(t, "/a/b/", dir)
		assert.Empty(t, exited)
	})
}

func TestParent(t *testing.T) {
	assert.Equal(t, "/docs/", Parent("/docs/a.txt"))
	assert.Equal(t, "/docs/", Parent("/docs/sub/"))
	assert.Equal(t, "/", Parent("/a"))
}
