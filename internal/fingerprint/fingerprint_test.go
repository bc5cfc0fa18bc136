package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCompute_Deterministic(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "package.json")
	writeFile(t, manifest, `{"name":"demo"}`)
	writeFile(t, filepath.Join(dir, "src", "index.js"), "console.log(1)")
	writeFile(t, filepath.Join(dir, "src", "util.js"), "exports.x = 1")

	first, err := Compute([]string{manifest}, filepath.Join(dir, "src"))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Compute([]string{manifest}, filepath.Join(dir, "src"))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompute_HexFormat(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.json")
	writeFile(t, manifest, `{"a":1}`)

	digest, err := Compute([]string{manifest}, filepath.Join(dir, "no-src"))
	require.NoError(t, err)

	assert.Len(t, digest, 32)
	for _, c := range digest {
		ok := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		assert.True(t, ok, "non-hex character %q in digest", c)
	}
}

func TestCompute_ManifestByteChange(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.json")

	writeFile(t, manifest, `{"a":1}`)
	before, err := Compute([]string{manifest}, filepath.Join(dir, "no-src"))
	require.NoError(t, err)

	writeFile(t, manifest, `{"a":2}`)
	after, err := Compute([]string{manifest}, filepath.Join(dir, "no-src"))
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
	assert.Len(t, before, 32)
	assert.Len(t, after, 32)
}

func TestCompute_AbsentManifestContributesNothing(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "go.mod")
	writeFile(t, present, "module demo\n")
	missing := filepath.Join(dir, "package.json")

	withMissing, err := Compute([]string{present, missing}, dir)
	require.NoError(t, err)
	without, err := Compute([]string{present}, dir)
	require.NoError(t, err)

	assert.Equal(t, without, withMissing)
}

func TestCompute_SourceFileAddChangesDigest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "a.go"), "package a")

	before, err := Compute(nil, src)
	require.NoError(t, err)

	writeFile(t, filepath.Join(src, "b.go"), "package a")
	after, err := Compute(nil, src)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestCompute_SourceContentChangeIgnored(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "a.go"), "package a")

	before, err := Compute(nil, src)
	require.NoError(t, err)

	// Listing covers paths only, so rewriting a file in place is invisible.
	writeFile(t, filepath.Join(src, "a.go"), "package a // edited")
	after, err := Compute(nil, src)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestCompute_MissingSourceRootEqualsEmptyTree(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.json")
	writeFile(t, manifest, `{"a":1}`)

	emptyDir := filepath.Join(dir, "empty")
	require.NoError(t, os.MkdirAll(emptyDir, 0o755))

	fromMissing, err := Compute([]string{manifest}, filepath.Join(dir, "does-not-exist"))
	require.NoError(t, err)
	fromEmpty, err := Compute([]string{manifest}, emptyDir)
	require.NoError(t, err)

	assert.Equal(t, fromEmpty, fromMissing)
}

func TestCompute_SkipsVolatileSubtrees(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "a.go"), "package a")

	before, err := Compute(nil, src)
	require.NoError(t, err)

	// None of these may move the digest; in particular the tool's own
	// state dir would otherwise invalidate the cache it just wrote.
	writeFile(t, filepath.Join(src, ".git", "objects", "aa"), "blob")
	writeFile(t, filepath.Join(src, ".superagents", "cache", "00", "x.json"), "{}")
	writeFile(t, filepath.Join(src, "node_modules", "left-pad", "index.js"), "x")
	writeFile(t, filepath.Join(src, "vendor", "modules.txt"), "y")

	after, err := Compute(nil, src)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestCompute_UnwalkableSourceRootErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeFile(t, file, "not a directory")

	// A path beneath a regular file exists in no useful sense, but stat
	// reports ENOTDIR rather than ENOENT, which must surface as an error.
	_, err := Compute(nil, filepath.Join(file, "sub"))
	assert.Error(t, err)
}
