package texture

import (
	"archive/zip"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip creates a zip at path holding a PNG at member.
func writeZip(t *testing.T, path, member string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create(member)
	require.NoError(t, err)
	require.NoError(t, png.Encode(w, twoRows()))
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestSplitArchive(t *testing.T) {
	a, m, ok := splitArchive("assets/pack.zip#textures/Logo.png")
	require.True(t, ok)
	assert.Equal(t, "assets/pack.zip", a)
	assert.Equal(t, "textures/Logo.png", m)

	a, m, ok = splitArchive("https://x.test/Pack.ZIP#/a.png")
	require.True(t, ok)
	assert.Equal(t, "https://x.test/Pack.ZIP", a)
	assert.Equal(t, "a.png", m)

	_, _, ok = splitArchive("pack.zip#")
	assert.False(t, ok)
	_, _, ok = splitArchive("logo.png")
	assert.False(t, ok)
}

func TestFetchLocalArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "pack.zip")
	writeZip(t, zipPath, "textures/logo.png")
	cache := t.TempDir()

	got, err := Fetch(context.Background(), zipPath+"#textures/logo.png", cache)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", filepath.Base(got))

	img, err := Decode(got, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	again, err := Fetch(context.Background(), zipPath+"#textures/logo.png", cache)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = Fetch(context.Background(), zipPath+"#missing.png", cache)
	assert.True(t, errors.Is(err, ErrMemberNotFound))
}

func TestFetchLocalArchiveEdited(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	writeZip(t, zipPath, "logo.png")
	cache := t.TempDir()
	first, err := Fetch(context.Background(), zipPath+"#logo.png", cache)
	require.NoError(t, err)

	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("logo.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(w, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(zipPath, later, later))

	second, err := Fetch(context.Background(), zipPath+"#logo.png", cache)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	img, err := Decode(second, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestFetchRemoteArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	writeZip(t, zipPath, "logo.png")
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/zip")
		http.ServeFile(w, r, zipPath)
	}))
	defer srv.Close()

	cache := t.TempDir()
	for range 2 {
		got, err := Fetch(context.Background(), srv.URL+"/pack.zip#logo.png", cache)
		require.NoError(t, err)
		assert.FileExists(t, got)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestExtractMemberRefusesEscape(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	writeZip(t, zipPath, "logo.png")
	_, err := extractMember(zipPath, "../../etc/logo.png", t.TempDir())
	assert.ErrorContains(t, err, "escapes")
}
