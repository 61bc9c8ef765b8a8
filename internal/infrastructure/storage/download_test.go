package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPDownloader_DownloadURLToPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "images", "tEkCb69.jpg")
	d := NewHTTPDownloader(time.Second, nil)
	require.NoError(t, d.DownloadURLToPath(context.Background(), srv.URL+"/tEkCb69.jpg", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestHTTPDownloader_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "missing.jpg")
	err := NewHTTPDownloader(time.Second, nil).DownloadURLToPath(context.Background(), srv.URL, path)
	require.Error(t, err)
	require.NoFileExists(t, path)
}
