package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cayasync/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Invoice #42/2024.pdf", "Invoice__42_2024.pdf"},
		{"plain-name_1.pdf", "plain-name_1.pdf"},
		{"doc1_2024-01-01T00_00_00Z.pdf", "doc1_2024-01-01T00_00_00Z.pdf"},
		{"über rechnung.pdf", "_ber_rechnung.pdf"},
		{"", ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, SanitizeFilename(test.input))
	}
}

func TestFetch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/sync")
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "session=s1; ", r.Header.Get("Cookie"))
		fmt.Fprint(w, "%PDF-1.4 fake")
	}))
	defer srv.Close()

	destDir := t.TempDir()
	fetcher := NewFetcher(destDir)

	dest, err := fetcher.Fetch(context.Background(), srv.URL+"/doc", "Invoice #42/2024.pdf", "session=s1; ")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(destDir, "Invoice__42_2024.pdf"), dest)

	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 fake", string(contents))
}

func TestFetchOverwrites(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/sync")
	defer cleanup()

	body := "first"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	destDir := t.TempDir()
	fetcher := NewFetcher(destDir)

	_, err := fetcher.Fetch(context.Background(), srv.URL, "a.pdf", "")
	require.NoError(t, err)

	body = "second"
	dest, err := fetcher.Fetch(context.Background(), srv.URL, "a.pdf", "")
	require.NoError(t, err)

	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "second", string(contents))
}

func TestFetchErrorStatus(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/sync")
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired signature", http.StatusForbidden)
	}))
	defer srv.Close()

	destDir := t.TempDir()
	fetcher := NewFetcher(destDir)

	_, err := fetcher.Fetch(context.Background(), srv.URL, "a.pdf", "")
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(destDir, "a.pdf"))
}
