package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"cayasync/lib/scrapers/caya"
	"cayasync/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-]
// with '_' so any portal-supplied name is safe on the filesystem.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// Fetcher downloads pre-signed document urls into a destination
// directory. The urls carry their own signature, only the session's
// cookie header is attached.
type Fetcher struct {
	http    *resty.Client
	destDir string
}

func NewFetcher(destDir string) *Fetcher {
	client := resty.New()
	client.SetHeader("user-agent", caya.UserAgent)
	client.SetTimeout(time.Minute * 2)

	telemetry.InstrumentResty(client, "services/sync/fetch")

	return &Fetcher{
		http:    client,
		destDir: destDir,
	}
}

// Fetch downloads one document and writes it to destDir under the
// sanitized filename, overwriting any existing file of that name. It
// returns the path written.
func (f *Fetcher) Fetch(ctx context.Context, url, filename, cookieHeader string) (string, error) {
	dest := filepath.Join(f.destDir, SanitizeFilename(filename))

	req := f.http.R().SetContext(ctx)
	if cookieHeader != "" {
		req.SetHeader("cookie", cookieHeader)
	}
	res, err := req.Get(url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("download %s: unexpected status %d", url, res.StatusCode())
	}

	err = os.WriteFile(dest, res.Body(), 0644)
	if err != nil {
		return "", err
	}
	return dest, nil
}
