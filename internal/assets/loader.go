package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ResourceLoadError reports a resource that could not be fetched. Status is
// the HTTP status, 404 for a missing local file, or 0 when no status applies.
type ResourceLoadError struct {
	URL    string
	Status int
	Err    error
}

func (e *ResourceLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error loading %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("error loading %s: HTTP status %d", e.URL, e.Status)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// Loader fetches resources by reference. References are http(s) URLs or
// file paths; relative ones resolve against Base, which may itself be a URL
// or a directory.
type Loader struct {
	Base   string
	Client *http.Client
}

// NewLoader returns a Loader resolving against base
func NewLoader(base string) *Loader {
	return &Loader{Base: base, Client: http.DefaultClient}
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolve returns the absolute location a reference points at
func (l *Loader) Resolve(ref string) string {
	if isURL(ref) || filepath.IsAbs(ref) {
		return ref
	}
	if isURL(l.Base) {
		base, err := url.Parse(l.Base)
		if err != nil {
			return ref
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(rel).String()
	}
	return filepath.Join(l.Base, ref)
}

// Fetch reads the full contents of a resource
func (l *Loader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	location := l.Resolve(ref)
	if isURL(location) {
		return l.fetchHTTP(ctx, location)
	}
	return fetchFile(ctx, location)
}

func (l *Loader) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &ResourceLoadError{URL: location, Err: err}
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &ResourceLoadError{URL: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResourceLoadError{URL: location, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ResourceLoadError{URL: location, Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

func fetchFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ResourceLoadError{URL: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ResourceLoadError{URL: path, Status: http.StatusNotFound}
	}
	if err != nil {
		return nil, &ResourceLoadError{URL: path, Err: err}
	}
	return data, nil
}

// LoadText fetches a text resource such as shader source
func (l *Loader) LoadText(ctx context.Context, ref string) (string, error) {
	data, err := l.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	log.Printf("assets: loaded %s (%d bytes)", ref, len(data))
	return string(data), nil
}
