package dataset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/pkg/types"
)

// Loader produces a fresh Dataset on every call.
type Loader interface {
	Load(ctx context.Context) (types.Dataset, error)
	// Source describes where the data comes from, for logs and health output.
	Source() string
}

// New returns a FileLoader or an HTTPLoader depending on the source.
func New(cfg config.DatasetConfig) Loader {
	if cfg.IsRemote() {
		return NewHTTPLoader(cfg.Source, cfg.Headers(), cfg.RequestTimeout)
	}
	return &FileLoader{Path: cfg.Source}
}

// FileLoader reads a snapshot from the local filesystem.
type FileLoader struct {
	Path string
}

func (l *FileLoader) Source() string { return l.Path }

func (l *FileLoader) Load(ctx context.Context) (types.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return types.Dataset{}, err
	}
	f, err := os.Open(l.Path)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("dataset: open %s: %w", l.Path, err)
	}
	defer f.Close()
	return Decode(f)
}

// HTTPLoader fetches a snapshot from an HTTP endpoint.
type HTTPLoader struct {
	url    string
	client *resty.Client
}

// NewHTTPLoader creates an HTTPLoader that sends headers on every request.
// A zero timeout falls back to config.DefaultRequestTimeout.
func NewHTTPLoader(url string, headers map[string]string, timeout time.Duration) *HTTPLoader {
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeaders(headers)
	return &HTTPLoader{url: url, client: client}
}

func (l *HTTPLoader) Source() string { return l.url }

func (l *HTTPLoader) Load(ctx context.Context) (types.Dataset, error) {
	resp, err := l.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(l.url)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("dataset: fetch %s: %w", l.url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return types.Dataset{}, fmt.Errorf("dataset: fetch %s: status %d", l.url, resp.StatusCode())
	}
	return Decode(body)
}
