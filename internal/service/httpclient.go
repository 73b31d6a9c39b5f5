package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/utils"
)

var ErrTooLarge = errors.New("response exceeds size limit")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct {
	*http.Client
	UserAgent string
}

func NewHTTPClient(timeout time.Duration, userAgent string) *DefaultHTTPClient {
	return &DefaultHTTPClient{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (c *DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return c.Client.Do(req)
}

// DownloadBytes GETs url and returns the body, refusing bodies larger than
// maxSize when maxSize > 0.
func DownloadBytes(ctx context.Context, c HTTPClient, url string, maxSize int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer utils.Try(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var src io.Reader = resp.Body
	if maxSize > 0 {
		src = io.LimitReader(resp.Body, maxSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w (%s)", ErrTooLarge, utils.HumanSize(maxSize))
	}
	return data, nil
}

// Reachable sends a HEAD to url. Any HTTP answer below 500 counts as
// reachable; transport errors do not.
func Reachable(ctx context.Context, c HTTPClient, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		return false
	}
	resp, err := c.Do(req)
	if err != nil {
		return false
	}
	defer utils.Try(resp.Body.Close)
	return resp.StatusCode < http.StatusInternalServerError
}

// Fetcher downloads offline resources from BaseURL/<label>.
type Fetcher struct {
	Client   HTTPClient
	BaseURL  string
	MaxBytes int64
}

func (f *Fetcher) Fetch(ctx context.Context, label string) ([]byte, error) {
	u := strings.TrimRight(f.BaseURL, "/") + "/" + url.PathEscape(label)
	return DownloadBytes(ctx, f.Client, u, f.MaxBytes)
}
