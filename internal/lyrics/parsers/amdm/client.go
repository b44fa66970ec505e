package amdm

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/sukalov/hibiki/internal/logger"
	"github.com/sukalov/hibiki/internal/utils/e"
)

// maxPageSize caps how much of a song page is read. Real pages are well
// under a megabyte.
const maxPageSize = 4 << 20

const (
	fetchTimeout = 30 * time.Second
	browserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// mirrorHosts maps amdm.ru mirrors to the host that serves the full page.
var mirrorHosts = map[string]string{
	"123.amdm.ru": "amdm.ru",
	"m.amdm.ru":   "amdm.ru",
	"www.amdm.ru": "amdm.ru",
}

// StatusError is returned when a song page answers with anything but 200.
type StatusError struct {
	URL  string
	Code int
}

func (se *StatusError) Error() string {
	return fmt.Sprintf("song page %s answered %d %s", se.URL, se.Code, http.StatusText(se.Code))
}

// Client downloads song pages.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
				// gzip is negotiated by hand below
				DisableCompression: true,
			},
		},
		userAgent: browserAgent,
	}
}

// FetchPage returns the HTML of the song page at rawURL.
func (c *Client) FetchPage(ctx context.Context, rawURL string) (page string, err error) {
	pageURL := canonicalURL(rawURL)
	defer func() {
		if err != nil {
			logger.Warn(fmt.Sprintf("song page %s not fetched: %v", pageURL, err))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", e.Wrap("bad song page url", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "ru,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", e.Wrap("song page request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: pageURL, Code: resp.StatusCode}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", err
	}
	defer body.Close()

	html, err := io.ReadAll(io.LimitReader(body, maxPageSize))
	if err != nil {
		return "", e.Wrap("song page read failed", err)
	}
	return string(html), nil
}

func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	if !strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.NopCloser(resp.Body), nil
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, e.Wrap("song page is not valid gzip", err)
	}
	return zr, nil
}

// canonicalURL points mirror links at the main site. Anything that does not
// parse is returned unchanged and fails in the request.
func canonicalURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	if host, ok := mirrorHosts[u.Hostname()]; ok {
		u.Host = host
		if u.Scheme == "http" {
			u.Scheme = "https"
		}
	}
	return u.String()
}
