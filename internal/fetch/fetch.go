package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/pagechat/internal/extract"
)

// DefaultTimeout bounds a single page request when Client.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Client retrieves a single page and hands the body to an Extractor.
// There are no retries and no caching: every Scrape is one GET.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds the whole request including reading the body.
	// Zero means DefaultTimeout.
	Timeout time.Duration
	// Extractor defaults to extract.DOMExtractor.
	Extractor extract.Extractor
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.timeout()}
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Client) extractor() extract.Extractor {
	if c.Extractor != nil {
		return c.Extractor
	}
	return extract.DOMExtractor{}
}

// Scrape fetches rawURL and extracts its structured content. Every failure,
// including a panic raised while extracting, is returned as a *Error.
func (c *Client) Scrape(ctx context.Context, rawURL string) (doc extract.Document, err error) {
	body, _, err := c.Get(ctx, rawURL)
	if err != nil {
		return extract.Document{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			doc = extract.Document{}
			err = &Error{URL: rawURL, Kind: KindUnexpected, Err: fmt.Errorf("%v", r)}
		}
	}()
	doc = c.extractor().Extract(body)
	log.Debug().
		Str("url", rawURL).
		Str("title", doc.Title).
		Int("headings", doc.HeadingCount()).
		Int("paragraphs", len(doc.Paragraphs)).
		Msg("page extracted")
	return doc, nil
}

// Get issues a single GET and returns the body decoded to UTF-8 together with
// the response content type.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	timeout := c.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &Error{URL: rawURL, Kind: KindNetwork, Err: fmt.Errorf("new request: %w", err)}
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(req.URL) {
		return nil, "", &Error{URL: rawURL, Kind: KindNetwork, Err: fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, "", classify(rawURL, timeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &Error{URL: rawURL, Kind: KindStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	contentType := resp.Header.Get("Content-Type")
	r, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		// Unknown charset label: fall back to the raw bytes
		r = resp.Body
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, "", classify(rawURL, timeout, fmt.Errorf("read body: %w", err))
	}
	log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(b)).
		Dur("elapsed", time.Since(start)).
		Msg("page fetched")
	return b, contentType, nil
}

func classify(rawURL string, timeout time.Duration, err error) *Error {
	e := &Error{URL: rawURL, Kind: KindNetwork, Err: err}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		e.Kind = KindTimeout
		e.Timeout = timeout
	}
	return e
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
