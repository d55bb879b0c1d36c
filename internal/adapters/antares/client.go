package antares

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "lumen/internal/platform/errors"
	"lumen/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.antares.noirlab.edu/v1"
	defaultTimeout = 10 * time.Second
	defaultUA      = "lumen-fetch"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client is a minimal broker REST client
// retry policy belongs to the batch scheduler, not here
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("antares"),
		now:  time.Now,
	}
}

// Lookup resolves one identifier into its raw locus record
// classifies NotFound vs transport failures, decode failures are malformed
func (c *Client) Lookup(ctx context.Context, objectID string) (*Locus, error) {
	if objectID == "" {
		return nil, perr.InvalidArgf("empty object id")
	}
	u := c.opts.BaseURL + "/loci/" + url.PathEscape(objectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "antares new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)

	if err != nil {
		// covers dial errors, client timeouts, and ctx deadline expiry
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "antares lookup transport failed")
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("object_id", objectID).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("antares http response")

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, perr.NotFoundf("no locus for %s", objectID)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, perr.Unavailablef("antares unexpected status %d body %s", resp.StatusCode, string(body))
	}

	var loc Locus
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformedRecord, "antares locus decode failed")
	}
	if loc.ObjectID == "" {
		loc.ObjectID = objectID
	}
	return &loc, nil
}
