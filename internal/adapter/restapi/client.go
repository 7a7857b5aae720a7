// Package restapi stores issues, contributions and users in the original
// REST backend. Field names on the wire follow that backend (_id, image,
// amount, date, email, name).
package restapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"civicfund/internal/domain"
)

// Client wraps the HTTP transport. Timeouts live here; the core never retries.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: c, logger: logger}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// check maps a transport result to the domain error vocabulary.
func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("backend request failed")
		return &domain.TransportError{Op: op, Err: err}
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case code >= 400:
		c.logger.Warn().Int("status", code).Str("op", op).Msg("backend rejected request")
		return &domain.TransportError{Op: op, Err: fmt.Errorf("backend status %d", code)}
	}
	return nil
}

type insertResult struct {
	InsertedID   string `json:"insertedId"`
	Acknowledged bool   `json:"acknowledged"`
	Message      string `json:"message"`
}
