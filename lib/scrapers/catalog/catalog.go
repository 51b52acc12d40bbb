// Package catalog fetches the published leaderboard data files from
// the arena-catalog repository, used to seed an output file when no
// local copy exists yet.
package catalog

import (
	"context"
	"fmt"
	"time"

	"arenafeed/lib/scrapers/arena"
	"arenafeed/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("arenafeed.scrapers.catalog")

type Client struct {
	Http *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	// defaults to 60s
	Timeout time.Duration
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second * 60
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(timeout)
	client.SetRetryCount(1)
	client.SetRetryWaitTime(time.Millisecond * 1200)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.StatusCode() >= 500
	})

	telemetry.InstrumentResty(client, "arenafeed.scrapers.catalog.http")

	return &Client{Http: client}
}

// FetchFile downloads one data file (e.g. "leaderboard-text.json")
// from the catalog.
func (c *Client) FetchFile(ctx context.Context, filename string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "FetchFile")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(filename)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch catalog file")
		return nil, fmt.Errorf("%w: fetch catalog file %s: %s", arena.ErrNetwork, filename, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "catalog returned an error status")
		return nil, fmt.Errorf("%w: fetch catalog file %s: status %d", arena.ErrNetwork, filename, res.StatusCode())
	}
	return res.Body(), nil
}
