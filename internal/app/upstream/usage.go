// internal/app/upstream/usage.go
package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/strataroute/internal/app/system/timeline"
)

// UsageSummary is the proxy's aggregate view over one time window.
type UsageSummary struct {
	TotalRequests   int64   `json:"total_requests"`
	SuccessRequests int64   `json:"success_requests"`
	ErrorRequests   int64   `json:"error_requests"`
	InputTokens     int64   `json:"input_tokens"`
	OutputTokens    int64   `json:"output_tokens"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
	ActiveKeys      int     `json:"active_keys"`
	ActiveModels    int     `json:"active_models"`
}

// UsageQuery scopes a summary or series request. Bucket asks the proxy
// for a specific aggregation granularity ("hour", "day", or "" for the
// proxy's default). BucketMinutes requests sub-hour granularity.
type UsageQuery struct {
	Window        timeline.Window
	Bucket        string
	BucketMinutes int
}

func (q UsageQuery) values() url.Values {
	v := url.Values{}
	if q.Window.Valid() {
		for k, vals := range q.Window.QueryValues() {
			v[k] = vals
		}
	}
	if q.Bucket != "" {
		v.Set("bucket", q.Bucket)
	}
	if q.BucketMinutes > 0 {
		v.Set("bucket_minutes", strconv.Itoa(q.BucketMinutes))
	}
	return v
}

// UsageSeries is the bucketed timeline the proxy returns. Bucket and
// BucketMinutes echo the granularity the proxy actually used, which may
// differ from the requested one for long windows.
type UsageSeries struct {
	Buckets       []timeline.RawBucket `json:"buckets"`
	Bucket        string               `json:"bucket"`
	BucketMinutes int                  `json:"bucket_minutes"`
}

// Summary returns aggregate usage for the query window.
func (c *Client) Summary(ctx context.Context, q UsageQuery) (UsageSummary, error) {
	var out UsageSummary
	if err := c.do(ctx, http.MethodGet, "/v0/management/usage/summary", "usage", q.values(), nil, &out); err != nil {
		return UsageSummary{}, err
	}
	return out, nil
}

// Series returns the raw bucketed timeline for the query window. Bucket
// labels come back as strings in assorted formats; callers hand the
// result to the timeline package rather than parsing labels themselves.
func (c *Client) Series(ctx context.Context, q UsageQuery) (UsageSeries, error) {
	var out UsageSeries
	if err := c.do(ctx, http.MethodGet, "/v0/management/usage/series", "usage", q.values(), nil, &out); err != nil {
		return UsageSeries{}, err
	}
	return out, nil
}
