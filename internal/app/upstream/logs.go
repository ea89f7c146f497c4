// internal/app/upstream/logs.go
package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/strataroute/internal/app/system/timeline"
)

// RequestLog is one routed request as recorded by the proxy.
type RequestLog struct {
	ID           string    `json:"id"`
	Time         time.Time `json:"time"`
	Model        string    `json:"model"`
	Provider     string    `json:"provider"`
	KeyPrefix    string    `json:"key_prefix"`
	StatusCode   int       `json:"status_code"`
	Success      bool      `json:"success"`
	DurationMs   int64     `json:"duration_ms"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	Error        string    `json:"error,omitempty"`
}

// LogQuery filters and pages the request log listing. A zero Window
// means no time filter. Status is "", "success", or "error".
type LogQuery struct {
	Window   timeline.Window
	Model    string
	Provider string
	Status   string
	Search   string
	Page     int
	PageSize int
}

// Values encodes the query for the management API. The same encoding is
// reused for the CSV export endpoint.
func (q LogQuery) Values() url.Values {
	v := url.Values{}
	if q.Window.Valid() {
		for k, vals := range q.Window.QueryValues() {
			v[k] = vals
		}
	}
	if q.Model != "" {
		v.Set("model", q.Model)
	}
	if q.Provider != "" {
		v.Set("provider", q.Provider)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// LogPage is one page of request logs plus the total match count.
type LogPage struct {
	Logs     []RequestLog `json:"logs"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// ListLogs returns one page of request logs matching q.
func (c *Client) ListLogs(ctx context.Context, q LogQuery) (LogPage, error) {
	var out LogPage
	if err := c.do(ctx, http.MethodGet, "/v0/management/request-logs", "logs", q.Values(), nil, &out); err != nil {
		return LogPage{}, err
	}
	return out, nil
}

// GetLog returns one request log by ID, or ErrNotFound.
func (c *Client) GetLog(ctx context.Context, id string) (RequestLog, error) {
	var out struct {
		Log RequestLog `json:"log"`
	}
	if err := c.do(ctx, http.MethodGet, "/v0/management/request-logs/"+id, "logs", nil, nil, &out); err != nil {
		return RequestLog{}, err
	}
	return out.Log, nil
}
