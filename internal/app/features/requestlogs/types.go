// internal/app/features/requestlogs/types.go
package requestlogs

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/strataroute/internal/app/system/timeline"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
)

// LogVM is the view model for a single request log row.
type LogVM struct {
	ID           string
	Time         string
	Model        string
	Provider     string
	KeyPrefix    string
	StatusCode   int
	Success      bool
	DurationMs   int64
	InputTokens  int64
	OutputTokens int64
	Error        string
}

// FilterVM echoes the active filters back into the form.
type FilterVM struct {
	Start    string // date, YYYY-MM-DD
	End      string
	Model    string
	Provider string
	Status   string // "", "success", "error"
	Search   string
}

// ListVM is the request log list page.
type ListVM struct {
	viewdata.BaseVM
	Logs   []LogVM
	Filter FilterVM

	Total      int64
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
	ExportURL  string
}

// DetailVM is the request log detail page.
type DetailVM struct {
	viewdata.BaseVM
	Log LogVM
}

func toLogVM(l upstream.RequestLog, loc *time.Location) LogVM {
	return LogVM{
		ID:           l.ID,
		Time:         l.Time.In(loc).Format("2006-01-02 15:04:05"),
		Model:        l.Model,
		Provider:     l.Provider,
		KeyPrefix:    l.KeyPrefix,
		StatusCode:   l.StatusCode,
		Success:      l.Success,
		DurationMs:   l.DurationMs,
		InputTokens:  l.InputTokens,
		OutputTokens: l.OutputTokens,
		Error:        l.Error,
	}
}

// parseQuery builds the upstream query from the request's filter params.
// Dates are whole days in loc; the end date is inclusive.
func parseQuery(r *http.Request, pageSize int, loc *time.Location) (upstream.LogQuery, FilterVM) {
	q := r.URL.Query()
	f := FilterVM{
		Start:    q.Get("start"),
		End:      q.Get("end"),
		Model:    q.Get("model"),
		Provider: q.Get("provider"),
		Status:   q.Get("status"),
		Search:   q.Get("q"),
	}
	if f.Status != "success" && f.Status != "error" {
		f.Status = ""
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	lq := upstream.LogQuery{
		Model:    f.Model,
		Provider: f.Provider,
		Status:   f.Status,
		Search:   f.Search,
		Page:     page,
		PageSize: pageSize,
	}

	var start, end time.Time
	if t, err := time.ParseInLocation("2006-01-02", f.Start, loc); err == nil {
		start = t
	}
	if t, err := time.ParseInLocation("2006-01-02", f.End, loc); err == nil {
		end = t.Add(24*time.Hour - time.Millisecond)
	}
	w := timeline.Window{Start: start, End: end}
	if w.Valid() {
		lq.Window = w
	}

	return lq, f
}

// pageURL rebuilds the list URL for a different page, keeping all filters.
func pageURL(f FilterVM, page int) string {
	v := url.Values{}
	if f.Start != "" {
		v.Set("start", f.Start)
	}
	if f.End != "" {
		v.Set("end", f.End)
	}
	if f.Model != "" {
		v.Set("model", f.Model)
	}
	if f.Provider != "" {
		v.Set("provider", f.Provider)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/request-logs"
	}
	return "/request-logs?" + v.Encode()
}

// exportURL is the CSV download link for the current filters.
func exportURL(f FilterVM) string {
	u := pageURL(f, 1)
	if u == "/request-logs" {
		return "/request-logs/export.csv"
	}
	return "/request-logs/export.csv?" + u[len("/request-logs?"):]
}
