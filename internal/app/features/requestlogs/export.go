// internal/app/features/requestlogs/export.go
package requestlogs

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// exportPageSize pages through the upstream in large chunks; exportMaxRows
// caps the download so an unfiltered export cannot run away.
const (
	exportPageSize = 1000
	exportMaxRows  = 50000
)

// ServeExportCSV handles GET /request-logs/export.csv - download the current
// filtered view as CSV.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Export())
	defer cancel()

	settings := viewdata.GetSettings(ctx, h.DB)
	loc := settings.Location()

	lq, _ := parseQuery(r, exportPageSize, loc)
	lq.Page = 1

	filename := fmt.Sprintf("request_logs_%s.csv", time.Now().In(loc).Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	// UTF-8 BOM for Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.Log.Error("CSV write failed (BOM)", zap.Error(err))
		return
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	if err := cw.Write([]string{"time", "model", "provider", "key_prefix", "status_code", "success", "duration_ms", "input_tokens", "output_tokens", "error"}); err != nil {
		h.Log.Error("CSV write failed (header)", zap.Error(err))
		return
	}

	rows := 0
	for rows < exportMaxRows {
		page, err := h.Upstream.ListLogs(ctx, lq)
		if err != nil {
			h.ErrLog.Log(r, "fetch request logs for export failed", err)
			return
		}
		if len(page.Logs) == 0 {
			break
		}

		for _, l := range page.Logs {
			if err := cw.Write([]string{
				l.Time.In(loc).Format(time.RFC3339),
				sanitizeCSVField(l.Model),
				sanitizeCSVField(l.Provider),
				l.KeyPrefix,
				strconv.Itoa(l.StatusCode),
				strconv.FormatBool(l.Success),
				strconv.FormatInt(l.DurationMs, 10),
				strconv.FormatInt(l.InputTokens, 10),
				strconv.FormatInt(l.OutputTokens, 10),
				sanitizeCSVField(l.Error),
			}); err != nil {
				h.Log.Error("CSV write failed (row)", zap.Error(err))
				return
			}
			rows++
			if rows >= exportMaxRows {
				break
			}
		}

		if int64(lq.Page*lq.PageSize) >= page.Total {
			break
		}
		lq.Page++
	}

	h.Log.Info("request logs CSV exported", zap.Int("rows", rows))
}

// sanitizeCSVField prevents CSV formula injection.
func sanitizeCSVField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
