package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-inventory/httpx"
	"github.com/diewo77/go-inventory/internal/services"
	"github.com/diewo77/go-inventory/report"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reports *services.ReportService
	now     func() time.Time
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// Download builds the report for the last ReportWindow and streams it as an attachment.
// The document is rendered into a per-request buffer so a failure never yields a partial file.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_format", r.URL.Query().Get("format"))
		return
	}
	now := h.now()
	rep, err := h.reports.Build(r.Context(), now)
	if err != nil {
		fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, rep, format); err != nil {
		zap.L().Error("render report", zap.String("format", string(format)), zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	zap.L().Info("report generated",
		zap.String("format", string(format)),
		zap.Int("rows", len(rep.Rows)),
		zap.Int("bytes", buf.Len()))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(now)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
