package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetDailyCounts(w http.ResponseWriter, r *http.Request)
	ListManualEntries(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetDailyCounts implements ReportHandler.
func (h *reportHandlerImpl) GetDailyCounts(w http.ResponseWriter, r *http.Request) {
	req := report.DailyCountsRequest{
		BranchID: r.URL.Query().Get("branch_id"),
		Date:     r.URL.Query().Get("date"),
	}

	result, err := h.reportService.GetDailyCounts(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListManualEntries implements ReportHandler.
func (h *reportHandlerImpl) ListManualEntries(w http.ResponseWriter, r *http.Request) {
	filter := parseRecordFilter(r)

	results, err := h.reportService.ListManualEntries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
