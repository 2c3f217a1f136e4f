package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/repository/sheetstore"
	"github.com/armadatrack/armada/internal/usecase/report"
)

// ReportHandler handles export and report requests
type ReportHandler struct {
	reportService *report.Service
	store         *sheetstore.Store
	logger        logger.Logger
}

// NewReportHandler creates a new handler
func NewReportHandler(reportService *report.Service, store *sheetstore.Store, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		store:         store,
		logger:        logger,
	}
}

// filterFromQuery reads the shared log filter parameters. Dates use the
// YYYY-MM-DD form; unparseable values are treated as absent.
func filterFromQuery(r *http.Request) report.Filter {
	q := r.URL.Query()
	f := report.Filter{Driver: q.Get("driver")}

	if t, err := time.Parse("2006-01-02", q.Get("startDate")); err == nil {
		f.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("endDate")); err == nil {
		f.EndDate = &t
	}
	return f
}

// ListLog returns the mutation log joined with vehicles, newest first
// GET /api/v1/mutations
func (h *ReportHandler) ListLog(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.Rows(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("Failed to list mutations", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rows,
	})
}

// ExportCSV streams the filtered mutation log as a CSV file
// GET /api/v1/mutations/export/csv
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.ExportCSV(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("Failed to export CSV", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	filename := fmt.Sprintf("laporan-mutasi-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportLogPDF streams the filtered mutation log as a PDF table
// GET /api/v1/mutations/export/pdf
func (h *ReportHandler) ExportLogPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.ExportLogPDF(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("Failed to export log PDF", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	filename := fmt.Sprintf("laporan-mutasi-%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportTripPDF streams the trip report form for one completed mutation
// GET /api/v1/mutations/{id}/pdf
func (h *ReportHandler) ExportTripPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, err := h.reportService.ExportTripPDF(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMutationNotFound) {
			respondError(w, http.StatusNotFound, "Trip not found")
			return
		}
		if errors.Is(err, domain.ErrMutationNotCompleted) {
			respondError(w, http.StatusConflict, "Trip is not completed")
			return
		}
		h.logger.Error("Failed to export trip PDF", map[string]interface{}{
			"error":       err.Error(),
			"mutation_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="laporan-perjalanan-`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ViewReport returns one trip joined with its vehicle. Public: this is the
// endpoint behind the QR code on the printed report.
// GET /reports/{id}
func (h *ReportHandler) ViewReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.reportService.View(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMutationNotFound) {
			respondError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Error("Failed to load report", map[string]interface{}{
			"error":       err.Error(),
			"mutation_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    row,
	})
}

// RefreshSnapshot re-fetches the backing store into the in-memory snapshot
// POST /api/v1/snapshot/refresh
func (h *ReportHandler) RefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Refresh(r.Context()); err != nil {
		h.logger.Error("Failed to refresh snapshot", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Snapshot refreshed",
	})
}
