package reconciliation

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/export.csv", h.exportCSV)
}

func filtersFromQuery(r *http.Request) Filters {
	q := r.URL.Query()
	var filters Filters
	if from, err := time.Parse("2006-01-02", q.Get("date_from")); err == nil {
		filters.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("date_to")); err == nil {
		filters.DateTo = &to
	}
	if companyID, err := strconv.ParseInt(q.Get("company_id"), 10, 64); err == nil && companyID > 0 {
		filters.CompanyID = &companyID
	}
	if storeID, err := strconv.ParseInt(q.Get("store_id"), 10, 64); err == nil && storeID > 0 {
		filters.StoreID = &storeID
	}
	return filters
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context(), filtersFromQuery(r))
	if err != nil {
		if !errors.Is(err, ErrViewUnavailable) {
			h.logger.Error("list reconciliation", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rows": rows, "available": true})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), filtersFromQuery(r))
	if err != nil {
		if errors.Is(err, ErrViewUnavailable) {
			httpx.JSON(w, http.StatusServiceUnavailable, Summary{Available: false})
			return
		}
		h.logger.Error("reconciliation summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context(), filtersFromQuery(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bildirim_karsilastirma.csv"`)

	cw := csv.NewWriter(w)
	header := []string{
		"satis_id", "satis_tarihi", "firma", "magaza", "urun",
		"magaza_adet", "magaza_tutar", "rehber_adet", "rehber_tutar",
		"fark", "durum",
	}
	if err := cw.Write(header); err != nil {
		h.logger.Error("write csv header", slog.Any("error", err))
		return
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.SaleID, 10),
			row.SaleDate.Format("2006-01-02"),
			row.CompanyName,
			row.StoreName,
			row.ProductName,
			strconv.Itoa(row.StoreCount),
			row.StoreAmount.StringFixed(2),
			strconv.Itoa(row.GuideCount),
			row.GuideAmount.StringFixed(2),
			row.AmountDelta.StringFixed(2),
			row.Status,
		}
		if err := cw.Write(record); err != nil {
			h.logger.Error("write csv row", slog.Any("error", err))
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("flush csv", slog.Any("error", err))
	}
}
