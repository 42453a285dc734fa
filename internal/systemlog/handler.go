package systemlog

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
)

// Handler exposes admin endpoints for the system log.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
}

// NewHandler constructs a handler.
func NewHandler(logger *slog.Logger, repo *Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes attaches system log routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/", h.bulkDelete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	entries, total, err := h.repo.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("list system logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("before")
	cutoff := time.Now().AddDate(0, -3, 0)
	if raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "before must be RFC3339")
			return
		}
		cutoff = parsed
	}

	deleted, err := h.repo.DeleteBefore(r.Context(), cutoff)
	if err != nil {
		h.logger.Error("bulk delete system logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
