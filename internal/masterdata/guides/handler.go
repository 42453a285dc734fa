package guides

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/shared"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	internalShared "github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
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
	r.Post("/", h.create)
	r.Get("/resolve", h.resolve)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type guideRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

func (req guideRequest) toGuide() Guide {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return Guide{FullName: req.FullName, Phone: req.Phone, IsActive: active}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromQuery(r)
	result, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list guides", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"guides":     result,
		"pagination": internalShared.NewPagination(filters.Page, filters.PageSize(), total),
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	guide, err := h.service.ResolveByName(r.Context(), name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guide)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid guide id")
		return
	}
	guide, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guide)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req guideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	created, err := h.service.Create(r.Context(), req.toGuide())
	if err != nil {
		h.logger.Error("create guide", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid guide id")
		return
	}
	var req guideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Update(r.Context(), id, req.toGuide()); err != nil {
		h.logger.Error("update guide", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid guide id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete guide", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
