package sales

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/rbac"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes expects the caller to have applied authentication middleware.
// All routes admit guides; the service scopes guide reads to their own sales
// and pins guide writes to their own registry entry.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)

	r.Get("/{id}/guide-items", h.listGuideItems)
	r.Put("/{id}/guide-items", h.replaceGuideItems)
	r.Delete("/guide-items/{itemID}", h.deleteGuideItem)
	r.Put("/guide-items/{itemID}/status", h.updateGuideItemStatus)

	r.Get("/{id}/store-items", h.listStoreItems)
	r.Put("/{id}/store-items", h.replaceStoreItems)
}

type saleRequest struct {
	SaleDate   string `json:"sale_date"`
	CompanyID  int64  `json:"company_id"`
	StoreID    int64  `json:"store_id"`
	OperatorID int64  `json:"operator_id"`
	TourID     int64  `json:"tour_id"`
	GuideID    int64  `json:"guide_id"`
	GroupPax   int    `json:"group_pax"`
	StorePax   int    `json:"store_pax"`
}

func (req saleRequest) toSale() (Sale, error) {
	date, err := time.Parse("2006-01-02", req.SaleDate)
	if err != nil {
		return Sale{}, err
	}
	return Sale{
		SaleDate:   date,
		CompanyID:  req.CompanyID,
		StoreID:    req.StoreID,
		OperatorID: req.OperatorID,
		TourID:     req.TourID,
		GuideID:    req.GuideID,
		GroupPax:   req.GroupPax,
		StorePax:   req.StorePax,
	}, nil
}

type guideItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Status    string          `json:"status"`
	Note      string          `json:"note"`
}

type storeItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func filtersFromQuery(r *http.Request) Filters {
	q := r.URL.Query()
	var filters Filters
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if from, err := time.Parse("2006-01-02", q.Get("date_from")); err == nil {
		filters.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("date_to")); err == nil {
		filters.DateTo = &to
	}
	if storeID, err := strconv.ParseInt(q.Get("store_id"), 10, 64); err == nil && storeID > 0 {
		filters.StoreID = &storeID
	}
	if guideID, err := strconv.ParseInt(q.Get("guide_id"), 10, 64); err == nil && guideID > 0 {
		filters.GuideID = &guideID
	}
	return filters
}

func actorOrUnauthorized(w http.ResponseWriter, r *http.Request) (rbac.Actor, bool) {
	actor := rbac.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return rbac.Actor{}, false
	}
	return *actor, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	filters := filtersFromQuery(r)
	result, total, err := h.service.List(r.Context(), actor, filters)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"sales":      result,
		"pagination": shared.NewPagination(page, filters.pageSize(), total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	sale, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req saleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	sale, err := req.toSale()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "sale_date must be YYYY-MM-DD")
		return
	}
	created, err := h.service.Create(r.Context(), actor, sale)
	if err != nil {
		h.logger.Error("create sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	var req saleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	sale, err := req.toSale()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "sale_date must be YYYY-MM-DD")
		return
	}
	if err := h.service.Update(r.Context(), actor, id, sale); err != nil {
		h.logger.Error("update sale", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.logger.Error("delete sale", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	var guideID int64
	if raw := r.URL.Query().Get("guide_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid guide id")
			return
		}
		guideID = parsed
	}
	summary, err := h.service.GuideSummary(r.Context(), actor, guideID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) listGuideItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	items, err := h.service.GuideItems(r.Context(), actor, saleID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) replaceGuideItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	var reqs []guideItemRequest
	if err := httpx.DecodeJSON(r, &reqs); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	items := make([]GuideItem, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, GuideItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
			Status:    req.Status,
			Note:      req.Note,
		})
	}
	if err := h.service.ReplaceGuideItems(r.Context(), actor, saleID, items); err != nil {
		h.logger.Error("replace guide items", slog.Any("error", err), slog.Int64("sale_id", saleID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) deleteGuideItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}
	if err := h.service.DeleteGuideItem(r.Context(), actor, itemID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) updateGuideItemStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.UpdateGuideItemStatus(r.Context(), actor, itemID, req.Status); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listStoreItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	items, err := h.service.StoreItems(r.Context(), actor, saleID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) replaceStoreItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	var reqs []storeItemRequest
	if err := httpx.DecodeJSON(r, &reqs); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	items := make([]StoreItem, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, StoreItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
		})
	}
	if err := h.service.ReplaceStoreItems(r.Context(), actor, saleID, items); err != nil {
		h.logger.Error("replace store items", slog.Any("error", err), slog.Int64("sale_id", saleID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
