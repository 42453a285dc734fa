package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

// Handler wires admin HTTP endpoints for user provisioning.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers user provisioning routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/admins", h.createAdmin)
	r.Post("/guides", h.createGuideAccount)
	r.Get("/guides/linked", h.linkedGuides)
	r.Delete("/guides/{guideID}", h.removeGuideAccount)
	r.Post("/guides/{guideID}/reset-password", h.resetGuidePassword)
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type createGuideAccountRequest struct {
	GuideID  int64  `json:"guide_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		h.logger.Error("create user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) createAdmin(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	req.Role = "admin"
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.CreateAdmin(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.logger.Error("create admin", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) createGuideAccount(w http.ResponseWriter, r *http.Request) {
	var req createGuideAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.CreateGuideAccount(r.Context(), req.GuideID, req.Email, req.Password, req.FullName)
	if err != nil {
		h.logger.Error("create guide account", slog.Any("error", err), slog.Int64("guide_id", req.GuideID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) linkedGuides(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.LinkedGuideIDs(r.Context())
	if err != nil {
		h.logger.Error("linked guides", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"guide_ids": ids})
}

func (h *Handler) removeGuideAccount(w http.ResponseWriter, r *http.Request) {
	guideID, err := strconv.ParseInt(chi.URLParam(r, "guideID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid guide id")
		return
	}

	if err := h.service.RemoveGuideAccount(r.Context(), guideID); err != nil {
		if errors.Is(err, ErrInconsistentState) {
			h.logger.Error("guide account removal left orphan identity", slog.Any("error", err), slog.Int64("guide_id", guideID))
			httpx.Problem(w, http.StatusInternalServerError, "Inconsistent State", err.Error())
			return
		}
		h.logger.Error("remove guide account", slog.Any("error", err), slog.Int64("guide_id", guideID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) resetGuidePassword(w http.ResponseWriter, r *http.Request) {
	guideID, err := strconv.ParseInt(chi.URLParam(r, "guideID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid guide id")
		return
	}
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.ResetGuidePassword(r.Context(), guideID, req.Password); err != nil {
		h.logger.Error("reset guide password", slog.Any("error", err), slog.Int64("guide_id", guideID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
