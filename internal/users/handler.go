package users

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/odyssey-erp/todo/internal/access"
	"github.com/odyssey-erp/todo/internal/platform/httpx"
	"github.com/odyssey-erp/todo/internal/shared"
)

// Access declarations for user endpoints.
var (
	OpListUsers     = access.Declare("users.list", access.Admin)
	OpGetUser       = access.Declare("users.get", access.Self|access.Admin)
	OpUpdateProfile = access.Declare("users.update_profile", access.Self)
)

const profileDTOArg = "updateProfileDto"

// RegisterSubjects adds the user DTOs that carry a subject id to registry.
func RegisterSubjects(registry *access.Registry) {
	access.RegisterSubject(registry, func(d UpdateProfileDTO) uuid.UUID { return d.UserID })
}

// Handler manages user endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *access.Gate
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *access.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, gate: gate, validator: shared.NewValidator()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.gate.Handler(access.Endpoint{Operation: OpListUsers, Handle: h.listUsers}))
	r.Put("/profile", h.gate.Handler(access.Endpoint{Operation: OpUpdateProfile, Bind: h.bindProfile, Handle: h.updateProfile}))
	r.Get("/{userId}", h.gate.Handler(access.Endpoint{Operation: OpGetUser, Bind: bindUserID, Handle: h.getUser}))
}

func bindUserID(r *http.Request) (access.Args, error) {
	id, err := uuid.Parse(chi.URLParam(r, access.SubjectParam))
	if err != nil {
		return nil, fmt.Errorf("%w: userId must be a UUID", shared.ErrInvalidInput)
	}
	return access.Args{{Name: access.SubjectParam, Value: id}}, nil
}

func (h *Handler) bindProfile(r *http.Request) (access.Args, error) {
	var dto UpdateProfileDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		return nil, err
	}
	if err := h.validator.Struct(dto); err != nil {
		return nil, shared.ValidationError(err)
	}
	return access.Args{{Name: profileDTOArg, Value: dto}}, nil
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, _ access.Args) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("perPage"))
	result, err := h.service.ListUsers(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, args access.Args) {
	raw, _ := args.Lookup(access.SubjectParam)
	user, err := h.service.GetUser(r.Context(), raw.(uuid.UUID))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request, args access.Args) {
	raw, _ := args.Lookup(profileDTOArg)
	user, err := h.service.UpdateProfile(r.Context(), raw.(UpdateProfileDTO))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("update profile failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
