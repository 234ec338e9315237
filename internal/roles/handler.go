package roles

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/odyssey-erp/todo/internal/access"
	"github.com/odyssey-erp/todo/internal/platform/httpx"
	"github.com/odyssey-erp/todo/internal/shared"
)

// Access declarations for role endpoints. Reads are public, writes need Admin.
var (
	OpGetAllWithoutID = access.Declare("roles.get_all_without_id", access.Everyone)
	OpGetAllWithID    = access.Declare("roles.get_all_with_id", access.Everyone)
	OpGetIDByName     = access.Declare("roles.get_id_by_name", access.Everyone)
	OpGetNameByID     = access.Declare("roles.get_name_by_id", access.Everyone)
	OpCreate          = access.Declare("roles.create", access.Admin)
	OpUpdateByID      = access.Declare("roles.update_by_id", access.Admin)
	OpUpdateByOldName = access.Declare("roles.update_by_old_name", access.Admin)
	OpDeleteByID      = access.Declare("roles.delete_by_id", access.Admin)
	OpDeleteByName    = access.Declare("roles.delete_by_name", access.Admin)
)

const (
	argName = "name"
	argID   = "id"
	argDTO  = "roleDto"
)

// Handler manages role management endpoints.
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

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/without-id", h.gate.Handler(access.Endpoint{Operation: OpGetAllWithoutID, Handle: h.getAllWithoutID}))
	r.Get("/with-id", h.gate.Handler(access.Endpoint{Operation: OpGetAllWithID, Handle: h.getAllWithID}))
	r.Get("/id", h.gate.Handler(access.Endpoint{Operation: OpGetIDByName, Bind: bindName, Handle: h.getIDByName}))
	r.Get("/name", h.gate.Handler(access.Endpoint{Operation: OpGetNameByID, Bind: bindID, Handle: h.getNameByID}))
	r.Post("/", h.gate.Handler(access.Endpoint{Operation: OpCreate, Bind: bindBody[WithoutIDDTO](h.validator), Handle: h.create}))
	r.Put("/by-id", h.gate.Handler(access.Endpoint{Operation: OpUpdateByID, Bind: bindBody[WithIDDTO](h.validator), Handle: h.updateByID}))
	r.Put("/by-name", h.gate.Handler(access.Endpoint{Operation: OpUpdateByOldName, Bind: bindBody[UpdateByOldNameDTO](h.validator), Handle: h.updateByOldName}))
	r.Delete("/by-id", h.gate.Handler(access.Endpoint{Operation: OpDeleteByID, Bind: bindID, Handle: h.deleteByID}))
	r.Delete("/by-name", h.gate.Handler(access.Endpoint{Operation: OpDeleteByName, Bind: bindName, Handle: h.deleteByName}))
}

func bindName(r *http.Request) (access.Args, error) {
	name := r.URL.Query().Get(argName)
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: please enter a name", shared.ErrInvalidInput)
	}
	return access.Args{{Name: argName, Value: name}}, nil
}

func bindID(r *http.Request) (access.Args, error) {
	id, err := uuid.Parse(r.URL.Query().Get(argID))
	if err != nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: please enter an id", shared.ErrInvalidInput)
	}
	return access.Args{{Name: argID, Value: id}}, nil
}

func bindBody[T any](v *validator.Validate) access.Binder {
	return func(r *http.Request) (access.Args, error) {
		var dto T
		if err := httpx.DecodeJSON(r, &dto); err != nil {
			return nil, err
		}
		if err := v.Struct(dto); err != nil {
			return nil, shared.ValidationError(err)
		}
		return access.Args{{Name: argDTO, Value: dto}}, nil
	}
}

func arg[T any](args access.Args, name string) T {
	v, _ := args.Lookup(name)
	typed, _ := v.(T)
	return typed
}

func (h *Handler) getAllWithoutID(w http.ResponseWriter, r *http.Request, _ access.Args) {
	roles, err := h.service.GetAllWithoutID(r.Context())
	h.respond(w, "get all roles", roles, err)
}

func (h *Handler) getAllWithID(w http.ResponseWriter, r *http.Request, _ access.Args) {
	roles, err := h.service.GetAllWithID(r.Context())
	h.respond(w, "get all roles", roles, err)
}

func (h *Handler) getIDByName(w http.ResponseWriter, r *http.Request, args access.Args) {
	id, err := h.service.GetIDByName(r.Context(), arg[string](args, argName))
	h.respond(w, "get role id", id, err)
}

func (h *Handler) getNameByID(w http.ResponseWriter, r *http.Request, args access.Args) {
	name, err := h.service.GetNameByID(r.Context(), arg[uuid.UUID](args, argID))
	h.respond(w, "get role name", name, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, args access.Args) {
	role, err := h.service.Create(r.Context(), arg[WithoutIDDTO](args, argDTO))
	h.respond(w, "create role", role, err)
}

func (h *Handler) updateByID(w http.ResponseWriter, r *http.Request, args access.Args) {
	role, err := h.service.UpdateByID(r.Context(), arg[WithIDDTO](args, argDTO))
	h.respond(w, "update role", role, err)
}

func (h *Handler) updateByOldName(w http.ResponseWriter, r *http.Request, args access.Args) {
	role, err := h.service.UpdateByOldName(r.Context(), arg[UpdateByOldNameDTO](args, argDTO))
	h.respond(w, "update role", role, err)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, args access.Args) {
	err := h.service.DeleteByID(r.Context(), arg[uuid.UUID](args, argID))
	h.respond(w, "delete role", httpx.MessageBody{Message: "Role has been deleted"}, err)
}

func (h *Handler) deleteByName(w http.ResponseWriter, r *http.Request, args access.Args) {
	err := h.service.DeleteByName(r.Context(), arg[string](args, argName))
	h.respond(w, "delete role", httpx.MessageBody{Message: "Role has been deleted"}, err)
}

func (h *Handler) respond(w http.ResponseWriter, action string, body any, err error) {
	if err != nil {
		if shared.IsDomainError(err) {
			h.logger.Debug(action, slog.Any("error", err))
		} else {
			h.logger.Error(action+" failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, body)
}
