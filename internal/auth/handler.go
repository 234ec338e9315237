package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/todo/internal/access"
	"github.com/odyssey-erp/todo/internal/platform/httpx"
	"github.com/odyssey-erp/todo/internal/shared"
	"github.com/odyssey-erp/todo/internal/users"
)

// Access declarations for auth endpoints.
var (
	OpRegister = access.Declare("auth.register", access.Everyone)
	OpLogin    = access.Declare("auth.login", access.Everyone)
)

// Rejection messages returned to clients.
const (
	MsgMissingFields      = "Enter all User Infos"
	MsgEmailExists        = "Email already exists"
	MsgInvalidCredentials = "Username or password are wrong"
)

// Login outcomes reported to a LoginObserver.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// TokenIssuer mints a bearer token for an identity.
type TokenIssuer interface {
	Issue(user *users.User) (string, error)
}

// Mailer queues the welcome mail sent after registration.
type Mailer interface {
	EnqueueWelcome(ctx context.Context, email, username string) error
}

// LoginObserver records login outcomes, e.g. for metrics.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	issuer    TokenIssuer
	gate      *access.Gate
	mailer    Mailer
	observer  LoginObserver
	validator *validator.Validate
}

// HandlerOption customises optional collaborators.
type HandlerOption func(*Handler)

// WithMailer enables welcome mails on registration.
func WithMailer(m Mailer) HandlerOption {
	return func(h *Handler) { h.mailer = m }
}

// WithLoginObserver reports login outcomes to o.
func WithLoginObserver(o LoginObserver) HandlerOption {
	return func(h *Handler) { h.observer = o }
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, issuer TokenIssuer, gate *access.Gate, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		issuer:    issuer,
		gate:      gate,
		validator: shared.NewValidator(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.gate.Handler(access.Endpoint{Operation: OpRegister, Handle: h.register}))
	r.Post("/login", h.gate.Handler(access.Endpoint{Operation: OpLogin, Handle: h.login}))
}

// register godoc
// @Summary Register a new identity
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegistrationRequest true "registration"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} httpx.MessageBody
// @Router /api/auth/register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request, _ access.Args) {
	var req RegistrationRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			httpx.BadRequest(w, MsgEmailExists)
			return
		}
		h.logger.Error("register", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if h.mailer != nil {
		if err := h.mailer.EnqueueWelcome(r.Context(), user.Email, user.Username); err != nil {
			h.logger.Warn("enqueue welcome mail", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		}
	}
	h.respondToken(w, user)
}

// login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} httpx.MessageBody
// @Router /api/auth/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request, _ access.Args) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.observeLogin(LoginFailure)
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Info("login rejected", slog.String("email", req.Email))
			httpx.BadRequest(w, MsgInvalidCredentials)
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.observeLogin(LoginSuccess)
	h.respondToken(w, user)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.BadRequest(w, MsgMissingFields)
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.BadRequest(w, MsgMissingFields)
		return false
	}
	return true
}

func (h *Handler) respondToken(w http.ResponseWriter, user *users.User) {
	signed, err := h.issuer.Issue(user)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, TokenResponse{Token: signed})
}

func (h *Handler) observeLogin(outcome string) {
	if h.observer != nil {
		h.observer.ObserveLogin(outcome)
	}
}
