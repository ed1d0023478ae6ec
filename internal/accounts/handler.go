package accounts

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tallybook/tallybook/internal/observability"
	"github.com/tallybook/tallybook/internal/platform/httpx"
	"github.com/tallybook/tallybook/internal/shared"
)

// TokenIssuer issues session tokens for verified account ids.
type TokenIssuer interface {
	Issue(accountID int64) (string, time.Time, error)
}

// Handler wires HTTP endpoints for signup and login.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    TokenIssuer
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens TokenIssuer, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers credential routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type signupResponse struct {
	AccountID int64 `json:"account_id"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleSignup creates the account only; clients log in explicitly to obtain
// a token.
func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email must be valid and password at least 8 characters")
		return
	}

	id, err := h.service.Create(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicateAccount) && !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("create account", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, signupResponse{AccountID: id})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	accountID, err := h.service.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.LoginFailed()
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("verify credentials", slog.Any("error", err))
			httpx.RespondError(w, shared.ErrInvalidCredentials)
			return
		}
		httpx.RespondError(w, err)
		return
	}

	signed, expiresAt, err := h.tokens.Issue(accountID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: signed, ExpiresAt: expiresAt})
}
