package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/accounts"
	"github.com/tallybook/tallybook/internal/observability"
	"github.com/tallybook/tallybook/internal/platform/httpx"
	"github.com/tallybook/tallybook/internal/shared"
)

// AccountDirectory looks up accounts for time zone resolution.
type AccountDirectory interface {
	Get(ctx context.Context, id int64) (*accounts.Account, error)
}

// Handler wires HTTP endpoints for the transaction ledger.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	accounts   AccountDirectory
	metrics    *observability.Metrics
	validator  *validator.Validate
	defaultLoc *time.Location
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, directory AccountDirectory, metrics *observability.Metrics, defaultLoc *time.Location) *Handler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Handler{
		logger:     logger,
		service:    service,
		accounts:   directory,
		metrics:    metrics,
		validator:  validator.New(),
		defaultLoc: defaultLoc,
	}
}

// MountRoutes registers ledger routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/transactions", h.handleRecord)
	r.Get("/transactions", h.handleList)
	r.Delete("/transactions/{id}", h.handleDelete)
}

type recordRequest struct {
	Amount     string    `json:"amount" validate:"required"`
	Category   string    `json:"category" validate:"required"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
}

type recordResponse struct {
	ID uuid.UUID `json:"id"`
}

type entryResponse struct {
	ID         uuid.UUID `json:"id"`
	Amount     string    `json:"amount"`
	Category   string    `json:"category"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.AccountIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidSignature)
		return
	}

	var req recordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount, category and occurred_at are required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal number")
		return
	}

	id, err := h.service.Record(r.Context(), ownerID, amount, req.Category, req.OccurredAt)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("record entry", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.metrics.EntryRecorded()
	httpx.JSON(w, http.StatusCreated, recordResponse{ID: id})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.AccountIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidSignature)
		return
	}

	period, err := shared.PeriodFromQuery(r.URL.Query(), h.accountLocation(r, ownerID))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	entries, err := h.service.List(r.Context(), ownerID, period)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("list entries", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	result := make([]entryResponse, len(entries))
	for i, entry := range entries {
		result[i] = entryResponse{
			ID:         entry.ID,
			Amount:     entry.Amount.String(),
			Category:   entry.Category,
			OccurredAt: entry.OccurredAt,
			RecordedAt: entry.CreatedAt,
		}
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.AccountIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidSignature)
		return
	}
	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, entryID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrNotOwner) {
			h.logger.Error("delete entry", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// accountLocation resolves the owner's configured zone, falling back to the
// service-wide default when unset or unavailable.
func (h *Handler) accountLocation(r *http.Request, ownerID int64) *time.Location {
	account, err := h.accounts.Get(r.Context(), ownerID)
	if err != nil {
		return h.defaultLoc
	}
	return account.Location(h.defaultLoc)
}
