package budget

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tallybook/tallybook/internal/accounts"
	"github.com/tallybook/tallybook/internal/platform/httpx"
	"github.com/tallybook/tallybook/internal/shared"
)

// AccountDirectory looks up accounts for time zone resolution.
type AccountDirectory interface {
	Get(ctx context.Context, id int64) (*accounts.Account, error)
}

// Handler wires the summary endpoint.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	accounts   AccountDirectory
	defaultLoc *time.Location
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, directory AccountDirectory, defaultLoc *time.Location) *Handler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Handler{logger: logger, service: service, accounts: directory, defaultLoc: defaultLoc}
}

// MountRoutes registers budget routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.handleSummary)
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type summaryResponse struct {
	Start        time.Time               `json:"start"`
	End          time.Time               `json:"end"`
	TotalIncome  string                  `json:"total_income"`
	TotalExpense string                  `json:"total_expense"`
	Net          string                  `json:"net"`
	Breakdown    []categoryTotalResponse `json:"breakdown"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.AccountIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidSignature)
		return
	}

	loc := h.defaultLoc
	if account, err := h.accounts.Get(r.Context(), ownerID); err == nil {
		loc = account.Location(h.defaultLoc)
	}
	period, err := shared.PeriodFromQuery(r.URL.Query(), loc)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	summary, err := h.service.Summarize(r.Context(), ownerID, period)
	if err != nil {
		h.logger.Error("summarize", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	breakdown := make([]categoryTotalResponse, len(summary.Breakdown))
	for i, ct := range summary.Breakdown {
		breakdown[i] = categoryTotalResponse{Category: ct.Category, Total: ct.Total.String()}
	}
	httpx.JSON(w, http.StatusOK, summaryResponse{
		Start:        summary.Period.Start,
		End:          summary.Period.End,
		TotalIncome:  summary.TotalIncome.String(),
		TotalExpense: summary.TotalExpense.String(),
		Net:          summary.Net.String(),
		Breakdown:    breakdown,
	})
}
