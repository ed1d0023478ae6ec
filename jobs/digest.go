package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tallybook/tallybook/internal/accounts"
	"github.com/tallybook/tallybook/internal/budget"
	"github.com/tallybook/tallybook/internal/shared"
)

const digestConcurrency = 4

// DigestSender delivers a rendered digest to an account holder.
type DigestSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes digests to the log. SMTP delivery is a deployment
// concern wired in place of this sender.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the digest instead of delivering it.
func (s LogSender) Send(ctx context.Context, to, subject, body string) error {
	if s.Logger != nil {
		s.Logger.Info("digest", slog.String("to", to), slog.String("subject", subject), slog.String("body", body))
	}
	return nil
}

// MonthlyDigestJob renders and sends every account's summary for a calendar
// month. One account's failure never aborts the run.
type MonthlyDigestJob struct {
	accounts   *accounts.Service
	budget     *budget.Service
	sender     DigestSender
	logger     *slog.Logger
	defaultLoc *time.Location
	now        func() time.Time
}

// NewMonthlyDigestJob constructs the job. A nil now falls back to time.Now.
func NewMonthlyDigestJob(accountsSvc *accounts.Service, budgetSvc *budget.Service, sender DigestSender, logger *slog.Logger, defaultLoc *time.Location, now func() time.Time) *MonthlyDigestJob {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MonthlyDigestJob{
		accounts:   accountsSvc,
		budget:     budgetSvc,
		sender:     sender,
		logger:     logger,
		defaultLoc: defaultLoc,
		now:        now,
	}
}

// Run digests the given month for every account, or the previous month when
// year is zero.
func (j *MonthlyDigestJob) Run(ctx context.Context, year int, month time.Month) error {
	all, err := j.accounts.List(ctx)
	if err != nil {
		return fmt.Errorf("jobs: list accounts: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(digestConcurrency)
	for _, account := range all {
		g.Go(func() error {
			if err := j.digestAccount(ctx, account, year, month); err != nil {
				j.logger.Warn("digest account",
					slog.Int64("account_id", account.ID),
					slog.Any("error", err))
			}
			return nil
		})
	}
	return g.Wait()
}

func (j *MonthlyDigestJob) digestAccount(ctx context.Context, account accounts.Account, year int, month time.Month) error {
	loc := account.Location(j.defaultLoc)
	if year == 0 {
		prev := j.now().In(loc).AddDate(0, -1, 0)
		year, month = prev.Year(), prev.Month()
	}
	period := shared.Month(year, month, loc)

	summary, err := j.budget.Summarize(ctx, account.ID, period)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your %s %d summary", month, year)
	return j.sender.Send(ctx, account.Email, subject, renderDigest(summary))
}

// renderDigest formats a summary as a plain-text digest body.
func renderDigest(summary *budget.Summary) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	p.Fprintf(&b, "Income: %.2f\n", summary.TotalIncome.InexactFloat64())
	p.Fprintf(&b, "Expenses: %.2f\n", summary.TotalExpense.InexactFloat64())
	p.Fprintf(&b, "Net: %.2f\n", summary.Net.InexactFloat64())
	for _, ct := range summary.Breakdown {
		p.Fprintf(&b, "  %s: %.2f\n", ct.Category, ct.Total.InexactFloat64())
	}
	return b.String()
}

// HandleMonthlyDigestTask adapts the job to an asynq handler.
func HandleMonthlyDigestTask(job *MonthlyDigestJob) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload MonthlyDigestPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		return job.Run(ctx, payload.Year, payload.Month)
	}
}
