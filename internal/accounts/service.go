package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/tallybook/tallybook/internal/shared"
)

// Service wraps credential business rules.
type Service struct {
	repo     Repository
	throttle *LoginThrottle
	logger   *slog.Logger
	cost     int
}

// NewService constructs a new Service. A nil throttle disables login
// throttling; cost is the bcrypt work factor.
func NewService(repo Repository, throttle *LoginThrottle, logger *slog.Logger, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, throttle: throttle, logger: logger, cost: cost}
}

// Create registers a new account for the normalized email and returns its id.
// A second create for the same normalized email, in any letter case, fails
// with shared.ErrDuplicateAccount.
func (s *Service) Create(ctx context.Context, email, password string) (int64, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return 0, fmt.Errorf("email and password required: %w", shared.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateAccount(ctx, email, string(hash))
}

// VerifyCredentials checks an email/password pair and returns the account id.
// Unknown email and wrong password produce the identical
// shared.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (int64, error) {
	email = NormalizeEmail(email)
	if s.throttle.Blocked(ctx, email) {
		if s.logger != nil {
			s.logger.Info("login throttled", slog.String("email", email))
		}
		return 0, shared.ErrInvalidCredentials
	}
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.throttle.RecordFailure(ctx, email)
		return 0, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.throttle.RecordFailure(ctx, email)
		return 0, shared.ErrInvalidCredentials
	}
	s.throttle.Reset(ctx, email)
	return account.ID, nil
}

// Get fetches an account by id.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all registered accounts.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.ListAccounts(ctx)
}
