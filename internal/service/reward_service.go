package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"spendtrack/internal/calculator"
	"spendtrack/internal/models"
	"spendtrack/internal/notify"
	"spendtrack/internal/storage"
)

// notifyTimeout bounds the best-effort admission notification.
const notifyTimeout = 10 * time.Second

var admissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "spendtrack_admissions_total",
	Help: "High-spender admission attempts by outcome.",
}, []string{"outcome"})

// RewardService admits qualifying users into the loyalty program.
type RewardService struct {
	store    storage.Store
	notifier notify.Notifier
}

// NewRewardService creates a RewardService with the given storage backend and
// notification channel.
func NewRewardService(store storage.Store, notifier notify.Notifier) *RewardService {
	return &RewardService{store: store, notifier: notifier}
}

// Admit validates a high-spender qualification claim and, on success, records
// the user with their accrued bonus points and notifies management.
//
// claimedTotal is the figure supplied by the caller and is persisted verbatim;
// it is not re-derived from the spending ledger. Validation fails fast in
// order: invalid user ID, below threshold, unknown user, duplicate admission.
func (s *RewardService) Admit(ctx context.Context, userID int64, claimedTotal decimal.Decimal) (int, error) {
	outcome, points, err := s.admit(ctx, userID, claimedTotal)
	admissionsTotal.WithLabelValues(outcome).Inc()
	return points, err
}

func (s *RewardService) admit(ctx context.Context, userID int64, claimedTotal decimal.Decimal) (string, int, error) {
	if userID <= 0 {
		return "invalid_input", 0, fmt.Errorf("%w: user_id must be a positive integer", ErrInvalidInput)
	}
	if claimedTotal.LessThan(calculator.QualifyingThreshold) {
		return "below_threshold", 0, ErrBelowThreshold
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "user_not_found", 0, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
		}
		return "storage_failure", 0, err
	}

	exists, err := s.store.HighSpenderExists(ctx, userID)
	if err != nil {
		return "storage_failure", 0, err
	}
	if exists {
		return "duplicate", 0, fmt.Errorf("%w: %d", ErrDuplicateAdmission, userID)
	}

	points := calculator.BonusPoints(claimedTotal)
	hs := &models.HighSpender{UserID: userID, TotalSpending: claimedTotal, BonusPoints: points}
	if err := s.store.CreateHighSpender(ctx, hs); err != nil {
		// The uniqueness constraint is the source of truth: a concurrent
		// admission that won the race surfaces here as a duplicate.
		if errors.Is(err, storage.ErrDuplicate) {
			return "duplicate", 0, fmt.Errorf("%w: %d", ErrDuplicateAdmission, userID)
		}
		slog.Error("Admit failed to persist high spender", "user_id", userID, "error", err)
		return "storage_failure", 0, err
	}

	slog.Info("High spender admitted",
		"user_id", userID,
		"total_spending", claimedTotal,
		"bonus_points", points,
	)
	s.notifyAdmission(user, claimedTotal, points)

	return "admitted", points, nil
}

// notifyAdmission fires the management notification without blocking the
// admission response. Delivery failures are logged and swallowed; the
// admission itself is already committed.
func (s *RewardService) notifyAdmission(user *models.User, total decimal.Decimal, points int) {
	text := fmt.Sprintf(
		"New high-spending user added:\n"+
			"User ID: %d\n"+
			"Name: %s\n"+
			"Total Spending: $%s\n"+
			"Bonus Points: %d",
		user.ID, user.Name, total.StringFixed(2), points,
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, text); err != nil {
			slog.Warn("Admission notification failed", "user_id", user.ID, "error", err)
		}
	}()
}
