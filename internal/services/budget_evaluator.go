package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

const (
	// evaluatorStripes bounds the lock table; evaluations for distinct
	// (user, category) pairs almost always proceed in parallel.
	evaluatorStripes = 64

	DefaultNotifyTimeout = 10 * time.Second
)

// BudgetEvaluator recomputes a budget's derived spend totals from the
// transaction ledger and dispatches alerts when the limit is exceeded.
//
// The persisted spent/remaining pair is always derived from a full
// recomputation, never incrementally adjusted, so repeated evaluations
// against an unchanged ledger are idempotent.
type BudgetEvaluator struct {
	userRepo         repositories.UserRepositoryInterface
	budgetRepo       repositories.BudgetRepositoryInterface
	transactionRepo  repositories.TransactionRepositoryInterface
	notificationRepo repositories.NotificationRepositoryInterface
	notifier         NotifierInterface
	breaker          CircuitBreakerInterface
	metrics          MetricsRecorderInterface
	logger           *slog.Logger
	notifyTimeout    time.Duration

	locks [evaluatorStripes]sync.Mutex
}

// NewBudgetEvaluator creates a budget evaluator
func NewBudgetEvaluator(
	userRepo repositories.UserRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	notificationRepo repositories.NotificationRepositoryInterface,
	notifier NotifierInterface,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) BudgetEvaluatorInterface {
	return &BudgetEvaluator{
		userRepo:         userRepo,
		budgetRepo:       budgetRepo,
		transactionRepo:  transactionRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		breaker:          breaker,
		metrics:          metrics,
		logger:           logger,
		notifyTimeout:    DefaultNotifyTimeout,
	}
}

// Evaluate recomputes spent/remaining for the user's active budget in the
// given category and sends an overshoot alert when spending passes the limit.
//
// Missing users and missing budgets are quiet no-ops: transactions are valid
// without a budget watching their category. Alert delivery is best effort and
// never fails the evaluation; the budget write is the authoritative outcome.
func (e *BudgetEvaluator) Evaluate(ctx context.Context, userID uuid.UUID, category string) error {
	start := time.Now()
	category = models.NormalizeCategory(category)

	user, budget, err := e.recompute(userID, category, start)
	if err != nil || budget == nil {
		return err
	}

	// Alert delivery happens outside the stripe lock: a slow SMTP dial must
	// not stall unrelated evaluations that hash to the same stripe.
	if budget.IsExceeded() {
		e.dispatchOvershootAlert(ctx, user, budget)
	}

	e.recordEvaluation("success", start)
	return nil
}

// recompute performs the locked read-recompute-write cycle and returns the
// loaded user and updated budget. A nil budget with a nil error means the
// evaluation was a quiet no-op.
func (e *BudgetEvaluator) recompute(userID uuid.UUID, category string, start time.Time) (*models.User, *models.Budget, error) {
	// Serialize per (user, category) so concurrent evaluations cannot
	// interleave their read-recompute-write cycles.
	lock := &e.locks[e.stripeFor(userID, category)]
	lock.Lock()
	defer lock.Unlock()

	user, err := e.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			e.logger.Debug("budget evaluation skipped, user not found",
				"user_id", userID,
				"category", category)
			e.recordEvaluation("skipped_no_user", start)
			return nil, nil, nil
		}
		e.recordEvaluation("error", start)
		return nil, nil, fmt.Errorf("failed to load user for budget evaluation: %w", err)
	}

	budget, err := e.budgetRepo.GetActiveByUserAndCategory(userID, category)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			e.logger.Debug("budget evaluation skipped, no active budget",
				"user_id", userID,
				"category", category)
			e.recordEvaluation("skipped_no_budget", start)
			return nil, nil, nil
		}
		e.recordEvaluation("error", start)
		return nil, nil, fmt.Errorf("failed to load budget for evaluation: %w", err)
	}

	spent, err := e.transactionRepo.SumExpensesByCategory(userID, category)
	if err != nil {
		e.recordEvaluation("error", start)
		return nil, nil, fmt.Errorf("failed to sum expenses for budget evaluation: %w", err)
	}

	budget.ApplySpent(spent)

	if err := e.budgetRepo.UpdateDerivedTotals(budget.ID, budget.Spent, budget.Remaining); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			// Budget was deactivated between the read and the write.
			e.logger.Debug("budget evaluation dropped, budget no longer active",
				"budget_id", budget.ID)
			e.recordEvaluation("skipped_deactivated", start)
			return nil, nil, nil
		}
		e.recordEvaluation("error", start)
		return nil, nil, fmt.Errorf("failed to persist budget totals: %w", err)
	}

	e.logger.Info("budget evaluated",
		"user_id", userID,
		"category", category,
		"budget_id", budget.ID,
		"limit", budget.Limit.StringFixed(2),
		"spent", budget.Spent.StringFixed(2),
		"remaining", budget.Remaining.StringFixed(2))

	return user, budget, nil
}

// dispatchOvershootAlert records an in-app notification and emails the user.
// Both are best effort: failures are logged, counted, and swallowed.
func (e *BudgetEvaluator) dispatchOvershootAlert(ctx context.Context, user *models.User, budget *models.Budget) {
	overshoot := budget.Overshoot()

	notification := &models.Notification{
		UserID: user.ID,
		Type:   models.NotificationTypeBudgetExceeded,
		Message: fmt.Sprintf("You have exceeded your %s budget by %s",
			budget.Category, FormatAmount(overshoot, user.Currency)),
	}
	notification.SetMetadata("category", budget.Category)
	notification.SetMetadata("limit", budget.Limit.StringFixed(2))
	notification.SetMetadata("spent", budget.Spent.StringFixed(2))
	notification.SetMetadata("overshoot", overshoot.StringFixed(2))

	if err := e.notificationRepo.Create(notification); err != nil {
		e.logger.Error("failed to record budget overshoot notification",
			"error", err,
			"user_id", user.ID,
			"budget_id", budget.ID)
	}

	if e.breaker.IsOpen() {
		e.logger.Warn("budget alert suppressed, notifier circuit open",
			"user_id", user.ID,
			"budget_id", budget.ID)
		e.metrics.IncrementCounter("budget_alert", map[string]string{"status": "suppressed"})
		return
	}

	notifyCtx, cancel := context.WithTimeout(ctx, e.notifyTimeout)
	defer cancel()

	if err := e.notifier.SendBudgetAlert(notifyCtx, user, budget, overshoot); err != nil {
		e.breaker.RecordFailure()
		e.logger.Error("failed to send budget alert",
			"error", err,
			"user_id", user.ID,
			"budget_id", budget.ID,
			"overshoot", overshoot.StringFixed(2))
		e.metrics.IncrementCounter("budget_alert", map[string]string{"status": "failed"})
		return
	}

	e.breaker.RecordSuccess()
	e.logger.Info("budget alert sent",
		"user_id", user.ID,
		"budget_id", budget.ID,
		"category", budget.Category,
		"overshoot", overshoot.StringFixed(2))
	e.metrics.IncrementCounter("budget_alert", map[string]string{"status": "sent"})
}

func (e *BudgetEvaluator) stripeFor(userID uuid.UUID, category string) uint32 {
	h := fnv.New32a()
	h.Write(userID[:])
	h.Write([]byte(category))
	return h.Sum32() % evaluatorStripes
}

func (e *BudgetEvaluator) recordEvaluation(result string, start time.Time) {
	e.metrics.IncrementCounter("budget_evaluation", map[string]string{"result": result})
	e.metrics.RecordProcessingTime("budget_evaluation", time.Since(start))
}
