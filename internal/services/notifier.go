package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget-tracker/internal/config"
	"budget-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

var ErrNotifierUnavailable = errors.New("notifier is unavailable")

var currencySymbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatAmount renders a monetary amount with the symbol for the given
// currency, falling back to the ISO code when no symbol is known.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + amount.StringFixed(2)
	}
	return currency + " " + amount.StringFixed(2)
}

// SMTPNotifier delivers notifications by email through an SMTP relay
type SMTPNotifier struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

func NewSMTPNotifier(cfg config.MailConfig, logger *slog.Logger) NotifierInterface {
	return &SMTPNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

func (n *SMTPNotifier) SendBudgetAlert(ctx context.Context, user *models.User, budget *models.Budget, overshoot decimal.Decimal) error {
	subject := "Budget Limit Exceeded"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"You have exceeded your %s budget for the %s category.\n\n"+
			"Budget limit: %s\n"+
			"Total spent: %s\n"+
			"Over budget by: %s\n\n"+
			"Consider reviewing your recent transactions.\n",
		user.FirstName,
		budget.Period,
		budget.Category,
		FormatAmount(budget.Limit, user.Currency),
		FormatAmount(budget.Spent, user.Currency),
		FormatAmount(overshoot, user.Currency),
	)

	return n.SendEmail(ctx, user.Email, subject, body)
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, user *models.User, resetToken string) error {
	subject := "Password reset request"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"A password reset was requested for your account. Use the token below "+
			"to set a new password. It expires in 30 minutes.\n\n"+
			"Reset token: %s\n\n"+
			"If you did not request this, you can safely ignore this email.\n",
		user.FirstName,
		resetToken,
	)

	return n.SendEmail(ctx, user.Email, subject, body)
}

func (n *SMTPNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(n.cfg.FromName, n.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTimeout(n.cfg.SendTimeout),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	if n.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("email sent",
		"to", to,
		"subject", subject)

	return nil
}

// LogNotifier writes notifications to the log instead of delivering them.
// Used in development and testing where no SMTP relay is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) NotifierInterface {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendBudgetAlert(_ context.Context, user *models.User, budget *models.Budget, overshoot decimal.Decimal) error {
	n.logger.Info("budget alert (email delivery disabled)",
		"user_id", user.ID,
		"email", user.Email,
		"category", budget.Category,
		"limit", budget.Limit.StringFixed(2),
		"spent", budget.Spent.StringFixed(2),
		"overshoot", overshoot.StringFixed(2))
	return nil
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, user *models.User, resetToken string) error {
	n.logger.Info("password reset token issued (email delivery disabled)",
		"user_id", user.ID,
		"email", user.Email,
		"token", resetToken)
	return nil
}

func (n *LogNotifier) SendEmail(_ context.Context, to, subject, _ string) error {
	n.logger.Info("email suppressed (email delivery disabled)",
		"to", to,
		"subject", subject)
	return nil
}
