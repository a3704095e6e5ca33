package handlers

import (
	"net/http"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// EmailHandler exposes a direct email send for operators
type EmailHandler struct {
	notifier services.NotifierInterface
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(notifier services.NotifierInterface) *EmailHandler {
	return &EmailHandler{
		notifier: notifier,
	}
}

// Send delivers an arbitrary email through the configured notifier
// @Summary Send an email
// @Description Admin-only utility to send a one-off email through the outbound channel.
// @Tags Email
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SendEmailRequest true "Email details"
// @Success 200 {object} SuccessResponse
// @Failure 502 {object} errors.ErrorResponse "Delivery failure - NOTIFICATION_002"
// @Router /email [post]
func (h *EmailHandler) Send(c echo.Context) error {
	var req dto.SendEmailRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.notifier.SendEmail(c.Request().Context(), req.To, req.Subject, req.Body); err != nil {
		return SendError(c, errors.NotificationSendFailed)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Email sent successfully",
	})
}
