package handlers

import (
	"net/http"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandler handles profile endpoints for the authenticated user
type UserHandler struct {
	profileService services.UserProfileServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(profileService services.UserProfileServiceInterface) *UserHandler {
	return &UserHandler{
		profileService: profileService,
	}
}

// GetProfile returns the authenticated user's profile
// @Summary Get current user profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.UserProfileResponse}
// @Failure 401 {object} errors.ErrorResponse "Missing or invalid token - AUTH_002"
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toUserProfileResponse(user),
	})
}

// UpdateProfile updates editable fields on the authenticated user's profile
// @Summary Update current user profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} SuccessResponse{data=dto.UserProfileResponse}
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.profileService.UpdateProfile(userID, &req)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toUserProfileResponse(user),
		Message: "Profile updated successfully",
	})
}

// DeleteAccount soft-deletes the authenticated user and revokes all sessions
// @Summary Delete current user account
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse "Missing or invalid token - AUTH_002"
// @Router /users/me [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	if err := h.profileService.DeleteAccount(userID); err != nil {
		if err == repositories.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Account deleted successfully",
	})
}

func toUserProfileResponse(user *models.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Currency:  user.Currency,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
