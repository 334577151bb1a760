package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omsomani/account-system/internal/api/middleware"
	"github.com/omsomani/account-system/internal/core/ports"
)

type ProfileHandler struct {
	accounts ports.AccountService
}

func NewProfileHandler(accounts ports.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Get returns the authenticated account's profile.
//
// @Summary      View own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{Account: *account})
}

// Update changes the account's name and/or mobile number.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), accountID, req.FullName, req.MobileNumber)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{Account: *account})
}

// ChangePassword replaces the account password after verifying the current one.
//
// @Summary      Change own password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /profile/password [put]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
