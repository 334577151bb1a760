package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omsomani/account-system/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Signup registers a new account and logs it in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.accounts.Signup(c.Request().Context(), req.FullName, req.MobileNumber, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: result.Token, Account: result.Account})
}

// Login authenticates by mobile number and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.accounts.Login(c.Request().Context(), req.MobileNumber, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: result.Token, Account: result.Account})
}
