package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/omsomani/account-system/internal/core/domain"
	"github.com/omsomani/account-system/internal/core/ports"
)

// stubAccountService lets each test override only the operations it needs.
type stubAccountService struct {
	signup         func(ctx context.Context, fullName, mobileNumber, password string) (*ports.AuthResult, error)
	login          func(ctx context.Context, mobileNumber, password string) (*ports.AuthResult, error)
	getProfile     func(ctx context.Context, accountID uint64) (*domain.Account, error)
	updateProfile  func(ctx context.Context, accountID uint64, fullName, mobileNumber *string) (*domain.Account, error)
	changePassword func(ctx context.Context, accountID uint64, currentPassword, newPassword string) error
}

func (s *stubAccountService) Signup(ctx context.Context, fullName, mobileNumber, password string) (*ports.AuthResult, error) {
	return s.signup(ctx, fullName, mobileNumber, password)
}

func (s *stubAccountService) Login(ctx context.Context, mobileNumber, password string) (*ports.AuthResult, error) {
	return s.login(ctx, mobileNumber, password)
}

func (s *stubAccountService) GetProfile(ctx context.Context, accountID uint64) (*domain.Account, error) {
	return s.getProfile(ctx, accountID)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, accountID uint64, fullName, mobileNumber *string) (*domain.Account, error) {
	return s.updateProfile(ctx, accountID, fullName, mobileNumber)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, accountID uint64, currentPassword, newPassword string) error {
	return s.changePassword(ctx, accountID, currentPassword, newPassword)
}

func (s *stubAccountService) DeleteAccount(context.Context, uint64) error {
	return nil
}

func (s *stubAccountService) ListAccounts(context.Context, int, int) ([]domain.Account, error) {
	return nil, nil
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := &stubAccountService{
		signup: func(_ context.Context, fullName, mobileNumber, password string) (*ports.AuthResult, error) {
			if fullName != "Jane Doe" || mobileNumber != "9876543210" || password != "Abcd123!@" {
				t.Fatalf("unexpected arguments: %q %q %q", fullName, mobileNumber, password)
			}
			return &ports.AuthResult{
				Token:   "token-1",
				Account: domain.Account{ID: 1, FullName: fullName, MobileNumber: mobileNumber},
			}, nil
		},
	}

	c, rec := newJSONContext(t, http.MethodPost, "/auth/signup",
		`{"fullName":"Jane Doe","mobileNumber":"9876543210","password":"Abcd123!@"}`)

	if err := NewAuthHandler(svc).Signup(c); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Token != "token-1" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
	if resp.Account.ID != 1 || resp.Account.MobileNumber != "9876543210" {
		t.Fatalf("unexpected account: %+v", resp.Account)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Fatalf("response leaked password hash: %s", rec.Body.String())
	}
}

func TestAuthHandler_SignupServiceError(t *testing.T) {
	svc := &stubAccountService{
		signup: func(context.Context, string, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrMobileNumberTaken
		},
	}

	c, _ := newJSONContext(t, http.MethodPost, "/auth/signup",
		`{"fullName":"Jane Doe","mobileNumber":"9876543210","password":"Abcd123!@"}`)

	// Domain errors pass through untouched for the central error handler.
	if err := NewAuthHandler(svc).Signup(c); err != domain.ErrMobileNumberTaken {
		t.Fatalf("expected ErrMobileNumberTaken, got %v", err)
	}
}

func TestAuthHandler_SignupBadPayload(t *testing.T) {
	svc := &stubAccountService{
		signup: func(context.Context, string, string, string) (*ports.AuthResult, error) {
			t.Fatalf("service called for malformed payload")
			return nil, nil
		},
	}

	c, _ := newJSONContext(t, http.MethodPost, "/auth/signup", `{not json`)

	err := NewAuthHandler(svc).Signup(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAccountService{
		login: func(_ context.Context, mobileNumber, password string) (*ports.AuthResult, error) {
			if mobileNumber != "9876543210" || password != "Abcd123!@" {
				t.Fatalf("unexpected arguments: %q %q", mobileNumber, password)
			}
			return &ports.AuthResult{
				Token:   "token-2",
				Account: domain.Account{ID: 7, MobileNumber: mobileNumber},
			}, nil
		},
	}

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"mobileNumber":"9876543210","password":"Abcd123!@"}`)

	if err := NewAuthHandler(svc).Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Token != "token-2" || resp.Account.ID != 7 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	svc := &stubAccountService{
		login: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"mobileNumber":"9876543210","password":"Wrong123!@"}`)

	if err := NewAuthHandler(svc).Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
