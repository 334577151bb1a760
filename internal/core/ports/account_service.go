package ports

import (
	"context"

	"github.com/omsomani/account-system/internal/core/domain"
)

// AuthResult bundles the session token and sanitized account returned after
// a successful signup or login.
type AuthResult struct {
	Token   string
	Account domain.Account
}

// AccountService orchestrates validation, hashing, token issuance, and the
// account store.
type AccountService interface {
	Signup(ctx context.Context, fullName, mobileNumber, password string) (*AuthResult, error)
	Login(ctx context.Context, mobileNumber, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, accountID uint64) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID uint64, fullName, mobileNumber *string) (*domain.Account, error)
	ChangePassword(ctx context.Context, accountID uint64, currentPassword, newPassword string) error

	// Administrative capabilities; not exposed over HTTP.
	DeleteAccount(ctx context.Context, accountID uint64) error
	ListAccounts(ctx context.Context, page, pageSize int) ([]domain.Account, error)
}
