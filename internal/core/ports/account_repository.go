package ports

import (
	"context"

	"github.com/omsomani/account-system/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts. The store
// is a single relational table; implementations map driver errors onto the
// domain sentinels (ErrAccountNotFound, ErrMobileNumberTaken).
type AccountRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Account, error)
	FindByMobileNumber(ctx context.Context, mobileNumber string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (uint64, error)
	// UpdateFields persists the given column→value pairs and reports the
	// number of rows affected (0 when the account no longer exists).
	UpdateFields(ctx context.Context, id uint64, fields map[string]any) (int64, error)
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) (int64, error)
	Delete(ctx context.Context, id uint64) (int64, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Account, error)
}
