package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/omsomani/account-system/internal/core/domain"
)

// accountRecord maps the accounts table.
type accountRecord struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	FullName     string    `gorm:"column:full_name;size:255;not null"`
	MobileNumber string    `gorm:"column:mobile_number;size:15;not null;uniqueIndex:idx_mobile_number"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }

// AccountRepository implements ports.AccountRepository backed by MySQL.
type AccountRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewAccountRepository creates a MySQL-backed account repository. Every call
// is bounded by queryTimeout, covering both the wait for a pooled connection
// and the query itself.
func NewAccountRepository(db *gorm.DB, queryTimeout time.Duration) *AccountRepository {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &AccountRepository{db: db, queryTimeout: queryTimeout}
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint64) (*domain.Account, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var rec accountRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return toDomain(&rec), nil
}

func (r *AccountRepository) FindByMobileNumber(ctx context.Context, mobileNumber string) (*domain.Account, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var rec accountRecord
	if err := r.db.WithContext(ctx).First(&rec, "mobile_number = ?", mobileNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by mobile number: %w", err)
	}
	return toDomain(&rec), nil
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (uint64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rec := accountRecord{
		FullName:     account.FullName,
		MobileNumber: account.MobileNumber,
		PasswordHash: account.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, domain.ErrMobileNumberTaken
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return rec.ID, nil
}

func (r *AccountRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&accountRecord{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return 0, domain.ErrMobileNumberTaken
		}
		return 0, fmt.Errorf("update account fields: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when the submitted values equal
		// the stored ones; distinguish that from a missing account.
		return r.exists(ctx, id)
	}
	return res.RowsAffected, nil
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id uint64, hash string) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&accountRecord{}).Where("id = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return 0, fmt.Errorf("update password hash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.exists(ctx, id)
	}
	return res.RowsAffected, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&accountRecord{}, "id = ?", id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete account: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *AccountRepository) ListPage(ctx context.Context, page, pageSize int) ([]domain.Account, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	offset := (page - 1) * pageSize
	var recs []accountRecord
	if err := r.db.WithContext(ctx).
		Order("id").
		Limit(pageSize).
		Offset(offset).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(recs))
	for i := range recs {
		accounts = append(accounts, *toDomain(&recs[i]))
	}
	return accounts, nil
}

func (r *AccountRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *AccountRepository) exists(ctx context.Context, id uint64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&accountRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("check account exists: %w", err)
	}
	return n, nil
}

func toDomain(rec *accountRecord) *domain.Account {
	return &domain.Account{
		ID:           rec.ID,
		FullName:     rec.FullName,
		MobileNumber: rec.MobileNumber,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}
