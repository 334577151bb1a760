package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/omsomani/account-system/internal/core/domain"
	"github.com/omsomani/account-system/internal/core/ports"
	"github.com/omsomani/account-system/internal/core/validation"
)

// ProfileCache abstracts the read-through account cache (Redis). All methods
// are fail-safe: a cache outage degrades to store reads, never to errors.
type ProfileCache interface {
	Get(ctx context.Context, accountID uint64) (*domain.Account, error)
	Set(ctx context.Context, account *domain.Account) error
	Invalidate(ctx context.Context, accountID uint64) error
}

type accountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	cache  ProfileCache
	audit  ports.AuditSink
	log    zerolog.Logger
}

// NewAccountService returns an AccountService implementation. cache and audit
// may be nil; both are optional collaborators.
func NewAccountService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	cache ProfileCache,
	audit ports.AuditSink,
	log zerolog.Logger,
) ports.AccountService {
	return &accountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		audit:  audit,
		log:    log,
	}
}

// Signup validates the fields, enforces mobile-number uniqueness, and creates
// the account with a hashed password. Returns a fresh session token so the
// caller is logged in immediately.
func (s *accountService) Signup(ctx context.Context, fullName, mobileNumber, password string) (*ports.AuthResult, error) {
	if err := domain.NewValidationError(validation.NewAccount(fullName, mobileNumber, password)); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByMobileNumber(ctx, mobileNumber)
	if err == nil {
		return nil, domain.ErrMobileNumberTaken
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("signup: check mobile number: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	account := &domain.Account{
		FullName:     fullName,
		MobileNumber: mobileNumber,
		PasswordHash: hash,
	}
	id, err := s.repo.Insert(ctx, account)
	if err != nil {
		// A concurrent signup can win the race between the lookup and the
		// insert; the unique index reports it as ErrMobileNumberTaken.
		if errors.Is(err, domain.ErrMobileNumberTaken) {
			return nil, domain.ErrMobileNumberTaken
		}
		return nil, fmt.Errorf("signup: insert account: %w", err)
	}
	account.ID = id

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("signup: issue token: %w", err)
	}

	s.record(ports.AuditEvent{Type: ports.AuditSignup, AccountID: id, Subject: mobileNumber})
	s.log.Info().Uint64("account_id", id).Msg("account created")

	return &ports.AuthResult{Token: token, Account: account.Sanitized()}, nil
}

// Login authenticates by mobile number and password. An unknown number and a
// wrong password both yield ErrInvalidCredentials so responses never reveal
// which numbers are registered.
func (s *accountService) Login(ctx context.Context, mobileNumber, password string) (*ports.AuthResult, error) {
	account, err := s.repo.FindByMobileNumber(ctx, mobileNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.record(ports.AuditEvent{Type: ports.AuditLoginFailure, Subject: mobileNumber})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.record(ports.AuditEvent{Type: ports.AuditLoginFailure, AccountID: account.ID, Subject: mobileNumber})
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.record(ports.AuditEvent{Type: ports.AuditLoginSuccess, AccountID: account.ID, Subject: mobileNumber})

	return &ports.AuthResult{Token: token, Account: account.Sanitized()}, nil
}

// GetProfile returns the sanitized account, served from the cache when warm.
func (s *accountService) GetProfile(ctx context.Context, accountID uint64) (*domain.Account, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, accountID); err == nil && cached != nil {
			return cached, nil
		}
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	sanitized := account.Sanitized()
	if s.cache != nil {
		if err := s.cache.Set(ctx, &sanitized); err != nil {
			s.log.Warn().Err(err).Uint64("account_id", accountID).Msg("profile cache set failed")
		}
	}
	return &sanitized, nil
}

// UpdateProfile changes name and/or mobile number. Absent fields are left
// untouched. Moving to a number held by a different account is a conflict.
func (s *accountService) UpdateProfile(ctx context.Context, accountID uint64, fullName, mobileNumber *string) (*domain.Account, error) {
	if err := domain.NewValidationError(validation.ProfileUpdate(fullName, mobileNumber)); err != nil {
		return nil, err
	}

	fields := make(map[string]any, 2)
	if fullName != nil && *fullName != "" {
		fields["full_name"] = *fullName
	}
	if mobileNumber != nil && *mobileNumber != "" {
		owner, err := s.repo.FindByMobileNumber(ctx, *mobileNumber)
		if err == nil && owner.ID != accountID {
			return nil, domain.ErrMobileNumberTaken
		}
		if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("update profile: check mobile number: %w", err)
		}
		fields["mobile_number"] = *mobileNumber
	}

	if len(fields) > 0 {
		affected, err := s.repo.UpdateFields(ctx, accountID, fields)
		if err != nil {
			if errors.Is(err, domain.ErrMobileNumberTaken) {
				return nil, domain.ErrMobileNumberTaken
			}
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if affected == 0 {
			return nil, domain.ErrAccountNotFound
		}
		s.invalidate(ctx, accountID)
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update profile: reload account: %w", err)
	}

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// ChangePassword verifies the current password before storing the hash of the
// new one. Outstanding session tokens remain valid; sessions are stateless.
func (s *accountService) ChangePassword(ctx context.Context, accountID uint64, currentPassword, newPassword string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("change password: find account: %w", err)
	}

	if !s.hasher.Verify(currentPassword, account.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	if err := domain.NewValidationError(validation.PasswordChange(newPassword)); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: hash password: %w", err)
	}

	affected, err := s.repo.UpdatePasswordHash(ctx, accountID, hash)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	s.invalidate(ctx, accountID)
	s.record(ports.AuditEvent{Type: ports.AuditPasswordChanged, AccountID: accountID, Subject: account.MobileNumber})

	return nil
}

// DeleteAccount removes the account. Administrative capability only.
func (s *accountService) DeleteAccount(ctx context.Context, accountID uint64) error {
	affected, err := s.repo.Delete(ctx, accountID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	s.invalidate(ctx, accountID)
	s.record(ports.AuditEvent{Type: ports.AuditAccountDeleted, AccountID: accountID})

	return nil
}

// ListAccounts returns one page of sanitized accounts. Administrative
// capability only.
func (s *accountService) ListAccounts(ctx context.Context, page, pageSize int) ([]domain.Account, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	accounts, err := s.repo.ListPage(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	for i := range accounts {
		accounts[i] = accounts[i].Sanitized()
	}
	return accounts, nil
}

func (s *accountService) record(event ports.AuditEvent) {
	if s.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.audit.Record(event)
}

func (s *accountService) invalidate(ctx context.Context, accountID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, accountID); err != nil {
		s.log.Warn().Err(err).Uint64("account_id", accountID).Msg("profile cache invalidate failed")
	}
}
