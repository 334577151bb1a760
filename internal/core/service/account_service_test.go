package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/omsomani/account-system/internal/auth"
	"github.com/omsomani/account-system/internal/core/domain"
	"github.com/omsomani/account-system/internal/core/ports"
	"github.com/omsomani/account-system/internal/crypto"
)

type stubRepo struct {
	accounts map[uint64]*domain.Account
	nextID   uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{accounts: make(map[uint64]*domain.Account), nextID: 1}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubRepo) FindByID(_ context.Context, id uint64) (*domain.Account, error) {
	if a, ok := r.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubRepo) FindByMobileNumber(_ context.Context, mobileNumber string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.MobileNumber == mobileNumber {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubRepo) Insert(_ context.Context, account *domain.Account) (uint64, error) {
	for _, a := range r.accounts {
		if a.MobileNumber == account.MobileNumber {
			return 0, domain.ErrMobileNumberTaken
		}
	}
	id := r.nextID
	r.nextID++
	stored := cloneAccount(account)
	stored.ID = id
	r.accounts[id] = stored
	return id, nil
}

func (r *stubRepo) UpdateFields(_ context.Context, id uint64, fields map[string]any) (int64, error) {
	a, ok := r.accounts[id]
	if !ok {
		return 0, nil
	}
	if name, ok := fields["full_name"].(string); ok {
		a.FullName = name
	}
	if mobile, ok := fields["mobile_number"].(string); ok {
		a.MobileNumber = mobile
	}
	return 1, nil
}

func (r *stubRepo) UpdatePasswordHash(_ context.Context, id uint64, hash string) (int64, error) {
	a, ok := r.accounts[id]
	if !ok {
		return 0, nil
	}
	a.PasswordHash = hash
	return 1, nil
}

func (r *stubRepo) Delete(_ context.Context, id uint64) (int64, error) {
	if _, ok := r.accounts[id]; !ok {
		return 0, nil
	}
	delete(r.accounts, id)
	return 1, nil
}

func (r *stubRepo) ListPage(_ context.Context, page, pageSize int) ([]domain.Account, error) {
	var out []domain.Account
	for id := uint64(1); id < r.nextID; id++ {
		if a, ok := r.accounts[id]; ok {
			out = append(out, *cloneAccount(a))
		}
	}
	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

type stubAudit struct {
	events []ports.AuditEvent
}

func (s *stubAudit) Record(event ports.AuditEvent) {
	s.events = append(s.events, event)
}

func (s *stubAudit) types() []string {
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestService(t *testing.T) (ports.AccountService, *stubRepo, *auth.JWTIssuer, *stubAudit) {
	t.Helper()
	repo := newStubRepo()
	tokens := auth.NewJWTIssuer("secret", time.Hour)
	audit := &stubAudit{}
	svc := NewAccountService(repo, crypto.NewBcryptHasher(), tokens, nil, audit, zerolog.Nop())
	return svc, repo, tokens, audit
}

func TestAccountService_SignupThenLogin(t *testing.T) {
	svc, repo, tokens, audit := newTestService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if signedUp.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if signedUp.Account.PasswordHash != "" {
		t.Fatalf("signup leaked password hash")
	}

	stored := repo.accounts[signedUp.Account.ID]
	if stored == nil {
		t.Fatalf("account not persisted")
	}
	if stored.PasswordHash == "Abcd123!@" || stored.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}

	loggedIn, err := svc.Login(ctx, "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.Account.ID != signedUp.Account.ID {
		t.Fatalf("login returned account %d, want %d", loggedIn.Account.ID, signedUp.Account.ID)
	}

	accountID, err := tokens.Verify(loggedIn.Token)
	if err != nil {
		t.Fatalf("login token invalid: %v", err)
	}
	if accountID != signedUp.Account.ID {
		t.Fatalf("token encodes account %d, want %d", accountID, signedUp.Account.ID)
	}

	want := []string{ports.AuditSignup, ports.AuditLoginSuccess}
	got := audit.types()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("audit events = %v, want %v", got, want)
	}
}

func TestAccountService_SignupValidation(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), "", "12", "weak")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["fullName"] != "Full name is required" {
		t.Fatalf("unexpected fullName message: %q", ve.Fields["fullName"])
	}
	if ve.Fields["mobileNumber"] != "Mobile number must be 10 digits" {
		t.Fatalf("unexpected mobileNumber message: %q", ve.Fields["mobileNumber"])
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("invalid signup persisted an account")
	}
}

func TestAccountService_SignupDuplicateMobileNumber(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	// Same number, different everything else.
	_, err := svc.Signup(ctx, "John Smith", "9876543210", "Wxyz789?&")
	if !errors.Is(err, domain.ErrMobileNumberTaken) {
		t.Fatalf("expected ErrMobileNumberTaken, got %v", err)
	}
}

func TestAccountService_LoginUniformError(t *testing.T) {
	svc, _, _, audit := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Wrong password and unknown number must yield the same error value so
	// responses cannot be used to enumerate accounts.
	_, wrongPass := svc.Login(ctx, "9876543210", "Wrong123!@")
	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	_, unknown := svc.Login(ctx, "0000000000", "Abcd123!@")
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown number, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPass, unknown)
	}

	failures := 0
	for _, e := range audit.events {
		if e.Type == ports.AuditLoginFailure {
			failures++
		}
	}
	if failures != 2 {
		t.Fatalf("expected 2 login_failure audit events, got %d", failures)
	}
}

func TestAccountService_GetProfile(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	account, err := svc.GetProfile(ctx, result.Account.ID)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if account.FullName != "Jane Doe" || account.MobileNumber != "9876543210" {
		t.Fatalf("unexpected profile: %+v", account)
	}
	if account.PasswordHash != "" {
		t.Fatalf("profile leaked password hash")
	}

	if _, err := svc.GetProfile(ctx, 999); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_UpdateProfile(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	name := "Janet Doe"
	updated, err := svc.UpdateProfile(ctx, result.Account.ID, &name, nil)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FullName != "Janet Doe" {
		t.Fatalf("name not updated: %q", updated.FullName)
	}
	if updated.MobileNumber != "9876543210" {
		t.Fatalf("absent mobile number was touched: %q", updated.MobileNumber)
	}

	mobile := "1111111111"
	updated, err = svc.UpdateProfile(ctx, result.Account.ID, nil, &mobile)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.MobileNumber != "1111111111" {
		t.Fatalf("mobile number not updated: %q", updated.MobileNumber)
	}
}

func TestAccountService_UpdateProfileValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	badMobile := "12ab"
	_, err = svc.UpdateProfile(ctx, result.Account.ID, nil, &badMobile)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["mobileNumber"] != "Mobile number must be 10 digits" {
		t.Fatalf("unexpected message: %q", ve.Fields["mobileNumber"])
	}
}

func TestAccountService_UpdateProfileMobileConflict(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Signup(ctx, "John Smith", "1111111111", "Wxyz789?&"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Moving to a number held by a different account is a conflict.
	taken := "1111111111"
	if _, err := svc.UpdateProfile(ctx, first.Account.ID, nil, &taken); !errors.Is(err, domain.ErrMobileNumberTaken) {
		t.Fatalf("expected ErrMobileNumberTaken, got %v", err)
	}

	// Re-submitting one's own number is fine.
	own := "9876543210"
	if _, err := svc.UpdateProfile(ctx, first.Account.ID, nil, &own); err != nil {
		t.Fatalf("re-submitting own number failed: %v", err)
	}
}

func TestAccountService_UpdateProfileUnknownAccount(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	name := "Jane Doe"
	if _, err := svc.UpdateProfile(context.Background(), 999, &name, nil); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	svc, _, _, audit := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	id := result.Account.ID

	if err := svc.ChangePassword(ctx, id, "Wrong123!@", "Wxyz789?&"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	err = svc.ChangePassword(ctx, id, "Abcd123!@", "weak")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for weak new password, got %v", err)
	}
	if _, ok := ve.Fields["newPassword"]; !ok {
		t.Fatalf("expected newPassword field error, got %v", ve.Fields)
	}

	if err := svc.ChangePassword(ctx, id, "Abcd123!@", "Wxyz789?&"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	// Old password no longer works; new one does.
	if _, err := svc.Login(ctx, "9876543210", "Abcd123!@"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "Wxyz789?&"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	changed := false
	for _, e := range audit.events {
		if e.Type == ports.AuditPasswordChanged {
			changed = true
		}
	}
	if !changed {
		t.Fatalf("password_changed audit event not recorded")
	}
}

func TestAccountService_ChangePasswordUnknownAccount(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if err := svc.ChangePassword(context.Background(), 999, "Abcd123!@", "Wxyz789?&"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_DeleteAccount(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, "Jane Doe", "9876543210", "Abcd123!@")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.DeleteAccount(ctx, result.Account.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetProfile(ctx, result.Account.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound after delete, got %v", err)
	}
	if err := svc.DeleteAccount(ctx, result.Account.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for second delete, got %v", err)
	}
}

func TestAccountService_ListAccounts(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	numbers := []string{"1111111111", "2222222222", "3333333333"}
	for _, n := range numbers {
		if _, err := svc.Signup(ctx, "Jane Doe", n, "Abcd123!@"); err != nil {
			t.Fatalf("signup failed: %v", err)
		}
	}

	page, err := svc.ListAccounts(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(page))
	}
	for _, a := range page {
		if a.PasswordHash != "" {
			t.Fatalf("listing leaked password hash")
		}
	}

	page, err = svc.ListAccounts(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("expected 1 account on last page, got %d", len(page))
	}
}
