package service

import (
	"context"
	"errors"
	"testing"

	"retroboard/internal/domain"
)

type stubAccounts struct {
	createFn           func(ctx context.Context, account *domain.Account) (int64, error)
	getByDisplayNameFn func(ctx context.Context, displayName string) (*domain.Account, error)
	getByIDFn          func(ctx context.Context, id int64) (*domain.Account, error)
}

func (s *stubAccounts) Init(ctx context.Context) error { return nil }

func (s *stubAccounts) Create(ctx context.Context, account *domain.Account) (int64, error) {
	if s.createFn == nil {
		return 0, errors.New("unexpected Create call")
	}
	return s.createFn(ctx, account)
}

func (s *stubAccounts) GetByDisplayName(ctx context.Context, displayName string) (*domain.Account, error) {
	if s.getByDisplayNameFn == nil {
		return nil, errors.New("unexpected GetByDisplayName call")
	}
	return s.getByDisplayNameFn(ctx, displayName)
}

func (s *stubAccounts) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if s.getByIDFn == nil {
		return nil, errors.New("unexpected GetByID call")
	}
	return s.getByIDFn(ctx, id)
}

func TestRegisterHashesPassword(t *testing.T) {
	var stored *domain.Account
	repo := &stubAccounts{
		createFn: func(ctx context.Context, account *domain.Account) (int64, error) {
			account.ID = 1
			stored = account
			return 1, nil
		},
	}
	svc := NewAccountService(repo)

	account, err := svc.Register(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if stored == nil {
		t.Fatalf("account was not stored")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse" {
		t.Errorf("password must be stored as a hash, got %q", stored.PasswordHash)
	}
	if account.PasswordHash != "" {
		t.Errorf("returned account must not expose the hash")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAccountService(&stubAccounts{})

	if _, err := svc.Register(context.Background(), "", "longenough"); err == nil {
		t.Errorf("empty display name must be rejected")
	}
	if _, err := svc.Register(context.Background(), "alice", "short"); err == nil {
		t.Errorf("short password must be rejected")
	}
}

func TestRegisterDuplicateDisplayName(t *testing.T) {
	repo := &stubAccounts{
		createFn: func(ctx context.Context, account *domain.Account) (int64, error) {
			return 0, errors.New("account already exists: UNIQUE constraint failed")
		},
	}
	svc := NewAccountService(repo)

	if _, err := svc.Register(context.Background(), "alice", "longenough"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	var stored *domain.Account
	repo := &stubAccounts{
		createFn: func(ctx context.Context, account *domain.Account) (int64, error) {
			account.ID = 1
			stored = account
			return 1, nil
		},
		getByDisplayNameFn: func(ctx context.Context, displayName string) (*domain.Account, error) {
			if stored == nil || stored.DisplayName != displayName {
				return nil, errors.New("account not found")
			}
			return stored, nil
		},
	}
	svc := NewAccountService(repo)

	if _, err := svc.Register(context.Background(), "alice", "correct horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	account, err := svc.Authenticate(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if account.ID != 1 || account.DisplayName != "alice" {
		t.Errorf("authenticated account %+v", account)
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "bob", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}
