package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"retroboard/internal/domain"
	"retroboard/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is returned when registering an already-taken display name.
	ErrAccountExists = errors.New("account already exists")
)

// AccountService describes account lifecycle operations.
type AccountService interface {
	Register(ctx context.Context, displayName, password string) (*domain.Account, error)
	Authenticate(ctx context.Context, displayName, password string) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

type accountService struct {
	accounts repository.AccountRepository
}

func NewAccountService(accounts repository.AccountRepository) AccountService {
	return &accountService{accounts: accounts}
}

func (s *accountService) Register(ctx context.Context, displayName, password string) (*domain.Account, error) {
	displayName = strings.TrimSpace(displayName)
	password = strings.TrimSpace(password)

	if displayName == "" {
		return nil, errors.New("display name is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}

	if _, err := s.accounts.Create(ctx, account); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return sanitizeAccount(account), nil
}

func (s *accountService) Authenticate(ctx context.Context, displayName, password string) (*domain.Account, error) {
	displayName = strings.TrimSpace(displayName)
	password = strings.TrimSpace(password)
	if displayName == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByDisplayName(ctx, displayName)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeAccount(account), nil
}

func (s *accountService) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeAccount(account), nil
}

// sanitizeAccount strips the password hash before an account leaves the service.
func sanitizeAccount(account *domain.Account) *domain.Account {
	if account == nil {
		return nil
	}
	return &domain.Account{
		ID:          account.ID,
		DisplayName: account.DisplayName,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}
