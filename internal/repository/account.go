package repository

import (
	"context"

	"retroboard/internal/domain"
)

// AccountRepository defines persistence operations for Account entities.
type AccountRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, account *domain.Account) (int64, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}
