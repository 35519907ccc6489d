package repository

import (
	"context"

	"retroboard/internal/domain"
)

// BoardRepository exposes persistence operations for Board entities. Delete
// is a soft delete; Get returns the board regardless of its deleted flag so
// callers can apply visibility rules themselves, while ListByUser only
// returns live boards.
type BoardRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, board *domain.Board) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Board, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id int64) error
}

// TicketRepository exposes persistence operations for Ticket entities. Get
// and ListByBoard only see live tickets; Delete is a soft delete; Update
// overwrites category and content of an existing row.
type TicketRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, ticket *domain.Ticket) error
	Get(ctx context.Context, id int64) (*domain.Ticket, error)
	ListByBoard(ctx context.Context, boardID int64) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
}
