package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"retroboard/internal/domain"
	"retroboard/internal/repository"
)

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	category TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	deleted INTEGER NOT NULL DEFAULT 0
);
`

// ErrTicketNotFound is returned when a ticket row does not exist or is
// soft-deleted.
var ErrTicketNotFound = errors.New("ticket not found")

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) repository.TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTicketsTable); err != nil {
		return fmt.Errorf("create tickets table: %w", err)
	}
	return nil
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO tickets (board_id, author_id, category, content, created_at, updated_at, deleted)
VALUES (?, ?, ?, ?, ?, ?, 0)`,
		ticket.BoardID,
		ticket.AuthorID,
		ticket.Category,
		ticket.Content,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("ticket last insert id: %w", err)
	}
	ticket.ID = id
	return nil
}

func (r *TicketRepository) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, board_id, author_id, category, content, created_at, updated_at, deleted
FROM tickets
WHERE id = ? AND deleted = 0`,
		id,
	)
	return scanTicket(row)
}

func (r *TicketRepository) ListByBoard(ctx context.Context, boardID int64) ([]domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, board_id, author_id, category, content, created_at, updated_at, deleted
FROM tickets
WHERE board_id = ? AND deleted = 0
ORDER BY id`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

// Update overwrites category and content of an existing live ticket.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == 0 {
		return errors.New("ticket id is not set")
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE tickets SET category = ?, content = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		ticket.Category,
		ticket.Content,
		time.Now().UTC(),
		ticket.ID,
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE tickets SET deleted = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(),
		id,
	); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

func scanTicket(row interface {
	Scan(dest ...any) error
}) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.BoardID,
		&ticket.AuthorID,
		&ticket.Category,
		&ticket.Content,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.Deleted,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return &ticket, nil
}
