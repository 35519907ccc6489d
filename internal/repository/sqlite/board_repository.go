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

const createBoardsTable = `
CREATE TABLE IF NOT EXISTS boards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	created_by INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	deleted INTEGER NOT NULL DEFAULT 0
);
`

// ErrBoardNotFound is returned when a board row does not exist.
var ErrBoardNotFound = errors.New("board not found")

type BoardRepository struct {
	db *sql.DB
}

func NewBoardRepository(db *sql.DB) repository.BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBoardsTable); err != nil {
		return fmt.Errorf("create boards table: %w", err)
	}
	return nil
}

func (r *BoardRepository) Create(ctx context.Context, board *domain.Board) (int64, error) {
	now := time.Now().UTC()
	board.CreatedAt = now
	board.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO boards (title, created_by, created_at, updated_at, deleted)
VALUES (?, ?, ?, ?, 0)`,
		board.Title,
		board.CreatedBy,
		board.CreatedAt,
		board.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert board: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("board last insert id: %w", err)
	}
	board.ID = id
	return id, nil
}

// Get returns the board whether or not it is soft-deleted; visibility rules
// live with the caller.
func (r *BoardRepository) Get(ctx context.Context, id int64) (*domain.Board, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, created_by, created_at, updated_at, deleted
FROM boards
WHERE id = ?`,
		id,
	)
	return scanBoard(row)
}

func (r *BoardRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Board, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, created_by, created_at, updated_at, deleted
FROM boards
WHERE created_by = ? AND deleted = 0
ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boards: %w", err)
	}
	return boards, nil
}

func (r *BoardRepository) Update(ctx context.Context, board *domain.Board) error {
	if board.ID == 0 {
		return errors.New("board id is not set")
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE boards SET title = ?, updated_at = ? WHERE id = ?`,
		board.Title,
		time.Now().UTC(),
		board.ID,
	)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update board rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (r *BoardRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE boards SET deleted = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete board rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func scanBoard(row interface {
	Scan(dest ...any) error
}) (*domain.Board, error) {
	var board domain.Board
	if err := row.Scan(
		&board.ID,
		&board.Title,
		&board.CreatedBy,
		&board.CreatedAt,
		&board.UpdatedAt,
		&board.Deleted,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("scan board: %w", err)
	}
	return &board, nil
}
