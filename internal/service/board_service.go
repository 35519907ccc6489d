package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"retroboard/internal/domain"
	"retroboard/internal/repository"
)

var (
	// ErrInvalidBoardID indicates the submitted board id could not be parsed.
	ErrInvalidBoardID = errors.New("invalid board id")
	// ErrBoardNotFound indicates the board does not exist or is not visible to the caller.
	ErrBoardNotFound = errors.New("board not found")
	// ErrUnauthorized indicates the caller does not own the board.
	ErrUnauthorized = errors.New("unauthorized")
)

// Snapshot is a client-submitted view of a board's full ticket set. A nil
// BoardID means the board does not exist yet. Ticket ids inside the lists are
// either absent, the zero sentinel (a new ticket), or an existing ticket id.
type Snapshot struct {
	Title   string
	BoardID *string
	Lists   []SnapshotList
}

type SnapshotList struct {
	Category string
	Tickets  []SnapshotTicket
}

type SnapshotTicket struct {
	ID      *int64
	Content string
}

// SaveResult reports the outcome of a snapshot submission. TicketErrors
// carries per-ticket failures that did not abort the operation; Message is
// the human-readable summary shown to the client.
type SaveResult struct {
	BoardID      int64
	Title        string
	Created      bool
	Message      string
	TicketErrors []string
}

// BoardSummary is a single entry of a user's board listing.
type BoardSummary struct {
	ID    int64
	Title string
}

// BoardService coordinates board and ticket operations for authenticated users.
type BoardService interface {
	ListBoards(ctx context.Context, userID int64) ([]BoardSummary, error)
	SaveBoard(ctx context.Context, userID int64, snapshot Snapshot) (*SaveResult, error)
	GetBoardView(ctx context.Context, userID, boardID int64) (*BoardView, error)
	DeleteBoard(ctx context.Context, userID, boardID int64) error
}

type boardService struct {
	boards  repository.BoardRepository
	tickets repository.TicketRepository
	logger  *logrus.Logger
}

func NewBoardService(boards repository.BoardRepository, tickets repository.TicketRepository, logger *logrus.Logger) BoardService {
	if logger == nil {
		logger = logrus.New()
	}
	return &boardService{
		boards:  boards,
		tickets: tickets,
		logger:  logger,
	}
}

func (s *boardService) ListBoards(ctx context.Context, userID int64) ([]BoardSummary, error) {
	boards, err := s.boards.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]BoardSummary, len(boards))
	for i := range boards {
		summaries[i] = BoardSummary{ID: boards[i].ID, Title: boards[i].Title}
	}
	return summaries, nil
}

// SaveBoard reconciles a submitted snapshot against persisted state. Without
// a board id the snapshot creates a fresh board owning every submitted
// ticket; with one it updates the existing board: tickets missing from the
// snapshot are soft-deleted, zero-id tickets are created, the rest are
// overwritten. Failures on individual tickets never abort the rest; a
// failure on the board itself fails the whole call.
func (s *boardService) SaveBoard(ctx context.Context, userID int64, snapshot Snapshot) (*SaveResult, error) {
	if snapshot.BoardID == nil {
		return s.createBoard(ctx, userID, snapshot)
	}
	return s.updateBoard(ctx, userID, snapshot)
}

func (s *boardService) createBoard(ctx context.Context, userID int64, snapshot Snapshot) (*SaveResult, error) {
	board := &domain.Board{
		Title:     snapshot.Title,
		CreatedBy: userID,
	}
	boardID, err := s.boards.Create(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	var ticketErrs []string
	for _, list := range snapshot.Lists {
		for _, in := range list.Tickets {
			ticket := &domain.Ticket{
				BoardID:  boardID,
				AuthorID: userID,
				Category: list.Category,
				Content:  in.Content,
			}
			if err := s.tickets.Create(ctx, ticket); err != nil {
				s.logger.Warnf("save ticket %q on board %d: %v", in.Content, boardID, err)
				ticketErrs = append(ticketErrs, fmt.Sprintf("failed to save ticket %q: %v", in.Content, err))
			}
		}
	}

	result := &SaveResult{
		BoardID:      boardID,
		Title:        snapshot.Title,
		Created:      true,
		TicketErrors: ticketErrs,
	}
	if len(ticketErrs) == 0 {
		result.Message = "Board and tickets created"
	} else {
		result.Message = "Board created but some tickets failed: " + strings.Join(ticketErrs, "; ")
	}
	return result, nil
}

func (s *boardService) updateBoard(ctx context.Context, userID int64, snapshot Snapshot) (*SaveResult, error) {
	boardID, err := strconv.ParseInt(*snapshot.BoardID, 10, 64)
	if err != nil {
		return nil, ErrInvalidBoardID
	}

	board, err := s.boards.Get(ctx, boardID)
	if err != nil || !board.ReadableBy(userID) {
		return nil, ErrBoardNotFound
	}

	// snapshot of persisted tickets before anything changes
	existing, err := s.tickets.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("fetch existing tickets: %w", err)
	}

	receivedIDs := make(map[int64]struct{})
	for _, list := range snapshot.Lists {
		for _, in := range list.Tickets {
			if in.ID != nil && *in.ID != 0 {
				receivedIDs[*in.ID] = struct{}{}
			}
		}
	}

	// deletion pass: anything persisted but absent from the snapshot goes,
	// best effort per ticket
	for _, ticket := range existing {
		if _, ok := receivedIDs[ticket.ID]; ok {
			continue
		}
		if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
			s.logger.Warnf("delete ticket %d on board %d: %v", ticket.ID, boardID, err)
		}
	}

	// upsert pass in submission order: the zero sentinel creates, everything
	// else is a full overwrite of the referenced ticket
	var ticketErrs []string
	for _, list := range snapshot.Lists {
		for _, in := range list.Tickets {
			var err error
			if in.ID != nil && *in.ID == 0 {
				ticket := &domain.Ticket{
					BoardID:  boardID,
					AuthorID: userID,
					Category: list.Category,
					Content:  in.Content,
				}
				err = s.tickets.Create(ctx, ticket)
			} else if in.ID == nil {
				err = errors.New("ticket id is required for update")
			} else {
				now := time.Now().UTC()
				ticket := &domain.Ticket{
					ID:        *in.ID,
					BoardID:   boardID,
					AuthorID:  userID,
					Category:  list.Category,
					Content:   in.Content,
					CreatedAt: now,
					UpdatedAt: now,
				}
				err = s.tickets.Update(ctx, ticket)
			}
			if err != nil {
				s.logger.Warnf("upsert %s on board %d: %v", describeTicket(in.ID), boardID, err)
				ticketErrs = append(ticketErrs, fmt.Sprintf("%s failed: %v", describeTicket(in.ID), err))
			}
		}
	}

	// the title update runs regardless of ticket outcomes and is the one
	// step gated on ownership; ticket work already done is not rolled back
	if !board.OwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	board.Title = snapshot.Title
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("update board: %w", err)
	}

	result := &SaveResult{
		BoardID:      boardID,
		Title:        snapshot.Title,
		TicketErrors: ticketErrs,
	}
	if len(ticketErrs) == 0 {
		result.Message = "Board and tickets updated"
	} else {
		result.Message = "Board updated but some tickets failed: " + strings.Join(ticketErrs, "; ")
	}
	return result, nil
}

func (s *boardService) GetBoardView(ctx context.Context, userID, boardID int64) (*BoardView, error) {
	board, err := s.boards.Get(ctx, boardID)
	if err != nil || !board.ReadableBy(userID) {
		return nil, ErrBoardNotFound
	}

	tickets, err := s.tickets.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}

	return assembleView(board, tickets), nil
}

// DeleteBoard soft-deletes a board and all of its tickets. Ticket deletions
// are best effort; the board deletion itself is strict.
func (s *boardService) DeleteBoard(ctx context.Context, userID, boardID int64) error {
	board, err := s.boards.Get(ctx, boardID)
	if err != nil {
		return ErrBoardNotFound
	}
	if !board.OwnedBy(userID) {
		return ErrUnauthorized
	}

	tickets, err := s.tickets.ListByBoard(ctx, boardID)
	if err != nil {
		s.logger.Warnf("fetch tickets of board %d for delete: %v", boardID, err)
	}
	for _, ticket := range tickets {
		if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
			s.logger.Warnf("delete ticket %d on board %d: %v", ticket.ID, boardID, err)
		}
	}

	if err := s.boards.Delete(ctx, boardID); err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	return nil
}

func describeTicket(id *int64) string {
	if id == nil {
		return "ticket (no id)"
	}
	return fmt.Sprintf("ticket %d", *id)
}
