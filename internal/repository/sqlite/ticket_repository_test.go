package sqlite

import (
	"context"
	"errors"
	"testing"

	"retroboard/internal/domain"
	"retroboard/internal/repository"
)

func newTicketRepo(t *testing.T) repository.TicketRepository {
	t.Helper()

	db := openTestDB(t)
	repo := NewTicketRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo
}

func TestTicketRepositoryRoundTrip(t *testing.T) {
	repo := newTicketRepo(t)
	ctx := context.Background()

	ticket := &domain.Ticket{BoardID: 7, AuthorID: 1, Category: domain.CategoryKeep, Content: "pairing"}
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	loaded, err := repo.Get(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.BoardID != 7 || loaded.Category != domain.CategoryKeep || loaded.Content != "pairing" {
		t.Errorf("loaded ticket %+v", loaded)
	}

	loaded.Category = domain.CategoryTry
	loaded.Content = "mob instead"
	if err := repo.Update(ctx, loaded); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, _ = repo.Get(ctx, ticket.ID)
	if loaded.Category != domain.CategoryTry || loaded.Content != "mob instead" {
		t.Errorf("ticket after update %+v", loaded)
	}
}

func TestTicketRepositoryListByBoardFiltersDeleted(t *testing.T) {
	repo := newTicketRepo(t)
	ctx := context.Background()

	var ids []int64
	for _, content := range []string{"a", "b", "c"} {
		ticket := &domain.Ticket{BoardID: 7, AuthorID: 1, Category: domain.CategoryKeep, Content: content}
		if err := repo.Create(ctx, ticket); err != nil {
			t.Fatalf("create %q: %v", content, err)
		}
		ids = append(ids, ticket.ID)
	}
	other := &domain.Ticket{BoardID: 8, AuthorID: 1, Category: domain.CategoryKeep, Content: "elsewhere"}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	tickets, err := repo.ListByBoard(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tickets) != 2 || tickets[0].Content != "a" || tickets[1].Content != "c" {
		t.Errorf("listed tickets %+v", tickets)
	}

	if _, err := repo.Get(ctx, ids[1]); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("get deleted: expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketRepositoryUpdateUnknownID(t *testing.T) {
	repo := newTicketRepo(t)
	ctx := context.Background()

	err := repo.Update(ctx, &domain.Ticket{ID: 99, Category: domain.CategoryKeep, Content: "ghost"})
	if !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketRepositoryUpdateDeletedTicket(t *testing.T) {
	repo := newTicketRepo(t)
	ctx := context.Background()

	ticket := &domain.Ticket{BoardID: 7, AuthorID: 1, Category: domain.CategoryKeep, Content: "gone"}
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, ticket.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err := repo.Update(ctx, &domain.Ticket{ID: ticket.ID, Category: domain.CategoryTry, Content: "revive"})
	if !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("updating a soft-deleted ticket must fail, got %v", err)
	}
}
