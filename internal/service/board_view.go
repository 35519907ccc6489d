package service

import (
	"retroboard/internal/domain"
)

// BoardView is the categorized read model of a board: one list per fixed
// category, in fixed order, regardless of how tickets were submitted.
type BoardView struct {
	ID    int64
	Title string
	Lists []ViewList
}

type ViewList struct {
	ID       string
	Category string
	Tickets  []ViewTicket
}

type ViewTicket struct {
	ID      int64
	Content string
}

// assembleView groups tickets by category into the fixed Keep/Problem/Try
// order. Ticket order within a list follows storage return order; tickets
// with a category outside the fixed set are omitted from the view.
func assembleView(board *domain.Board, tickets []domain.Ticket) *BoardView {
	view := &BoardView{
		ID:    board.ID,
		Title: board.Title,
		Lists: make([]ViewList, 0, len(domain.Categories)),
	}

	for _, category := range domain.Categories {
		list := ViewList{
			ID:       category,
			Category: category,
			Tickets:  []ViewTicket{},
		}
		for _, ticket := range tickets {
			if ticket.Category != category {
				continue
			}
			list.Tickets = append(list.Tickets, ViewTicket{
				ID:      ticket.ID,
				Content: ticket.Content,
			})
		}
		view.Lists = append(view.Lists, list)
	}

	return view
}
