package domain

import "time"

const (
	CategoryKeep    = "Keep"
	CategoryProblem = "Problem"
	CategoryTry     = "Try"
)

// Categories is the fixed category order used when a board is assembled into
// its client view. Tickets persisted with a category outside this set stay in
// storage but never appear in an assembled view.
var Categories = []string{CategoryKeep, CategoryProblem, CategoryTry}

// Ticket is a single categorized note on a board. A zero ID means the ticket
// has not been persisted yet.
type Ticket struct {
	ID        int64
	BoardID   int64
	AuthorID  int64
	Category  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}
