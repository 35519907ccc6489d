package domain

import "time"

// Board is a retrospective board owned by a single account. A zero ID means
// the board has not been persisted yet; storage assigns the ID on first
// insert and it never changes afterwards. Deletion is a soft flag.
type Board struct {
	ID        int64
	Title     string
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

// OwnedBy reports whether userID is the board's creator. Every board
// mutation (title update, delete) requires ownership.
func (b *Board) OwnedBy(userID int64) bool {
	return b.CreatedBy == userID
}

// ReadableBy reports whether userID may read the board. Reads are wider than
// writes: any authenticated user can read a board that is not soft-deleted,
// and the owner keeps read access even after deleting it.
func (b *Board) ReadableBy(userID int64) bool {
	return b.OwnedBy(userID) || !b.Deleted
}
