package entity

import "time"

// Post is a blog entry owned by exactly one user.
// AuthorID and Created are fixed at creation.
type Post struct {
	ID       int64     `db:"id"`
	Title    string    `db:"title"`
	Body     string    `db:"body"`
	Created  time.Time `db:"created"`
	AuthorID int64     `db:"author_id"`
	// Username of the author, filled by reads that join the user table
	Username string `db:"username"`
}

// OwnedBy reports whether userID is the post's author.
func (p *Post) OwnedBy(userID int64) bool {
	return p != nil && p.AuthorID == userID
}
