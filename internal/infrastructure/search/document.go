package search

import (
	"strconv"
	"time"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

// Document is the indexed form of a post.
type Document struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	AuthorID int64     `json:"author_id"`
	Author   string    `json:"author"`
	Created  time.Time `json:"created"`
}

func NewDocument(p entity.Post) Document {
	return Document{
		ID:       p.ID,
		Title:    p.Title,
		Body:     p.Body,
		AuthorID: p.AuthorID,
		Author:   p.Username,
		Created:  p.Created.UTC(),
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

const (
	ActionIndex  = "index"
	ActionDelete = "delete"
)

// Event is the queue message describing one index change.
type Event struct {
	Action string    `json:"action"`
	PostID int64     `json:"post_id"`
	Post   *Document `json:"post,omitempty"`
}
