package search

import (
	"context"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueIndexer defers index writes to the indexer worker by publishing
// events instead of calling Elasticsearch inline.
type QueueIndexer struct {
	Pub Publisher
}

func NewQueueIndexer(pub Publisher) *QueueIndexer {
	return &QueueIndexer{Pub: pub}
}

func (q *QueueIndexer) IndexPost(ctx context.Context, p entity.Post) error {
	doc := NewDocument(p)
	return q.Pub.PublishJSON(ctx, Event{Action: ActionIndex, PostID: p.ID, Post: &doc})
}

func (q *QueueIndexer) RemovePost(ctx context.Context, id int64) error {
	return q.Pub.PublishJSON(ctx, Event{Action: ActionDelete, PostID: id})
}
