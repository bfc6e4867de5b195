package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

// PostIndexer mirrors posts into the search index. Indexing happens after
// the store has committed and its failures never fail the request.
type PostIndexer interface {
	IndexPost(ctx context.Context, p entity.Post) error
	RemovePost(ctx context.Context, id int64) error
}

type PostInput struct {
	Title string
	Body  string
}

type PostService struct {
	Posts   repo.PostRepository
	Guard   *Guard
	Indexer PostIndexer
	Logger  *logrus.Logger
}

func NewPostService(posts repo.PostRepository, guard *Guard, indexer PostIndexer, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Guard: guard, Indexer: indexer, Logger: logger}
}

// List returns all posts newest first, with author usernames.
func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	return s.Posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, postNotFound(id)
	}
	return p, err
}

// Authorize runs the login and ownership gates for a mutation of post id
// and returns the post when actor may change it.
func (s *PostService) Authorize(ctx context.Context, actor *entity.User, id int64) (*entity.Post, error) {
	d, p, err := s.Guard.OwnershipGate(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if d != Allowed {
		return nil, d.Err(id)
	}
	return p, nil
}

func (s *PostService) Create(ctx context.Context, author *entity.User, in PostInput) (*entity.Post, error) {
	if d := s.Guard.LoginGate(author); d != Allowed {
		return nil, d.Err(0)
	}
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}
	p := &entity.Post{Title: in.Title, Body: in.Body, AuthorID: author.ID, Username: author.Username}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	postsCreated.Add(1)
	s.Logger.WithFields(logrus.Fields{"post_id": p.ID, "user_id": author.ID}).Info("post created")
	s.index(ctx, *p)
	return p, nil
}

// Update replaces title and body of a post owned by actor. Existence and
// ownership are checked before the input is validated.
func (s *PostService) Update(ctx context.Context, actor *entity.User, id int64, in PostInput) (*entity.Post, error) {
	p, err := s.Authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}
	p.Title, p.Body = in.Title, in.Body
	if err := s.Posts.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, postNotFound(id)
		}
		return nil, err
	}
	postsUpdated.Add(1)
	s.Logger.WithFields(logrus.Fields{"post_id": p.ID, "user_id": actor.ID}).Info("post updated")
	s.index(ctx, *p)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, actor *entity.User, id int64) error {
	if _, err := s.Authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return postNotFound(id)
		}
		return err
	}
	postsDeleted.Add(1)
	s.Logger.WithFields(logrus.Fields{"post_id": id, "user_id": actor.ID}).Info("post deleted")
	if s.Indexer != nil {
		if err := s.Indexer.RemovePost(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("search remove failed")
		}
	}
	return nil
}

func (s *PostService) index(ctx context.Context, p entity.Post) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexPost(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("search index failed")
	}
}
