package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

const selectPost = `SELECT p.id, p.title, p.body, p.created, p.author_id, u.username
	FROM post p JOIN "user" u ON p.author_id = u.id`

type PostRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db, now: time.Now}
}

// Create inserts p and fills in its ID and Created fields.
// The timestamp is taken here rather than from the column default so that
// ordering keeps sub-second precision on SQLite.
func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	p.Created = r.now().UTC()
	q := r.db.Rebind(`INSERT INTO post (title, body, author_id, created) VALUES (?, ?, ?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, q, p.Title, p.Body, p.AuthorID, p.Created).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	p := &entity.Post{}
	if err := r.db.GetContext(ctx, p, r.db.Rebind(selectPost+` WHERE p.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return p, nil
}

// List returns every post, newest first. Ties on created fall back to id.
func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	posts := []entity.Post{}
	if err := r.db.SelectContext(ctx, &posts, selectPost+` ORDER BY p.created DESC, p.id DESC`); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Update replaces title and body; author and creation time are left alone.
func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	q := r.db.Rebind(`UPDATE post SET title = ?, body = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, p.Title, p.Body, p.ID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	return expectRow(res)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM post WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
