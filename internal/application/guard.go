package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

// Decision is the outcome of a gate.
type Decision int

const (
	Allowed Decision = iota
	RedirectToLogin
	Forbidden
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case RedirectToLogin:
		return "redirect_to_login"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// Err converts a non-Allowed decision into the matching domain error.
func (d Decision) Err(postID int64) error {
	switch d {
	case RedirectToLogin:
		return ErrLoginRequired
	case Forbidden:
		return ErrNotAuthor
	case NotFound:
		return postNotFound(postID)
	}
	return nil
}

type Guard struct {
	Posts repo.PostRepository
}

func NewGuard(posts repo.PostRepository) *Guard {
	return &Guard{Posts: posts}
}

// LoginGate requires a resolved identity.
func (g *Guard) LoginGate(user *entity.User) Decision {
	if user == nil {
		return RedirectToLogin
	}
	return Allowed
}

// OwnershipGate requires a resolved identity that authored postID. The post
// must exist before ownership is considered. The loaded post is returned
// when the decision is Allowed.
func (g *Guard) OwnershipGate(ctx context.Context, user *entity.User, postID int64) (Decision, *entity.Post, error) {
	if d := g.LoginGate(user); d != Allowed {
		return d, nil, nil
	}
	p, err := g.Posts.GetByID(ctx, postID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	if !p.OwnedBy(user.ID) {
		return Forbidden, nil, nil
	}
	return Allowed, p, nil
}
