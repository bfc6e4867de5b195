package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

const (
	LoginPath  = "/auth/login"
	CtxPostKey = "post"
)

// OwnershipChecker is satisfied by application.Guard.
type OwnershipChecker interface {
	OwnershipGate(ctx context.Context, user *entity.User, postID int64) (application.Decision, *entity.Post, error)
}

// DenyFunc renders a refused request. err is a domain error or a storage
// failure.
type DenyFunc func(c *gin.Context, err error)

// RequireLogin redirects anonymous visitors to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireOwner loads post :id and lets the request through only for its
// author. A missing post is reported before a foreign one.
func RequireOwner(guard OwnershipChecker, deny DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			deny(c, &application.Error{Kind: application.ErrNotFound, Message: http.StatusText(http.StatusNotFound)})
			c.Abort()
			return
		}
		d, p, err := guard.OwnershipGate(c.Request.Context(), CurrentUser(c), id)
		if err != nil {
			deny(c, err)
			c.Abort()
			return
		}
		switch d {
		case application.Allowed:
			c.Set(CtxPostKey, p)
			c.Next()
		case application.RedirectToLogin:
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
		default:
			deny(c, d.Err(id))
			c.Abort()
		}
	}
}

// OwnedPost returns the post loaded by RequireOwner.
func OwnedPost(c *gin.Context) *entity.Post {
	v, ok := c.Get(CtxPostKey)
	if !ok {
		return nil
	}
	p, _ := v.(*entity.Post)
	return p
}
