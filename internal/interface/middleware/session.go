package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

const (
	CtxUserKey  = "currentUser"
	CtxTokenKey = "sessionToken"
)

// UserResolver is satisfied by application.AuthService.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
}

// LoadUser resolves the session cookie into the current user before any
// handler runs. A missing, forged, revoked or orphaned cookie leaves the
// request anonymous. A storage failure is passed to fail and the chain stops.
func LoadUser(users UserResolver, cookies *helpers.Manager, fail DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Get(c)
		if token == "" {
			c.Next()
			return
		}
		c.Set(CtxTokenKey, token)
		u, err := users.CurrentUser(c.Request.Context(), token)
		if err != nil {
			fail(c, err)
			c.Abort()
			return
		}
		if u != nil {
			c.Set(CtxUserKey, u)
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by LoadUser, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// SessionToken returns the raw session cookie seen by LoadUser.
func SessionToken(c *gin.Context) string {
	return c.GetString(CtxTokenKey)
}
