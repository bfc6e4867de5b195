package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RealIPKey)) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"garbage falls back", map[string]string{"CF-Connecting-IP": "nope", "X-Forwarded-For": "also-nope"}, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func withUser(u *entity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			c.Set(CtxUserKey, u)
		}
		c.Next()
	}
}

func TestRequireLogin(t *testing.T) {
	for _, u := range []*entity.User{nil, {ID: 1, Username: "alice"}} {
		r := gin.New()
		r.Use(withUser(u), RequireLogin())
		r.GET("/create", func(c *gin.Context) { c.String(http.StatusOK, "form") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/create", nil))
		if u == nil {
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, LoginPath, w.Header().Get("Location"))
		} else {
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "form", w.Body.String())
		}
	}
}

type fakeGate struct {
	decision application.Decision
	post     *entity.Post
	err      error
	calledID int64
}

func (f *fakeGate) OwnershipGate(_ context.Context, _ *entity.User, id int64) (application.Decision, *entity.Post, error) {
	f.calledID = id
	return f.decision, f.post, f.err
}

func ownerRouter(g OwnershipChecker, user *entity.User, denied *error) *gin.Engine {
	r := gin.New()
	r.Use(withUser(user))
	deny := func(c *gin.Context, err error) {
		*denied = err
		c.String(http.StatusTeapot, err.Error())
	}
	r.GET("/:id/update", RequireOwner(g, deny), func(c *gin.Context) {
		c.String(http.StatusOK, OwnedPost(c).Title)
	})
	return r
}

func TestRequireOwner(t *testing.T) {
	alice := &entity.User{ID: 1, Username: "alice"}

	t.Run("allowed stores post", func(t *testing.T) {
		var denied error
		g := &fakeGate{decision: application.Allowed, post: &entity.Post{ID: 3, Title: "mine", AuthorID: 1}}
		w := httptest.NewRecorder()
		ownerRouter(g, alice, &denied).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/3/update", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "mine", w.Body.String())
		assert.Equal(t, int64(3), g.calledID)
		assert.NoError(t, denied)
	})

	t.Run("anonymous redirected", func(t *testing.T) {
		var denied error
		g := &fakeGate{decision: application.RedirectToLogin}
		w := httptest.NewRecorder()
		ownerRouter(g, nil, &denied).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/3/update", nil))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, LoginPath, w.Header().Get("Location"))
	})

	t.Run("forbidden and not found are denied", func(t *testing.T) {
		for d, kind := range map[application.Decision]error{
			application.Forbidden: application.ErrForbidden,
			application.NotFound:  application.ErrNotFound,
		} {
			var denied error
			w := httptest.NewRecorder()
			ownerRouter(&fakeGate{decision: d}, alice, &denied).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/3/update", nil))
			assert.Equal(t, http.StatusTeapot, w.Code)
			assert.ErrorIs(t, denied, kind)
		}
	})

	t.Run("non numeric id is not found", func(t *testing.T) {
		var denied error
		g := &fakeGate{decision: application.Allowed}
		w := httptest.NewRecorder()
		ownerRouter(g, alice, &denied).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/abc/update", nil))
		assert.ErrorIs(t, denied, application.ErrNotFound)
		assert.Zero(t, g.calledID)
	})

	t.Run("storage failure is passed through", func(t *testing.T) {
		var denied error
		boom := errors.New("db down")
		w := httptest.NewRecorder()
		ownerRouter(&fakeGate{err: boom}, alice, &denied).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/3/update", nil))
		assert.ErrorIs(t, denied, boom)
	})
}

func TestCurrentUser_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
	assert.Nil(t, OwnedPost(c))
	assert.Empty(t, SessionToken(c))
}

type fakeResolver struct {
	user *entity.User
	err  error
}

func (f fakeResolver) CurrentUser(context.Context, string) (*entity.User, error) {
	return f.user, f.err
}

func TestLoadUser(t *testing.T) {
	cookies := helpers.NewCookie("session", "", false)
	serve := func(res UserResolver, cookie string) (*httptest.ResponseRecorder, error) {
		var failed error
		r := gin.New()
		r.Use(LoadUser(res, cookies, func(c *gin.Context, err error) {
			failed = err
			c.String(http.StatusInternalServerError, "boom")
		}))
		r.GET("/", func(c *gin.Context) {
			name := "anonymous"
			if u := CurrentUser(c); u != nil {
				name = u.Username
			}
			c.String(http.StatusOK, name)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w, failed
	}

	w, failed := serve(fakeResolver{user: &entity.User{ID: 1, Username: "alice"}}, "tok")
	assert.Equal(t, "alice", w.Body.String())
	assert.NoError(t, failed)

	w, _ = serve(fakeResolver{}, "tok")
	assert.Equal(t, "anonymous", w.Body.String())

	w, _ = serve(fakeResolver{err: errors.New("unused")}, "")
	assert.Equal(t, "anonymous", w.Body.String())

	boom := errors.New("db down")
	w, failed = serve(fakeResolver{err: boom}, "tok")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", w.Body.String())
	assert.ErrorIs(t, failed, boom)
}
