package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

// formMessage reports whether err should be shown inline on the form that
// caused it, and with which text.
func formMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, application.ErrValidation),
		errors.Is(err, application.ErrConflict),
		errors.Is(err, application.ErrAuth):
		return application.Message(err), true
	}
	return "", false
}

// Fail renders err as a full page. Domain errors map to their status;
// everything else is logged and shown as a 500 without details.
func (r *Renderer) Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		c.Redirect(http.StatusFound, middleware.LoginPath)
	case errors.Is(err, application.ErrNotFound):
		r.ErrorPage(c, http.StatusNotFound, application.Message(err))
	case errors.Is(err, application.ErrForbidden):
		r.ErrorPage(c, http.StatusForbidden, application.Message(err))
	default:
		_ = c.Error(err)
		r.Logger.WithError(err).
			WithField("request_id", c.GetString(middleware.RequestIDKey)).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
		r.ErrorPage(c, http.StatusInternalServerError, "")
	}
}

func (r *Renderer) ErrorPage(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	r.HTML(c, status, "error.html", &HTMLData{Title: http.StatusText(status), Message: msg})
}

// NotFound handles unmatched routes.
func (r *Renderer) NotFound(c *gin.Context) {
	r.ErrorPage(c, http.StatusNotFound, "")
}
