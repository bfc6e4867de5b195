package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
	"github.com/oksasatya/go-ddd-blog/pkg/validation"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.Manager
	View    *Renderer
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.Manager, view *Renderer) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, View: view}
}

type registerForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login does not require fields: an empty username is simply unknown.
type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	h.View.HTML(c, http.StatusOK, "auth/register.html", &HTMLData{Title: "Register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var f registerForm
	if err := c.ShouldBind(&f); err != nil {
		h.redisplay(c, "auth/register.html", "Register", f.Username, validation.FirstMessage(err))
		return
	}
	if _, err := h.Auth.Register(c.Request.Context(), f.Username, f.Password); err != nil {
		if msg, ok := formMessage(err); ok {
			h.redisplay(c, "auth/register.html", "Register", f.Username, msg)
			return
		}
		h.View.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.View.HTML(c, http.StatusOK, "auth/login.html", &HTMLData{Title: "Log In"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		h.redisplay(c, "auth/login.html", "Log In", "", validation.FirstMessage(err))
		return
	}
	_, sess, err := h.Auth.Login(c.Request.Context(), middleware.SessionToken(c), f.Username, f.Password)
	if err != nil {
		if msg, ok := formMessage(err); ok {
			h.redisplay(c, "auth/login.html", "Log In", f.Username, msg)
			return
		}
		h.View.Fail(c, err)
		return
	}
	h.Cookies.Set(c, sess.Token, sess.Expires)
	c.Redirect(http.StatusFound, "/")
}

// Logout always drops the cookie, even if the token could not be revoked.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		h.View.Logger.WithError(err).Warn("session revoke failed")
	}
	h.Cookies.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) redisplay(c *gin.Context, page, title, username, msg string) {
	h.View.HTML(c, http.StatusOK, page, &HTMLData{
		Title:     title,
		FormError: msg,
		FormData:  map[string]string{"username": username},
	})
}
