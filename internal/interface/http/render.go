package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

// HTMLData is the view model shared by every page.
type HTMLData struct {
	Title       string
	Path        string
	FormError   string
	FormData    map[string]string // values to echo back into a form
	Message     string
	CurrentUser *entity.User
	Post        *entity.Post
	Posts       []entity.Post
}

type Renderer struct {
	Logger *logrus.Logger
}

func NewRenderer(logger *logrus.Logger) *Renderer {
	return &Renderer{Logger: logger}
}

// HTML renders page with the request path and current user filled in.
func (r *Renderer) HTML(c *gin.Context, status int, page string, data *HTMLData) {
	if data == nil {
		data = &HTMLData{}
	}
	data.Path = c.Request.URL.Path
	if data.CurrentUser == nil {
		data.CurrentUser = middleware.CurrentUser(c)
	}
	c.HTML(status, page, data)
}
