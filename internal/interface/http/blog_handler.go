package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/pkg/validation"
)

type BlogHandler struct {
	Posts *application.PostService
	View  *Renderer
}

func NewBlogHandler(posts *application.PostService, view *Renderer) *BlogHandler {
	return &BlogHandler{Posts: posts, View: view}
}

type postForm struct {
	Title string `form:"title" binding:"required"`
	Body  string `form:"body"`
}

func (f postForm) data() map[string]string {
	return map[string]string{"title": f.Title, "body": f.Body}
}

func (h *BlogHandler) Index(c *gin.Context) {
	posts, err := h.Posts.List(c.Request.Context())
	if err != nil {
		h.View.Fail(c, err)
		return
	}
	h.View.HTML(c, http.StatusOK, "blog/index.html", &HTMLData{Title: "Posts", Posts: posts})
}

func (h *BlogHandler) CreateForm(c *gin.Context) {
	h.View.HTML(c, http.StatusOK, "blog/create.html", &HTMLData{Title: "New Post"})
}

func (h *BlogHandler) Create(c *gin.Context) {
	var f postForm
	if err := c.ShouldBind(&f); err != nil {
		h.View.HTML(c, http.StatusOK, "blog/create.html", &HTMLData{Title: "New Post", FormError: validation.FirstMessage(err), FormData: f.data()})
		return
	}
	_, err := h.Posts.Create(c.Request.Context(), middleware.CurrentUser(c), application.PostInput{Title: f.Title, Body: f.Body})
	if err != nil {
		if msg, ok := formMessage(err); ok {
			h.View.HTML(c, http.StatusOK, "blog/create.html", &HTMLData{Title: "New Post", FormError: msg, FormData: f.data()})
			return
		}
		h.View.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// UpdateForm expects RequireOwner to have loaded the post.
func (h *BlogHandler) UpdateForm(c *gin.Context) {
	p := middleware.OwnedPost(c)
	h.editPage(c, p, postForm{Title: p.Title, Body: p.Body}, "")
}

func (h *BlogHandler) Update(c *gin.Context) {
	p := middleware.OwnedPost(c)
	var f postForm
	if err := c.ShouldBind(&f); err != nil {
		h.editPage(c, p, f, validation.FirstMessage(err))
		return
	}
	_, err := h.Posts.Update(c.Request.Context(), middleware.CurrentUser(c), p.ID, application.PostInput{Title: f.Title, Body: f.Body})
	if err != nil {
		if msg, ok := formMessage(err); ok {
			h.editPage(c, p, f, msg)
			return
		}
		h.View.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *BlogHandler) Delete(c *gin.Context) {
	p := middleware.OwnedPost(c)
	if err := h.Posts.Delete(c.Request.Context(), middleware.CurrentUser(c), p.ID); err != nil {
		h.View.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *BlogHandler) editPage(c *gin.Context, p *entity.Post, f postForm, msg string) {
	h.View.HTML(c, http.StatusOK, "blog/update.html", &HTMLData{
		Title:     `Edit "` + p.Title + `"`,
		FormError: msg,
		FormData:  f.data(),
		Post:      p,
	})
}
