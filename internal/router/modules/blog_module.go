package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

// BlogModule serves the post list and the gated create/update/delete pages.
// Public: GET /
// Login: GET|POST /create
// Login + owner: GET|POST /:id/update, POST /:id/delete
type BlogModule struct {
	Handler *handlers.BlogHandler
	Guard   middleware.OwnershipChecker
	View    *handlers.Renderer
}

func NewBlogModule(h *handlers.BlogHandler, guard middleware.OwnershipChecker, view *handlers.Renderer) *BlogModule {
	return &BlogModule{Handler: h, Guard: guard, View: view}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Index)

	auth := rg.Group("/")
	auth.Use(middleware.RequireLogin())
	{
		auth.GET("/create", m.Handler.CreateForm)
		auth.POST("/create", m.Handler.Create)
	}

	owner := auth.Group("/:id")
	owner.Use(middleware.RequireOwner(m.Guard, m.View.Fail))
	{
		owner.GET("/update", m.Handler.UpdateForm)
		owner.POST("/update", m.Handler.Update)
		owner.POST("/delete", m.Handler.Delete)
	}
}
