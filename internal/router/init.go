package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/container"
	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/internal/router/modules"
	"github.com/oksasatya/go-ddd-blog/pkg/validation"
	"github.com/oksasatya/go-ddd-blog/web"
)

// NewEngine builds the gin engine with global middleware, templates and
// every module registered.
func NewEngine(c *container.Container) (*gin.Engine, error) {
	validation.Init()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if c.Config.HTTPLogEnabled || c.Config.Env == "development" {
		r.Use(middleware.RequestLogger(c.Logger))
	}
	if origins := c.Config.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(tmpl)

	view := handlers.NewRenderer(c.Logger)
	r.Use(middleware.LoadUser(c.Auth, c.Cookies, view.Fail))
	r.NoRoute(view.NotFound)

	reg := NewRegistry(r)
	InitModules(reg, c, view)
	reg.RegisterAll()
	return r, nil
}

// InitModules adds the modules enabled by the configuration.
func InitModules(r *Registry, c *container.Container, view *handlers.Renderer) {
	r.Add(modules.NewHelloModule())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies, view)))
	r.Add(modules.NewBlogModule(handlers.NewBlogHandler(c.Posts, view), c.Guard, view))
	if c.Search != nil {
		r.Add(modules.NewSearchModule(handlers.NewSearchHandler(c.Search, c.Logger)))
	}
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
