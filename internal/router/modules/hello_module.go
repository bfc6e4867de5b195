package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
)

type HelloModule struct{}

func NewHelloModule() *HelloModule { return &HelloModule{} }

func (m *HelloModule) Register(rg *gin.RouterGroup) {
	rg.GET("/hello", handlers.Hello)
}
