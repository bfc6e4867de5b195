package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const Greeting = "Hello and welcome to mysite!"

func Hello(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}
