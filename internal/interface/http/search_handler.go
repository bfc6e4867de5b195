package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
	"github.com/oksasatya/go-ddd-blog/pkg/validation"
)

// Searcher is satisfied by search.ESIndex.
type Searcher interface {
	Search(ctx context.Context, q string, size int) ([]search.Document, error)
}

type SearchHandler struct {
	Index  Searcher
	Logger *logrus.Logger
}

func NewSearchHandler(index Searcher, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{Index: index, Logger: logger}
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,max=200"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

// Posts answers GET /search?q=...&size=... with matching posts as JSON.
func (h *SearchHandler) Posts(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Write(c, response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err)))
		return
	}
	docs, err := h.Index.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		h.Logger.WithError(err).WithField("q", q.Q).Warn("post search failed")
		response.Write(c, response.Error[any](c, http.StatusBadGateway, "search unavailable", nil))
		return
	}
	response.Write(c, response.Success(c, http.StatusOK, docs, "posts found", map[string]any{"count": len(docs)}))
}
