package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gigmap/internal/markers"
)

// MarkersHandler exposes the marker visual policy directly, so the external
// renderer can resolve a descriptor for any (type, count) pair.
type MarkersHandler struct{}

func NewMarkersHandler() *MarkersHandler {
	return &MarkersHandler{}
}

type markerQuery struct {
	Type  string `form:"type" binding:"required,oneof=event venue"`
	Count int    `form:"count" binding:"min=0"`
}

// Describe handles GET /markers.
func (h *MarkersHandler) Describe(c *gin.Context) {
	var q markerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, markers.Describe(markers.MarkerType(q.Type), q.Count))
}
