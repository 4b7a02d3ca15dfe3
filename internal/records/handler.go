package records

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/records/:record_id", h.getByRecordID) // GET /api/records/:record_id
	rg.GET("/features", h.features)                // GET /api/features
}

func (h *Handler) getByRecordID(c *gin.Context) {
	id := c.Param("record_id")
	rec, err := h.Repo.GetByRecordID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) features(c *gin.Context) {
	fc, err := h.Repo.FeatureCollection(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "features failed"})
		return
	}
	c.JSON(http.StatusOK, fc)
}
