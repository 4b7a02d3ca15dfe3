package ingest

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"cemeteryhub/pkg/models"
)

type Handler struct {
	Proc *Processor
}

func NewHandler(proc *Processor) *Handler {
	return &Handler{Proc: proc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process", h.process) // POST /api/process
}

func (h *Handler) process(c *gin.Context) {
	var req models.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := err.Error()
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Details: &details,
		})
		return
	}

	log.Printf("[ingest] received processing request for %s (source file %s)", req.DataPath, req.Metadata.Filename)
	start := time.Now()

	info, err := os.Stat(req.DataPath)
	if err != nil {
		details := err.Error()
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "data path not accessible",
			Details: &details,
		})
		return
	}

	var result *models.Result
	if info.IsDir() {
		result, err = h.Proc.ProcessDirectory(c.Request.Context(), req.DataPath, req.Metadata)
	} else {
		result, err = h.Proc.ProcessSingleFile(c.Request.Context(), req.DataPath, req.Metadata)
	}
	if err != nil {
		log.Printf("[ingest] processing failed: %v", err)
		details := err.Error()
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "processing failed",
			Details: &details,
		})
		return
	}

	errs := result.Errors
	if errs == nil {
		errs = []models.ErrorDetail{}
	}

	c.JSON(http.StatusOK, models.ProcessResponse{
		Success:                true,
		RecordsProcessed:       result.RecordsProcessed,
		RecordsFailed:          result.RecordsFailed,
		ProcessingTimeSeconds:  time.Since(start).Seconds(),
		GeoJSONFeaturesCreated: result.FeaturesCreated,
		Errors:                 errs,
	})
}
