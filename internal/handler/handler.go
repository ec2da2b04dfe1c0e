package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"alumni/internal/alumni"
	"alumni/internal/directory"
	"alumni/internal/metrics"
	"alumni/internal/taxonomy"
)

// Handler serves the /api routes.
type Handler struct {
	svc     *alumni.Service
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New creates a handler. A nil m gets collectors on a private registry.
func New(svc *alumni.Service, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, metrics: m, log: logger}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.POST("/alumni", h.CreateAlumni)
		api.GET("/alumni", h.ListAlumni)
		api.GET("/alumni/export", h.ExportAlumni)
		api.GET("/check-name", h.CheckName)
		api.GET("/occupations", h.Occupations)
	}
}

// ---------- Create ----------

// CreateAlumni stores one record. Only presence of required fields is checked.
func (h *Handler) CreateAlumni(c *gin.Context) {
	var req alumni.Record
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.Records.WithLabelValues(metrics.OutcomeInvalid).Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), req)
	switch {
	case errors.Is(err, alumni.ErrDuplicateName):
		h.metrics.Records.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.metrics.Records.WithLabelValues(metrics.OutcomeError).Inc()
		h.log.Error("create alumni failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save alumni data"})
		return
	}
	h.metrics.Records.WithLabelValues(metrics.OutcomeCreated).Inc()
	c.JSON(http.StatusCreated, rec)
}

// ---------- List Endpoints ----------

func (h *Handler) ListAlumni(c *gin.Context) {
	recs, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("list alumni failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alumni data"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

// ExportAlumni downloads the records of one occupation tab (?field=, default All)
// as csv or xlsx (?format=).
func (h *Handler) ExportAlumni(c *gin.Context) {
	format, err := directory.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recs, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("export list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alumni data"})
		return
	}

	var buf bytes.Buffer
	if err := directory.Export(&buf, directory.List(recs, c.DefaultQuery("field", directory.All)), format); err != nil {
		h.log.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export alumni data"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+format.Filename())
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ---------- Name check ----------

func (h *Handler) CheckName(c *gin.Context) {
	firstName := strings.TrimSpace(c.Query("firstName"))
	lastName := strings.TrimSpace(c.Query("lastName"))
	if firstName == "" || lastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "firstName and lastName are required"})
		return
	}

	exists, err := h.svc.ExistsByName(c.Request.Context(), firstName, lastName)
	if err != nil {
		h.metrics.NameChecks.WithLabelValues("error").Inc()
		h.log.Error("check name failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check name"})
		return
	}
	result := "free"
	if exists {
		result = "exists"
	}
	h.metrics.NameChecks.WithLabelValues(result).Inc()
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// ---------- Taxonomy ----------

func (h *Handler) Occupations(c *gin.Context) {
	c.JSON(http.StatusOK, taxonomy.Categories())
}
