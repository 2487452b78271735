package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/partnerai/intel-digest/app/database"
	"github.com/partnerai/intel-digest/app/intel"
	"github.com/partnerai/intel-digest/app/report"
)

func NewHandler(reportRepo database.ReportRepository, generator *report.HTMLGenerator) *Handler {
	return &Handler{
		reportRepo: reportRepo,
		pipeline:   intel.NewPipeline(),
		generator:  generator,
	}
}

// GetDigest serves the most recent digest HTML.
func (h *Handler) GetDigest(c *gin.Context) {
	latest, err := h.reportRepo.GetLatestReport()
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_report", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if latest == nil {
		c.String(http.StatusNotFound, "No digest generated yet")
		return
	}

	c.Header("X-Report-Generated", latest.GeneratedAt.Format(time.RFC3339))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(latest.HTML))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if stats, err := h.reportRepo.GetStats(); err == nil {
		health["reports"] = stats.ReportCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.reportRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":         stats.ReportCount,
		"latest_at":       stats.LatestAt,
		"items_in_latest": stats.ItemsInLatest,
		"by_category":     stats.ByCategory,
		"by_priority":     stats.ByPriority,
	})
}

func (h *Handler) APIListReports(c *gin.Context) {
	reports, err := h.reportRepo.ListReports(50)
	if err != nil {
		slog.Error("Database error", "operation", "list_reports", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]gin.H, 0, len(reports))
	for _, entry := range reports {
		out = append(out, gin.H{
			"id":              entry.ID,
			"generated_at":    entry.GeneratedAt,
			"raw_count":       entry.RawCount,
			"published_count": entry.PublishedCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"reports": out})
}

// APIIngest accepts a JSON payload in any of the supported envelope shapes,
// runs the pipeline, persists the resulting digest, and returns the scored
// items.
func (h *Handler) APIIngest(c *gin.Context) {
	var payload any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	now := time.Now().UTC()
	records := intel.ExtractRecords(payload)
	result := h.pipeline.Run(records, now)

	html := h.generator.Run(now.Format("2006-01-02"), result.Items)
	reportID, err := h.reportRepo.SaveReport(now, result.RawCount, html, result.Items)
	if err != nil {
		slog.Error("Database error", "operation", "save_report", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	slog.Info("Ingested payload",
		"report_id", reportID,
		"raw", result.RawCount,
		"published", len(result.Items))

	c.JSON(http.StatusOK, IngestResponse{
		ReportID:       reportID,
		GeneratedAt:    now,
		RawCount:       result.RawCount,
		PublishedCount: len(result.Items),
		Items:          toIngestItems(result.Items),
		Coverage:       result.Coverage,
	})
}
