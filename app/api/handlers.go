package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/gradcafe-comb/app/report"
	"github.com/lysyi3m/gradcafe-comb/app/tasks"
)

func NewHandler(coordinator CoordinatorInterface, counter CounterInterface, version string) *Handler {
	return &Handler{
		coordinator: coordinator,
		counter:     counter,
		version:     version,
	}
}

type dashboardData struct {
	Report  *report.Report
	Busy    bool
	Error   string
	Version string
}

func (h *Handler) GetDashboard(c *gin.Context) {
	data := dashboardData{Version: h.version}

	rep, err := h.coordinator.RequestReport(c.Request.Context())
	switch {
	case errors.Is(err, tasks.ErrBusy):
		data.Busy = true
	case err != nil:
		slog.Error("Report error", "operation", "dashboard", "error", err)
		data.Error = "Analysis is temporarily unavailable"
		c.HTML(http.StatusInternalServerError, dashboardTemplateName, data)
		return
	default:
		data.Report = &rep
	}

	c.HTML(http.StatusOK, dashboardTemplateName, data)
}

func (h *Handler) PullData(c *gin.Context) {
	result, err := h.coordinator.RequestIngestion(c.Request.Context())
	if errors.Is(err, tasks.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "busy": true})
		return
	}
	if err != nil {
		slog.Error("Ingestion error", "id", result.RunID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	response := runSummary(result)
	response["ok"] = true
	c.JSON(http.StatusOK, response)
}

func (h *Handler) UpdateAnalysis(c *gin.Context) {
	rep, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": rep})
}

func (h *Handler) GetReport(c *gin.Context) {
	rep, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) GetStatus(c *gin.Context) {
	status := h.coordinator.Status()

	response := gin.H{
		"is_running": status.State == tasks.StateRunning,
		"state":      status.State.String(),
		"last_run":   nil,
	}
	if status.LastRun != nil {
		response["last_run"] = runSummary(*status.LastRun)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if count, err := h.counter.GetApplicantCount(c.Request.Context()); err == nil {
		health["applicants"] = count
	}

	c.JSON(http.StatusOK, health)
}

// report writes the busy and failure responses itself and reports whether
// the caller should continue.
func (h *Handler) report(c *gin.Context) (report.Report, bool) {
	rep, err := h.coordinator.RequestReport(c.Request.Context())
	if errors.Is(err, tasks.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "busy": true})
		return report.Report{}, false
	}
	if err != nil {
		slog.Error("Report error", "operation", "report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return report.Report{}, false
	}
	return rep, true
}

func runSummary(result tasks.RunResult) gin.H {
	summary := gin.H{
		"run_id":       result.RunID,
		"started_at":   result.StartedAt.Format(time.RFC3339),
		"fetched":      result.Fetched,
		"inserted":     result.Inserted,
		"duplicates":   result.Duplicates,
		"skipped":      result.Skipped,
		"standardized": result.Standardized,
		"duration":     result.Duration.String(),
	}
	if result.Err != nil {
		summary["error"] = result.Err.Error()
	}
	return summary
}
