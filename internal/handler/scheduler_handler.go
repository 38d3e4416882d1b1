package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/service"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/response"
)

// SchedulerRunner starts a scheduling run.
type SchedulerRunner interface {
	Run(ctx context.Context, req dto.ScheduleRunRequest) (*dto.ScheduleRunSummary, error)
}

// ExportRenderer produces timetable report files. Nil disables the export
// endpoint.
type ExportRenderer interface {
	Render(ctx context.Context, req dto.ExportRequest) (*service.ExportReport, error)
}

// SummaryReader serves the cached summary of the latest run. Nil means
// summaries are not retained.
type SummaryReader interface {
	LastSummary(ctx context.Context, semesterID int64) (*dto.ScheduleRunSummary, error)
}

// SchedulerHandler exposes the scheduling run, its cached summary and the
// timetable export endpoints.
type SchedulerHandler struct {
	runner   SchedulerRunner
	exporter ExportRenderer
	cache    SummaryReader
	log      *zap.Logger
}

func NewSchedulerHandler(runner SchedulerRunner, exporter ExportRenderer, cache SummaryReader, log *zap.Logger) *SchedulerHandler {
	return &SchedulerHandler{runner: runner, exporter: exporter, cache: cache, log: log}
}

// Register mounts the scheduler routes on the API group.
func (h *SchedulerHandler) Register(api *gin.RouterGroup) {
	api.POST("/schedule/run", h.run)
	api.GET("/schedule/summary", h.lastSummary)
	if h.exporter != nil {
		api.GET("/schedule/export", h.export)
	}
}

func (h *SchedulerHandler) run(c *gin.Context) {
	var req dto.ScheduleRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid request body"))
		return
	}

	summary, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	// The summary itself carries the run outcome; even failed runs answer 200
	// so clients always get the structured result.
	response.JSON(c, http.StatusOK, summary, nil)
}

func (h *SchedulerHandler) lastSummary(c *gin.Context) {
	semesterID, err := strconv.ParseInt(c.Query("semesterId"), 10, 64)
	if err != nil || semesterID <= 0 {
		response.Error(c, pkgerrors.Clone(pkgerrors.ErrValidation, "semesterId must be a positive integer"))
		return
	}
	if h.cache == nil {
		response.Error(c, pkgerrors.Clone(pkgerrors.ErrNotFound, "run summaries are not retained"))
		return
	}
	summary, err := h.cache.LastSummary(c.Request.Context(), semesterID)
	if errors.Is(err, service.ErrNoCachedSummary) {
		response.Error(c, pkgerrors.Clone(pkgerrors.ErrNotFound, "no run summary for this semester"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func (h *SchedulerHandler) export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid export query"))
		return
	}

	report, err := h.exporter.Render(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
