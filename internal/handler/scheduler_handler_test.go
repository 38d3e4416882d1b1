package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/service"
)

type stubRunner struct {
	summary *dto.ScheduleRunSummary
	err     error
	got     dto.ScheduleRunRequest
}

func (s *stubRunner) Run(_ context.Context, req dto.ScheduleRunRequest) (*dto.ScheduleRunSummary, error) {
	s.got = req
	return s.summary, s.err
}

type stubExporter struct {
	report *service.ExportReport
	err    error
}

func (s *stubExporter) Render(context.Context, dto.ExportRequest) (*service.ExportReport, error) {
	return s.report, s.err
}

type stubSummaryReader struct {
	summary *dto.ScheduleRunSummary
	err     error
}

func (s *stubSummaryReader) LastSummary(context.Context, int64) (*dto.ScheduleRunSummary, error) {
	return s.summary, s.err
}

func newSchedulerRouter(runner SchedulerRunner, exporter ExportRenderer, cache SummaryReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewSchedulerHandler(runner, exporter, cache, zap.NewNop()).Register(router.Group("/api/v1"))
	return router
}

func TestRunEndpointReturnsSummary(t *testing.T) {
	runner := &stubRunner{summary: &dto.ScheduleRunSummary{RunID: "r1", Status: dto.RunStatusSuccess}}
	router := newSchedulerRouter(runner, &stubExporter{}, &stubSummaryReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/run", strings.NewReader(`{"semesterId":1,"seed":42}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), runner.got.SemesterID)
	assert.Equal(t, int64(42), runner.got.Seed)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
}

func TestRunEndpointRejectsBadBody(t *testing.T) {
	router := newSchedulerRouter(&stubRunner{}, &stubExporter{}, &stubSummaryReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/run", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryEndpointMissing(t *testing.T) {
	router := newSchedulerRouter(&stubRunner{}, &stubExporter{}, &stubSummaryReader{err: service.ErrNoCachedSummary})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/summary?semesterId=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportEndpointStreamsFile(t *testing.T) {
	exporter := &stubExporter{report: &service.ExportReport{
		Filename:    "timetable_1.csv",
		ContentType: "text/csv; charset=utf-8",
		Content:     []byte("周数,节次\n"),
	}}
	router := newSchedulerRouter(&stubRunner{}, exporter, &stubSummaryReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/export?semesterId=1&format=csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "timetable_1.csv")
	assert.Contains(t, rec.Body.String(), "周数")
}
