package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
)

func TestExportMajorGridCSV(t *testing.T) {
	catalog := fixtureCatalog(1)
	addSlot(catalog, 51, "周二", 1)
	addAssignment(catalog, 60, 10, 40, 20, 1, true, 30, models.CourseTypeTheory)

	lister := &stubLister{entries: []models.TimetableEntry{{
		ID: 1, SemesterID: 1, MajorID: 10, CourseID: 40, TeacherID: 20,
		ClassroomID: 30, TimeslotID: 50, WeekNumber: 1, AssignmentID: 60,
	}}}
	svc := NewExportService(lister, &stubLoader{catalog: catalog}, validator.New(), zap.NewNop())

	report, err := svc.Render(context.Background(), dto.ExportRequest{SemesterID: 1, MajorID: 10, Format: "csv"})
	require.NoError(t, err)

	assert.Equal(t, "timetable_1.csv", report.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", report.ContentType)
	body := string(report.Content)
	assert.Contains(t, body, "周数,节次,周一,周二")
	assert.Contains(t, body, "课程")
	assert.Contains(t, body, "@楼-房")
}

func TestExportTeacherGridShowsMajor(t *testing.T) {
	catalog := fixtureCatalog(1)
	addAssignment(catalog, 60, 10, 40, 20, 1, true, 30, models.CourseTypeTheory)

	lister := &stubLister{entries: []models.TimetableEntry{{
		ID: 1, SemesterID: 1, MajorID: 10, CourseID: 40, TeacherID: 20,
		ClassroomID: 30, TimeslotID: 50, WeekNumber: 1, AssignmentID: 60,
	}}}
	svc := NewExportService(lister, &stubLoader{catalog: catalog}, validator.New(), zap.NewNop())

	report, err := svc.Render(context.Background(), dto.ExportRequest{SemesterID: 1, TeacherID: 20})
	require.NoError(t, err)
	assert.Contains(t, string(report.Content), "(软件工程)")
}

func TestExportFullSemesterHasMajorColumn(t *testing.T) {
	catalog := fixtureCatalog(1)
	addAssignment(catalog, 60, 10, 40, 20, 1, true, 30, models.CourseTypeTheory)

	lister := &stubLister{entries: []models.TimetableEntry{{
		ID: 1, SemesterID: 1, MajorID: 10, CourseID: 40, TeacherID: 20,
		ClassroomID: 30, TimeslotID: 50, WeekNumber: 1, AssignmentID: 60,
	}}}
	svc := NewExportService(lister, &stubLoader{catalog: catalog}, validator.New(), zap.NewNop())

	report, err := svc.Render(context.Background(), dto.ExportRequest{SemesterID: 1})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(report.Content)), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "专业,周数,节次"))
}

func TestExportPDF(t *testing.T) {
	catalog := fixtureCatalog(1)
	addAssignment(catalog, 60, 10, 40, 20, 1, true, 30, models.CourseTypeTheory)

	lister := &stubLister{entries: nil}
	svc := NewExportService(lister, &stubLoader{catalog: catalog}, validator.New(), zap.NewNop())

	report, err := svc.Render(context.Background(), dto.ExportRequest{SemesterID: 1, MajorID: 10, Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasPrefix(string(report.Content), "%PDF"))
}

func TestExportUnknownSemester(t *testing.T) {
	svc := NewExportService(&stubLister{}, &stubLoader{catalog: fixtureCatalog(1)}, validator.New(), zap.NewNop())
	_, err := svc.Render(context.Background(), dto.ExportRequest{SemesterID: 9})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound.Code, pkgerrors.FromError(err).Code)
}

func TestExportInvalidWeekRange(t *testing.T) {
	svc := NewExportService(&stubLister{}, &stubLoader{catalog: fixtureCatalog(0)}, validator.New(), zap.NewNop())
	_, err := svc.Render(context.Background(), dto.ExportRequest{SemesterID: 1})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrInvalidSemester.Code, pkgerrors.FromError(err).Code)
}
