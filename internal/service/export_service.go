package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/export"
)

const (
	colWeek   = "周数"
	colPeriod = "节次"
	colMajor  = "专业"
)

type timetableLister interface {
	ListBySemester(ctx context.Context, semesterID, majorID, teacherID int64) ([]models.TimetableEntry, error)
}

// ExportReport is a rendered timetable document.
type ExportReport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders stored timetables as CSV or PDF grids. The grid has
// one row per week and period, one column per teaching day.
type ExportService struct {
	lister   timetableLister
	loader   catalogLoader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	validate *validator.Validate
	log      *zap.Logger
}

func NewExportService(lister timetableLister, loader catalogLoader, validate *validator.Validate, log *zap.Logger) *ExportService {
	return &ExportService{
		lister:   lister,
		loader:   loader,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		validate: validate,
		log:      log,
	}
}

// Render produces the timetable report selected by the request. A major
// filter yields that major's grid, a teacher filter the teacher's grid, and
// neither yields the whole semester with a leading major column.
func (s *ExportService) Render(ctx context.Context, req dto.ExportRequest) (*ExportReport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid export request")
	}

	catalog, err := s.loader.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "loading catalog failed")
	}
	semester, ok := catalog.Semesters[req.SemesterID]
	if !ok {
		return nil, pkgerrors.Clone(pkgerrors.ErrNotFound, fmt.Sprintf("semester %d not found", req.SemesterID))
	}
	if semester.TotalWeeks <= 0 {
		return nil, pkgerrors.Clone(pkgerrors.ErrInvalidSemester, fmt.Sprintf("semester %q has no valid week range", semester.Name))
	}

	entries, err := s.lister.ListBySemester(ctx, req.SemesterID, req.MajorID, req.TeacherID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "loading timetable failed")
	}

	dataset, title := s.buildDataset(catalog, semester, entries, req)

	format := req.Format
	if format == "" {
		format = "csv"
	}
	switch format {
	case "pdf":
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal.Code, pkgerrors.ErrInternal.Status, "rendering pdf failed")
		}
		return &ExportReport{
			Filename:    fmt.Sprintf("timetable_%d.pdf", req.SemesterID),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal.Code, pkgerrors.ErrInternal.Status, "rendering csv failed")
		}
		return &ExportReport{
			Filename:    fmt.Sprintf("timetable_%d.csv", req.SemesterID),
			ContentType: "text/csv; charset=utf-8",
			Content:     content,
		}, nil
	}
}

func (s *ExportService) buildDataset(catalog *models.Catalog, semester models.Semester, entries []models.TimetableEntry, req dto.ExportRequest) (export.Dataset, string) {
	days, periods := gridAxes(catalog)

	switch {
	case req.MajorID > 0:
		title := fmt.Sprintf("%s %s", semester.Name, majorNameOf(catalog, req.MajorID))
		return singleGrid(catalog, semester, entries, days, periods, majorCell), title
	case req.TeacherID > 0:
		teacherName := fmt.Sprintf("教师ID_%d", req.TeacherID)
		if teacher, ok := catalog.Teachers[req.TeacherID]; ok {
			teacherName = teacher.Name
		}
		title := fmt.Sprintf("%s %s", semester.Name, teacherName)
		return singleGrid(catalog, semester, entries, days, periods, teacherCell), title
	default:
		return semesterGrid(catalog, semester, entries, days, periods), semester.Name
	}
}

// gridAxes derives the day columns and period rows from the defined timeslots.
func gridAxes(catalog *models.Catalog) ([]string, []int) {
	daySet := make(map[string]struct{})
	periodSet := make(map[int]struct{})
	for _, slot := range catalog.TimeSlots {
		daySet[slot.DayOfWeek] = struct{}{}
		periodSet[slot.Period] = struct{}{}
	}
	days := make([]string, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		if models.DayIndex(days[i]) != models.DayIndex(days[j]) {
			return models.DayIndex(days[i]) < models.DayIndex(days[j])
		}
		return days[i] < days[j]
	})
	periods := make([]int, 0, len(periodSet))
	for period := range periodSet {
		periods = append(periods, period)
	}
	sort.Ints(periods)
	return days, periods
}

type cellFunc func(catalog *models.Catalog, entry models.TimetableEntry) string

// majorCell renders "course / teacher / @room".
func majorCell(catalog *models.Catalog, entry models.TimetableEntry) string {
	courseName, teacherName, roomName := "?", "?", "?"
	if course, ok := catalog.Courses[entry.CourseID]; ok {
		courseName = course.Name
	}
	if teacher, ok := catalog.Teachers[entry.TeacherID]; ok {
		teacherName = teacher.Name
	}
	if room, ok := catalog.Classrooms[entry.ClassroomID]; ok {
		roomName = room.Name
	}
	return fmt.Sprintf("%s\n%s\n@%s", courseName, teacherName, roomName)
}

// teacherCell renders "course / (major) / @room".
func teacherCell(catalog *models.Catalog, entry models.TimetableEntry) string {
	courseName, roomName := "?", "?"
	if course, ok := catalog.Courses[entry.CourseID]; ok {
		courseName = course.Name
	}
	if room, ok := catalog.Classrooms[entry.ClassroomID]; ok {
		roomName = room.Name
	}
	return fmt.Sprintf("%s\n(%s)\n@%s", courseName, majorNameOf(catalog, entry.MajorID), roomName)
}

func singleGrid(catalog *models.Catalog, semester models.Semester, entries []models.TimetableEntry, days []string, periods []int, cell cellFunc) export.Dataset {
	type gridKey struct {
		week   int
		period int
		day    string
	}
	cells := make(map[gridKey]string)
	for _, entry := range entries {
		slot, ok := catalog.TimeSlots[entry.TimeslotID]
		if !ok {
			continue
		}
		cells[gridKey{entry.WeekNumber, slot.Period, slot.DayOfWeek}] = cell(catalog, entry)
	}

	headers := append([]string{colWeek, colPeriod}, days...)
	var rows []map[string]string
	for week := 1; week <= semester.TotalWeeks; week++ {
		for _, period := range periods {
			row := map[string]string{
				colWeek:   fmt.Sprintf("%d", week),
				colPeriod: fmt.Sprintf("%d", period),
			}
			for _, day := range days {
				row[day] = cells[gridKey{week, period, day}]
			}
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// semesterGrid stacks one grid per major, identified by a leading column.
func semesterGrid(catalog *models.Catalog, semester models.Semester, entries []models.TimetableEntry, days []string, periods []int) export.Dataset {
	byMajor := make(map[int64][]models.TimetableEntry)
	for _, entry := range entries {
		byMajor[entry.MajorID] = append(byMajor[entry.MajorID], entry)
	}
	majorIDs := make([]int64, 0, len(byMajor))
	for id := range byMajor {
		majorIDs = append(majorIDs, id)
	}
	sort.Slice(majorIDs, func(i, j int) bool {
		a, b := majorNameOf(catalog, majorIDs[i]), majorNameOf(catalog, majorIDs[j])
		if a != b {
			return a < b
		}
		return majorIDs[i] < majorIDs[j]
	})

	headers := append([]string{colMajor, colWeek, colPeriod}, days...)
	var rows []map[string]string
	for _, majorID := range majorIDs {
		grid := singleGrid(catalog, semester, byMajor[majorID], days, periods, majorCell)
		name := majorNameOf(catalog, majorID)
		for _, row := range grid.Rows {
			row[colMajor] = name
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
