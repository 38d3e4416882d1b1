package service

import (
	"context"

	"github.com/campuskit/timetable-api/internal/models"
)

// fixtureCatalog builds a minimal catalog: one semester, one major, one
// teacher, one ordinary room and one Monday slot. Tests extend it as needed.
func fixtureCatalog(totalWeeks int) *models.Catalog {
	c := &models.Catalog{
		Semesters:       make(map[int64]models.Semester),
		Majors:          make(map[int64]models.Major),
		Teachers:        make(map[int64]models.Teacher),
		Classrooms:      make(map[int64]models.Classroom),
		Courses:         make(map[int64]models.Course),
		TimeSlots:       make(map[int64]models.TimeSlot),
		Assignments:     make(map[int64]models.CourseAssignment),
		SlotByDayPeriod: make(map[models.DayPeriod]int64),
		ApprovedAvoid:   make(map[models.AvoidKey]struct{}),
	}
	c.Semesters[1] = models.Semester{ID: 1, Name: "2026春", TotalWeeks: totalWeeks}
	c.Majors[10] = models.Major{ID: 10, Name: "软件工程"}
	c.Teachers[20] = models.Teacher{ID: 20, UserID: 200, Name: "王老师"}
	addRoom(c, 30, models.RoomTypeOrdinary, 100)
	addSlot(c, 50, "周一", 1)
	return c
}

func addSlot(c *models.Catalog, id int64, day string, period int) {
	c.TimeSlots[id] = models.TimeSlot{ID: id, DayOfWeek: day, Period: period}
	c.SlotByDayPeriod[models.DayPeriod{Day: day, Period: period}] = id
}

func addRoom(c *models.Catalog, id int64, roomType string, capacity int) {
	c.Classrooms[id] = models.Classroom{ID: id, Name: "楼-房", Capacity: capacity, RoomType: roomType}
}

func addAssignment(c *models.Catalog, id, majorID, courseID, teacherID int64, sessions int, core bool, expected int, courseType string) {
	c.Courses[courseID] = models.Course{ID: courseID, Name: "课程", TotalSessions: sessions, CourseType: courseType}
	c.Assignments[id] = models.CourseAssignment{
		ID: id, MajorID: majorID, CourseID: courseID, TeacherID: teacherID,
		SemesterID: 1, IsCoreCourse: core, ExpectedStudents: expected,
	}
}

type stubLoader struct {
	catalog *models.Catalog
	err     error
}

func (s *stubLoader) Load(context.Context) (*models.Catalog, error) {
	return s.catalog, s.err
}

type stubStore struct {
	cleared    int64
	clearErr   error
	clearCalls int
	saved      []models.TimetableEntry
	saveErr    error
	saveCalls  int
}

func (s *stubStore) ClearSemester(context.Context, int64) (int64, error) {
	s.clearCalls++
	return s.cleared, s.clearErr
}

func (s *stubStore) SaveEntries(_ context.Context, entries []models.TimetableEntry) (int, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.saved = append(s.saved, entries...)
	return len(entries), nil
}

type stubPrefs struct {
	calls int
	err   error
}

func (s *stubPrefs) MarkAllApplied(context.Context) (int64, error) {
	s.calls++
	return 3, s.err
}

type stubLister struct {
	entries []models.TimetableEntry
	err     error
}

func (s *stubLister) ListBySemester(context.Context, int64, int64, int64) ([]models.TimetableEntry, error) {
	return s.entries, s.err
}
