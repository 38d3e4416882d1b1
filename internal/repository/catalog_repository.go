package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/models"
)

// CatalogRepository reads the scheduling inputs in one pass and builds the
// in-memory snapshot the scheduler works against.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type semesterRow struct {
	ID        int64        `db:"id"`
	Name      string       `db:"name"`
	StartDate sql.NullTime `db:"start_date"`
	EndDate   sql.NullTime `db:"end_date"`
}

type teacherRow struct {
	ID       int64          `db:"id"`
	UserID   int64          `db:"user_id"`
	Username sql.NullString `db:"username"`
}

type classroomRow struct {
	ID         int64          `db:"id"`
	Building   sql.NullString `db:"building"`
	RoomNumber sql.NullString `db:"room_number"`
	Capacity   int            `db:"capacity"`
	RoomType   sql.NullString `db:"room_type"`
}

type preferenceRow struct {
	TeacherID  int64 `db:"teacher_id"`
	TimeslotID int64 `db:"timeslot_id"`
	SemesterID int64 `db:"semester_id"`
}

// Load snapshots semesters, majors, teachers, classrooms, courses, timeslots,
// assignments and approved avoid preferences, then derives the lookup indexes.
func (r *CatalogRepository) Load(ctx context.Context) (*models.Catalog, error) {
	catalog := &models.Catalog{
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

	var semesters []semesterRow
	if err := r.db.SelectContext(ctx, &semesters, `SELECT id, name, start_date, end_date FROM semesters`); err != nil {
		return nil, fmt.Errorf("load semesters: %w", err)
	}
	for _, row := range semesters {
		sem := models.Semester{ID: row.ID, Name: row.Name}
		if row.StartDate.Valid {
			start := row.StartDate.Time
			sem.StartDate = &start
		}
		if row.EndDate.Valid {
			end := row.EndDate.Time
			sem.EndDate = &end
		}
		sem.TotalWeeks = models.TotalWeeksFor(sem.StartDate, sem.EndDate)
		catalog.Semesters[sem.ID] = sem
	}

	var majors []models.Major
	if err := r.db.SelectContext(ctx, &majors, `SELECT id, name FROM majors`); err != nil {
		return nil, fmt.Errorf("load majors: %w", err)
	}
	for _, major := range majors {
		catalog.Majors[major.ID] = major
	}

	var teachers []teacherRow
	if err := r.db.SelectContext(ctx, &teachers, `
		SELECT t.id, t.user_id, u.username
		FROM teachers t
		LEFT JOIN users u ON u.id = t.user_id`); err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}
	for _, row := range teachers {
		name := row.Username.String
		if !row.Username.Valid || name == "" {
			name = fmt.Sprintf("未知用户(ID:%d)", row.UserID)
		}
		catalog.Teachers[row.ID] = models.Teacher{ID: row.ID, UserID: row.UserID, Name: name}
	}

	var classrooms []classroomRow
	if err := r.db.SelectContext(ctx, &classrooms, `SELECT id, building, room_number, capacity, room_type FROM classrooms`); err != nil {
		return nil, fmt.Errorf("load classrooms: %w", err)
	}
	for _, row := range classrooms {
		building := row.Building.String
		if !row.Building.Valid || building == "" {
			building = models.UnknownBuilding
		}
		number := row.RoomNumber.String
		if !row.RoomNumber.Valid || number == "" {
			number = models.UnknownRoom
		}
		roomType := row.RoomType.String
		if !row.RoomType.Valid || roomType == "" {
			roomType = models.RoomTypeOrdinary
		}
		catalog.Classrooms[row.ID] = models.Classroom{
			ID:       row.ID,
			Name:     building + "-" + number,
			Capacity: row.Capacity,
			RoomType: roomType,
		}
	}

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, `SELECT id, name, total_sessions, course_type FROM courses`); err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	for _, course := range courses {
		catalog.Courses[course.ID] = course
	}

	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, `SELECT id, day_of_week, period, start_time, end_time FROM time_slots ORDER BY day_of_week, period`); err != nil {
		return nil, fmt.Errorf("load time slots: %w", err)
	}
	for _, slot := range slots {
		catalog.TimeSlots[slot.ID] = slot
		catalog.SlotByDayPeriod[models.DayPeriod{Day: slot.DayOfWeek, Period: slot.Period}] = slot.ID
	}

	var assignments []models.CourseAssignment
	if err := r.db.SelectContext(ctx, &assignments, `
		SELECT id, major_id, course_id, teacher_id, semester_id, is_core_course, expected_students
		FROM course_assignments`); err != nil {
		return nil, fmt.Errorf("load course assignments: %w", err)
	}
	for _, assignment := range assignments {
		catalog.Assignments[assignment.ID] = assignment
	}

	var prefs []preferenceRow
	if err := r.db.SelectContext(ctx, &prefs, `
		SELECT teacher_id, timeslot_id, semester_id
		FROM teacher_scheduling_preferences
		WHERE preference_type = 'avoid' AND status = 'approved'`); err != nil {
		return nil, fmt.Errorf("load teacher preferences: %w", err)
	}
	for _, pref := range prefs {
		catalog.ApprovedAvoid[models.AvoidKey{
			TeacherID:  pref.TeacherID,
			TimeslotID: pref.TimeslotID,
			SemesterID: pref.SemesterID,
		}] = struct{}{}
	}

	return catalog, nil
}

// ListSemesters returns semesters newest first for picker endpoints.
func (r *CatalogRepository) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	var rows []semesterRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name, start_date, end_date FROM semesters ORDER BY start_date DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	semesters := make([]models.Semester, 0, len(rows))
	for _, row := range rows {
		sem := models.Semester{ID: row.ID, Name: row.Name}
		if row.StartDate.Valid {
			start := row.StartDate.Time
			sem.StartDate = &start
		}
		if row.EndDate.Valid {
			end := row.EndDate.Time
			sem.EndDate = &end
		}
		sem.TotalWeeks = models.TotalWeeksFor(sem.StartDate, sem.EndDate)
		semesters = append(semesters, sem)
	}
	return semesters, nil
}

// ListMajors returns all majors ordered by name.
func (r *CatalogRepository) ListMajors(ctx context.Context) ([]models.NameRef, error) {
	var majors []models.NameRef
	if err := r.db.SelectContext(ctx, &majors, `SELECT id, name FROM majors ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list majors: %w", err)
	}
	return majors, nil
}

// ListTeachers returns teacher ids with their account display names.
func (r *CatalogRepository) ListTeachers(ctx context.Context) ([]models.NameRef, error) {
	var teachers []models.NameRef
	if err := r.db.SelectContext(ctx, &teachers, `
		SELECT t.id, u.username AS name
		FROM teachers t
		JOIN users u ON u.id = t.user_id
		WHERE u.role = 'Teacher'
		ORDER BY u.username`); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
