package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/timetable-api/internal/models"
)

func newCatalogMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCatalogRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, name, start_date, end_date FROM semesters").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "end_date"}).
			AddRow(1, "2026春", start, end).
			AddRow(2, "未排期", nil, nil))
	mock.ExpectQuery("SELECT id, name FROM majors").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(10, "软件工程"))
	mock.ExpectQuery("SELECT t.id, t.user_id, u.username").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "username"}).
			AddRow(20, 200, "王老师").
			AddRow(21, 201, nil))
	mock.ExpectQuery("SELECT id, building, room_number, capacity, room_type FROM classrooms").
		WillReturnRows(sqlmock.NewRows([]string{"id", "building", "room_number", "capacity", "room_type"}).
			AddRow(30, "一号楼", "101", 60, models.RoomTypeOrdinary).
			AddRow(31, nil, nil, 40, nil))
	mock.ExpectQuery("SELECT id, name, total_sessions, course_type FROM courses").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total_sessions", "course_type"}).
			AddRow(40, "数据结构", 4, models.CourseTypeTheory))
	mock.ExpectQuery("SELECT id, day_of_week, period, start_time, end_time FROM time_slots").
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "period", "start_time", "end_time"}).
			AddRow(50, "周一", 1, "08:00", "09:40").
			AddRow(51, "周一", 2, "10:00", "11:40"))
	mock.ExpectQuery("SELECT id, major_id, course_id, teacher_id, semester_id, is_core_course, expected_students").
		WillReturnRows(sqlmock.NewRows([]string{"id", "major_id", "course_id", "teacher_id", "semester_id", "is_core_course", "expected_students"}).
			AddRow(60, 10, 40, 20, 1, true, 50))
	mock.ExpectQuery("SELECT teacher_id, timeslot_id, semester_id").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "timeslot_id", "semester_id"}).
			AddRow(20, 50, 1))

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Semesters[1].TotalWeeks)
	assert.Equal(t, 0, catalog.Semesters[2].TotalWeeks)
	assert.Equal(t, "王老师", catalog.Teachers[20].Name)
	assert.Equal(t, "未知用户(ID:201)", catalog.Teachers[21].Name)
	assert.Equal(t, "一号楼-101", catalog.Classrooms[30].Name)
	assert.Equal(t, "未知楼-未知号", catalog.Classrooms[31].Name)
	assert.Equal(t, models.RoomTypeOrdinary, catalog.Classrooms[31].RoomType)
	assert.Equal(t, int64(50), catalog.SlotByDayPeriod[models.DayPeriod{Day: "周一", Period: 1}])
	assert.True(t, catalog.HasAvoid(20, 50, 1))
	assert.False(t, catalog.HasAvoid(20, 51, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListTeachers(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery("SELECT t.id, u.username AS name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "李老师").
			AddRow(2, "王老师"))

	teachers, err := repo.ListTeachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "李老师", teachers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
