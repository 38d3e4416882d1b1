package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
)

// ErrPlanNotFound is returned when a course plan row does not exist.
var ErrPlanNotFound = errors.New("course plan not found")

// ErrPlanExists is returned when the same course is already planned for the
// major in the semester.
var ErrPlanExists = errors.New("course plan already exists")

// CoursePlanRepository manages course assignments as seen by planners.
type CoursePlanRepository struct {
	db *sqlx.DB
}

func NewCoursePlanRepository(db *sqlx.DB) *CoursePlanRepository {
	return &CoursePlanRepository{db: db}
}

const coursePlanColumns = `
	ca.id, ca.semester_id, ca.major_id, m.name AS major_name,
	ca.course_id, c.name AS course_name, c.course_type, c.total_sessions,
	ca.teacher_id, u.username AS teacher_name,
	ca.is_core_course, ca.expected_students`

const coursePlanJoins = `
	FROM course_assignments ca
	JOIN majors m ON m.id = ca.major_id
	JOIN courses c ON c.id = ca.course_id
	JOIN teachers t ON t.id = ca.teacher_id
	JOIN users u ON u.id = t.user_id`

// List returns the plans of a semester ordered by major then course name.
func (r *CoursePlanRepository) List(ctx context.Context, filter models.CoursePlanFilter) ([]models.CoursePlan, int, error) {
	where := " WHERE ca.semester_id = $1"
	args := []interface{}{filter.SemesterID}
	if filter.MajorID > 0 {
		args = append(args, filter.MajorID)
		where += fmt.Sprintf(" AND ca.major_id = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*)" + coursePlanJoins + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count course plans: %w", err)
	}

	query := "SELECT" + coursePlanColumns + coursePlanJoins + where + " ORDER BY m.name, c.name"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	var plans []models.CoursePlan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list course plans: %w", err)
	}
	return plans, total, nil
}

// Create registers one plan. The course is found by name and its sessions and
// type refreshed, or created when absent; then the assignment row is inserted.
func (r *CoursePlanRepository) Create(ctx context.Context, req dto.CoursePlanRequest) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create transaction: %w", err)
	}
	defer tx.Rollback()

	courseID, err := r.upsertCourse(ctx, tx, req)
	if err != nil {
		return 0, err
	}

	var planID int64
	err = tx.GetContext(ctx, &planID, `
		INSERT INTO course_assignments (semester_id, major_id, course_id, teacher_id, is_core_course, expected_students)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		req.SemesterID, req.MajorID, courseID, req.TeacherID, req.IsCoreCourse, req.ExpectedStudents)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrPlanExists
		}
		return 0, fmt.Errorf("insert course assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create transaction: %w", err)
	}
	return planID, nil
}

func (r *CoursePlanRepository) upsertCourse(ctx context.Context, tx *sqlx.Tx, req dto.CoursePlanRequest) (int64, error) {
	var courseID int64
	err := tx.GetContext(ctx, &courseID, `SELECT id FROM courses WHERE name = $1`, req.CourseName)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `UPDATE courses SET total_sessions = $1, course_type = $2 WHERE id = $3`,
			req.TotalSessions, req.CourseType, courseID); err != nil {
			return 0, fmt.Errorf("update course: %w", err)
		}
		return courseID, nil
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.GetContext(ctx, &courseID, `
			INSERT INTO courses (name, total_sessions, course_type) VALUES ($1, $2, $3) RETURNING id`,
			req.CourseName, req.TotalSessions, req.CourseType); err != nil {
			return 0, fmt.Errorf("insert course: %w", err)
		}
		return courseID, nil
	default:
		return 0, fmt.Errorf("find course by name: %w", err)
	}
}

// Update rewrites a plan. The plan's course row takes the new name, sessions
// and type; the assignment takes the new major, teacher and flags. Semester
// and course binding stay fixed.
func (r *CoursePlanRepository) Update(ctx context.Context, planID int64, req dto.CoursePlanRequest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update transaction: %w", err)
	}
	defer tx.Rollback()

	var courseID int64
	err = tx.GetContext(ctx, &courseID, `SELECT course_id FROM course_assignments WHERE id = $1`, planID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlanNotFound
	}
	if err != nil {
		return fmt.Errorf("find course assignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE courses SET name = $1, total_sessions = $2, course_type = $3 WHERE id = $4`,
		req.CourseName, req.TotalSessions, req.CourseType, courseID); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE course_assignments
		SET major_id = $1, teacher_id = $2, is_core_course = $3, expected_students = $4
		WHERE id = $5`,
		req.MajorID, req.TeacherID, req.IsCoreCourse, req.ExpectedStudents, planID); err != nil {
		return fmt.Errorf("update course assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update transaction: %w", err)
	}
	return nil
}

// Delete removes the assignment row only; the course record stays.
func (r *CoursePlanRepository) Delete(ctx context.Context, planID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_assignments WHERE id = $1`, planID)
	if err != nil {
		return fmt.Errorf("delete course assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("count deleted assignments: %w", err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
