package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/models"
)

// TimetableRepository persists scheduler output and serves export reads.
type TimetableRepository struct {
	db       *sqlx.DB
	pageSize int
}

// NewTimetableRepository sets up the store. pageSize bounds the rows per
// INSERT statement; values below 100 are raised to the default.
func NewTimetableRepository(db *sqlx.DB, pageSize int) *TimetableRepository {
	if pageSize < 100 {
		pageSize = 200
	}
	return &TimetableRepository{db: db, pageSize: pageSize}
}

// ClearSemester deletes every timetable entry of the semester in its own
// transaction and returns the number of rows removed.
func (r *TimetableRepository) ClearSemester(ctx context.Context, semesterID int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin clear transaction: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM timetable_entries WHERE semester_id = $1`, semesterID)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("clear timetable entries: %w", err)
	}
	cleared, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("count cleared entries: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear transaction: %w", err)
	}
	return cleared, nil
}

// SaveEntries inserts all entries in one transaction using paged multi-row
// statements. On any failure nothing is kept.
func (r *TimetableRepository) SaveEntries(ctx context.Context, entries []models.TimetableEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save transaction: %w", err)
	}
	saved := 0
	for start := 0; start < len(entries); start += r.pageSize {
		end := start + r.pageSize
		if end > len(entries) {
			end = len(entries)
		}
		page := entries[start:end]
		if err := r.insertPage(ctx, tx, page); err != nil {
			tx.Rollback()
			return 0, err
		}
		saved += len(page)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save transaction: %w", err)
	}
	return saved, nil
}

func (r *TimetableRepository) insertPage(ctx context.Context, tx *sqlx.Tx, page []models.TimetableEntry) error {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO timetable_entries
		(semester_id, major_id, course_id, teacher_id, classroom_id, timeslot_id, week_number, assignment_id)
		VALUES `)
	args := make([]interface{}, 0, len(page)*8)
	for i, entry := range page {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args,
			entry.SemesterID, entry.MajorID, entry.CourseID, entry.TeacherID,
			entry.ClassroomID, entry.TimeslotID, entry.WeekNumber, entry.AssignmentID)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert timetable entries: %w", err)
	}
	return nil
}

// ListBySemester returns the stored timetable for export, optionally narrowed
// to one major or one teacher.
func (r *TimetableRepository) ListBySemester(ctx context.Context, semesterID, majorID, teacherID int64) ([]models.TimetableEntry, error) {
	query := `SELECT id, semester_id, major_id, course_id, teacher_id, classroom_id, timeslot_id, week_number, assignment_id
		FROM timetable_entries WHERE semester_id = $1`
	args := []interface{}{semesterID}
	if majorID > 0 {
		args = append(args, majorID)
		query += fmt.Sprintf(" AND major_id = $%d", len(args))
	}
	if teacherID > 0 {
		args = append(args, teacherID)
		query += fmt.Sprintf(" AND teacher_id = $%d", len(args))
	}
	query += " ORDER BY week_number, timeslot_id, major_id"

	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}
