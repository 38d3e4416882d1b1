package models

// TimetableEntry is one placed session. ID is assigned by the database at
// persist time; the scheduler emits entries without one.
type TimetableEntry struct {
	ID           int64 `db:"id" json:"id"`
	SemesterID   int64 `db:"semester_id" json:"semester_id"`
	MajorID      int64 `db:"major_id" json:"major_id"`
	CourseID     int64 `db:"course_id" json:"course_id"`
	TeacherID    int64 `db:"teacher_id" json:"teacher_id"`
	ClassroomID  int64 `db:"classroom_id" json:"classroom_id"`
	TimeslotID   int64 `db:"timeslot_id" json:"timeslot_id"`
	WeekNumber   int   `db:"week_number" json:"week_number"`
	AssignmentID int64 `db:"assignment_id" json:"assignment_id"`
}

// Pagination describes list paging metadata in responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
