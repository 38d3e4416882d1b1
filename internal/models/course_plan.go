package models

// CoursePlan is a course assignment joined with the names a planner sees.
type CoursePlan struct {
	ID               int64  `db:"id" json:"id"`
	SemesterID       int64  `db:"semester_id" json:"semester_id"`
	MajorID          int64  `db:"major_id" json:"major_id"`
	MajorName        string `db:"major_name" json:"major_name"`
	CourseID         int64  `db:"course_id" json:"course_id"`
	CourseName       string `db:"course_name" json:"course_name"`
	CourseType       string `db:"course_type" json:"course_type"`
	TotalSessions    int    `db:"total_sessions" json:"total_sessions"`
	TeacherID        int64  `db:"teacher_id" json:"teacher_id"`
	TeacherName      string `db:"teacher_name" json:"teacher_name"`
	IsCoreCourse     bool   `db:"is_core_course" json:"is_core_course"`
	ExpectedStudents int    `db:"expected_students" json:"expected_students"`
}

// CoursePlanFilter describes query params for listing course plans.
type CoursePlanFilter struct {
	SemesterID int64
	MajorID    int64
	Page       int
	PageSize   int
}

// NameRef is an id/name pair for picker endpoints.
type NameRef struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
