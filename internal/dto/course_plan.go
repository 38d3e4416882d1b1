package dto

// CoursePlanRequest creates or updates one course plan row. The course is
// looked up (or created) by name; sessions and type update the course record.
type CoursePlanRequest struct {
	SemesterID       int64  `json:"semester_id" validate:"required,gt=0"`
	MajorID          int64  `json:"major_id" validate:"required,gt=0"`
	CourseName       string `json:"course_name" validate:"required"`
	CourseType       string `json:"course_type" validate:"required"`
	TotalSessions    int    `json:"total_sessions" validate:"gte=0"`
	TeacherID        int64  `json:"teacher_id" validate:"required,gt=0"`
	IsCoreCourse     bool   `json:"is_core_course"`
	ExpectedStudents int    `json:"expected_students" validate:"gte=0"`
}

// CoursePlanQuery filters the course plan listing.
type CoursePlanQuery struct {
	SemesterID int64 `form:"semesterId" validate:"required,gt=0"`
	MajorID    int64 `form:"majorId"`
	Page       int   `form:"page"`
	PageSize   int   `form:"pageSize"`
}
