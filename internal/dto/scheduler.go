package dto

// ScheduleRunRequest triggers a full scheduling run for one semester.
// Seed pins the run's randomness so results are reproducible; zero lets the
// scheduler pick its own entropy.
type ScheduleRunRequest struct {
	SemesterID int64 `json:"semesterId" validate:"required,gt=0"`
	Seed       int64 `json:"seed"`
}

// Run summary status values.
const (
	RunStatusSuccess       = "success"
	RunStatusSuccessNoWork = "success_no_tasks"
	RunStatusError         = "error"
	RunStatusFailure       = "failure"
)

// ScheduleRunSummary is the stable run result contract.
type ScheduleRunSummary struct {
	RunID                 string   `json:"run_id"`
	Status                string   `json:"status"`
	Message               string   `json:"message"`
	ProcessedMajors       int      `json:"processed_majors"`
	TotalScheduledEntries int      `json:"total_scheduled_entries"`
	TotalConflicts        int      `json:"total_conflicts"`
	TotalUncompletedTasks int      `json:"total_uncompleted_tasks"`
	DBRecordsCleared      int      `json:"db_records_cleared"`
	DBRecordsSaved        int      `json:"db_records_saved"`
	Details               []string `json:"details"`
}

// ScheduleConflict records one refused placement attempt.
type ScheduleConflict struct {
	MajorID      int64  `json:"major_id"`
	Week         int    `json:"week"`
	Day          string `json:"day"`
	Period       int    `json:"period"`
	AssignmentID int64  `json:"assignment_id"`
	Reason       string `json:"reason"`
}

// UncompletedAssignment reports an assignment that still has sessions left
// when the run ends.
type UncompletedAssignment struct {
	AssignmentID      int64  `json:"assignment_id"`
	CourseName        string `json:"course_name"`
	TeacherName       string `json:"teacher_name"`
	RemainingSessions int    `json:"remaining_sessions"`
}

// ExportRequest selects the timetable view to render.
type ExportRequest struct {
	SemesterID int64  `form:"semesterId" validate:"required,gt=0"`
	MajorID    int64  `form:"majorId"`
	TeacherID  int64  `form:"teacherId"`
	Format     string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
