package models

import (
	"sort"
	"time"
)

// Canonical values stored in the relational catalog. Day, room and course
// types are kept exactly as the upstream data entry tools write them.
const (
	RoomTypeOrdinary = "普通教室"
	RoomTypeLab      = "实验室"

	CourseTypeTheory = "理论课"
	CourseTypeLab    = "实验课"

	UnknownBuilding = "未知楼"
	UnknownRoom     = "未知号"
)

// dayOrder fixes the canonical weekly sequence Monday through Sunday.
var dayOrder = map[string]int{
	"周一": 0,
	"周二": 1,
	"周三": 2,
	"周四": 3,
	"周五": 4,
	"周六": 5,
	"周日": 6,
}

// DayIndex returns the position of a day-of-week value in the canonical
// week; unknown values sort after every known day.
func DayIndex(day string) int {
	if idx, ok := dayOrder[day]; ok {
		return idx
	}
	return len(dayOrder)
}

// Semester is one scheduling horizon. TotalWeeks is derived from the
// inclusive date range at load time and is zero when dates are missing or
// inverted, which makes the scheduler refuse the run.
type Semester struct {
	ID         int64      `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	StartDate  *time.Time `db:"start_date" json:"start_date"`
	EndDate    *time.Time `db:"end_date" json:"end_date"`
	TotalWeeks int        `db:"-" json:"total_weeks"`
}

// Major is a cohort that receives one shared timetable.
type Major struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Teacher carries the display name resolved from the user record.
type Teacher struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
}

// Classroom with a display name of the form "building-room".
type Classroom struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
	RoomType string `db:"room_type" json:"room_type"`
}

// Course defines the per-assignment session target.
type Course struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	TotalSessions int    `db:"total_sessions" json:"total_sessions"`
	CourseType    string `db:"course_type" json:"course_type"`
}

// TimeSlot is one recurring weekly teaching period.
type TimeSlot struct {
	ID        int64  `db:"id" json:"id"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	Period    int    `db:"period" json:"period"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// CourseAssignment binds a major, course and teacher for a semester and
// demands course.TotalSessions placements.
type CourseAssignment struct {
	ID               int64 `db:"id" json:"id"`
	MajorID          int64 `db:"major_id" json:"major_id"`
	CourseID         int64 `db:"course_id" json:"course_id"`
	TeacherID        int64 `db:"teacher_id" json:"teacher_id"`
	SemesterID       int64 `db:"semester_id" json:"semester_id"`
	IsCoreCourse     bool  `db:"is_core_course" json:"is_core_course"`
	ExpectedStudents int   `db:"expected_students" json:"expected_students"`
}

// DayPeriod keys the timeslot lookup derived index.
type DayPeriod struct {
	Day    string
	Period int
}

// AvoidKey identifies one approved avoid preference.
type AvoidKey struct {
	TeacherID  int64
	TimeslotID int64
	SemesterID int64
}

// Catalog is the read-only snapshot of all scheduling inputs plus the
// derived indexes used during a run.
type Catalog struct {
	Semesters   map[int64]Semester
	Majors      map[int64]Major
	Teachers    map[int64]Teacher
	Classrooms  map[int64]Classroom
	Courses     map[int64]Course
	TimeSlots   map[int64]TimeSlot
	Assignments map[int64]CourseAssignment

	SlotByDayPeriod map[DayPeriod]int64
	ApprovedAvoid   map[AvoidKey]struct{}
}

// HasAvoid reports whether the teacher declared an approved avoid
// preference for the timeslot in the given semester.
func (c *Catalog) HasAvoid(teacherID, timeslotID, semesterID int64) bool {
	_, ok := c.ApprovedAvoid[AvoidKey{TeacherID: teacherID, TimeslotID: timeslotID, SemesterID: semesterID}]
	return ok
}

// SortedTimeslotIDs returns every timeslot id ordered by (day index, period).
func (c *Catalog) SortedTimeslotIDs() []int64 {
	ids := make([]int64, 0, len(c.TimeSlots))
	for id := range c.TimeSlots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := c.TimeSlots[ids[i]], c.TimeSlots[ids[j]]
		if DayIndex(a.DayOfWeek) != DayIndex(b.DayOfWeek) {
			return DayIndex(a.DayOfWeek) < DayIndex(b.DayOfWeek)
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return ids[i] < ids[j]
	})
	return ids
}

// AssignmentsForSemester groups the semester's assignments by major.
func (c *Catalog) AssignmentsForSemester(semesterID int64) map[int64]map[int64]CourseAssignment {
	byMajor := make(map[int64]map[int64]CourseAssignment)
	for id, assignment := range c.Assignments {
		if assignment.SemesterID != semesterID {
			continue
		}
		if byMajor[assignment.MajorID] == nil {
			byMajor[assignment.MajorID] = make(map[int64]CourseAssignment)
		}
		byMajor[assignment.MajorID][id] = assignment
	}
	return byMajor
}

// TotalWeeksFor computes the semester length as ceil(inclusive days / 7);
// missing or inverted dates yield zero.
func TotalWeeksFor(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	if end.Before(*start) {
		return 0
	}
	days := int(end.Sub(*start).Hours()/24) + 1
	return (days + 6) / 7
}
