package service

import (
	"fmt"
	"math/rand"

	"github.com/campuskit/timetable-api/internal/models"
)

// Conflict reasons recorded in run results.
const (
	reasonAvoidPreference = "teacher preference (avoid)"
	reasonTeacherBusy     = "teacher conflict"
	reasonRoomBusy        = "room conflict"
	reasonMajorBusy       = "major conflict"
)

type slotKey struct {
	entityID   int64
	week       int
	timeslotID int64
}

// occupancyState tracks reservations across every major in a run. One state
// instance is shared for the whole semester so cross-major teacher and room
// collisions are caught.
type occupancyState struct {
	teachers   map[slotKey]struct{}
	classrooms map[slotKey]struct{}
	majors     map[slotKey]struct{}
}

func newOccupancyState() *occupancyState {
	return &occupancyState{
		teachers:   make(map[slotKey]struct{}),
		classrooms: make(map[slotKey]struct{}),
		majors:     make(map[slotKey]struct{}),
	}
}

// check validates a placement. The avoid preference is checked before any
// occupancy lookups so preference conflicts win the reported reason.
func (s *occupancyState) check(catalog *models.Catalog, assignment models.CourseAssignment, week int, timeslotID, classroomID int64) (bool, string) {
	if catalog.HasAvoid(assignment.TeacherID, timeslotID, assignment.SemesterID) {
		return false, reasonAvoidPreference
	}
	if _, busy := s.teachers[slotKey{assignment.TeacherID, week, timeslotID}]; busy {
		return false, reasonTeacherBusy
	}
	if _, busy := s.classrooms[slotKey{classroomID, week, timeslotID}]; busy {
		return false, reasonRoomBusy
	}
	if _, busy := s.majors[slotKey{assignment.MajorID, week, timeslotID}]; busy {
		return false, reasonMajorBusy
	}
	return true, ""
}

func (s *occupancyState) reserve(assignment models.CourseAssignment, week int, timeslotID, classroomID int64) {
	s.teachers[slotKey{assignment.TeacherID, week, timeslotID}] = struct{}{}
	s.classrooms[slotKey{classroomID, week, timeslotID}] = struct{}{}
	s.majors[slotKey{assignment.MajorID, week, timeslotID}] = struct{}{}
}

// findClassroom picks a free room with enough capacity. Lab courses prefer lab
// rooms and everything else prefers ordinary rooms; a room of the other type
// is only used when no preferred one is free. Within a group the pick is
// uniformly random.
func (s *occupancyState) findClassroom(rng *rand.Rand, catalog *models.Catalog, assignment models.CourseAssignment, week int, timeslotID int64) (int64, bool) {
	course, courseKnown := catalog.Courses[assignment.CourseID]
	isLab := courseKnown && course.CourseType == models.CourseTypeLab

	var preferred, other []int64
	for id, room := range catalog.Classrooms {
		if _, busy := s.classrooms[slotKey{id, week, timeslotID}]; busy {
			continue
		}
		if room.Capacity < assignment.ExpectedStudents {
			continue
		}
		match := (isLab && room.RoomType == models.RoomTypeLab) ||
			(!isLab && room.RoomType == models.RoomTypeOrdinary)
		if match {
			preferred = append(preferred, id)
		} else {
			other = append(other, id)
		}
	}
	if len(preferred) > 0 {
		return pickRandom(rng, preferred), true
	}
	if len(other) > 0 {
		return pickRandom(rng, other), true
	}
	return 0, false
}

func pickRandom(rng *rand.Rand, ids []int64) int64 {
	// Map iteration order is random; sorting first keeps the pick driven by
	// the seeded source alone.
	sortInt64s(ids)
	return ids[rng.Intn(len(ids))]
}

func noRoomReason(capacity int) string {
	return fmt.Sprintf("no suitable room (capacity %d)", capacity)
}
