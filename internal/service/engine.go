package service

import (
	"math/rand"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
)

type majorResult struct {
	entries     []models.TimetableEntry
	conflicts   []dto.ScheduleConflict
	uncompleted []dto.UncompletedAssignment
}

// scheduleMajor places every session of one major across the semester weeks.
// The template suggestion is tried first for each slot; otherwise the next
// eligible assignment from the dynamic pool gets the attempt. All occupancy
// checks and reservations go through the shared state.
func scheduleMajor(
	rng *rand.Rand,
	catalog *models.Catalog,
	semester models.Semester,
	assignments map[int64]models.CourseAssignment,
	template map[models.DayPeriod]int64,
	poolIDs []int64,
	state *occupancyState,
) majorResult {
	var result majorResult

	remaining := make(map[int64]int, len(assignments))
	for id, assignment := range assignments {
		if course, ok := catalog.Courses[assignment.CourseID]; ok {
			remaining[id] = course.TotalSessions
		}
	}

	// The dynamic pool holds every assignment still needing sessions. The
	// template ids are included so a failed template attempt can still be
	// placed elsewhere later.
	pool := make([]int64, 0, len(remaining))
	seen := make(map[int64]struct{})
	for _, id := range rankAssignments(rng, assignments, catalog) {
		if remaining[id] > 0 {
			pool = append(pool, id)
			seen[id] = struct{}{}
		}
	}
	for _, id := range poolIDs {
		if _, dup := seen[id]; !dup && remaining[id] > 0 {
			pool = append(pool, id)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	slotIDs := catalog.SortedTimeslotIDs()

	for week := 1; week <= semester.TotalWeeks; week++ {
		for _, timeslotID := range slotIDs {
			slot := catalog.TimeSlots[timeslotID]
			dayPeriod := models.DayPeriod{Day: slot.DayOfWeek, Period: slot.Period}

			attemptID := int64(0)
			if suggested, ok := template[dayPeriod]; ok && remaining[suggested] > 0 {
				attemptID = suggested
			} else {
				attemptID = takeFromPool(catalog, assignments, remaining, &pool, timeslotID)
			}
			if attemptID == 0 {
				continue
			}
			assignment := assignments[attemptID]

			classroomID, found := state.findClassroom(rng, catalog, assignment, week, timeslotID)
			if !found {
				result.conflicts = append(result.conflicts, dto.ScheduleConflict{
					MajorID:      assignment.MajorID,
					Week:         week,
					Day:          slot.DayOfWeek,
					Period:       slot.Period,
					AssignmentID: attemptID,
					Reason:       noRoomReason(assignment.ExpectedStudents),
				})
				returnToPool(rng, remaining, &pool, attemptID)
				continue
			}

			ok, reason := state.check(catalog, assignment, week, timeslotID, classroomID)
			if !ok {
				result.conflicts = append(result.conflicts, dto.ScheduleConflict{
					MajorID:      assignment.MajorID,
					Week:         week,
					Day:          slot.DayOfWeek,
					Period:       slot.Period,
					AssignmentID: attemptID,
					Reason:       reason,
				})
				returnToPool(rng, remaining, &pool, attemptID)
				continue
			}

			result.entries = append(result.entries, models.TimetableEntry{
				SemesterID:   semester.ID,
				MajorID:      assignment.MajorID,
				CourseID:     assignment.CourseID,
				TeacherID:    assignment.TeacherID,
				ClassroomID:  classroomID,
				TimeslotID:   timeslotID,
				WeekNumber:   week,
				AssignmentID: attemptID,
			})
			state.reserve(assignment, week, timeslotID, classroomID)
			remaining[attemptID]--
			if remaining[attemptID] == 0 {
				removeFromPool(&pool, attemptID)
			}
		}
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	ids := make([]int64, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	sortInt64s(ids)
	for _, id := range ids {
		left := remaining[id]
		if left <= 0 {
			continue
		}
		assignment := assignments[id]
		courseName, teacherName := "?", "?"
		if course, ok := catalog.Courses[assignment.CourseID]; ok {
			courseName = course.Name
		}
		if teacher, ok := catalog.Teachers[assignment.TeacherID]; ok {
			teacherName = teacher.Name
		}
		result.uncompleted = append(result.uncompleted, dto.UncompletedAssignment{
			AssignmentID:      id,
			CourseName:        courseName,
			TeacherName:       teacherName,
			RemainingSessions: left,
		})
	}
	return result
}

// takeFromPool pops the first pool assignment that still needs sessions and
// whose teacher has not declared an avoid preference for the slot. Pool order
// is preserved for the untouched tail.
func takeFromPool(
	catalog *models.Catalog,
	assignments map[int64]models.CourseAssignment,
	remaining map[int64]int,
	pool *[]int64,
	timeslotID int64,
) int64 {
	for i, id := range *pool {
		if remaining[id] <= 0 {
			continue
		}
		assignment := assignments[id]
		if catalog.HasAvoid(assignment.TeacherID, timeslotID, assignment.SemesterID) {
			continue
		}
		*pool = append((*pool)[:i], (*pool)[i+1:]...)
		return id
	}
	return 0
}

// returnToPool puts a failed attempt back so a later slot can retry it, then
// reshuffles so repeated failures do not starve the rest of the pool.
func returnToPool(rng *rand.Rand, remaining map[int64]int, pool *[]int64, id int64) {
	if remaining[id] <= 0 {
		return
	}
	for _, existing := range *pool {
		if existing == id {
			return
		}
	}
	*pool = append(*pool, id)
	rng.Shuffle(len(*pool), func(i, j int) { (*pool)[i], (*pool)[j] = (*pool)[j], (*pool)[i] })
}

func removeFromPool(pool *[]int64, id int64) {
	for i, existing := range *pool {
		if existing == id {
			*pool = append((*pool)[:i], (*pool)[i+1:]...)
			return
		}
	}
}
