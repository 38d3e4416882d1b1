package service

import (
	"math/rand"
	"sort"

	"github.com/campuskit/timetable-api/internal/models"
)

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

type rankedAssignment struct {
	id       int64
	core     bool
	sessions int
	tiebreak float64
}

// rankAssignments orders assignment ids for template filling: core courses
// first, then heavier session loads, then a seeded random tiebreak.
func rankAssignments(rng *rand.Rand, assignments map[int64]models.CourseAssignment, catalog *models.Catalog) []int64 {
	ranked := make([]rankedAssignment, 0, len(assignments))
	ids := make([]int64, 0, len(assignments))
	for id := range assignments {
		ids = append(ids, id)
	}
	sortInt64s(ids)
	for _, id := range ids {
		assignment := assignments[id]
		sessions := 0
		if course, ok := catalog.Courses[assignment.CourseID]; ok {
			sessions = course.TotalSessions
		}
		ranked = append(ranked, rankedAssignment{
			id:       id,
			core:     assignment.IsCoreCourse,
			sessions: sessions,
			tiebreak: rng.Float64(),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.core != b.core {
			return a.core
		}
		if a.sessions != b.sessions {
			return a.sessions > b.sessions
		}
		return a.tiebreak > b.tiebreak
	})
	out := make([]int64, len(ranked))
	for i, r := range ranked {
		out[i] = r.id
	}
	return out
}

// buildTemplate fills each weekly slot of the recurring template with one
// assignment in priority order. Assignments without positive session counts
// are skipped. The second return value is the pool of assignments left out of
// the template that still need sessions.
func buildTemplate(rng *rand.Rand, assignments map[int64]models.CourseAssignment, catalog *models.Catalog) (map[models.DayPeriod]int64, []int64) {
	template := make(map[models.DayPeriod]int64)
	if len(assignments) == 0 {
		return template, nil
	}

	slots := make([]models.DayPeriod, 0, len(catalog.TimeSlots))
	for _, id := range catalog.SortedTimeslotIDs() {
		slot := catalog.TimeSlots[id]
		slots = append(slots, models.DayPeriod{Day: slot.DayOfWeek, Period: slot.Period})
	}

	used := make(map[int64]struct{})
	slotIndex := 0
	for _, id := range rankAssignments(rng, assignments, catalog) {
		if slotIndex >= len(slots) {
			break
		}
		course, ok := catalog.Courses[assignments[id].CourseID]
		if !ok || course.TotalSessions <= 0 {
			continue
		}
		template[slots[slotIndex]] = id
		used[id] = struct{}{}
		slotIndex++
	}

	var pool []int64
	ids := make([]int64, 0, len(assignments))
	for id := range assignments {
		ids = append(ids, id)
	}
	sortInt64s(ids)
	for _, id := range ids {
		if _, taken := used[id]; taken {
			continue
		}
		if course, ok := catalog.Courses[assignments[id].CourseID]; ok && course.TotalSessions > 0 {
			pool = append(pool, id)
		}
	}
	return template, pool
}
